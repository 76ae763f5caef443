package usecase

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/ethereum"
	"github.com/x-xyz/permapi/base/ptr"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/account"
	mAccount "github.com/x-xyz/permapi/domain/account/mocks"
)

const testSignatureMsg = "Welcome. Please sign this one time code to login: %s"

func TestGenerateNonceCreatesMissingAccount(t *testing.T) {
	req := require.New(t)
	mockRepo := &mAccount.Repo{}
	address := domain.Address("0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d")

	mockRepo.On("Get", mock.Anything, address).Return(nil, domain.ErrNotFound).Once()
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
	// the nonce pointer is always set, a generated nonce of 0 still patches
	mockRepo.On("Update", mock.Anything, address, mock.MatchedBy(func(u *account.Updater) bool {
		return u.Nonce != nil && *u.Nonce >= 0
	})).Return(nil).Once()

	u := New(mockRepo, testSignatureMsg)
	nonce, err := u.GenerateNonce(ctx.Background(), address)
	req.NoError(err)
	req.GreaterOrEqual(nonce, int32(0))
	mockRepo.AssertExpectations(t)
}

func TestValidateSignature(t *testing.T) {
	req := require.New(t)

	priv, pub, err := ethereum.GenerateKey()
	req.NoError(err)
	address := domain.Address(crypto.PubkeyToAddress(*pub).Hex()).ToLower()

	nonce := int32(1234567)
	msg := []byte(fmt.Sprintf(testSignatureMsg, strconv.Itoa(int(nonce))))
	sig, err := crypto.Sign(accounts.TextHash(msg), priv)
	req.NoError(err)

	mockRepo := &mAccount.Repo{}
	mockRepo.On("Get", mock.Anything, address).Return(&account.Account{Address: address, Nonce: nonce}, nil).Once()
	mockRepo.On("Update", mock.Anything, address, &account.Updater{Nonce: ptr.Int32(invalidNonce)}).Return(nil).Once()

	u := New(mockRepo, testSignatureMsg)
	req.NoError(u.ValidateSignature(ctx.Background(), address, hexutil.Encode(sig)))
	mockRepo.AssertExpectations(t)
}

func TestValidateSignatureRejectsStaleNonce(t *testing.T) {
	req := require.New(t)
	address := domain.Address("0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d")

	mockRepo := &mAccount.Repo{}
	mockRepo.On("Get", mock.Anything, address).Return(&account.Account{Address: address, Nonce: invalidNonce}, nil).Once()

	u := New(mockRepo, testSignatureMsg)
	err := u.ValidateSignature(ctx.Background(), address, "0xdeadbeef")
	req.Equal(account.ErrInvalidNonce, err)
}
