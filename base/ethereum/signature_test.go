package ethereum

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMsgSignature(t *testing.T) {
	messageTemplate := "this is signature message template %s"
	privateKey, publicKey, err := GenerateKey()
	assert.NoError(t, err)
	address := crypto.PubkeyToAddress(*publicKey).Hex()
	nonce := "123456"
	message := []byte(fmt.Sprintf(messageTemplate, nonce))
	hash := accounts.TextHash(message)
	signature, err := crypto.Sign(hash, privateKey)
	assert.NoError(t, err)

	res, err := ValidateMsgSignature(message, hexutil.Encode(signature), address)
	assert.NoError(t, err)
	assert.True(t, res)

	// incorrect message
	res2, err := ValidateMsgSignature([]byte("654321"), hexutil.Encode(signature), address)
	assert.NoError(t, err)
	assert.False(t, res2)

	// incorrect signer
	_, pubKey, err := GenerateKey()
	assert.NoError(t, err)
	res3, err := ValidateMsgSignature(message, hexutil.Encode(signature), crypto.PubkeyToAddress(*pubKey).Hex())
	assert.NoError(t, err)
	assert.False(t, res3)
}

func TestRecoverHashSignature(t *testing.T) {
	req := require.New(t)

	privateKey, publicKey, err := GenerateKey()
	req.NoError(err)
	expected := crypto.PubkeyToAddress(*publicKey)

	hash := crypto.Keccak256([]byte("payload"))
	sig, err := crypto.Sign(hash, privateKey)
	req.NoError(err)

	recovered, err := RecoverHashSignature(hash, hexutil.Encode(sig))
	req.NoError(err)
	req.Equal(expected, recovered)

	// malformed signature yields the zero address and an error
	recovered, err = RecoverHashSignature(hash, "0xdead")
	req.Error(err)
	req.Equal(common.Address{}, recovered)
}
