package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/domain"
	mAccount "github.com/x-xyz/permapi/domain/account/mocks"
	"github.com/x-xyz/permapi/stores/auth/usecase"
)

func TestSignAndParseToken(t *testing.T) {
	mockAccountUC := &mAccount.Usecase{}

	mockAccountUC.On("Get", mock.Anything, domain.Address("my-address")).Return(nil, nil)

	ctx := ctx.Background()
	u := usecase.New("jwt-secret", mockAccountUC)
	tkn, err := u.SignToken(ctx, "my-address")
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, "my-address", ads)
}

func TestParseTokenMalformed(t *testing.T) {
	mockAccountUC := &mAccount.Usecase{}

	ctx := ctx.Background()
	u := usecase.New("jwt-secret", mockAccountUC)

	// jwt returns a nil token for input that is not even segment shaped
	assert.NotPanics(t, func() {
		ads, err := u.ParseToken(ctx, "not-a-token")
		assert.Error(t, err)
		assert.Empty(t, ads)
	})
}

func TestParseTokenWrongSecret(t *testing.T) {
	mockAccountUC := &mAccount.Usecase{}
	mockAccountUC.On("Get", mock.Anything, domain.Address("my-address")).Return(nil, nil)

	ctx := ctx.Background()
	signer := usecase.New("jwt-secret", mockAccountUC)
	tkn, err := signer.SignToken(ctx, "my-address")
	assert.NoError(t, err)

	parser := usecase.New("other-secret", mockAccountUC)
	ads, err := parser.ParseToken(ctx, tkn)
	assert.Error(t, err)
	assert.Empty(t, ads)
}
