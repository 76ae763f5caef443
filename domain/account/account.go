package account

import (
	"errors"
	"time"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/domain"
)

var (
	ErrInvalidNonce     = errors.New("invalid nonce")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Account is a wallet known to the service. The nonce is a one time value
// embedded into the login message template and reset after each validation.
type Account struct {
	Address   domain.Address `json:"address" bson:"address"`
	Nonce     int32          `json:"-" bson:"nonce"`
	CreatedAt time.Time      `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Updater to update account info. Fields are pointers so a zero nonce still
// patches through MakeBsonM.
type Updater struct {
	Nonce     *int32    `bson:"nonce"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty"`
}

type Repo interface {
	Get(c ctx.Ctx, address domain.Address) (*Account, error)
	Insert(c ctx.Ctx, account *Account) error
	Update(c ctx.Ctx, address domain.Address, updater *Updater) error
}

type Usecase interface {
	Get(c ctx.Ctx, address domain.Address) (*Account, error)
	Create(c ctx.Ctx, address domain.Address) (*Account, error)
	GenerateNonce(c ctx.Ctx, address domain.Address) (int32, error)
	ValidateSignature(c ctx.Ctx, address domain.Address, signature string) error
}
