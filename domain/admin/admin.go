package admin

import (
	"time"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/domain"
)

// Admin is a member of the admin set. Only admins may author delegation
// requests and mutate the admin set itself.
type Admin struct {
	Name      string         `json:"name" bson:"name"`
	Address   domain.Address `json:"address" bson:"address"`
	CreatedAt time.Time      `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

type Repo interface {
	FindAll(c ctx.Ctx) ([]*Admin, error)
	FindOne(c ctx.Ctx, address domain.Address) (*Admin, error)
	Create(c ctx.Ctx, value Admin) error
	Delete(c ctx.Ctx, address domain.Address) error
}

// ChangeHook observes admin set changes after they are applied
type ChangeHook func(c ctx.Ctx, eventType string, approver, address domain.Address)

type Usecase interface {
	FindAll(c ctx.Ctx) ([]*Admin, error)
	// Add and Remove record approver as the acting admin in the audit trail
	Add(c ctx.Ctx, approver, address domain.Address, name string) error
	Remove(c ctx.Ctx, approver, address domain.Address) error
	IsAdmin(c ctx.Ctx, address domain.Address) (bool, error)
	RegisterChangeHook(hook ChangeHook)
}
