package permission

import (
	"time"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/domain"
)

// SignerPermission is the stored capability of a signer. It is overwritten
// wholesale on every accepted delegation, never partially updated. A record
// with an elapsed window or an empty target set still exists but is inactive.
type SignerPermission struct {
	Signer                  domain.Address   `json:"signer" bson:"signer"`
	ApprovedTargets         []domain.Address `json:"approvedTargets" bson:"approvedTargets"`
	NativeValueLimitPerCall string           `json:"nativeValueLimitPerCall" bson:"nativeValueLimitPerCall"`
	ValidFrom               int64            `json:"validFrom" bson:"validFrom"`
	ValidUntil              int64            `json:"validUntil" bson:"validUntil"`
	UpdatedAt               time.Time        `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// SignerPermissionRequest is an admin signed delegation. Only its requestId
// leaves a permanent trace; the rest is projected into SignerPermission.
type SignerPermissionRequest struct {
	Signer                  domain.Address   `json:"signer" bson:"signer"`
	ApprovedTargets         []domain.Address `json:"approvedTargets" bson:"approvedTargets"`
	NativeValueLimitPerCall string           `json:"nativeValueLimitPerCall" bson:"nativeValueLimitPerCall"`
	ValidFrom               int64            `json:"validFrom" bson:"validFrom"`
	ValidUntil              int64            `json:"validUntil" bson:"validUntil"`
	RequestValidFrom        int64            `json:"requestValidFrom" bson:"requestValidFrom"`
	RequestValidUntil       int64            `json:"requestValidUntil" bson:"requestValidUntil"`
	RequestId               domain.RequestId `json:"requestId" bson:"requestId"`
}

// ToSignerPermission projects the granted fields of the request
func (r *SignerPermissionRequest) ToSignerPermission(now time.Time) *SignerPermission {
	targets := make([]domain.Address, 0, len(r.ApprovedTargets))
	seen := map[domain.Address]struct{}{}
	for _, t := range r.ApprovedTargets {
		t = t.ToLower()
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		targets = append(targets, t)
	}
	return &SignerPermission{
		Signer:                  r.Signer.ToLower(),
		ApprovedTargets:         targets,
		NativeValueLimitPerCall: r.NativeValueLimitPerCall,
		ValidFrom:               r.ValidFrom,
		ValidUntil:              r.ValidUntil,
		UpdatedAt:               now.UTC(),
	}
}

// Info is the read projection returned to clients. Target order is storage
// order, not the order of the originating request.
type Info struct {
	Signer                  domain.Address   `json:"signer"`
	ApprovedTargets         []domain.Address `json:"approvedTargets"`
	NativeValueLimitPerCall string           `json:"nativeValueLimitPerCall"`
	NativeValueLimitDisplay string           `json:"nativeValueLimitDisplay"`
	ValidFrom               int64            `json:"validFrom"`
	ValidUntil              int64            `json:"validUntil"`
}

const (
	EventTypePermissionUpdated = "permissionUpdated"
	EventTypeAdminAdded        = "adminAdded"
	EventTypeAdminRemoved      = "adminRemoved"
)

// Event is the audit record emitted for admin set changes and permission
// updates, consumed by external indexers.
type Event struct {
	Id        string                   `json:"id" bson:"id"`
	Type      string                   `json:"type" bson:"type"`
	Approver  domain.Address           `json:"approver" bson:"approver"`
	Signer    domain.Address           `json:"signer" bson:"signer"`
	Request   *SignerPermissionRequest `json:"request,omitempty" bson:"request,omitempty"`
	CreatedAt time.Time                `json:"createdAt" bson:"createdAt"`
}

// UpdateHook observes accepted delegations. Hooks run after the state change
// is committed and must not assume any ordering among themselves.
type UpdateHook func(c ctx.Ctx, approver domain.Address, request *SignerPermissionRequest)

type Repo interface {
	FindOne(c ctx.Ctx, signer domain.Address) (*SignerPermission, error)
	FindAll(c ctx.Ctx) ([]*SignerPermission, error)
	Upsert(c ctx.Ctx, value *SignerPermission) error
	// Invalidate drops the cached record of the signer, called after the
	// transaction around Upsert commits
	Invalidate(c ctx.Ctx, signer domain.Address) error
}

// RequestRepo tracks executed request ids. MarkExecuted must be atomic with
// respect to concurrent submissions of the same id.
type RequestRepo interface {
	IsExecuted(c ctx.Ctx, id domain.RequestId) (bool, error)
	MarkExecuted(c ctx.Ctx, id domain.RequestId) error
}

type EventRepo interface {
	Insert(c ctx.Ctx, event *Event) error
	FindBySigner(c ctx.Ctx, signer domain.Address) ([]*Event, error)
}

type Usecase interface {
	Delegate(c ctx.Ctx, request *SignerPermissionRequest, signature string) error
	Verify(c ctx.Ctx, request *SignerPermissionRequest, signature string) (bool, domain.Address, error)
	IsActiveSigner(c ctx.Ctx, signer domain.Address) (bool, error)
	GetPermissions(c ctx.Ctx, signer domain.Address) (*Info, error)
	FindAll(c ctx.Ctx) ([]*SignerPermission, error)
	GetEvents(c ctx.Ctx, signer domain.Address) ([]*Event, error)
	RegisterUpdateHook(hook UpdateHook)
}
