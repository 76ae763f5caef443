package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/goroutine"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/admin"
	"github.com/x-xyz/permapi/domain/permission"
)

type impl struct {
	admin  admin.Repo
	events permission.EventRepo

	// hooks are registered during startup wiring, before any request is
	// served, so reads need no locking
	hooks []admin.ChangeHook
}

func New(admin admin.Repo, events permission.EventRepo) admin.Usecase {
	return &impl{admin: admin, events: events}
}

func (im *impl) RegisterChangeHook(hook admin.ChangeHook) {
	im.hooks = append(im.hooks, hook)
}

func (im *impl) FindAll(c ctx.Ctx) ([]*admin.Admin, error) {
	return im.admin.FindAll(c)
}

func (im *impl) IsAdmin(c ctx.Ctx, address domain.Address) (bool, error) {
	if res, err := im.admin.FindOne(c, address); err != nil {
		c.WithField("err", err).Error("admin.FindOne failed")
		return false, err
	} else {
		return res != nil, nil
	}
}

func (im *impl) Add(c ctx.Ctx, approver, address domain.Address, name string) error {
	if res, err := im.admin.FindOne(c, address); err != nil {
		c.WithField("err", err).Error("admin.FindOne failed")
		return err
	} else if res != nil {
		return domain.ErrConflict
	}

	if err := im.admin.Create(c, admin.Admin{Address: address.ToLower(), Name: name, CreatedAt: time.Now()}); err != nil {
		c.WithField("err", err).Error("admin.Create failed")
		return err
	}

	im.recordEvent(c, permission.EventTypeAdminAdded, approver, address)

	return nil
}

func (im *impl) Remove(c ctx.Ctx, approver, address domain.Address) error {
	if err := im.admin.Delete(c, address); err != nil {
		c.WithField("err", err).Error("admin.Delete failed")
		return err
	}

	im.recordEvent(c, permission.EventTypeAdminRemoved, approver, address)

	return nil
}

// recordEvent is best effort, the admin set change already went through
func (im *impl) recordEvent(c ctx.Ctx, typ string, approver, address domain.Address) {
	evt := &permission.Event{
		Id:        uuid.NewString(),
		Type:      typ,
		Approver:  approver.ToLower(),
		Signer:    address.ToLower(),
		CreatedAt: time.Now(),
	}
	if err := im.events.Insert(c, evt); err != nil {
		c.WithField("err", err).WithField("type", typ).Error("events.Insert failed")
	}

	for _, hook := range im.hooks {
		hook := hook
		goroutine.RecoverableGo(func() {
			hook(c, typ, approver.ToLower(), address.ToLower())
		})
	}
}
