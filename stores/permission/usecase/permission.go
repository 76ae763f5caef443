package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/ethereum"
	"github.com/x-xyz/permapi/base/log"
	"github.com/x-xyz/permapi/base/valueformatter"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/admin"
	"github.com/x-xyz/permapi/domain/permission"
	"github.com/x-xyz/permapi/service/query"
)

// stubbed in tests
var timeNow = time.Now

type PermissionUseCaseCfg struct {
	PermissionRepo    permission.Repo
	RequestRepo       permission.RequestRepo
	EventRepo         permission.EventRepo
	AdminUC           admin.Usecase
	Query             query.Mongo
	ChainId           domain.ChainId
	VerifyingContract domain.Address
}

type impl struct {
	permissions       permission.Repo
	requests          permission.RequestRepo
	events            permission.EventRepo
	admin             admin.Usecase
	query             query.Mongo
	chainId           domain.ChainId
	verifyingContract domain.Address

	// hooks are registered during startup wiring, before any request is
	// served, so reads need no locking
	hooks      []permission.UpdateHook
	workerPool *goroutines.Pool
}

// New creates signer permission usecase
func New(cfg *PermissionUseCaseCfg) permission.Usecase {
	return &impl{
		permissions:       cfg.PermissionRepo,
		requests:          cfg.RequestRepo,
		events:            cfg.EventRepo,
		admin:             cfg.AdminUC,
		query:             cfg.Query,
		chainId:           cfg.ChainId,
		verifyingContract: cfg.VerifyingContract,
		workerPool:        goroutines.NewPool(8, goroutines.WithTaskQueueLength(256)),
	}
}

func (im *impl) RegisterUpdateHook(hook permission.UpdateHook) {
	im.hooks = append(im.hooks, hook)
}

// Delegate applies an admin signed permission request. The stored permission
// of the signer is replaced wholesale, and the request id is burned in the
// same transaction so a retry of a half-applied request cannot double apply.
func (im *impl) Delegate(c ctx.Ctx, request *permission.SignerPermissionRequest, signature string) error {
	c = ctx.WithValues(c, map[string]interface{}{
		"signer":    request.Signer,
		"requestId": request.RequestId,
	})

	approver, err := im.checkRequest(c, request, signature)
	if err != nil {
		return err
	}

	now := timeNow()
	perm := request.ToSignerPermission(now)

	if err := im.query.RunWithTransaction(c, func(c ctx.Ctx) error {
		if err := im.requests.MarkExecuted(c, request.RequestId); err != nil {
			return err
		}
		if err := im.permissions.Upsert(c, perm); err != nil {
			return err
		}
		return im.events.Insert(c, &permission.Event{
			Id:        uuid.NewString(),
			Type:      permission.EventTypePermissionUpdated,
			Approver:  approver.ToLower(),
			Signer:    request.Signer.ToLower(),
			Request:   request,
			CreatedAt: now,
		})
	}); err != nil {
		c.WithField("err", err).Error("delegate transaction failed")
		return err
	}

	// cache invalidation happens after the commit, a Del inside the
	// transaction could be refilled with the pre commit record by a
	// concurrent read
	if err := im.permissions.Invalidate(c, request.Signer); err != nil {
		c.WithField("err", err).Error("permissions.Invalidate failed")
	}

	im.notifyHooks(c, approver, request)

	c.WithFields(log.Fields{
		"approver": approver,
		"targets":  len(perm.ApprovedTargets),
	}).Info("signer permission updated")

	return nil
}

// Verify pre-validates a request without any side effect: valid means the
// request id is unused and the recovered signing address is currently an
// admin, nothing more. Submission windows are not consulted so a request can
// be checked before its window opens. The recovered address is returned even
// when invalid so callers can show who actually signed. Only malformed
// signatures surface an error.
func (im *impl) Verify(c ctx.Ctx, request *permission.SignerPermissionRequest, signature string) (bool, domain.Address, error) {
	approver, err := im.recoverApprover(c, request, signature)
	if err != nil {
		return false, domain.EmptyAddress, err
	}

	if isAdmin, err := im.admin.IsAdmin(c, approver); err != nil {
		c.WithField("err", err).Error("admin.IsAdmin failed")
		return false, approver, err
	} else if !isAdmin {
		return false, approver, nil
	}

	if executed, err := im.requests.IsExecuted(c, request.RequestId); err != nil {
		c.WithField("err", err).Error("requests.IsExecuted failed")
		return false, approver, err
	} else if executed {
		return false, approver, nil
	}

	return true, approver, nil
}

// checkRequest runs every precondition of Delegate without touching state
// and returns the recovered approver
func (im *impl) checkRequest(c ctx.Ctx, request *permission.SignerPermissionRequest, signature string) (domain.Address, error) {
	// the signer-is-admin rejection takes precedence over signature problems
	if isAdmin, err := im.admin.IsAdmin(c, request.Signer); err != nil {
		c.WithField("err", err).Error("admin.IsAdmin failed")
		return domain.EmptyAddress, err
	} else if isAdmin {
		return domain.EmptyAddress, domain.ErrSignerIsAdmin
	}

	// submission window is half open, [requestValidFrom, requestValidUntil)
	now := timeNow().Unix()
	if now < request.RequestValidFrom || now >= request.RequestValidUntil {
		return domain.EmptyAddress, domain.ErrRequestWindowExpired
	}

	approver, err := im.recoverApprover(c, request, signature)
	if err != nil {
		return domain.EmptyAddress, err
	}

	if isAdmin, err := im.admin.IsAdmin(c, approver); err != nil {
		c.WithField("err", err).Error("admin.IsAdmin failed")
		return domain.EmptyAddress, err
	} else if !isAdmin {
		return domain.EmptyAddress, domain.ErrInvalidSignature
	}

	if executed, err := im.requests.IsExecuted(c, request.RequestId); err != nil {
		c.WithField("err", err).Error("requests.IsExecuted failed")
		return domain.EmptyAddress, err
	} else if executed {
		return domain.EmptyAddress, domain.ErrReplayedRequest
	}

	return approver, nil
}

func (im *impl) recoverApprover(c ctx.Ctx, request *permission.SignerPermissionRequest, signature string) (domain.Address, error) {
	digest, err := request.DigestHash(im.chainId, im.verifyingContract)
	if err != nil {
		c.WithField("err", err).Error("request.DigestHash failed")
		return domain.EmptyAddress, err
	}

	recovered, err := ethereum.RecoverHashSignature(digest, signature)
	if err != nil {
		c.WithField("err", err).Warn("signature recovery failed")
		return domain.EmptyAddress, domain.ErrInvalidSignature
	}

	return domain.Address(recovered.Hex()).ToLower(), nil
}

// IsActiveSigner reports whether the signer holds a currently usable
// permission, active window and at least one approved target
func (im *impl) IsActiveSigner(c ctx.Ctx, signer domain.Address) (bool, error) {
	perm, err := im.permissions.FindOne(c, signer)
	if err == domain.ErrNotFound {
		return false, nil
	} else if err != nil {
		c.WithField("err", err).WithField("signer", signer).Error("permissions.FindOne failed")
		return false, err
	}

	now := timeNow().Unix()
	if now < perm.ValidFrom || now >= perm.ValidUntil {
		return false, nil
	}

	return len(perm.ApprovedTargets) > 0, nil
}

func (im *impl) GetPermissions(c ctx.Ctx, signer domain.Address) (*permission.Info, error) {
	perm, err := im.permissions.FindOne(c, signer)
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithField("err", err).WithField("signer", signer).Error("permissions.FindOne failed")
		}
		return nil, err
	}

	return toInfo(c, perm), nil
}

func (im *impl) FindAll(c ctx.Ctx) ([]*permission.SignerPermission, error) {
	return im.permissions.FindAll(c)
}

func (im *impl) GetEvents(c ctx.Ctx, signer domain.Address) ([]*permission.Event, error) {
	return im.events.FindBySigner(c, signer)
}

func (im *impl) notifyHooks(c ctx.Ctx, approver domain.Address, request *permission.SignerPermissionRequest) {
	for _, hook := range im.hooks {
		hook := hook
		if err := im.workerPool.ScheduleWithTimeout(3*time.Second, func() {
			defer func() {
				if r := recover(); r != nil {
					c.WithField("panic", r).Error("update hook panicked")
				}
			}()
			hook(c, approver, request)
		}); err != nil {
			c.WithField("err", err).Error("workerPool.ScheduleWithTimeout failed")
		}
	}
}

func toInfo(c ctx.Ctx, perm *permission.SignerPermission) *permission.Info {
	info := &permission.Info{
		Signer:                  perm.Signer,
		ApprovedTargets:         perm.ApprovedTargets,
		NativeValueLimitPerCall: perm.NativeValueLimitPerCall,
		ValidFrom:               perm.ValidFrom,
		ValidUntil:              perm.ValidUntil,
	}

	if display, err := valueformatter.FormatNativeValueString(perm.NativeValueLimitPerCall); err != nil {
		c.WithField("err", err).WithField("value", perm.NativeValueLimitPerCall).Warn("format native value failed")
	} else {
		info.NativeValueLimitDisplay = display.String()
	}

	return info
}
