package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/delivery"
	"github.com/x-xyz/permapi/base/validator"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/permission"
	"github.com/x-xyz/permapi/middleware"
	authMiddleware "github.com/x-xyz/permapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	permission permission.Usecase
}

// New will initialize the permission endpoints
func New(e *echo.Echo, permission permission.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{permission}

	g := e.Group("/permissions")

	// authorization of delegate comes from the admin signature inside the
	// payload, not from a login token
	g.POST("/delegate", h.delegate)
	g.POST("/verify", h.verify)

	g.GET("", h.getAll, middleware.CacheHttp(10*time.Second))
	g.GET("/:signer", h.getPermissions, middleware.IsValidAddress("signer"))
	g.GET("/:signer/active", h.isActiveSigner, middleware.IsValidAddress("signer"))
	g.GET("/:signer/events", h.getEvents, middleware.IsValidAddress("signer"), authMiddleware.Auth(), authMiddleware.IsAdmin())
}

type delegatePayload struct {
	Request   permission.SignerPermissionRequest `json:"request"`
	Signature string                             `json:"signature"`
}

func (p *delegatePayload) validate() error {
	if !validator.IsValidAddress(string(p.Request.Signer)) {
		return domain.ErrInvalidAddress
	}
	for _, t := range p.Request.ApprovedTargets {
		if !validator.IsValidAddress(string(t)) {
			return domain.ErrInvalidAddress
		}
	}
	if !validator.IsValidRequestId(string(p.Request.RequestId)) {
		return domain.ErrInvalidRequestId
	}
	return nil
}

// delegate
//
//	@Summary		Apply a signed permission request
//	@Description	Replaces the signer's stored permission when the request carries a valid admin signature
//	@Tags			permission
//	@Accept			json
//	@Produce		json
//	@Param			params	body	http.delegatePayload	true	"params"
//	@Success		201
//	@Failure		400
//	@Failure		401
//	@Failure		409
//	@Failure		500
//	@Router			/permissions/delegate [post]
func (h *handler) delegate(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &delegatePayload{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("c.Bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := p.validate(); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	switch err := h.permission.Delegate(ctx, &p.Request, p.Signature); err {
	case nil:
		return delivery.MakeJsonResp(c, http.StatusCreated, nil)
	case domain.ErrSignerIsAdmin, domain.ErrRequestWindowExpired:
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	case domain.ErrInvalidSignature:
		return delivery.MakeJsonResp(c, http.StatusUnauthorized, err)
	case domain.ErrReplayedRequest:
		return delivery.MakeJsonResp(c, http.StatusConflict, err)
	default:
		ctx.WithField("err", err).Error("permission.Delegate failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
}

// verify
//
//	@Summary		Verify a signed permission request
//	@Description	Reports whether the request id is unused and the signature comes from a current admin, plus the recovered signing address, without changing state
//	@Tags			permission
//	@Accept			json
//	@Produce		json
//	@Param			params	body		http.delegatePayload	true	"params"
//	@Success		200		{object}	object{valid=bool,signer=string}
//	@Failure		400
//	@Failure		500
//	@Router			/permissions/verify [post]
func (h *handler) verify(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &delegatePayload{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("c.Bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := p.validate(); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	valid, signer, err := h.permission.Verify(ctx, &p.Request, p.Signature)
	if err == domain.ErrInvalidSignature {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	} else if err != nil {
		ctx.WithField("err", err).Error("permission.Verify failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	res := struct {
		Valid  bool           `json:"valid"`
		Signer domain.Address `json:"signer"`
	}{valid, signer}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// getAll
//
//	@Summary		List signer permissions
//	@Description	List every stored signer permission, active or not
//	@Tags			permission
//	@Produce		json
//	@Success		200	{array}	permission.SignerPermission
//	@Failure		500
//	@Router			/permissions [get]
func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if res, err := h.permission.FindAll(ctx); err != nil {
		ctx.WithField("err", err).Error("permission.FindAll failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

// getPermissions
//
//	@Summary		Get signer permission
//	@Description	Get the stored permission of a signer
//	@Tags			permission
//	@Produce		json
//	@Param			signer	path		string	true	"signer address"
//	@Success		200		{object}	permission.Info
//	@Failure		404
//	@Failure		500
//	@Router			/permissions/{signer} [get]
func (h *handler) getPermissions(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	signer := domain.Address(c.Param("signer"))

	if res, err := h.permission.GetPermissions(ctx, signer); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

// isActiveSigner
//
//	@Summary		Check signer activity
//	@Description	Reports whether the signer currently holds a usable permission
//	@Tags			permission
//	@Produce		json
//	@Param			signer	path		string	true	"signer address"
//	@Success		200		{object}	object{active=bool}
//	@Failure		500
//	@Router			/permissions/{signer}/active [get]
func (h *handler) isActiveSigner(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	signer := domain.Address(c.Param("signer"))

	if active, err := h.permission.IsActiveSigner(ctx, signer); err != nil {
		ctx.WithField("err", err).Error("permission.IsActiveSigner failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		res := struct {
			Active bool `json:"active"`
		}{active}
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

// getEvents
//
//	@Summary		Get signer audit trail
//	@Description	List permission events recorded for the signer
//	@Tags			permission
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			signer	path	string	true	"signer address"
//	@Success		200		{array}	permission.Event
//	@Failure		500
//	@Router			/permissions/{signer}/events [get]
func (h *handler) getEvents(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	signer := domain.Address(c.Param("signer"))

	if res, err := h.permission.GetEvents(ctx, signer); err != nil {
		ctx.WithField("err", err).Error("permission.GetEvents failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}
