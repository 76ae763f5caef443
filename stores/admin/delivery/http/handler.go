package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/delivery"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/account"
	"github.com/x-xyz/permapi/domain/admin"
	authMiddleware "github.com/x-xyz/permapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	admin   admin.Usecase
	account account.Usecase
}

func New(e *echo.Echo, admin admin.Usecase, account account.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{admin, account}

	e.GET("/admins", h.getAll, authMiddleware.Auth(), authMiddleware.IsAdmin())

	e.POST("/admins/add", h.add, authMiddleware.Auth(), authMiddleware.IsAdmin())

	e.POST("/admins/remove", h.remove, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

func (h *handler) getAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	if res, err := h.admin.FindAll(ctx); err != nil {
		ctx.WithField("err", err).Error("admin.FindAll failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

func (h *handler) add(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	signer := c.Get("address").(domain.Address)

	type payload struct {
		Name      string         `json:"name"`
		Address   domain.Address `json:"address"`
		Signature string         `json:"signature"`
	}

	p := &payload{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("c.Bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.account.ValidateSignature(ctx, signer, p.Signature); err != nil {
		return delivery.MakeJsonResp(c, http.StatusMethodNotAllowed, err)
	}

	if err := h.admin.Add(ctx, signer, p.Address, p.Name); err == domain.ErrConflict {
		return delivery.MakeJsonResp(c, http.StatusConflict, err)
	} else if err != nil {
		ctx.WithField("err", err).Error("admin.Add failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}

func (h *handler) remove(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	signer := c.Get("address").(domain.Address)

	type payload struct {
		Address   domain.Address `json:"address"`
		Signature string         `json:"signature"`
	}

	p := &payload{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("c.Bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.account.ValidateSignature(ctx, signer, p.Signature); err != nil {
		return delivery.MakeJsonResp(c, http.StatusMethodNotAllowed, err)
	}

	if err := h.admin.Remove(ctx, signer, p.Address); err == domain.ErrNotFound {
		return delivery.MakeJsonResp(c, http.StatusNotFound, err)
	} else if err != nil {
		ctx.WithField("err", err).Error("admin.Remove failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}
