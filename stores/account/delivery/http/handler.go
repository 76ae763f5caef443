package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/permapi/base/ctx"
	"github.com/x-xyz/permapi/base/delivery"
	"github.com/x-xyz/permapi/domain"
	"github.com/x-xyz/permapi/domain/account"
	"github.com/x-xyz/permapi/middleware"
	authMiddleware "github.com/x-xyz/permapi/stores/auth/delivery/http/middleware"
)

type handler struct {
	au account.Usecase
}

// New will initialize the account endpoints
func New(e *echo.Echo, au account.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		au: au,
	}
	g := e.Group("/account")

	g.GET("/:account", h.getAccount, middleware.IsValidAddress("account"))

	g.POST("/nonce", h.generateNonce, authMiddleware.Auth())
}

// getAccount
//
//	@Summary		Get account
//	@Description	Get account by address
//	@Tags			account
//	@Accept			json
//	@Produce		json
//	@Param			account	path		string	true	"account address"
//	@Success		200		{object}	account.Account
//	@Failure		404
//	@Failure		500
//	@Router			/account/{account} [get]
func (h *handler) getAccount(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	address := domain.Address(c.Param("account"))

	if res, err := h.au.Get(ctx, address); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusOK, res)
	}
}

// generateNonce
//
//	@Summary		Generate nonce for signing
//	@Description	Generate nonce for signing
//	@Tags			account
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Success		200	{integer}	integer	"nonce"
//	@Failure		500
//	@Router			/account/nonce [post]
func (h *handler) generateNonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	address := c.Get("address").(domain.Address)
	nonce, err := h.au.GenerateNonce(ctx, address)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, nonce)
}
