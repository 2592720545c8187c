package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/RitwikMitra19/login-app/api/http/presenter"
	"github.com/RitwikMitra19/login-app/pkg/accounts"
)

// AccountsHandler proxies read-only CRM account listings.
type AccountsHandler struct {
	useCase accounts.UseCase
	logger  *slog.Logger
}

func NewAccountsHandler(useCase accounts.UseCase, logger *slog.Logger) *AccountsHandler {
	return &AccountsHandler{useCase: useCase, logger: logger}
}

// List returns one page of CRM accounts ordered by name.
// @Summary List CRM accounts
// @Tags    accounts
// @Produce json
// @Param   page  query int false "page number, from 1" default(1)
// @Param   limit query int false "page size, at most 100" default(10)
// @Security BearerAuth
// @Success 200 {object} accounts.Page
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /salesforce/accounts [get]
func (h *AccountsHandler) List(c *fiber.Ctx) error {
	page, limit, err := parsePageLimit(c, accounts.DefaultPage, accounts.DefaultLimit)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	result, err := h.useCase.List(c.UserContext(), page, limit)
	if err != nil {
		return failure(c, h.logger, "list accounts", err, "failed to fetch accounts")
	}
	return presenter.JSON(c, http.StatusOK, result)
}
