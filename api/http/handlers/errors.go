package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/RitwikMitra19/login-app/api/http/presenter"
	"github.com/RitwikMitra19/login-app/pkg/accounts"
	"github.com/RitwikMitra19/login-app/pkg/auth"
	"github.com/RitwikMitra19/login-app/pkg/logging"
)

// failure maps a use-case error to a status and a client-safe message. The
// full error only goes to the log.
func failure(c *fiber.Ctx, logger *slog.Logger, op string, err error, fallback string) error {
	status, msg := http.StatusInternalServerError, fallback
	switch {
	case errors.Is(err, auth.ErrValidation), errors.Is(err, accounts.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrUserAlreadyExists):
		status, msg = http.StatusConflict, "user already exists"
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, auth.ErrNotFound):
		status, msg = http.StatusNotFound, "user not found"
	case errors.Is(err, auth.ErrStoreUnavailable):
		status, msg = http.StatusServiceUnavailable, "service unavailable"
	case errors.Is(err, accounts.ErrCRMAuth), errors.Is(err, accounts.ErrCRMQuery):
		status, msg = http.StatusBadGateway, "upstream unavailable"
	}

	if status >= http.StatusInternalServerError {
		logging.LogError(c.UserContext(), logger, op+" failed", err,
			"status", status,
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)
	}
	return presenter.Error(c, status, msg)
}
