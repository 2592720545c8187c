package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/RitwikMitra19/login-app/api/http/presenter"
	"github.com/RitwikMitra19/login-app/pkg/health"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	svc    health.ReadinessUseCase
	logger *slog.Logger
}

func NewHealthHandler(svc health.ReadinessUseCase, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{svc: svc, logger: logger}
}

// Health: basic liveness check.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} presenter.StatusResponse
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return presenter.Status(c, fiber.StatusOK, presenter.StatusResponse{Status: "ok"})
}

// Ready: readiness check with DB ping.
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} presenter.StatusResponse
// @Failure 503 {object} presenter.StatusResponse
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.svc.Ready(ctx); err != nil {
		h.logger.WarnContext(ctx, "readiness check failed", "error", err)
		body := presenter.StatusResponse{Status: "not_ready"}
		var checkErr *health.CheckError
		if errors.As(err, &checkErr) {
			body.Dependency = checkErr.Dependency
		}
		return presenter.Status(c, fiber.StatusServiceUnavailable, body)
	}
	return presenter.Status(c, fiber.StatusOK, presenter.StatusResponse{Status: "ready"})
}
