package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/RitwikMitra19/login-app/api/http/presenter"
	"github.com/RitwikMitra19/login-app/pkg/logging"
)

// NewApp builds the Fiber app with the shared middleware stack. Errors that
// reach the app error handler never expose their text unless they are
// fiber's own routing errors.
func NewApp(logger *slog.Logger, allowedOrigin string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "login-app",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code < http.StatusInternalServerError {
				return presenter.Error(c, fe.Code, fe.Message)
			}
			logging.LogError(c.UserContext(), logger, "unhandled error", err,
				"path", c.Path(),
				"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			)
			return presenter.Error(c, http.StatusInternalServerError, "internal server error")
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigin,
		// fiber refuses credentials together with a wildcard origin.
		AllowCredentials: allowedOrigin != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(accessLog(logger))
	return app
}

func accessLog(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// The error handler runs after this middleware returns.
			var fe *fiber.Error
			status = http.StatusInternalServerError
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		logger.InfoContext(c.UserContext(), "http request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", time.Since(started).Milliseconds(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)
		return err
	}
}
