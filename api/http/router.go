package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RitwikMitra19/login-app/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, auth *handlers.AuthHandler, health *handlers.HealthHandler, accounts *handlers.AccountsHandler, authMW fiber.Handler) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", health.Health)
	api.Get("/ready", health.Ready)

	a := api.Group("/auth")
	a.Post("/register", auth.Register)
	a.Post("/login", auth.Login)
	a.Get("/home", authMW, auth.Home)

	// CRM proxy; the session is checked before any CRM call is made.
	api.Get("/salesforce/accounts", authMW, accounts.List)
	api.Get("/accounts", authMW, accounts.List)
}
