package presenter

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the body of every non-2xx API reply. Message is always a
// generic, client-safe string.
type ErrorResponse struct {
	Message string `json:"message"`
}

// StatusResponse is returned by the probe endpoints. Dependency is set only
// when readiness fails.
type StatusResponse struct {
	Status     string `json:"status"`
	Dependency string `json:"dependency,omitempty"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

func Status(c *fiber.Ctx, status int, body StatusResponse) error {
	return JSON(c, status, body)
}
