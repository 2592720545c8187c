package jwt

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// LocalUserID is the c.Locals key holding the verified uuid.UUID.
const LocalUserID = "userId"

// SessionVerifier is satisfied by auth.AuthUseCase.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (uuid.UUID, error)
}

// NewAuthMiddleware returns a Fiber middleware that validates the Bearer token
// through the auth use case. Missing, invalid and expired tokens all yield the
// same 401 body; the reason is only logged.
func NewAuthMiddleware(sessions SessionVerifier, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := sessions.VerifySession(c.UserContext(), bearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			logger.InfoContext(c.UserContext(), "session rejected",
				"path", c.Path(),
				"reason", err.Error(),
			)
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// UserID returns the identity stored by NewAuthMiddleware.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalUserID).(uuid.UUID)
	return id, ok
}

// bearerToken accepts "Bearer <token>" and a bare "<token>".
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if scheme, rest, found := strings.Cut(header, " "); found {
		if strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(rest)
		}
		return ""
	}
	return header
}
