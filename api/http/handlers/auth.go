package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/RitwikMitra19/login-app/api/http/presenter"
	"github.com/RitwikMitra19/login-app/pkg/auth"
	"github.com/RitwikMitra19/login-app/pkg/metrics"
	"github.com/RitwikMitra19/login-app/pkg/security/jwt"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewAuthHandler(useCase auth.AuthUseCase, logger *slog.Logger, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{useCase: useCase, logger: logger, metrics: m}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type homeResponse struct {
	User userResponse `json:"user"`
}

// Register handles user registration.
// @Summary Register user
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} authResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	result, err := h.useCase.Register(c.UserContext(), req.Email, req.Password, req.Username)
	h.metrics.ObserveAuth("register", outcome(err))
	if err != nil {
		return failure(c, h.logger, "register", err, "failed to register user")
	}

	return presenter.JSON(c, http.StatusCreated, authResponse{
		Token: result.Token,
		User:  toUserResponse(result.User, false),
	})
}

// Login handles user login.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} authResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "email and password are required")
	}

	result, err := h.useCase.Login(c.UserContext(), req.Email, req.Password)
	h.metrics.ObserveAuth("login", outcome(err))
	if err != nil {
		return failure(c, h.logger, "login", err, "failed to login")
	}

	return presenter.JSON(c, http.StatusOK, authResponse{
		Token: result.Token,
		User:  toUserResponse(result.User, false),
	})
}

// Home returns the profile of the session's user.
// @Summary Current user
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} homeResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /auth/home [get]
func (h *AuthHandler) Home(c *fiber.Ctx) error {
	userID, ok := jwt.UserID(c)
	if !ok {
		return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
	}
	user, err := h.useCase.Profile(c.UserContext(), userID)
	if err != nil {
		return failure(c, h.logger, "home", err, "failed to load user")
	}
	return presenter.JSON(c, http.StatusOK, homeResponse{User: toUserResponse(user, true)})
}

func toUserResponse(u auth.User, withCreated bool) userResponse {
	out := userResponse{ID: u.ID.String(), Email: u.Email, Username: u.Username}
	if withCreated && !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		out.CreatedAt = &created
	}
	return out
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, auth.ErrUserAlreadyExists):
		return "duplicate"
	case errors.Is(err, auth.ErrValidation):
		return "invalid_input"
	default:
		return "error"
	}
}
