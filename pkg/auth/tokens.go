package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenGenerator abstracts token creation (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type TokenGenerator interface {
	Generate(ctx context.Context, user User) (string, error)
}

// TokenVerifier checks signature and expiry of a bearer token and returns
// the embedded user identity. It must not touch the credential store.
// Errors are ErrInvalidToken or ErrTokenExpired.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (uuid.UUID, error)
}
