package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// bcrypt silently ignores input past 72 bytes.
const maxPasswordBytes = 72

const maxUsernameLen = 64

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	Register(ctx context.Context, email, password, username string) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	VerifySession(ctx context.Context, token string) (uuid.UUID, error)
	Profile(ctx context.Context, userID uuid.UUID) (User, error)
}

type AuthResult struct {
	User  User
	Token string
}

type authService struct {
	repo     UserRepository
	hasher   PasswordHasher
	tokens   TokenGenerator
	verifier TokenVerifier

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService returns default implementation of AuthUseCase.
func NewAuthService(repo UserRepository, hasher PasswordHasher, tokens TokenGenerator, verifier TokenVerifier) AuthUseCase {
	return &authService{repo: repo, hasher: hasher, tokens: tokens, verifier: verifier}
}

func (s *authService) Register(ctx context.Context, email, password, username string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if err := validateCredentials(email, password); err != nil {
		return AuthResult{}, err
	}
	if len(username) > maxUsernameLen {
		return AuthResult{}, fmt.Errorf("%w: username longer than %d characters", ErrValidation, maxUsernameLen)
	}

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return AuthResult{}, ErrUserAlreadyExists
	case !errors.Is(err, ErrNotFound):
		return AuthResult{}, err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	// A concurrent registration can still win between lookup and insert;
	// the repository maps the unique violation to ErrUserAlreadyExists.
	user, err := s.repo.Create(ctx, NewUser{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return AuthResult{}, err
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return AuthResult{}, err
		}
		// Burn a comparison so unknown emails cost the same as wrong passwords.
		_, _ = s.hasher.Compare(s.placeholderHash(), password)
		return AuthResult{}, ErrInvalidCredentials
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("compare password for user %s: %w", user.ID, err)
	}
	if !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

// VerifySession is purely token based; it never reads the credential store.
func (s *authService) VerifySession(ctx context.Context, token string) (uuid.UUID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.Nil, ErrMissingToken
	}
	return s.verifier.Verify(ctx, token)
}

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *authService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email is malformed", ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password longer than %d bytes", ErrValidation, maxPasswordBytes)
	}
	return nil
}
