package postgres

import (
	"context"
	"errors"
	"net"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/RitwikMitra19/login-app/pkg/auth"
)

const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool used by repositories.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements auth.UserRepository backed by PostgreSQL (pgx).
type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user auth.NewUser) (auth.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING id, created_at
	`, user.Email, user.Username, user.PasswordHash)

	created := auth.User{
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
	}
	if err := row.Scan(&created.ID, &created.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.User{}, auth.ErrUserAlreadyExists
		}
		return auth.User{}, storeError(err, "create user")
	}
	created.CreatedAt = created.CreatedAt.UTC()
	return created, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, COALESCE(username, ''), password_hash, created_at
		FROM users WHERE email = $1
	`, email)
	return scanUser(row, "get user by email")
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, COALESCE(username, ''), password_hash, created_at
		FROM users WHERE id = $1
	`, id)
	return scanUser(row, "get user by id")
}

func scanUser(row pgx.Row, op string) (auth.User, error) {
	var user auth.User
	if err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, storeError(err, op)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

// storeError wraps err, joining auth.ErrStoreUnavailable when the failure is
// about reaching the database rather than the statement itself.
func storeError(err error, op string) error {
	builder := oops.Code("STORE_QUERY_FAILED").With("operation", op)
	if isConnectivity(err) {
		return builder.Code("STORE_UNAVAILABLE").Wrap(errors.Join(auth.ErrStoreUnavailable, err))
	}
	return builder.Wrap(err)
}

func isConnectivity(err error) bool {
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connectErr):
		return true
	case errors.As(err, &netErr):
		return true
	case pgconn.Timeout(err):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}
