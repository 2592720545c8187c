package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RitwikMitra19/login-app/pkg/auth"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock
}

func TestUserRepository_Create(t *testing.T) {
	id := uuid.New()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		anyErr    bool
	}{
		{
			name: "inserted",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("a@x.com", "ann", "hash").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, created))
			},
		},
		{
			name: "unique violation",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("a@x.com", "ann", "hash").
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: auth.ErrUserAlreadyExists,
		},
		{
			name: "connection refused",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("a@x.com", "ann", "hash").
					WillReturnError(context.DeadlineExceeded)
			},
			wantErr: auth.ErrStoreUnavailable,
		},
		{
			name: "statement error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("a@x.com", "ann", "hash").
					WillReturnError(&pgconn.PgError{Code: "42P01", Message: "relation does not exist"})
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.setupMock(mock)

			got, err := NewUserRepository(mock).Create(context.Background(), auth.NewUser{
				Email: "a@x.com", Username: "ann", PasswordHash: "hash",
			})
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, auth.ErrStoreUnavailable)
				assert.NotErrorIs(t, err, auth.ErrUserAlreadyExists)
			default:
				require.NoError(t, err)
				assert.Equal(t, id, got.ID)
				assert.Equal(t, "a@x.com", got.Email)
				assert.Equal(t, "ann", got.Username)
				assert.Equal(t, created, got.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	id := uuid.New()
	created := time.Now().UTC().Truncate(time.Second)
	cols := []string{"id", "email", "username", "password_hash", "created_at"}

	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT id, email, COALESCE\(username, ''\), password_hash, created_at\s+FROM users WHERE email = \$1`).
			WithArgs("A@x.com").
			WillReturnRows(pgxmock.NewRows(cols).AddRow(id, "A@x.com", "", "hash", created))

		u, err := NewUserRepository(mock).GetByEmail(context.Background(), "A@x.com")
		require.NoError(t, err)
		assert.Equal(t, id, u.ID)
		assert.Equal(t, "A@x.com", u.Email, "email is stored and matched as given")
		assert.Equal(t, "hash", u.PasswordHash)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("nobody@x.com").
			WillReturnRows(pgxmock.NewRows(cols))

		_, err := NewUserRepository(mock).GetByEmail(context.Background(), "nobody@x.com")
		require.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM users WHERE email = \$1`).
			WithArgs("a@x.com").
			WillReturnError(errors.New("syntax error"))

		_, err := NewUserRepository(mock).GetByEmail(context.Background(), "a@x.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "syntax error")
		assert.NotErrorIs(t, err, auth.ErrNotFound)
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	id := uuid.New()
	mock := newMock(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username", "password_hash", "created_at"}).
			AddRow(id, "a@x.com", "ann", "hash", time.Now()))

	u, err := NewUserRepository(mock).GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "ann", u.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
