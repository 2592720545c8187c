package accounts

import (
	"context"
	"errors"
)

var (
	ErrValidation = errors.New("invalid pagination")
	ErrCRMAuth    = errors.New("crm authentication failed")
	ErrCRMQuery   = errors.New("crm query failed")
)

// Source is the CRM capability the proxy consumes. Implementations return
// accounts ordered by name ascending and classify failures as ErrCRMAuth or
// ErrCRMQuery.
type Source interface {
	ListAccounts(ctx context.Context, limit, offset int) ([]Account, error)
	CountAccounts(ctx context.Context) (int, error)
}
