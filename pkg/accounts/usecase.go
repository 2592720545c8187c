package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxOffset is the largest OFFSET the CRM query language accepts.
	MaxOffset = 2000

	DefaultTimeout = 15 * time.Second
)

// UseCase lists CRM accounts. Callers must have verified the session first.
type UseCase interface {
	List(ctx context.Context, page, limit int) (Page, error)
}

type service struct {
	source  Source
	timeout time.Duration
}

func NewService(source Source, timeout time.Duration) UseCase {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &service{source: source, timeout: timeout}
}

func (s *service) List(ctx context.Context, page, limit int) (Page, error) {
	if page < 1 || limit < 1 {
		return Page{}, fmt.Errorf("%w: page and limit must be positive", ErrValidation)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// Compared before multiplying so a huge page cannot wrap the offset.
	if page-1 > MaxOffset/limit {
		return Page{}, fmt.Errorf("%w: page %d is beyond the last reachable page", ErrValidation, page)
	}
	offset := (page - 1) * limit

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	total, err := s.source.CountAccounts(ctx)
	if err != nil {
		return Page{}, classify(err)
	}
	items, err := s.source.ListAccounts(ctx, limit, offset)
	if err != nil {
		return Page{}, classify(err)
	}
	if items == nil {
		items = []Account{}
	}

	return Page{
		Accounts: items,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

// classify folds unexpected errors (timeouts included) into ErrCRMQuery.
func classify(err error) error {
	if errors.Is(err, ErrCRMAuth) || errors.Is(err, ErrCRMQuery) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCRMQuery, err)
}
