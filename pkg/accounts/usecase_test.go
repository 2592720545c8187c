package accounts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	records  []Account
	countErr error
	listErr  error
	calls    int
	block    bool
}

func (f *fakeSource) CountAccounts(ctx context.Context) (int, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return len(f.records), f.countErr
}

func (f *fakeSource) ListAccounts(_ context.Context, limit, offset int) ([]Account, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if offset >= len(f.records) {
		return nil, nil
	}
	end := min(offset+limit, len(f.records))
	return f.records[offset:end], nil
}

func seed(n int) []Account {
	out := make([]Account, n)
	for i := range out {
		out[i] = Account{ID: fmt.Sprintf("001%03d", i+1), Name: fmt.Sprintf("Account %02d", i+1)}
	}
	return out
}

func TestList_SecondPageOfTwentyFive(t *testing.T) {
	src := &fakeSource{records: seed(25)}

	got, err := NewService(src, time.Second).List(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Len(t, got.Accounts, 10)
	assert.Equal(t, "Account 11", got.Accounts[0].Name)
	assert.Equal(t, "Account 20", got.Accounts[9].Name)
	assert.Equal(t, Pagination{Total: 25, Page: 2, Limit: 10, Pages: 3}, got.Pagination)
}

func TestList_LastPartialAndEmptyPages(t *testing.T) {
	src := &fakeSource{records: seed(25)}
	svc := NewService(src, time.Second)

	last, err := svc.List(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Accounts, 5)

	past, err := svc.List(context.Background(), 4, 10)
	require.NoError(t, err)
	assert.NotNil(t, past.Accounts)
	assert.Empty(t, past.Accounts)
	assert.Equal(t, 3, past.Pagination.Pages)
}

func TestList_NoRecords(t *testing.T) {
	got, err := NewService(&fakeSource{}, time.Second).List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Pagination.Pages)
	assert.Empty(t, got.Accounts)
}

func TestList_LimitClamped(t *testing.T) {
	got, err := NewService(&fakeSource{records: seed(150)}, time.Second).List(context.Background(), 1, 500)
	require.NoError(t, err)
	assert.Len(t, got.Accounts, MaxLimit)
	assert.Equal(t, MaxLimit, got.Pagination.Limit)
	assert.Equal(t, 2, got.Pagination.Pages)
}

func TestList_Validation(t *testing.T) {
	cases := []struct{ page, limit int }{
		{0, 10}, {-1, 10}, {1, 0}, {1, -5}, {202, 10}, {668, 3},
		// offsets that would wrap around when multiplied
		{math.MaxInt, 10}, {math.MaxInt/2 + 2, 4},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("page=%d,limit=%d", tc.page, tc.limit), func(t *testing.T) {
			src := &fakeSource{records: seed(5)}
			_, err := NewService(src, time.Second).List(context.Background(), tc.page, tc.limit)
			require.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, src.calls, "no CRM call on invalid input")
		})
	}
}

func TestList_LastReachablePage(t *testing.T) {
	src := &fakeSource{records: seed(5)}
	var offsets []int
	_, err := NewService(offsetRecorder{src, &offsets}, time.Second).List(context.Background(), 201, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{MaxOffset}, offsets)
}

type offsetRecorder struct {
	*fakeSource
	offsets *[]int
}

func (r offsetRecorder) ListAccounts(ctx context.Context, limit, offset int) ([]Account, error) {
	*r.offsets = append(*r.offsets, offset)
	return r.fakeSource.ListAccounts(ctx, limit, offset)
}

func TestList_ErrorClassification(t *testing.T) {
	t.Run("auth failure kept", func(t *testing.T) {
		_, err := NewService(&fakeSource{countErr: ErrCRMAuth}, time.Second).List(context.Background(), 1, 10)
		require.ErrorIs(t, err, ErrCRMAuth)
	})
	t.Run("unknown error becomes query failure", func(t *testing.T) {
		_, err := NewService(&fakeSource{listErr: errors.New("boom")}, time.Second).List(context.Background(), 1, 10)
		require.ErrorIs(t, err, ErrCRMQuery)
	})
	t.Run("timeout becomes query failure", func(t *testing.T) {
		_, err := NewService(&fakeSource{block: true}, 10*time.Millisecond).List(context.Background(), 1, 10)
		require.ErrorIs(t, err, ErrCRMQuery)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
