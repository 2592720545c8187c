package crm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	_, found, err := s.Get(ctx, "svc")
	require.NoError(t, err)
	assert.False(t, found)

	sess := Session{ID: "00Dxx!abc", InstanceURL: "https://acme.my.salesforce.com"}
	require.NoError(t, s.Set(ctx, "svc", sess, time.Minute))

	got, found, err := s.Get(ctx, "svc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sess, got)

	now = now.Add(time.Minute)
	_, found, _ = s.Get(ctx, "svc")
	assert.False(t, found, "entry expires at its ttl")

	require.NoError(t, s.Set(ctx, "svc", sess, 0))
	now = now.Add(24 * time.Hour)
	_, found, _ = s.Get(ctx, "svc")
	assert.True(t, found, "zero ttl never expires")

	require.NoError(t, s.Delete(ctx, "svc"))
	_, found, _ = s.Get(ctx, "svc")
	assert.False(t, found)
}
