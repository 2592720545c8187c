package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name  string
	err   error
	calls int
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(context.Context) error {
	s.calls++
	return s.err
}

func TestReady_AllHealthy(t *testing.T) {
	a, b := &stubChecker{name: "postgres"}, &stubChecker{name: "redis"}
	require.NoError(t, NewService(a, b).Ready(context.Background()))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestReady_StopsAtFirstFailure(t *testing.T) {
	cause := errors.New("connection refused")
	a, b := &stubChecker{name: "postgres", err: cause}, &stubChecker{name: "redis"}

	err := NewService(a, b).Ready(context.Background())
	var checkErr *CheckError
	require.ErrorAs(t, err, &checkErr)
	assert.Equal(t, "postgres", checkErr.Dependency)
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, b.calls)
}

func TestReady_NoCheckers(t *testing.T) {
	assert.NoError(t, NewService().Ready(context.Background()))
}
