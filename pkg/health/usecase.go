package health

import (
	"context"
	"fmt"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckError names the dependency that failed a readiness check.
type CheckError struct {
	Dependency string
	Err        error
}

func (e *CheckError) Error() string { return fmt.Sprintf("%s: %v", e.Dependency, e.Err) }
func (e *CheckError) Unwrap() error { return e.Err }

// ReadinessUseCase describes readiness verification.
type ReadinessUseCase interface {
	Ready(ctx context.Context) error
}

type service struct {
	checkers []Checker
}

// NewService aggregates dependency checkers.
func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers}
}

// Ready stops at the first failing checker.
func (s *service) Ready(ctx context.Context) error {
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			return &CheckError{Dependency: ch.Name(), Err: err}
		}
	}
	return nil
}
