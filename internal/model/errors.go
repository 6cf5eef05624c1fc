package model

import (
	"errors"
	"fmt"
)

// Domain errors for the transient model.
var (
	// ErrConfiguration indicates invalid run parameters; surfaced at startup.
	ErrConfiguration = errors.New("critsim: invalid configuration")

	// ErrProcessFailure indicates the external solver could not be started
	// or never produced a report artifact.
	ErrProcessFailure = errors.New("critsim: external solver process failure")

	// ErrDataUnavailable indicates a solver report was read but required
	// fields are missing or malformed.
	ErrDataUnavailable = errors.New("critsim: solver report data unavailable")

	// ErrInvariant indicates a derived physical quantity became non-positive
	// or undefined. Fatal: the run must stop before recording.
	ErrInvariant = errors.New("critsim: physical invariant violated")
)

// TickError wraps an error with the tick context it occurred in.
type TickError struct {
	Phase   Phase
	Step    int
	Time    float64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("%s tick %d (t=%.4f s): %v", e.Phase, e.Step, e.Time, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
