package model

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTickErrorUnwrapsToSentinel(t *testing.T) {
	inner := fmt.Errorf("%w: lifetime -1", ErrInvariant)
	err := &TickError{Phase: Expansion, Step: 7, Time: 0.007, Wrapped: inner}

	if !errors.Is(err, ErrInvariant) {
		t.Error("TickError should unwrap to the sentinel")
	}
	if errors.Is(err, ErrProcessFailure) {
		t.Error("unexpected match against unrelated sentinel")
	}

	msg := err.Error()
	if !strings.Contains(msg, "tick 7") || !strings.Contains(msg, "0.0070") {
		t.Errorf("message %q should carry step and time", msg)
	}
	if !strings.Contains(msg, Expansion.String()) {
		t.Errorf("message %q should carry the phase", msg)
	}
}

func TestPhaseStrings(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Initializing, "initializing"},
		{Accumulation, "accumulation"},
		{Expansion, "expansion"},
		{Terminated, "terminated"},
		{Aborted, "aborted"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("phase %d = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
