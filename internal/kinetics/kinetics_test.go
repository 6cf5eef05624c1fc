package kinetics

import (
	"errors"
	"math"
	"testing"

	"critsim/internal/model"
)

func TestPropagateScenario(t *testing.T) {
	e := New(1e-3)
	got, err := e.Propagate(1.005, 1e-4, 1e10)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	want := 1e10 * math.Exp(0.05)
	if math.Abs(got-want)/want > 1e-12 {
		t.Errorf("propagate = %v, want %v", got, want)
	}
}

func TestPropagateMonotonicity(t *testing.T) {
	e := New(1e-3)
	const pop = 1e10

	tests := []struct {
		name string
		keff float64
		cmp  func(got float64) bool
	}{
		{"supercritical grows", 1.01, func(got float64) bool { return got > pop }},
		{"subcritical shrinks", 0.99, func(got float64) bool { return got < pop }},
		{"critical holds", 1.0, func(got float64) bool { return got == pop }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Propagate(tt.keff, 1e-4, pop)
			if err != nil {
				t.Fatalf("propagate: %v", err)
			}
			if !tt.cmp(got) {
				t.Errorf("k-eff %v: population %v from %v", tt.keff, got, pop)
			}
		})
	}
}

func TestPropagateRejectsLifetime(t *testing.T) {
	e := New(1e-3)
	for _, lifetime := range []float64{0, -1e-4} {
		if _, err := e.Propagate(1.0, lifetime, 1e10); !errors.Is(err, model.ErrInvariant) {
			t.Errorf("lifetime %v: expected invariant violation, got %v", lifetime, err)
		}
	}
}

func TestDistributeFissionsSum(t *testing.T) {
	e := New(1e-3)
	profile := []float64{0.1, 0.25, 0.3, 0.2, 0.15}
	const pop, nuBar = 2.5e12, 2.434

	fissions, err := e.DistributeFissions(pop, nuBar, profile)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}

	sum := 0.0
	for _, f := range fissions {
		sum += f
	}
	want := pop / nuBar
	if math.Abs(sum-want)/want > 1e-12 {
		t.Errorf("fission sum = %v, want %v", sum, want)
	}
	for i, frac := range profile {
		if got, want := fissions[i], frac*pop/nuBar; math.Abs(got-want)/want > 1e-12 {
			t.Errorf("fissions[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestDistributeFissionsRejectsNuBar(t *testing.T) {
	e := New(1e-3)
	for _, nuBar := range []float64{0, -2.4} {
		if _, err := e.DistributeFissions(1e10, nuBar, []float64{1.0}); !errors.Is(err, model.ErrInvariant) {
			t.Errorf("nu-bar %v: expected invariant violation, got %v", nuBar, err)
		}
	}
}
