// Package kinetics implements single-group point kinetics: exponential
// neutron population propagation and the spatial distribution of fissions
// across regions using an externally supplied fission-density profile.
// There are no delayed-neutron precursor terms.
package kinetics

import (
	"fmt"
	"math"

	"critsim/internal/model"
)

type Engine struct {
	dt float64 // s
}

func New(dt float64) *Engine {
	return &Engine{dt: dt}
}

// Propagate advances the neutron population one timestep:
// n' = n * exp((k-1)/l * dt).
func (e *Engine) Propagate(kEff, lifetime, neutrons float64) (float64, error) {
	if lifetime <= 0 {
		return 0, fmt.Errorf("%w: neutron lifetime %g s", model.ErrInvariant, lifetime)
	}
	return neutrons * math.Exp((kEff-1)/lifetime*e.dt), nil
}

// DistributeFissions converts the population into per-region fission counts
// via the normalized fission-density profile. The profile must already
// exclude the enclosing void region and sum to 1 over real regions.
func (e *Engine) DistributeFissions(neutrons, nuBar float64, profile []float64) ([]float64, error) {
	if nuBar <= 0 {
		return nil, fmt.Errorf("%w: nu-bar %g", model.ErrInvariant, nuBar)
	}
	fissions := make([]float64, len(profile))
	for i, frac := range profile {
		fissions[i] = frac * neutrons / nuBar
	}
	return fissions, nil
}
