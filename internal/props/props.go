// Package props supplies thermophysical properties for the fissile solution.
//
// The solution is approximated by liquid water at ambient pressure. The
// lookup is injected into the region model so alternative property sources
// (tabulated solution data, constant-property variants) can be swapped in.
package props

import (
	"fmt"

	"critsim/internal/model"
)

// Lookup provides temperature- and pressure-dependent material properties.
type Lookup interface {
	// SpecificHeat returns the isobaric specific heat in J/(kg K).
	SpecificHeat(tempK, pressurePa float64) (float64, error)
	// ExpansionCoeff returns the isobaric volumetric expansion
	// coefficient in 1/K.
	ExpansionCoeff(tempK, pressurePa float64) (float64, error)
}

// Water interpolates liquid-water properties at atmospheric pressure.
// Queries outside the tabulated range clamp to the nearest endpoint;
// non-positive temperatures are rejected.
type Water struct{}

func NewWater() *Water {
	return &Water{}
}

// Tabulated at 101325 Pa. Columns: T (K), cp (J/kg-K), alpha (1/K).
// Alpha is negative below the density maximum near 277 K.
var waterTable = []struct {
	t, cp, alpha float64
}{
	{273.15, 4219.9, -6.80e-5},
	{283.15, 4195.5, 8.79e-5},
	{293.15, 4184.4, 2.068e-4},
	{303.15, 4180.1, 3.032e-4},
	{313.15, 4179.6, 3.853e-4},
	{323.15, 4181.5, 4.578e-4},
	{333.15, 4185.1, 5.234e-4},
	{343.15, 4190.2, 5.841e-4},
	{353.15, 4196.9, 6.412e-4},
	{363.15, 4205.4, 6.958e-4},
	{373.15, 4215.9, 7.486e-4},
}

func (w *Water) SpecificHeat(tempK, pressurePa float64) (float64, error) {
	return interpolate(tempK, func(i int) float64 { return waterTable[i].cp })
}

func (w *Water) ExpansionCoeff(tempK, pressurePa float64) (float64, error) {
	return interpolate(tempK, func(i int) float64 { return waterTable[i].alpha })
}

func interpolate(tempK float64, col func(int) float64) (float64, error) {
	if tempK <= 0 {
		return 0, fmt.Errorf("%w: temperature %g K not positive", model.ErrInvariant, tempK)
	}
	n := len(waterTable)
	if tempK <= waterTable[0].t {
		return col(0), nil
	}
	if tempK >= waterTable[n-1].t {
		return col(n - 1), nil
	}
	for i := 1; i < n; i++ {
		if tempK <= waterTable[i].t {
			t0, t1 := waterTable[i-1].t, waterTable[i].t
			frac := (tempK - t0) / (t1 - t0)
			return col(i-1) + frac*(col(i)-col(i-1)), nil
		}
	}
	return col(n - 1), nil
}
