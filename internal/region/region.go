// Package region models the discretized fissile solution: a single
// cylindrical cell's composition, geometry, and thermal state, and the
// axial-by-radial grid arranging those cells.
package region

import (
	"fmt"

	"critsim/internal/model"
	"critsim/internal/props"
)

// Energy released per fission, 180 MeV in joules.
const energyPerFission = 180 * 1.6022e-13 // J

// AmbientPressure assumes atmospheric conditions, allowing the fluid to expand.
const AmbientPressure = 101325.0 // Pa

// Region is one discretized cell of the solution. Height is the cell's
// cumulative axial top measured from the planar origin; BaseHeight is its
// axial start. Nuclides and NumberDensities are parallel, order-significant.
type Region struct {
	ID              int
	Nuclides        []string
	NumberDensities []float64 // a/b-cm
	Temperature     float64   // K
	Radius          float64   // cm
	Height          float64   // cm
	BaseHeight      float64   // cm
	Volume          float64   // cm^3
	Mass            float64   // g
	Pressure        float64   // Pa

	atoms       []float64
	base        float64 // cm^2, volume/height, fixed once measured
	deltaTemp   float64 // K, last heat-up delta, consumed by Expand
	initialized bool
}

// New returns a region at the given geometry with zero volume and mass;
// both are measured by the first external solver query.
func New(id int, nuclides []string, ndens []float64, height, baseHeight, radius, temperature float64) *Region {
	nd := make([]float64, len(ndens))
	copy(nd, ndens)
	return &Region{
		ID:              id,
		Nuclides:        nuclides,
		NumberDensities: nd,
		Temperature:     temperature,
		Radius:          radius,
		Height:          height,
		BaseHeight:      baseHeight,
		Pressure:        AmbientPressure,
		atoms:           make([]float64, len(ndens)),
	}
}

// SetInitialVolumeMass records the solver-measured volume and mass and
// derives the atom inventory and base area. Valid exactly once per region
// lifetime; a second call violates the fixed-base invariant.
func (r *Region) SetInitialVolumeMass(volume, mass float64) error {
	if r.initialized {
		return fmt.Errorf("%w: region %d volume/mass already established", model.ErrInvariant, r.ID)
	}
	if volume <= 0 || mass <= 0 {
		return fmt.Errorf("%w: region %d volume %g cm^3, mass %g g", model.ErrInvariant, r.ID, volume, mass)
	}
	r.Volume = volume
	r.Mass = mass
	for i, nd := range r.NumberDensities {
		r.atoms[i] = nd * 1e24 * volume
	}
	r.base = volume / r.Height
	r.initialized = true
	return nil
}

// SetHeight adjusts the cell's axial extent at fixed base area, rescaling
// number densities so the atom inventory is conserved.
func (r *Region) SetHeight(newHeight float64) error {
	if newHeight <= 0 {
		return fmt.Errorf("%w: region %d height %g cm", model.ErrInvariant, r.ID, newHeight)
	}
	if !r.initialized {
		return fmt.Errorf("%w: region %d resized before volume/mass established", model.ErrInvariant, r.ID)
	}
	r.Height = newHeight
	r.Volume = r.base * newHeight
	for i, atoms := range r.atoms {
		r.NumberDensities[i] = atoms * 1e-24 / r.Volume
	}
	return nil
}

// HeatUp deposits the energy of the given fission count into the cell.
// The specific heat comes from the injected property lookup at the cell's
// current temperature and pressure; the resulting temperature delta is
// retained for the next Expand call.
func (r *Region) HeatUp(fissions float64, lookup props.Lookup) error {
	if !r.initialized {
		return fmt.Errorf("%w: region %d heated before volume/mass established", model.ErrInvariant, r.ID)
	}
	specHeat, err := lookup.SpecificHeat(r.Temperature, r.Pressure)
	if err != nil {
		return err
	}
	heat := fissions * energyPerFission                   // J
	newTemp := r.Temperature + heat/(r.Mass/1e3)/specHeat // Mass in g, cp in J/kg-K
	r.deltaTemp = newTemp - r.Temperature
	r.Temperature = newTemp
	return nil
}

// Expand grows the cell axially by the thermal expansion of the last
// heat-up: alpha = 1/V (dV/dT) at constant pressure, solved for a height
// delta at fixed base area.
func (r *Region) Expand(lookup props.Lookup) error {
	alpha, err := lookup.ExpansionCoeff(r.Temperature, r.Pressure)
	if err != nil {
		return err
	}
	deltaHeight := r.deltaTemp * r.Volume * alpha / r.base
	return r.SetHeight(r.Height + deltaHeight)
}

// Atoms returns the cell's atom inventory, parallel to Nuclides.
func (r *Region) Atoms() []float64 {
	out := make([]float64, len(r.atoms))
	copy(out, r.atoms)
	return out
}

// BaseArea returns the fixed base area, zero until the first measurement.
func (r *Region) BaseArea() float64 { return r.base }

// GeometryRecord is the structured geometry fact consumed by deck generation.
type GeometryRecord struct {
	ID         int
	Radius     float64 // cm
	Height     float64 // cm
	BaseHeight float64 // cm
}

// CompositionRecord is one nuclide row of the deck's composition section.
type CompositionRecord struct {
	Nuclide       string
	RegionID      int
	NumberDensity float64 // a/b-cm
	Temperature   float64 // K
}

func (r *Region) GeometryRecord() GeometryRecord {
	return GeometryRecord{ID: r.ID, Radius: r.Radius, Height: r.Height, BaseHeight: r.BaseHeight}
}

func (r *Region) CompositionRecords() []CompositionRecord {
	records := make([]CompositionRecord, len(r.Nuclides))
	for i, nuc := range r.Nuclides {
		records[i] = CompositionRecord{
			Nuclide:       nuc,
			RegionID:      r.ID,
			NumberDensity: r.NumberDensities[i],
			Temperature:   r.Temperature,
		}
	}
	return records
}
