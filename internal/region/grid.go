package region

import (
	"fmt"

	"critsim/internal/model"
)

// Spec fixes the shape and starting composition of the discretization.
type Spec struct {
	Nuclides        []string
	NumberDensities []float64 // a/b-cm
	NumAxial        int
	NumRadial       int
	TotalHeight     float64 // cm
	TotalRadius     float64 // cm
	AmbientTemp     float64 // K
}

func (s Spec) Validate() error {
	if s.NumAxial <= 0 || s.NumRadial <= 0 {
		return fmt.Errorf("%w: grid shape %dx%d", model.ErrConfiguration, s.NumAxial, s.NumRadial)
	}
	if s.TotalHeight <= 0 || s.TotalRadius <= 0 {
		return fmt.Errorf("%w: total height %g cm, radius %g cm", model.ErrConfiguration, s.TotalHeight, s.TotalRadius)
	}
	if len(s.Nuclides) == 0 || len(s.Nuclides) != len(s.NumberDensities) {
		return fmt.Errorf("%w: %d nuclide labels, %d number densities", model.ErrConfiguration, len(s.Nuclides), len(s.NumberDensities))
	}
	if s.AmbientTemp <= 0 {
		return fmt.Errorf("%w: ambient temperature %g K", model.ErrConfiguration, s.AmbientTemp)
	}
	return nil
}

// Grid is the axial-by-radial arrangement of regions. Region ids run 1..N
// row-major, axial then radial. Row heights are cumulative: each row stores
// its axial top, the last row's equals the grid's total height.
type Grid struct {
	rows        [][]*Region
	numAxial    int
	numRadial   int
	totalRadius float64
}

// Build lays out a fresh grid at the given total height. Rebuilding discards
// prior volume/mass/atom state: it represents adding fresh material to the
// system, not resizing existing material. If carriedTemps is non-nil it seeds
// each region's temperature, flat and id-ordered; otherwise every region
// starts at the ambient temperature.
func Build(spec Spec, totalHeight float64, carriedTemps []float64) (*Grid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if totalHeight <= 0 {
		return nil, fmt.Errorf("%w: total height %g cm", model.ErrInvariant, totalHeight)
	}
	n := spec.NumAxial * spec.NumRadial
	if carriedTemps != nil && len(carriedTemps) != n {
		return nil, fmt.Errorf("%w: %d carried temperatures for %d regions", model.ErrConfiguration, len(carriedTemps), n)
	}

	g := &Grid{
		rows:        make([][]*Region, spec.NumAxial),
		numAxial:    spec.NumAxial,
		numRadial:   spec.NumRadial,
		totalRadius: spec.TotalRadius,
	}
	id := 1
	baseHeight := 0.0
	for i := 0; i < spec.NumAxial; i++ {
		height := float64(i+1) / float64(spec.NumAxial) * totalHeight
		row := make([]*Region, spec.NumRadial)
		for j := 0; j < spec.NumRadial; j++ {
			radius := float64(j+1) / float64(spec.NumRadial) * spec.TotalRadius
			temp := spec.AmbientTemp
			if carriedTemps != nil {
				temp = carriedTemps[id-1]
			}
			row[j] = New(id, spec.Nuclides, spec.NumberDensities, height, baseHeight, radius, temp)
			id++
		}
		g.rows[i] = row
		baseHeight = height
	}
	return g, nil
}

// Regions returns the regions flat in id order.
func (g *Grid) Regions() []*Region {
	out := make([]*Region, 0, g.numAxial*g.numRadial)
	for _, row := range g.rows {
		out = append(out, row...)
	}
	return out
}

// Rows returns the axial rows bottom-up; each row is radially ordered.
func (g *Grid) Rows() [][]*Region { return g.rows }

func (g *Grid) NumRegions() int      { return g.numAxial * g.numRadial }
func (g *Grid) NumRadial() int       { return g.numRadial }
func (g *Grid) TotalRadius() float64 { return g.totalRadius }

// Temperatures returns the flat id-ordered temperature vector, suitable for
// carrying into a rebuilt grid.
func (g *Grid) Temperatures() []float64 {
	out := make([]float64, 0, g.NumRegions())
	for _, r := range g.Regions() {
		out = append(out, r.Temperature)
	}
	return out
}

// MaxTemperature returns the hottest region's temperature.
func (g *Grid) MaxTemperature() float64 {
	max := 0.0
	for _, r := range g.Regions() {
		if r.Temperature > max {
			max = r.Temperature
		}
	}
	return max
}

// TallestHeight returns the largest axial top across the grid, the overall
// height bound after in-place expansion.
func (g *Grid) TallestHeight() float64 {
	tallest := 0.0
	for _, r := range g.Regions() {
		if r.Height > tallest {
			tallest = r.Height
		}
	}
	return tallest
}

// ApplyMeasurement establishes each region's solver-measured volume and mass.
func (g *Grid) ApplyMeasurement(volumes, masses []float64) error {
	regions := g.Regions()
	if len(volumes) != len(regions) || len(masses) != len(regions) {
		return fmt.Errorf("%w: %d volumes, %d masses for %d regions",
			model.ErrDataUnavailable, len(volumes), len(masses), len(regions))
	}
	for i, r := range regions {
		if err := r.SetInitialVolumeMass(volumes[i], masses[i]); err != nil {
			return err
		}
	}
	return nil
}
