package transient

import (
	"context"

	"critsim/internal/model"
	"critsim/internal/region"
	"critsim/internal/solver"
)

// gridUpdate is the per-phase grid mutation capability. Accumulation and
// expansion are two deliberate strategies behind this one interface: adding
// fresh material rebuilds the grid, thermal expansion mutates it in place.
type gridUpdate interface {
	apply(ctx context.Context, c *Controller, tag string) (model.SolverResult, error)
}

// accumulate models material addition: the total stack height grows by the
// configured increment and the grid is rebuilt at the new height, carrying
// forward each region's last temperature but re-measuring geometry, volume,
// and mass through the solver.
type accumulate struct{}

func (accumulate) apply(ctx context.Context, c *Controller, tag string) (model.SolverResult, error) {
	newHeight := c.totalHeight + c.cfg.Geometry.HeightStep
	grid, err := region.Build(c.cfg.GridSpec(), newHeight, c.grid.Temperatures())
	if err != nil {
		return model.SolverResult{}, err
	}
	res, err := c.oracle.Query(ctx, solver.TakeSnapshot(grid, newHeight, tag), true)
	if err != nil {
		return model.SolverResult{}, err
	}
	if err := grid.ApplyMeasurement(res.Volumes, res.Masses); err != nil {
		return model.SolverResult{}, err
	}
	c.grid = grid
	c.totalHeight = newHeight
	return res, nil
}

// expand mutates the grid in place. Rows are rigidly coupled: bottom to top,
// each non-bottom region's base shifts onto the cell below it and its top
// rises by the same offset. Every region then grows by the thermal expansion
// of its last heat-up. Volumes and masses are trusted from the local
// arithmetic, so the solver query does not re-measure them.
type expand struct{}

func (expand) apply(ctx context.Context, c *Controller, tag string) (model.SolverResult, error) {
	rows := c.grid.Rows()
	for i := 1; i < len(rows); i++ {
		for j, r := range rows[i] {
			below := rows[i-1][j]
			offset := below.Height - r.BaseHeight
			if offset == 0 {
				continue
			}
			r.BaseHeight = below.Height
			if err := r.SetHeight(r.Height + offset); err != nil {
				return model.SolverResult{}, err
			}
		}
	}
	for _, r := range c.grid.Regions() {
		if err := r.Expand(c.props); err != nil {
			return model.SolverResult{}, err
		}
	}
	c.totalHeight = c.grid.TallestHeight()
	return c.oracle.Query(ctx, solver.TakeSnapshot(c.grid, c.totalHeight, tag), false)
}
