// Package solver is the boundary to the external stochastic transport code.
// The code is treated as an opaque oracle: a grid snapshot goes in as a
// templated input deck, the process runs to completion, and the report
// artifact is parsed into a typed result.
package solver

import (
	"context"

	"critsim/internal/model"
	"critsim/internal/region"
)

// Snapshot is the grid state handed to the boundary for one invocation.
// Tag is the unique deck/report identity for this invocation.
type Snapshot struct {
	Geometry    []region.GeometryRecord
	Composition []region.CompositionRecord
	TotalHeight float64 // cm, overall height bound for the enclosing void
	TotalRadius float64 // cm
	NumRadial   int
	Tag         string
}

// Oracle is the single typed query against the external solver. When
// recomputeVolumes is set, the deck carries the volume-calculation directive
// and the parsed result must contain per-region volumes and masses.
type Oracle interface {
	Query(ctx context.Context, snap Snapshot, recomputeVolumes bool) (model.SolverResult, error)
}

// TakeSnapshot captures the facts deck generation needs from a grid.
func TakeSnapshot(g *region.Grid, totalHeight float64, tag string) Snapshot {
	regions := g.Regions()
	snap := Snapshot{
		Geometry:    make([]region.GeometryRecord, 0, len(regions)),
		Composition: make([]region.CompositionRecord, 0, len(regions)*4),
		TotalHeight: totalHeight,
		TotalRadius: g.TotalRadius(),
		NumRadial:   g.NumRadial(),
		Tag:         tag,
	}
	for _, r := range regions {
		snap.Geometry = append(snap.Geometry, r.GeometryRecord())
		snap.Composition = append(snap.Composition, r.CompositionRecords()...)
	}
	return snap
}
