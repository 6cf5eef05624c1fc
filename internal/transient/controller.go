// Package transient drives the criticality accident model: a strictly
// sequential tick loop coupling point kinetics to the external transport
// solver through two phases, material accumulation and thermal expansion.
//
// Each tick is fed by the previous tick's solver result: the fission profile
// and nu-bar driving this tick's heating are those measured at the end of the
// prior tick. This one-step lag is part of the model and is never reconciled.
package transient

import (
	"context"
	"strconv"
	"strings"

	"critsim/internal/config"
	"critsim/internal/kinetics"
	"critsim/internal/model"
	"critsim/internal/props"
	"critsim/internal/region"
	"critsim/internal/solver"
)

// Controller owns the region grid and runs the transient state machine:
// Initializing -> Accumulation -> Expansion -> Terminated, with Aborted as
// the terminal phase on any fatal error. No condition is retried: every
// tick's physics depends on the previous tick's solver truth.
type Controller struct {
	cfg    *config.Config
	oracle solver.Oracle
	engine *kinetics.Engine
	props  props.Lookup
	rec    *Recorder

	grid        *region.Grid
	totalHeight float64
	phase       model.Phase
	state       model.TransientState
	prev        model.SolverResult // lagged feedback for the next tick
	step        int
	onTick      func(model.TransientState)
}

func New(cfg *config.Config, oracle solver.Oracle, lookup props.Lookup, rec *Recorder) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:    cfg,
		oracle: oracle,
		engine: kinetics.New(cfg.Dt()),
		props:  lookup,
		rec:    rec,
		phase:  model.Initializing,
	}, nil
}

// OnTick registers a callback invoked after every recorded tick, including
// the t=0 baseline record.
func (c *Controller) OnTick(fn func(model.TransientState)) { c.onTick = fn }

func (c *Controller) Phase() model.Phase          { return c.phase }
func (c *Controller) State() model.TransientState { return c.state }

// Grid exposes the controller-owned grid. Callers must not mutate it while
// a run is in progress; regions are exclusively owned for a tick's duration.
func (c *Controller) Grid() *region.Grid { return c.grid }

// Run executes the transient to termination. The returned state is the last
// recorded tick; on error the controller is left in the Aborted phase and
// nothing past the failure is recorded.
func (c *Controller) Run(ctx context.Context) (model.TransientState, error) {
	if err := c.initialize(ctx); err != nil {
		c.abort()
		return c.state, &model.TickError{Phase: model.Initializing, Step: 0, Time: 0, Wrapped: err}
	}
	for c.phase == model.Accumulation || c.phase == model.Expansion {
		var err error
		switch c.phase {
		case model.Accumulation:
			err = c.tick(ctx, accumulate{},
				func(k float64) bool { return k >= c.cfg.Physics.KEffCeiling }, model.Expansion)
		case model.Expansion:
			err = c.tick(ctx, expand{},
				func(k float64) bool { return k <= c.cfg.Physics.KEffFloor }, model.Terminated)
		}
		if err != nil {
			c.abort()
			return c.state, err
		}
	}
	return c.state, nil
}

// initialize builds the grid at nominal geometry, runs the baseline solver
// query to measure volumes and masses, seeds the neutron population at the
// initiating-accident source, and writes the header and the t=0 record.
func (c *Controller) initialize(ctx context.Context) error {
	grid, err := region.Build(c.cfg.GridSpec(), c.cfg.Geometry.TotalHeight, nil)
	if err != nil {
		return err
	}
	c.grid = grid
	c.totalHeight = c.cfg.Geometry.TotalHeight

	res, err := c.oracle.Query(ctx, solver.TakeSnapshot(grid, c.totalHeight, c.cfg.Case), true)
	if err != nil {
		return err
	}
	if err := grid.ApplyMeasurement(res.Volumes, res.Masses); err != nil {
		return err
	}

	neutrons := c.cfg.Physics.InitialNeutrons
	fissions, err := c.engine.DistributeFissions(neutrons, res.NuBar, res.FissionProfile)
	if err != nil {
		return err
	}
	c.prev = res
	c.state = model.TransientState{
		Neutrons:       neutrons,
		KEff:           res.KEff,
		KEffPlus2Sigma: res.KEffPlus2Sigma,
		Lifetime:       res.Lifetime,
		NuBar:          res.NuBar,
		TotalFissions:  sum(fissions),
		MaxTemperature: grid.MaxTemperature(),
		FissionProfile: res.FissionProfile,
	}

	if err := c.rec.WriteHeader(); err != nil {
		return err
	}
	if err := c.rec.Record(c.state); err != nil {
		return err
	}

	switch {
	case res.KEff < c.cfg.Physics.KEffCeiling:
		c.phase = model.Accumulation
	case res.KEff > c.cfg.Physics.KEffFloor:
		c.phase = model.Expansion
	default:
		c.phase = model.Terminated
	}
	c.state.Phase = c.phase
	if c.onTick != nil {
		c.onTick(c.state)
	}
	return nil
}

// tick advances one timestep: propagate and distribute from the previous
// solver result, apply the phase's grid update and fresh solver query, heat
// every region with this tick's fission counts, record, and evaluate the
// phase exit predicate.
func (c *Controller) tick(ctx context.Context, up gridUpdate, exit func(float64) bool, next model.Phase) error {
	c.step++
	t := c.state.Time + c.cfg.Dt()

	fail := func(err error) error {
		return &model.TickError{Phase: c.phase, Step: c.step, Time: t, Wrapped: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	neutrons, err := c.engine.Propagate(c.prev.KEff, c.prev.Lifetime, c.state.Neutrons)
	if err != nil {
		return fail(err)
	}
	fissions, err := c.engine.DistributeFissions(neutrons, c.prev.NuBar, c.prev.FissionProfile)
	if err != nil {
		return fail(err)
	}

	res, err := up.apply(ctx, c, c.artifactTag(t))
	if err != nil {
		return fail(err)
	}

	for i, r := range c.grid.Regions() {
		if err := r.HeatUp(fissions[i], c.props); err != nil {
			return fail(err)
		}
	}

	c.prev = res
	c.state = model.TransientState{
		Time:           t,
		Neutrons:       neutrons,
		KEff:           res.KEff,
		KEffPlus2Sigma: res.KEffPlus2Sigma,
		Lifetime:       res.Lifetime,
		NuBar:          res.NuBar,
		TotalFissions:  sum(fissions),
		MaxTemperature: c.grid.MaxTemperature(),
		Phase:          c.phase,
		FissionProfile: res.FissionProfile,
	}
	if err := c.rec.Record(c.state); err != nil {
		return fail(err)
	}

	if exit(res.KEff) {
		c.phase = next
		c.state.Phase = next
	}
	if c.onTick != nil {
		c.onTick(c.state)
	}
	return nil
}

func (c *Controller) abort() {
	c.phase = model.Aborted
	c.state.Phase = model.Aborted
}

// artifactTag derives the unique deck/report identity for the tick at time t.
func (c *Controller) artifactTag(t float64) string {
	stamp := strconv.FormatFloat(t, 'f', c.cfg.TimePrecision(), 64)
	return c.cfg.Case + strings.ReplaceAll(stamp, ".", "")
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}
