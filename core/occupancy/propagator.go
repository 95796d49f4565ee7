// Package occupancy forward-propagates per-goal occupancy
// distributions over the grid and mixes them into the published
// forecast. This is the dominant computational cost of the service, so
// the propagator keeps all working buffers allocated once and reuses
// them every tick.
package occupancy

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/dronenav/humanpred/core/belief"
	"github.com/dronenav/humanpred/core/model"
	"github.com/dronenav/humanpred/core/policy"
)

// Propagator computes the horizon of occupancy slices for one human.
// Not safe for concurrent use; the engine invokes it from the tick
// loop only.
type Propagator struct {
	geom      model.Geometry
	goals     []model.Goal
	goalCells []model.Cell
	horizon   int

	// reused per-tick buffers
	curr, next []float64
	kern       []float64
	step       []float64
}

// New builds a propagator for a fixed geometry, goal set and horizon.
func New(geom model.Geometry, goals []model.Goal, horizon int) (*Propagator, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if len(goals) == 0 {
		return nil, fmt.Errorf("goal set must not be empty")
	}
	cells := make([]model.Cell, len(goals))
	for i, g := range goals {
		cells[i] = geom.ToCell(g.Location)
	}
	n := geom.Cells()
	return &Propagator{
		geom:      geom,
		goals:     goals,
		goalCells: cells,
		horizon:   horizon,
		curr:      make([]float64, n),
		next:      make([]float64, n),
		kern:      make([]float64, n*policy.NumActions),
		step:      make([]float64, policy.NumActions),
	}, nil
}

// Horizon returns the number of future slices produced per tick.
func (p *Propagator) Horizon() int { return p.horizon }

// Propagate returns freshly allocated occupancy slices for steps
// 1..horizon given the current state and rationality belief.
// goalWeights, when non-nil, re-weights the goal priors with evidence
// accumulated by the adaptive estimator. The result depends only on
// the inputs; no randomness is involved.
func (p *Propagator) Propagate(state model.HumanState, b belief.Belief, goalWeights []float64) ([]model.OccupancyGrid, error) {
	if goalWeights != nil && len(goalWeights) != len(p.goals) {
		return nil, fmt.Errorf("goal weight count %d does not match goal count %d", len(goalWeights), len(p.goals))
	}
	weights := make([]float64, len(p.goals))
	for g, goal := range p.goals {
		weights[g] = goal.Prior
		if goalWeights != nil {
			weights[g] *= goalWeights[g]
		}
	}
	if sum := floats.Sum(weights); sum > 0 {
		floats.Scale(1/sum, weights)
	} else {
		for g, goal := range p.goals {
			weights[g] = goal.Prior
		}
	}

	out := make([]model.OccupancyGrid, p.horizon)
	for h := range out {
		out[h] = model.NewOccupancyGrid(p.geom, h+1)
	}

	start := p.geom.Index(p.geom.ToCell(state.Position))
	for g := range p.goals {
		p.marginalKernel(p.goalCells[g], b)

		for i := range p.curr {
			p.curr[i] = 0
		}
		p.curr[start] = 1
		for h := 0; h < p.horizon; h++ {
			p.push()
			floats.AddScaled(out[h].Data, weights[g], p.curr)
		}
	}

	// Mixing is convex so each slice already sums to ~1; renormalize to
	// pin the invariant exactly against accumulated rounding.
	for h := range out {
		mass := floats.Sum(out[h].Data)
		if mass <= 0 {
			return nil, fmt.Errorf("slice %d lost all probability mass", h+1)
		}
		floats.Scale(1/mass, out[h].Data)
	}
	return out, nil
}

// marginalKernel fills p.kern with per-cell action distributions
// marginalized over the belief support, for a single goal.
func (p *Propagator) marginalKernel(goal model.Cell, b belief.Belief) {
	for i := range p.kern {
		p.kern[i] = 0
	}
	n := p.geom.Cells()
	for bi, beta := range b.Support {
		w := b.Probs[bi]
		if w <= 0 {
			continue
		}
		for i := 0; i < n; i++ {
			policy.ActionProbs(p.geom, p.geom.CellAt(i), goal, beta, p.step)
			row := p.kern[i*policy.NumActions : (i+1)*policy.NumActions]
			floats.AddScaled(row, w, p.step)
		}
	}
}

// push advances p.curr by one step through the marginal kernel.
func (p *Propagator) push() {
	for i := range p.next {
		p.next[i] = 0
	}
	n := p.geom.Cells()
	for i := 0; i < n; i++ {
		m := p.curr[i]
		if m == 0 {
			continue
		}
		c := p.geom.CellAt(i)
		row := p.kern[i*policy.NumActions : (i+1)*policy.NumActions]
		for a, pa := range row {
			if pa == 0 {
				continue
			}
			d, ok := policy.Dest(p.geom, c, a)
			if !ok {
				continue
			}
			p.next[p.geom.Index(d)] += m * pa
		}
	}
	p.curr, p.next = p.next, p.curr
}
