package belief

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/dronenav/humanpred/core/model"
	"github.com/dronenav/humanpred/core/policy"
)

// ErrUnderflow is returned when the observed transition is inconsistent
// with every goal at every rationality value. The belief is held
// unchanged instead of normalizing a zero distribution.
var ErrUnderflow = errors.New("belief: all transition likelihoods underflowed")

// Estimator tracks the rationality belief for one human session.
// Implementations are not safe for concurrent use; the engine is the
// single writer.
type Estimator interface {
	// Update folds one observed transition into the belief.
	Update(prev, cur model.HumanState) error

	// Belief returns the current distribution. Callers must not mutate it.
	Belief() Belief

	// GoalWeights returns per-goal mixing weights accumulated from
	// evidence, summing to 1, or nil when the mode carries no evidence
	// and priors alone should be used.
	GoalWeights() []float64

	// Reset restores the configured prior, discarding all evidence.
	Reset()
}

// New constructs the estimator variant for the given mode. The variant
// is selected once here so no mode branching leaks into the update or
// propagation paths.
func New(mode Mode, geom model.Geometry, goals []model.Goal, support, prior []float64) (Estimator, error) {
	switch mode {
	case ModeIrrational:
		return newFixed(support, 0)
	case ModeRational:
		return newFixed(support, len(support)-1)
	case ModeAdaptive:
		return newAdaptive(geom, goals, support, prior)
	}
	return nil, fmt.Errorf("unknown rationality mode %q", mode)
}

// fixedEstimator pins the belief to one support point. Update is a
// no-op regardless of input.
type fixedEstimator struct {
	belief Belief
}

func newFixed(support []float64, idx int) (*fixedEstimator, error) {
	b, err := NewBelief(support, nil)
	if err != nil {
		return nil, err
	}
	for i := range b.Probs {
		b.Probs[i] = 0
	}
	b.Probs[idx] = 1
	return &fixedEstimator{belief: b}, nil
}

func (f *fixedEstimator) Update(prev, cur model.HumanState) error { return nil }
func (f *fixedEstimator) Belief() Belief                          { return f.belief }
func (f *fixedEstimator) GoalWeights() []float64                  { return nil }
func (f *fixedEstimator) Reset()                                  {}

// adaptiveEstimator runs the Bayesian update. Likelihoods are computed
// in log space and exponentiated only at normalization so tiny
// transition probabilities over large grids do not underflow.
type adaptiveEstimator struct {
	geom      model.Geometry
	goals     []model.Goal
	goalCells []model.Cell
	prior     Belief
	cur       Belief

	// goalLogLik accumulates per-goal log evidence across the session,
	// rebased so the best goal stays at zero.
	goalLogLik []float64
}

func newAdaptive(geom model.Geometry, goals []model.Goal, support, prior []float64) (*adaptiveEstimator, error) {
	if len(goals) == 0 {
		return nil, fmt.Errorf("adaptive estimator requires at least one goal")
	}
	b, err := NewBelief(support, prior)
	if err != nil {
		return nil, err
	}
	cells := make([]model.Cell, len(goals))
	for i, g := range goals {
		cells[i] = geom.ToCell(g.Location)
	}
	return &adaptiveEstimator{
		geom:       geom,
		goals:      goals,
		goalCells:  cells,
		prior:      b.Clone(),
		cur:        b,
		goalLogLik: make([]float64, len(goals)),
	}, nil
}

// minLogEvidence bounds how hard a single inconsistent step can punish
// a goal, so one noisy sample cannot permanently zero it out.
const minLogEvidence = -20.0

func (a *adaptiveEstimator) Update(prev, cur model.HumanState) error {
	from := a.geom.ToCell(prev.Position)
	to := a.geom.ToCell(cur.Position)

	n := len(a.cur.Support)
	nG := len(a.goals)
	logStep := make([]float64, n*nG)
	logPost := make([]float64, n)
	perGoal := make([]float64, nG)

	underflow := true
	for i, beta := range a.cur.Support {
		for g := range a.goals {
			lp := policy.LogStepProb(a.geom, from, to, a.goalCells[g], beta)
			logStep[i*nG+g] = lp
			perGoal[g] = math.Log(a.goals[g].Prior) + lp
		}
		lik := floats.LogSumExp(perGoal)
		if !math.IsInf(lik, -1) {
			underflow = false
		}
		logPost[i] = math.Log(a.cur.Probs[i]) + lik
	}
	if underflow {
		return ErrUnderflow
	}
	norm := floats.LogSumExp(logPost)
	if math.IsInf(norm, -1) {
		// Belief mass and likelihood never overlap; hold the belief.
		return ErrUnderflow
	}
	for i := range logPost {
		a.cur.Probs[i] = math.Exp(logPost[i] - norm)
	}

	// Per-goal evidence for this step, marginalized over the updated
	// belief, feeds the mixing weights used by the propagator.
	tmp := make([]float64, n)
	for g := 0; g < nG; g++ {
		for i := range a.cur.Probs {
			if a.cur.Probs[i] <= 0 {
				tmp[i] = math.Inf(-1)
				continue
			}
			tmp[i] = math.Log(a.cur.Probs[i]) + logStep[i*nG+g]
		}
		ev := floats.LogSumExp(tmp)
		if math.IsInf(ev, -1) || ev < minLogEvidence {
			ev = minLogEvidence
		}
		a.goalLogLik[g] += ev
	}
	rebase(a.goalLogLik)
	return nil
}

// rebase shifts log weights so the maximum is zero and clamps the
// tail, keeping the accumulator bounded over long sessions.
func rebase(logw []float64) {
	shift := floats.Max(logw)
	for i := range logw {
		logw[i] -= shift
		if logw[i] < 10*minLogEvidence {
			logw[i] = 10 * minLogEvidence
		}
	}
}

func (a *adaptiveEstimator) Belief() Belief { return a.cur }

func (a *adaptiveEstimator) GoalWeights() []float64 {
	w := make([]float64, len(a.goals))
	for g := range w {
		w[g] = math.Exp(a.goalLogLik[g])
	}
	sum := floats.Sum(w)
	if sum <= 0 {
		for g := range w {
			w[g] = 1 / float64(len(w))
		}
		return w
	}
	floats.Scale(1/sum, w)
	return w
}

func (a *adaptiveEstimator) Reset() {
	a.cur = a.prior.Clone()
	for g := range a.goalLogLik {
		a.goalLogLik[g] = 0
	}
}
