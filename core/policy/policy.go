// Package policy implements the goal-conditioned Boltzmann step model.
// The probability of moving to a neighbouring cell is proportional to
// exp(-beta * cost-to-goal from that cell), normalized over admissible
// moves. High beta concentrates mass on the greedy move toward the
// goal; beta near zero approaches a uniform wander. All functions are
// pure so the same model serves both belief updates and propagation.
package policy

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/dronenav/humanpred/core/model"
)

// moves is the 9-action kernel: the 8-neighbourhood plus staying put.
// Order is fixed so propagation output is reproducible.
var moves = [9]model.Cell{
	{X: 0, Y: 0},
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

// NumActions is the size of the step kernel.
const NumActions = len(moves)

// Dest returns the landing cell for action a taken from c. The second
// return value is false when the move leaves the grid.
func Dest(geom model.Geometry, c model.Cell, a int) (model.Cell, bool) {
	d := model.Cell{X: c.X + moves[a].X, Y: c.Y + moves[a].Y}
	return d, geom.Contains(d)
}

// ActionProbs fills dst with the probability of each action from cell c
// under rationality beta, given a goal cell. dst must have length
// NumActions; entries for inadmissible moves are zero and the rest sum
// to 1. The shared maximum is subtracted before exponentiation so large
// beta values cannot overflow.
func ActionProbs(geom model.Geometry, c, goal model.Cell, beta float64, dst []float64) {
	_ = dst[NumActions-1]
	best := math.Inf(-1)
	for a := 0; a < NumActions; a++ {
		d, ok := Dest(geom, c, a)
		if !ok {
			dst[a] = math.Inf(-1)
			continue
		}
		v := -beta * geom.Dist(d, goal)
		dst[a] = v
		if v > best {
			best = v
		}
	}
	for a := 0; a < NumActions; a++ {
		if math.IsInf(dst[a], -1) {
			dst[a] = 0
			continue
		}
		dst[a] = math.Exp(dst[a] - best)
	}
	floats.Scale(1/floats.Sum(dst), dst)
}

// LogStepProb returns the log probability of observing a transition
// from one cell to another under the policy. Transitions outside the
// step kernel have probability zero (-Inf log).
func LogStepProb(geom model.Geometry, from, to, goal model.Cell, beta float64) float64 {
	var probs [NumActions]float64
	ActionProbs(geom, from, goal, beta, probs[:])
	for a := 0; a < NumActions; a++ {
		d, ok := Dest(geom, from, a)
		if !ok {
			continue
		}
		if d == to {
			if probs[a] == 0 {
				return math.Inf(-1)
			}
			return math.Log(probs[a])
		}
	}
	return math.Inf(-1)
}
