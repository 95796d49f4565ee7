package occupancy

import (
	"math"
	"testing"
	"time"

	"github.com/dronenav/humanpred/core/belief"
	"github.com/dronenav/humanpred/core/model"
)

func testGeom() model.Geometry {
	return model.Geometry{
		Lower:  model.Point{X: 0, Y: 0},
		Upper:  model.Point{X: 10, Y: 10},
		Width:  11,
		Height: 11,
	}
}

func testGoals() []model.Goal {
	return []model.Goal{
		{ID: "ne", Location: model.Point{X: 9, Y: 9}, Prior: 0.7},
		{ID: "sw", Location: model.Point{X: 1, Y: 1}, Prior: 0.3},
	}
}

func testState() model.HumanState {
	return model.HumanState{Position: model.Point{X: 5, Y: 5}, Time: time.Now()}
}

func uniformBelief(t *testing.T) belief.Belief {
	t.Helper()
	b, err := belief.NewBelief([]float64{0.05, 1, 10}, nil)
	if err != nil {
		t.Fatalf("belief: %v", err)
	}
	return b
}

func rationalBelief(t *testing.T) belief.Belief {
	t.Helper()
	b, err := belief.NewBelief([]float64{0.05, 1, 10}, []float64{0, 0, 1})
	if err != nil {
		t.Fatalf("belief: %v", err)
	}
	return b
}

func TestNewValidation(t *testing.T) {
	if _, err := New(model.Geometry{}, testGoals(), 5); err == nil {
		t.Errorf("expected error for invalid geometry")
	}
	if _, err := New(testGeom(), testGoals(), 0); err == nil {
		t.Errorf("expected error for zero horizon")
	}
	if _, err := New(testGeom(), nil, 5); err == nil {
		t.Errorf("expected error for empty goals")
	}
}

func TestPropagateMassConserved(t *testing.T) {
	p, err := New(testGeom(), testGoals(), 5)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	slices, err := p.Propagate(testState(), uniformBelief(t), nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	if len(slices) != 5 {
		t.Fatalf("slices: %d", len(slices))
	}
	for h, s := range slices {
		if s.Step != h+1 {
			t.Errorf("slice %d step: %d", h, s.Step)
		}
		if math.Abs(s.Mass()-1) > 1e-6 {
			t.Errorf("slice %d mass: %v", h+1, s.Mass())
		}
		for i, v := range s.Data {
			if v < 0 || math.IsNaN(v) {
				t.Fatalf("slice %d cell %d: %v", h+1, i, v)
			}
		}
	}
}

func TestPropagateDeterministic(t *testing.T) {
	p, err := New(testGeom(), testGoals(), 4)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b := uniformBelief(t)
	first, err := p.Propagate(testState(), b, nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	second, err := p.Propagate(testState(), b, nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	for h := range first {
		for i := range first[h].Data {
			if first[h].Data[i] != second[h].Data[i] {
				t.Fatalf("slice %d cell %d differs: %v vs %v", h+1, i, first[h].Data[i], second[h].Data[i])
			}
		}
	}
}

// expectedGoalDist returns the mean distance (in meters) between the
// occupied cells of a slice and the goal cell, weighted by occupancy.
func expectedGoalDist(geom model.Geometry, s model.OccupancyGrid, goal model.Cell) float64 {
	d := 0.0
	for i, v := range s.Data {
		if v == 0 {
			continue
		}
		d += v * geom.Dist(geom.CellAt(i), goal)
	}
	return d
}

func TestPropagateApproachesGoal(t *testing.T) {
	geom := testGeom()
	goals := []model.Goal{{ID: "ne", Location: model.Point{X: 9, Y: 9}, Prior: 1}}
	p, err := New(geom, goals, 5)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	slices, err := p.Propagate(testState(), rationalBelief(t), nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	goalCell := geom.ToCell(goals[0].Location)
	d1 := expectedGoalDist(geom, slices[0], goalCell)
	d5 := expectedGoalDist(geom, slices[4], goalCell)
	if d5 >= d1 {
		t.Errorf("mass not moving toward goal: step1 %v, step5 %v", d1, d5)
	}
}

func TestPropagateGoalWeights(t *testing.T) {
	geom := testGeom()
	p, err := New(geom, testGoals(), 5)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	st := testState()
	b := rationalBelief(t)

	// All evidence on the second (sw) goal should pull mass toward it
	// compared to priors alone.
	weighted, err := p.Propagate(st, b, []float64{0, 1})
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	unweighted, err := p.Propagate(st, b, nil)
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	swCell := geom.ToCell(testGoals()[1].Location)
	dw := expectedGoalDist(geom, weighted[4], swCell)
	du := expectedGoalDist(geom, unweighted[4], swCell)
	if dw >= du {
		t.Errorf("evidence weights ignored: weighted %v, prior-only %v", dw, du)
	}
}

func TestPropagateWeightCountMismatch(t *testing.T) {
	p, err := New(testGeom(), testGoals(), 2)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := p.Propagate(testState(), uniformBelief(t), []float64{1}); err == nil {
		t.Errorf("expected error for weight count mismatch")
	}
}

func TestPropagateZeroWeightsFallBackToPriors(t *testing.T) {
	p, err := New(testGeom(), testGoals(), 2)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	slices, err := p.Propagate(testState(), uniformBelief(t), []float64{0, 0})
	if err != nil {
		t.Fatalf("propagate: %v", err)
	}
	for h, s := range slices {
		if math.Abs(s.Mass()-1) > 1e-6 {
			t.Errorf("slice %d mass: %v", h+1, s.Mass())
		}
	}
}
