package simulator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dronenav/humanpred/core/model"
)

// LinearWalker generates the position of a pedestrian walking in a
// straight line from a start point through a list of goals and back to
// the start, by interpolating between waypoints over a fixed total
// duration. Obstacles are ignored; this reproduces mocap traces of a
// cooperative subject in an empty room.
type LinearWalker struct {
	Start    model.Point
	Goals    []model.Point
	Duration time.Duration

	// JitterStd adds Gaussian noise (meters) to each emitted position
	// when non-zero.
	JitterStd float64

	rng *rand.Rand

	waypts []model.Point
	step   time.Duration
}

// NewLinearWalker validates the route and precomputes the waypoint
// schedule. The seed makes jitter reproducible in tests.
func NewLinearWalker(start model.Point, goals []model.Point, duration time.Duration, jitterStd float64, seed int64) (*LinearWalker, error) {
	if len(goals) == 0 {
		return nil, fmt.Errorf("walker needs at least one goal")
	}
	if duration <= 0 {
		return nil, fmt.Errorf("walk duration must be positive")
	}
	if jitterStd < 0 {
		return nil, fmt.Errorf("jitter stddev must not be negative")
	}
	waypts := make([]model.Point, 0, len(goals)+2)
	waypts = append(waypts, start)
	waypts = append(waypts, goals...)
	waypts = append(waypts, start)
	return &LinearWalker{
		Start:     start,
		Goals:     goals,
		Duration:  duration,
		JitterStd: jitterStd,
		rng:       rand.New(rand.NewSource(seed)),
		waypts:    waypts,
		step:      duration / time.Duration(len(goals)+1),
	}, nil
}

// Pos returns the exact position along the route at elapsed time t.
// Past the total duration the walker rests at the start point.
func (w *LinearWalker) Pos(t time.Duration) model.Point {
	if t >= w.Duration {
		return w.Start
	}
	if t < 0 {
		t = 0
	}
	idx := int(t / w.step)
	if idx >= len(w.waypts)-1 {
		idx = len(w.waypts) - 2
	}
	prev := w.waypts[idx]
	next := w.waypts[idx+1]
	frac := float64(t-time.Duration(idx)*w.step) / float64(w.step)
	return model.Point{
		X: prev.X + (next.X-prev.X)*frac,
		Y: prev.Y + (next.Y-prev.Y)*frac,
	}
}

// Sample returns a sensor sample for elapsed time t, with jitter
// applied if configured.
func (w *LinearWalker) Sample(humanID string, t time.Duration, now time.Time) model.Sample {
	p := w.Pos(t)
	if w.JitterStd > 0 {
		p.X += w.rng.NormFloat64() * w.JitterStd
		p.Y += w.rng.NormFloat64() * w.JitterStd
	}
	return model.Sample{HumanID: humanID, X: p.X, Y: p.Y, Time: now}
}
