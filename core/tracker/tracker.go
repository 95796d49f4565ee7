// Package tracker turns raw sensor samples into filtered
// position/velocity states, rejecting out-of-order timestamps and
// implausible jumps.
package tracker

import (
	"errors"
	"time"

	"github.com/dronenav/humanpred/core/model"
)

// ErrOutOfOrder marks a sample whose timestamp is not strictly after
// the last accepted one.
var ErrOutOfOrder = errors.New("tracker: sample timestamp not after last accepted")

// ErrImplausible marks a sample implying a speed above the configured
// bound, treated as a sensor glitch rather than real motion.
var ErrImplausible = errors.New("tracker: implied speed exceeds plausibility bound")

// Tracker keeps the single current state for one human. It is a
// single-writer structure: only the engine's tick loop calls into it.
type Tracker struct {
	maxSpeed float64

	has  bool
	cur  model.HumanState
	last time.Time
}

// New creates a tracker. maxSpeedMPS bounds the finite-difference speed
// a sample may imply before it is rejected; zero or negative disables
// the check.
func New(maxSpeedMPS float64) *Tracker {
	return &Tracker{maxSpeed: maxSpeedMPS}
}

// Ingest folds one raw sample into the tracked state. On rejection the
// returned error is one of ErrOutOfOrder or ErrImplausible and the
// tracked state is left untouched. The first accepted sample carries
// zero velocity.
func (t *Tracker) Ingest(s model.Sample) (model.HumanState, error) {
	if t.has && !s.Time.After(t.last) {
		return model.HumanState{}, ErrOutOfOrder
	}
	st := model.HumanState{Position: s.Position(), Time: s.Time}
	if t.has {
		dt := s.Time.Sub(t.cur.Time).Seconds()
		d := s.Position().Sub(t.cur.Position)
		st.Velocity = model.Point{X: d.X / dt, Y: d.Y / dt}
		if t.maxSpeed > 0 && st.Speed() > t.maxSpeed {
			return model.HumanState{}, ErrImplausible
		}
	}
	t.cur = st
	t.last = s.Time
	t.has = true
	return st, nil
}

// Current returns the latest accepted state, if any.
func (t *Tracker) Current() (model.HumanState, bool) {
	return t.cur, t.has
}

// LastAccepted returns the timestamp of the latest accepted sample, or
// the zero time before the first acceptance.
func (t *Tracker) LastAccepted() time.Time {
	return t.last
}

// Reset discards the tracked state. Used when a session restarts after
// a sensor dropout.
func (t *Tracker) Reset() {
	t.has = false
	t.cur = model.HumanState{}
	t.last = time.Time{}
}
