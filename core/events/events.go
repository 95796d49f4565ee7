package events

import (
	"time"

	"github.com/dronenav/humanpred/core/model"
)

// SampleEvent is published when a raw sample is accepted.
type SampleEvent struct {
	Sample model.Sample
	State  model.HumanState
}

// RejectEvent is published when a raw sample is rejected. Reason is one
// of the tracker sentinel errors.
type RejectEvent struct {
	Sample model.Sample
	Reason error
}

// TickEvent is published after each completed prediction tick.
type TickEvent struct {
	HumanID  string
	Output   model.PredictionOutput
	Duration time.Duration
}

// SkipEvent is published when a tick boundary passes while the
// previous tick is still computing.
type SkipEvent struct {
	HumanID   string
	SessionID string
}

// StaleEvent is published when no sample has arrived within the
// dropout timeout and the engine stops emitting predictions.
type StaleEvent struct {
	HumanID    string
	SessionID  string
	LastSample time.Time
}

// ResetEvent is published when a valid sample ends a dropout and the
// belief is reset to its prior under a fresh session.
type ResetEvent struct {
	HumanID   string
	SessionID string
}
