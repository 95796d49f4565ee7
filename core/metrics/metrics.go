package metrics

import "time"

// TickResult represents one completed prediction tick to be recorded.
type TickResult struct {
	HumanID   string
	SessionID string
	Horizon   int
	Duration  time.Duration
	Published bool
	Time      time.Time
}

// MetricsSink records prediction ticks for observability purposes.
type MetricsSink interface {
	RecordTick(results []TickResult) error
}

// SampleEvent captures the outcome of ingesting one raw sensor sample.
type SampleEvent struct {
	HumanID  string
	Accepted bool
	Reason   string
	Time     time.Time
}

// SampleRecorder records sample ingestion outcomes.
type SampleRecorder interface {
	RecordSample(ev SampleEvent) error
}

// BeliefEvent is a snapshot of the rationality belief after an update.
type BeliefEvent struct {
	HumanID string
	Mean    float64
	Probs   []float64
	Time    time.Time
}

// BeliefRecorder records belief snapshots.
type BeliefRecorder interface {
	RecordBelief(ev BeliefEvent) error
}

// SessionEvent captures session lifecycle transitions. Action is
// "stale" when a dropout silences the engine, "reset" when a fresh
// sample restarts the session, or "skip" when a tick is dropped.
type SessionEvent struct {
	HumanID   string
	SessionID string
	Action    string
	Time      time.Time
}

// SessionRecorder records session lifecycle events.
type SessionRecorder interface {
	RecordSession(ev SessionEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordTick([]TickResult) error { return nil }

func (NopSink) RecordSample(SampleEvent) error   { return nil }
func (NopSink) RecordBelief(BeliefEvent) error   { return nil }
func (NopSink) RecordSession(SessionEvent) error { return nil }
