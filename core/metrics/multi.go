package metrics

// MultiSink fans prediction events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTick forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordTick(res []TickResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordTick(res); err != nil {
			return err
		}
	}
	return nil
}

// RecordSample forwards sample events to sinks that support them.
func (m *MultiSink) RecordSample(ev SampleEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SampleRecorder); ok {
			if err := rec.RecordSample(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordBelief forwards belief snapshots to sinks that support them.
func (m *MultiSink) RecordBelief(ev BeliefEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(BeliefRecorder); ok {
			if err := rec.RecordBelief(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSession forwards session lifecycle events to sinks that
// support them.
func (m *MultiSink) RecordSession(ev SessionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SessionRecorder); ok {
			if err := rec.RecordSession(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
