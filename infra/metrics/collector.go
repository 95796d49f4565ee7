package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/dronenav/humanpred/core/events"
	coremetrics "github.com/dronenav/humanpred/core/metrics"
	"github.com/dronenav/humanpred/core/tracker"
	"github.com/dronenav/humanpred/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records sample and
// session metrics. It is the only path from those events to the sink;
// the engine records tick and belief metrics directly. It stops when the
// context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.SampleEvent:
					if r, ok := sink.(coremetrics.SampleRecorder); ok {
						_ = r.RecordSample(coremetrics.SampleEvent{
							HumanID:  e.Sample.HumanID,
							Accepted: true,
							Time:     e.Sample.Time,
						})
					}
				case events.RejectEvent:
					if r, ok := sink.(coremetrics.SampleRecorder); ok {
						_ = r.RecordSample(coremetrics.SampleEvent{
							HumanID:  e.Sample.HumanID,
							Accepted: false,
							Reason:   rejectReason(e.Reason),
							Time:     e.Sample.Time,
						})
					}
				case events.SkipEvent:
					if r, ok := sink.(coremetrics.SessionRecorder); ok {
						_ = r.RecordSession(coremetrics.SessionEvent{
							HumanID:   e.HumanID,
							SessionID: e.SessionID,
							Action:    "skip",
							Time:      time.Now(),
						})
					}
				case events.StaleEvent:
					if r, ok := sink.(coremetrics.SessionRecorder); ok {
						_ = r.RecordSession(coremetrics.SessionEvent{
							HumanID:   e.HumanID,
							SessionID: e.SessionID,
							Action:    "stale",
							Time:      time.Now(),
						})
					}
				case events.ResetEvent:
					if r, ok := sink.(coremetrics.SessionRecorder); ok {
						_ = r.RecordSession(coremetrics.SessionEvent{
							HumanID:   e.HumanID,
							SessionID: e.SessionID,
							Action:    "reset",
							Time:      time.Now(),
						})
					}
				}
			}
		}
	}()
}

// rejectReason maps tracker sentinels onto stable label values so the
// metric cardinality does not track error message wording.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, tracker.ErrOutOfOrder):
		return "out_of_order"
	case errors.Is(err, tracker.ErrImplausible):
		return "implausible"
	}
	return "other"
}
