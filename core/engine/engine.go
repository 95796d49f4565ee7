package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dronenav/humanpred/core/belief"
	"github.com/dronenav/humanpred/core/events"
	"github.com/dronenav/humanpred/core/logger"
	"github.com/dronenav/humanpred/core/metrics"
	"github.com/dronenav/humanpred/core/model"
	"github.com/dronenav/humanpred/core/occupancy"
	"github.com/dronenav/humanpred/core/sink"
	"github.com/dronenav/humanpred/core/tracker"
	"github.com/dronenav/humanpred/internal/eventbus"
)

// Engine drives the prediction loop for a single human instance: drain
// the latest sample, update the rationality belief, propagate the
// occupancy grids and publish the result. Instances share no mutable
// state, so multiple humans run as independent engines.
type Engine struct {
	cfg     Config
	tracker *tracker.Tracker
	est     belief.Estimator
	prop    *occupancy.Propagator
	pub     sink.Publisher
	bus     eventbus.EventBus
	sink    metrics.MetricsSink
	log     logger.Logger

	sessionID string
	stale     bool
	hasPrev   bool
	prev      model.HumanState
}

// New builds an engine from a validated configuration. Goal priors are
// normalized here so downstream components can rely on them summing
// to 1.
func New(cfg Config, pub sink.Publisher, bus eventbus.EventBus, msink metrics.MetricsSink, log logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if pub == nil {
		return nil, fmt.Errorf("engine: nil publisher")
	}
	goals, err := model.NormalizeGoals(cfg.Goals)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	cfg.Goals = goals
	mode, err := belief.ParseMode(cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	est, err := belief.New(mode, cfg.Geometry, goals, cfg.Support, cfg.Prior)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	prop, err := occupancy.New(cfg.Geometry, goals, cfg.Horizon)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if msink == nil {
		msink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Engine{
		cfg:       cfg,
		tracker:   tracker.New(cfg.MaxSpeedMPS),
		est:       est,
		prop:      prop,
		pub:       pub,
		bus:       bus,
		sink:      msink,
		log:       log,
		sessionID: uuid.NewString(),
	}, nil
}

// SessionID returns the identifier of the current tracking session. A
// new identifier is issued whenever the session restarts after a
// dropout.
func (e *Engine) SessionID() string { return e.sessionID }

// Run processes samples and ticks until the context is canceled. The
// tick period is fixed; when a tick's computation overruns its period
// the queued tick is dropped so stale work never accumulates.
func (e *Engine) Run(ctx context.Context, samples <-chan model.Sample) {
	ticker := time.NewTicker(e.cfg.TickPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s, ok := drain(samples); ok {
				e.HandleSample(s)
			}
			e.Step(time.Now())
			// A tick already queued at this point means the
			// computation overran the period. Freshness beats
			// completeness: drop it.
			select {
			case <-ticker.C:
				e.skip()
			default:
			}
		}
	}
}

// drain empties the channel and returns the most recent sample, if any.
func drain(samples <-chan model.Sample) (model.Sample, bool) {
	var latest model.Sample
	ok := false
	for {
		select {
		case s, open := <-samples:
			if !open {
				return latest, ok
			}
			latest = s
			ok = true
		default:
			return latest, ok
		}
	}
}

// HandleSample folds one raw sample into the tracker and, in adaptive
// mode, the rationality belief. Rejections are absorbed here and never
// abort the loop. Sample and session outcomes reach the metrics sink
// through the event bus collector, not directly; the engine only
// records tick and belief metrics itself.
func (e *Engine) HandleSample(s model.Sample) {
	if e.stale {
		e.restart()
	}
	st, err := e.tracker.Ingest(s)
	if err != nil {
		e.log.Debugf("sample rejected: %v", err)
		e.publishEvent(events.RejectEvent{Sample: s, Reason: err})
		return
	}
	e.publishEvent(events.SampleEvent{Sample: s, State: st})

	if e.hasPrev {
		if err := e.est.Update(e.prev, st); err != nil {
			if errors.Is(err, belief.ErrUnderflow) {
				// Transition inconsistent with every goal; hold the
				// previous belief rather than divide by zero.
				e.log.Debugf("belief update underflow, holding prior belief")
			} else {
				e.log.Warnf("belief update: %v", err)
			}
		} else {
			b := e.est.Belief()
			_ = recordBelief(e.sink, metrics.BeliefEvent{HumanID: e.cfg.HumanID, Mean: b.Mean(), Probs: b.Probs, Time: s.Time})
		}
	}
	e.prev = st
	e.hasPrev = true
}

// Step runs one prediction tick at the given time. It returns the
// published output and true when a forecast was emitted; during
// dropout or before the first accepted sample nothing is emitted.
func (e *Engine) Step(now time.Time) (model.PredictionOutput, bool) {
	st, ok := e.tracker.Current()
	if !ok {
		return model.PredictionOutput{}, false
	}
	if now.Sub(e.tracker.LastAccepted()) > e.cfg.DropoutTimeout {
		if !e.stale {
			e.stale = true
			e.log.Warnf("sensor dropout for %s, session stale", e.cfg.HumanID)
			e.publishEvent(events.StaleEvent{HumanID: e.cfg.HumanID, SessionID: e.sessionID, LastSample: e.tracker.LastAccepted()})
		}
		return model.PredictionOutput{}, false
	}

	start := time.Now()
	slices, err := e.prop.Propagate(st, e.est.Belief(), e.est.GoalWeights())
	if err != nil {
		e.log.Errorf("propagation failed: %v", err)
		return model.PredictionOutput{}, false
	}
	out := model.PredictionOutput{
		ID:        uuid.NewString(),
		HumanID:   e.cfg.HumanID,
		SessionID: e.sessionID,
		Computed:  now,
		Horizon:   e.cfg.Horizon,
		StepDelta: e.cfg.StepDelta,
		Geometry:  e.cfg.Geometry,
		Slices:    slices,
	}
	published := true
	if err := e.pub.PublishPrediction(out); err != nil {
		published = false
		e.log.Errorf("publish prediction: %v", err)
	}
	dur := time.Since(start)
	e.publishEvent(events.TickEvent{HumanID: e.cfg.HumanID, Output: out, Duration: dur})
	if err := e.sink.RecordTick([]metrics.TickResult{{
		HumanID:   e.cfg.HumanID,
		SessionID: e.sessionID,
		Horizon:   e.cfg.Horizon,
		Duration:  dur,
		Published: published,
		Time:      now,
	}}); err != nil {
		e.log.Errorf("record tick metrics: %v", err)
	}
	return out, published
}

// restart begins a fresh session after a dropout. Evidence accumulated
// before the dropout is considered unreliable, so both the tracker and
// the belief return to their initial state.
func (e *Engine) restart() {
	e.stale = false
	e.hasPrev = false
	e.sessionID = uuid.NewString()
	e.tracker.Reset()
	e.est.Reset()
	e.log.Infof("session restarted for %s", e.cfg.HumanID)
	e.publishEvent(events.ResetEvent{HumanID: e.cfg.HumanID, SessionID: e.sessionID})
}

func (e *Engine) skip() {
	e.log.Warnf("tick overran period, skipping next tick for %s", e.cfg.HumanID)
	e.publishEvent(events.SkipEvent{HumanID: e.cfg.HumanID, SessionID: e.sessionID})
}

func (e *Engine) publishEvent(ev eventbus.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

func recordBelief(s metrics.MetricsSink, ev metrics.BeliefEvent) error {
	if r, ok := s.(metrics.BeliefRecorder); ok {
		return r.RecordBelief(ev)
	}
	return nil
}
