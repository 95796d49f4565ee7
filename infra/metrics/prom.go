package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/dronenav/humanpred/core/metrics"
)

// PromSink records prediction events in Prometheus metrics.
type PromSink struct {
	ticks    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	samples  *prometheus.CounterVec
	belief   *prometheus.GaugeVec
	sessions *prometheus.CounterVec
}

// NewPromSink registers prediction metrics on the default Prometheus
// registerer. The metrics HTTP server is started separately.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ticks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_ticks_total",
		Help: "Total number of completed prediction ticks",
	}, []string{"human_id", "published"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "prediction_tick_duration_seconds",
		Help:    "Time spent computing one prediction tick",
		Buckets: prometheus.DefBuckets,
	}, []string{"human_id"})
	samples := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_samples_total",
		Help: "Raw samples ingested, by acceptance and rejection reason",
	}, []string{"human_id", "accepted", "reason"})
	belief := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "prediction_rationality_mean",
		Help: "Expected rationality under the current belief",
	}, []string{"human_id"})
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prediction_session_events_total",
		Help: "Session lifecycle events (stale, reset, skip)",
	}, []string{"human_id", "action"})

	s := &PromSink{ticks: ticks, latency: latency, samples: samples, belief: belief, sessions: sessions}
	for _, c := range []prometheus.Collector{ticks, latency, samples, belief, sessions} {
		if err := register(reg, c, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// register tolerates re-registration so multiple sinks can share the
// default registerer in tests.
func register(reg prometheus.Registerer, c prometheus.Collector, s *PromSink) error {
	err := reg.Register(c)
	if err == nil {
		return nil
	}
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if !ok {
		return err
	}
	switch c {
	case s.ticks:
		s.ticks = are.ExistingCollector.(*prometheus.CounterVec)
	case s.latency:
		s.latency = are.ExistingCollector.(*prometheus.HistogramVec)
	case s.samples:
		s.samples = are.ExistingCollector.(*prometheus.CounterVec)
	case s.belief:
		s.belief = are.ExistingCollector.(*prometheus.GaugeVec)
	case s.sessions:
		s.sessions = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return nil
}

// RecordTick increments the tick counter and observes the latency.
func (s *PromSink) RecordTick(res []coremetrics.TickResult) error {
	for _, r := range res {
		s.ticks.WithLabelValues(r.HumanID, strconv.FormatBool(r.Published)).Inc()
		s.latency.WithLabelValues(r.HumanID).Observe(r.Duration.Seconds())
	}
	return nil
}

// RecordSample counts sample ingestion outcomes.
func (s *PromSink) RecordSample(ev coremetrics.SampleEvent) error {
	reason := ev.Reason
	if ev.Accepted {
		reason = ""
	}
	s.samples.WithLabelValues(ev.HumanID, strconv.FormatBool(ev.Accepted), reason).Inc()
	return nil
}

// RecordBelief sets the expected-rationality gauge.
func (s *PromSink) RecordBelief(ev coremetrics.BeliefEvent) error {
	s.belief.WithLabelValues(ev.HumanID).Set(ev.Mean)
	return nil
}

// RecordSession counts session lifecycle transitions.
func (s *PromSink) RecordSession(ev coremetrics.SessionEvent) error {
	s.sessions.WithLabelValues(ev.HumanID, ev.Action).Inc()
	return nil
}
