// Package metrics defines the interfaces prediction components use to
// record observability events: completed ticks, sample acceptance,
// belief snapshots and session transitions. Concrete sinks live in
// infra/metrics and register themselves in the sink registry; multiple
// configured sinks are combined with NewMultiSink.
package metrics
