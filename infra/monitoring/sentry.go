// Package monitoring wires the Sentry SDK behind the core Monitor
// interface so the rest of the service never imports sentry-go directly.
package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dronenav/humanpred/config"
	coremon "github.com/dronenav/humanpred/core/monitoring"
)

// NewSentryMonitor builds a Monitor backed by Sentry. An empty DSN
// disables error reporting and yields the no-op monitor.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	opts := sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
	}
	if err := sentry.Init(opts); err != nil {
		return nil, err
	}
	return sentryMonitor{}, nil
}

type sentryMonitor struct{}

func (sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	if len(tags) == 0 {
		sentry.CaptureException(err)
		return
	}
	// A cloned scope keeps per-call tags from leaking into other events.
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// Recover reports the panic and re-raises it so the process still dies.
func (sentryMonitor) Recover() {
	r := recover()
	if r == nil {
		return
	}
	sentry.CurrentHub().Recover(r)
	sentry.Flush(2 * time.Second)
	panic(r)
}

func (sentryMonitor) Flush(timeout time.Duration) { sentry.Flush(timeout) }
