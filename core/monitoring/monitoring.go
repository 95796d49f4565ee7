// Package monitoring defines the error-reporting boundary. Components
// report failures through the package-level helpers; the concrete
// backend (Sentry in production, a no-op otherwise) is installed once
// at startup.
package monitoring

import "time"

// Monitor receives errors and panics for out-of-band reporting.
type Monitor interface {
	// CaptureException records the error. Tags identify the component
	// and subject, e.g. {"component": "mqtt", "human_id": "h1"}.
	CaptureException(err error, tags map[string]string)
	// Recover is meant to be deferred in goroutines; it forwards a
	// panic to the backend and re-raises it.
	Recover()
	// Flush blocks until buffered events are delivered or the timeout
	// expires.
	Flush(timeout time.Duration)
}

// NopMonitor discards everything.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init installs the process-wide monitor. Called once at startup,
// before any goroutine reports.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException records the error with optional tags on the
// installed monitor.
func CaptureException(err error, tags map[string]string) {
	current.CaptureException(err, tags)
}

// Recover forwards a goroutine panic to the installed monitor.
func Recover() {
	current.Recover()
}

// Flush drains buffered events before shutdown.
func Flush(d time.Duration) {
	current.Flush(d)
}
