package logger

import corelogger "github.com/dronenav/humanpred/core/logger"

// Logger mirrors the core logger interface for convenience.
type Logger = corelogger.Logger

// NopLogger is re-exported from the core package for tests.
type NopLogger = corelogger.NopLogger

// New returns a Logger for the given component. The environment is
// detected via the APP_ENV variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}
