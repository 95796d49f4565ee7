package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements the core Logger interface on rs/zerolog.
// Every line carries the component field so logs from the tracker,
// engine and transport can be told apart.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a logger for the given component. With
// APP_ENV=dev the output uses the human-readable console writer,
// otherwise JSON lines on stdout.
func NewZerologLogger(component string) Logger {
	z := zerolog.New(outputWriter()).With().
		Timestamp().
		Str("component", component).
		Logger()
	return &ZerologLogger{log: z}
}

func outputWriter() io.Writer {
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return os.Stdout
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

// Debugw emits a debug line with structured fields attached.
func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
