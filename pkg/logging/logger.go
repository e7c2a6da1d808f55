// Package logging provides structured logging for the stockparity system
// using zerolog. Runs emit JSON events in production and human-readable
// console lines when attached to a terminal; every event carries a
// timestamp and whatever run, source, and metric fields the caller has
// bound.
//
// Example usage:
//
//	// Log through the default logger
//	log := logging.Default()
//	log.Info().Str("source", "oms").Int("records", 1200).Msg("Fetched records")
//
//	// Bind run context once, log everywhere
//	ctx := logging.WithRunID(context.Background(), runID)
//	logging.FromContext(ctx).Debug().Msg("Normalizing")
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the process-wide logger. It starts from the LOG_*
// environment and can be replaced with SetDefault.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = NewLoggerFromConfig(FromEnv())
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default global logger. zerolog's own global
// logger is kept in step so log.Ctx fallbacks agree.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New creates a JSON logger on the given writer at the global level.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human-readable logger on stderr.
func NewConsole() zerolog.Logger {
	return New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	})
}

// NewJSON creates a structured JSON logger. A nil writer logs to stderr.
func NewJSON(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return New(w)
}

// With creates a child context on the default logger for binding fields.
func With() zerolog.Context {
	return defaultLogger.With()
}

// Level creates a child of the default logger at the given level.
func Level(level zerolog.Level) zerolog.Logger {
	return defaultLogger.Level(level)
}

// Debug starts a debug event on the default logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error event on the default logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// Fatal starts a fatal event on the default logger; the process exits
// after the event is written.
func Fatal() *zerolog.Event {
	return defaultLogger.Fatal()
}

// WithLevel starts an event at a level chosen at runtime.
func WithLevel(level zerolog.Level) *zerolog.Event {
	return defaultLogger.WithLevel(level)
}

// Err starts an error-or-info event carrying err, following zerolog's
// convention of logging nil errors at info.
func Err(err error) *zerolog.Event {
	return defaultLogger.Err(err)
}

// stderrIsTerminal reports whether stderr is attached to a terminal,
// which selects console output when the format is auto.
func stderrIsTerminal() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
