package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/retailops/stockparity/pkg/logging"
)

// NewLogger builds the CLI logger from the application configuration.
// Caller info is attached at debug and trace so source locations show
// up while troubleshooting a run.
func NewLogger(config *Config) zerolog.Logger {
	level := resolveLevel(config)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	})
}

// resolveLevel picks the effective level. An explicit --log-level (or
// LOG_LEVEL) wins, then -q, then -v, then info.
func resolveLevel(config *Config) string {
	if config.LogLevel != "" {
		normalized := normalizeLevel(config.LogLevel)
		if normalized != config.LogLevel {
			fmt.Fprintf(os.Stderr, "Warning: unknown log level %q, falling back to %q\n", config.LogLevel, normalized)
		}
		return normalized
	}

	switch {
	case config.Verbose && config.Quiet:
		fmt.Fprintf(os.Stderr, "Warning: --verbose and --quiet both set, --quiet wins\n")
		return "warn"
	case config.Quiet:
		return "warn"
	case config.Verbose:
		return "debug"
	}
	return "info"
}

// normalizeLevel maps anything outside the five level names to info.
func normalizeLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	}
	return "info"
}
