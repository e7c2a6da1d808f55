package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/retailops/stockparity/pkg/constants"
	"github.com/rs/zerolog"
)

// Config describes how log events are leveled, formatted, and routed.
// The zero value behaves like DefaultConfig.
type Config struct {
	// Level is the minimum level to emit: trace, debug, info, warn,
	// error, fatal, or disabled. Unknown names fall back to info.
	Level string

	// Format selects the encoding: json, console, or auto. Auto picks
	// console when stderr is a terminal and json otherwise.
	Format string

	// Output routes events to stderr, stdout, discard, or a file path.
	Output string

	// TimeFormat names the console timestamp layout: kitchen, rfc3339,
	// rfc3339nano, unix, stamp, or a Go reference layout.
	TimeFormat string

	// NoColor disables ANSI colors in console output.
	NoColor bool

	// AddCaller annotates events with file:line. Debug level implies it.
	AddCaller bool
}

// DefaultConfig returns the baseline configuration: info level, auto
// format on stderr, kitchen timestamps.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// FromEnv returns the default configuration overridden by the LOG_LEVEL,
// LOG_FORMAT, LOG_OUTPUT, LOG_TIME_FORMAT, and LOG_CALLER environment
// variables. Setting DEBUG is a shortcut for LOG_LEVEL=debug.
func FromEnv() *Config {
	cfg := DefaultConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	if output := os.Getenv("LOG_OUTPUT"); output != "" {
		cfg.Output = output
	}
	if stamp := os.Getenv("LOG_TIME_FORMAT"); stamp != "" {
		cfg.TimeFormat = stamp
	}
	if os.Getenv("LOG_CALLER") == "true" {
		cfg.AddCaller = true
	}
	return cfg
}

// NewLoggerFromConfig creates a logger from the configuration and sets
// the global level to match. A nil configuration uses the defaults.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := cfg.level()
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(cfg.writer()).
		Level(level).
		With().
		Timestamp().
		Logger()

	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// Configure replaces the default logger with one built from cfg.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// ConfigureFromEnv replaces the default logger with one built from the
// LOG_* environment variables.
func ConfigureFromEnv() {
	Configure(FromEnv())
}

// level resolves the configured level name, accepting the common
// aliases warning, none, and off.
func (c *Config) level() zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(c.Level))
	switch name {
	case "warning":
		name = "warn"
	case "none", "off":
		name = "disabled"
	}
	if name != "" {
		if level, err := zerolog.ParseLevel(name); err == nil {
			return level
		}
	}
	return zerolog.InfoLevel
}

// destination resolves the configured output target. An unwritable file
// path falls back to stderr rather than dropping events.
func (c *Config) destination() io.Writer {
	switch strings.ToLower(c.Output) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	}

	file, err := os.OpenFile(c.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr
	}
	return file
}

// writer wraps the destination in a console writer when the resolved
// format asks for one.
func (c *Config) writer() io.Writer {
	out := c.destination()

	format := strings.ToLower(c.Format)
	if format == "" || format == "auto" {
		if out == os.Stderr && stderrIsTerminal() {
			format = "console"
		} else {
			format = "json"
		}
	}

	switch format {
	case "console", "pretty":
		return zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: c.stamp(),
			NoColor:    c.NoColor,
		}
	default:
		return out
	}
}

// stamp resolves the console timestamp layout. Strings containing a Go
// reference time pass through as custom layouts.
func (c *Config) stamp() string {
	switch strings.ToLower(c.TimeFormat) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "rfc3339nano":
		return time.RFC3339Nano
	case "unix", "epoch":
		return ""
	case "stamp":
		return time.Stamp
	default:
		if strings.Contains(c.TimeFormat, "2006") || strings.Contains(c.TimeFormat, "15:04") {
			return c.TimeFormat
		}
		return time.Kitchen
	}
}
