// Package app assembles the stockparity CLI: configuration, logging,
// the shared runner instance, and the cobra command tree around them.
package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailops/stockparity"
	"github.com/retailops/stockparity/internal/cmd/application"
	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/pkg/constants"
	"github.com/retailops/stockparity/pkg/errors"
)

// App carries the CLI's dependencies: build metadata, the loaded
// configuration, the process logger, and a lazily built shared runner.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	mu     sync.RWMutex
	runner stockparity.Stockparity
}

// Ensure App implements the interface commands depend on at compile time.
var _ application.Application = (*App)(nil)

// New builds an App from build metadata, loading configuration from
// the environment. Options override the loaded defaults.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the binary's version string.
func (a *App) Version() string { return a.version }

// Commit returns the git commit the binary was built from.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the CLI configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the process logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the requested --format value.
func (a *App) OutputFormat() string { return a.config.Format }

// ConfigPath resolves the run configuration file: the --config flag when
// set, otherwise stockparity.yaml in the working directory, otherwise
// .stockparity.yaml in the home directory.
func (a *App) ConfigPath() (string, error) {
	if a.config.ConfigFile != "" {
		return a.config.ConfigFile, nil
	}
	if _, err := os.Stat(constants.DefaultConfigName); err == nil {
		return constants.DefaultConfigName, nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, "."+constants.DefaultConfigName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.NewConfigError("app",
		"no run configuration found: pass --config or create "+constants.DefaultConfigName, nil)
}

// RunConfig resolves the config path and loads the run configuration
// from it in one call.
func (a *App) RunConfig() (*config.Config, error) {
	path, err := a.ConfigPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// Stockparity returns the reconciliation runner. With options it
// builds a fresh, uncached runner. Without, it returns the shared
// instance, building it from the resolved run config on first use.
func (a *App) Stockparity(opts ...stockparity.Option) (stockparity.Stockparity, error) {
	if len(opts) > 0 {
		return stockparity.New(opts...)
	}

	a.mu.RLock()
	if a.runner != nil {
		sp := a.runner
		a.mu.RUnlock()
		return sp, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Re-check: another goroutine may have built it between the locks.
	if a.runner != nil {
		return a.runner, nil
	}

	defaults, err := a.defaultRunnerOptions()
	if err != nil {
		return nil, err
	}
	sp, err := stockparity.New(defaults...)
	if err != nil {
		return nil, err
	}

	a.runner = sp
	return sp, nil
}

// Shutdown releases the shared runner's sources. Safe to call when no
// runner was ever built.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	sp := a.runner
	a.mu.RUnlock()

	if sp != nil {
		return sp.Close()
	}
	return nil
}

// defaultRunnerOptions derives the shared runner's options from the
// resolved run config path and the app logger.
func (a *App) defaultRunnerOptions() ([]stockparity.Option, error) {
	path, err := a.ConfigPath()
	if err != nil {
		return nil, err
	}
	return []stockparity.Option{
		stockparity.WithConfigFile(path),
		stockparity.WithLogger(*a.logger),
	}, nil
}

// Option customizes an App during New.
type Option func(*App) error

// WithConfig replaces the loaded CLI configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger replaces the logger built from configuration.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithStockparity seeds the shared runner, letting tests inject a
// stub.
func WithStockparity(sp stockparity.Stockparity) Option {
	return func(a *App) error {
		a.runner = sp
		return nil
	}
}
