// Package application defines the interface subcommands program
// against.
//
// Commands receive an Application instead of the concrete App type
// from cmd/stockparity/app, so command logic can be exercised in tests
// through [Mock] without assembling a full CLI app. The interface is
// read-only: commands consume configuration, the runner, and build
// metadata, and never mutate application state.
package application

import (
	"github.com/rs/zerolog"

	"github.com/retailops/stockparity"
	"github.com/retailops/stockparity/internal/config"
)

// Application is what a subcommand may ask of the CLI shell. All
// methods are safe for concurrent use.
type Application interface {
	// RunConfig loads and validates the reconciliation run config from
	// the resolved config file.
	RunConfig() (*config.Config, error)

	// ConfigPath reports which file RunConfig would load: the --config
	// flag when set, otherwise the first match in the working or home
	// directory.
	ConfigPath() (string, error)

	// Stockparity returns the reconciliation runner. Without options
	// it hands out a lazily built shared instance; with options it
	// builds a fresh, uncached one.
	Stockparity(opts ...stockparity.Option) (stockparity.Stockparity, error)

	// Logger returns the process logger commands should write through.
	Logger() *zerolog.Logger

	// OutputFormat is the rendering requested with --format: table,
	// json, yaml, or csv.
	OutputFormat() string

	// Version, Commit, Date, and BuiltBy echo the build metadata
	// stamped into the binary.
	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
