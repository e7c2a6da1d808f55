// Package stockparity reconciles inventory positions between an order
// management system and an analytical warehouse. It provides a high-level
// interface over the reconciliation pipeline: concurrent source fetches,
// declarative normalization, a keyed outer join, tolerance comparison,
// and diff artifact reporting.
//
// A run compares the two sides per (sku, location_id) within a snapshot
// window and classifies every metric deviation against the configured
// tolerance. Findings are a normal outcome, surfaced as a distinct error
// type so callers can tell real discrepancies from execution failures.
//
// Example usage:
//
//	// Create an instance from a run configuration file
//	sp, err := stockparity.New(stockparity.WithConfigFile("stockparity.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sp.Close()
//
//	// Execute one reconciliation
//	result, err := sp.Run(ctx)
//	if err != nil && !errors.IsFindings(err) {
//	    log.Fatal(err)
//	}
//
//	// Inspect the outcome
//	fmt.Println(result.Summary.String())
//	for _, row := range result.Rows {
//	    fmt.Printf("%s/%s %s: %s\n", row.SKU, row.LocationID, row.Metric, row.Status)
//	}
//
//	// Or drive it with custom sources instead of configured adapters
//	sp, err = stockparity.New(
//	    stockparity.WithConfig(cfg),
//	    stockparity.WithSource(omsSource),
//	    stockparity.WithSource(dwhSource),
//	)
package stockparity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/pkg/logging"
	"github.com/retailops/stockparity/pkg/sources"
	"github.com/rs/zerolog"
)

// Compile-time interface check to ensure proper implementation.
var _ Stockparity = (*runner)(nil)

// Stockparity runs inventory reconciliations over configured sources.
type Stockparity interface {
	// Run executes one reconciliation over the configured snapshot
	// window. The returned error is a FindingsError when the sources
	// disagree; the Result is populated either way.
	Run(ctx context.Context) (*Result, error)

	// Sources returns the source registry. Registered sources take
	// precedence over adapters built from configuration.
	Sources() *sources.Registry

	// Close releases every registered source.
	Close() error
}

// runner is the internal implementation of the Stockparity interface.
type runner struct {
	config   *config.Config
	registry *sources.Registry
	logger   zerolog.Logger
	newRunID func() string
	now      func() time.Time
}

// New creates a Stockparity instance with the given options. Without
// WithConfig or WithConfigFile the embedded defaults apply, which
// require both sources to be registered via WithSource.
func New(opts ...Option) (Stockparity, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	r := &runner{
		config:   o.config,
		registry: sources.NewRegistry(),
		logger:   *logging.Default(),
		newRunID: uuid.NewString,
		now:      o.now,
	}
	if r.config == nil {
		r.config = config.Default()
	}
	if o.logger != nil {
		r.logger = *o.logger
	}
	if o.runID != "" {
		id := o.runID
		r.newRunID = func() string { return id }
	}
	for _, src := range o.sources {
		r.registry.Set(src.ID(), src)
	}
	return r, nil
}

// Sources returns the source registry.
func (r *runner) Sources() *sources.Registry {
	return r.registry
}

// Close releases every registered source. Adapters built from
// configuration during a run are cleaned up by the run itself.
func (r *runner) Close() error {
	return r.registry.Cleanup()
}
