// Package reconcile joins inventory records from two sources on
// (sku, location_id) and evaluates per-metric deviations against a
// configurable tolerance.
//
// The package is the pure core of a reconciliation run: it never
// fetches, parses, or writes anything. Records are expected to be
// normalized already. A run flows through two stages, a full outer
// join producing one Pair per key, then a metric-by-metric comparison
// of every matched pair. Results carry enough detail to render both a
// summary and a per-metric discrepancy report, and reruns over the
// same inputs produce identical results.
package reconcile

import (
	"fmt"

	"github.com/retailops/stockparity/pkg/inventory"
)

// Reconciler joins two normalized record sets and compares every
// matched key metric by metric.
type Reconciler interface {
	// Reconcile runs the join and comparison stages. Source A records
	// come first; deltas are reported as B minus A.
	Reconcile(a, b []inventory.Record) *Result
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	joiner     *Joiner
	comparator *Comparator
}

// Option configures a Reconciler.
type Option func(*reconciler) error

// New creates a Reconciler with options. The default configuration
// joins all records case-sensitively and accepts only exact matches.
func New(opts ...Option) (Reconciler, error) {
	comparator, err := NewComparator(Exact())
	if err != nil {
		return nil, err
	}

	r := &reconciler{
		joiner:     NewJoiner(),
		comparator: comparator,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// WithJoiner sets the join engine.
func WithJoiner(j *Joiner) Option {
	return func(r *reconciler) error {
		if j == nil {
			return fmt.Errorf("joiner cannot be nil")
		}
		r.joiner = j
		return nil
	}
}

// WithComparator sets the tolerance comparator.
func WithComparator(c *Comparator) Option {
	return func(r *reconciler) error {
		if c == nil {
			return fmt.Errorf("comparator cannot be nil")
		}
		r.comparator = c
		return nil
	}
}

// Reconcile runs the join and comparison stages over the two record
// sets and summarizes the outcome.
func (r *reconciler) Reconcile(a, b []inventory.Record) *Result {
	pairs := r.joiner.Join(a, b)

	keys := make([]KeyResult, 0, len(pairs))
	for _, pair := range pairs {
		keys = append(keys, KeyResult{
			Pair:        pair,
			Comparisons: r.comparator.Compare(pair),
		})
	}
	return &Result{Keys: keys, Summary: summarize(keys)}
}
