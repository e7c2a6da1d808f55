package reconcile

import (
	"fmt"
	"strings"

	"github.com/retailops/stockparity/pkg/errors"
)

// KeyResult pairs a joined key with its metric comparisons.
type KeyResult struct {
	Pair        Pair
	Comparisons []MetricComparison
}

// Mismatched reports whether any comparison for the key is out of
// tolerance.
func (k KeyResult) Mismatched() bool {
	for _, c := range k.Comparisons {
		if !c.Within {
			return true
		}
	}
	return false
}

// Summary aggregates key and metric counts for a reconciliation run.
type Summary struct {
	TotalKeys         int
	Matched           int
	SourceAOnly       int
	SourceBOnly       int
	KeysMismatched    int
	MetricsCompared   int
	MetricsMismatched int
	MetricsMissing    int
}

// Result is the complete outcome of a reconciliation run. Keys are
// ordered by sku then location_id.
type Result struct {
	Keys    []KeyResult
	Summary Summary
}

// HasFindings reports whether the run detected any discrepancy.
func (r *Result) HasFindings() bool {
	s := r.Summary
	return s.KeysMismatched > 0 || s.SourceAOnly > 0 || s.SourceBOnly > 0
}

// Err returns a FindingsError describing the discrepancies, or nil
// when the sources agree.
func (r *Result) Err() error {
	if !r.HasFindings() {
		return nil
	}
	s := r.Summary
	return errors.NewFindingsError(s.KeysMismatched, s.SourceAOnly, s.SourceBOnly)
}

// String returns a human-readable summary of the run.
func (r *Result) String() string {
	s := r.Summary
	if !r.HasFindings() {
		return fmt.Sprintf("Reconciled %d keys: sources agree", s.TotalKeys)
	}

	var parts []string
	if s.KeysMismatched > 0 {
		parts = append(parts, fmt.Sprintf("%d mismatched", s.KeysMismatched))
	}
	if s.SourceAOnly > 0 {
		parts = append(parts, fmt.Sprintf("%d missing from source B", s.SourceAOnly))
	}
	if s.SourceBOnly > 0 {
		parts = append(parts, fmt.Sprintf("%d missing from source A", s.SourceBOnly))
	}
	return fmt.Sprintf("Reconciled %d keys: %s", s.TotalKeys, strings.Join(parts, ", "))
}

// summarize computes run statistics from per-key results.
func summarize(keys []KeyResult) Summary {
	var s Summary
	s.TotalKeys = len(keys)
	for _, k := range keys {
		switch k.Pair.State {
		case StateMatched:
			s.Matched++
		case StateSourceAOnly:
			s.SourceAOnly++
		case StateSourceBOnly:
			s.SourceBOnly++
		}

		mismatched := false
		for _, c := range k.Comparisons {
			s.MetricsCompared++
			if c.Missing() {
				s.MetricsMissing++
			}
			if !c.Within {
				s.MetricsMismatched++
				mismatched = true
			}
		}
		if mismatched {
			s.KeysMismatched++
		}
	}
	return s
}
