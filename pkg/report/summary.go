package report

import (
	"fmt"
	"time"

	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/reconcile"
)

// SourceStats counts one source's records through a run.
type SourceStats struct {
	Source     string `json:"source" yaml:"source"`
	Fetched    int    `json:"fetched" yaml:"fetched"`
	Normalized int    `json:"normalized" yaml:"normalized"`
	Skipped    int    `json:"skipped" yaml:"skipped"`
}

// Summary is the final accounting for a reconciliation run. Every key
// lands in exactly one of the four state counts, so MatchedWithin,
// Mismatched, OMSOnly, and DWHOnly sum to TotalKeys.
type Summary struct {
	RunID             string        `json:"run_id" yaml:"run_id"`
	Window            string        `json:"window" yaml:"window"`
	Sources           []SourceStats `json:"sources" yaml:"sources"`
	TotalKeys         int           `json:"total_keys" yaml:"total_keys"`
	MatchedWithin     int           `json:"matched_within" yaml:"matched_within"`
	Mismatched        int           `json:"mismatched" yaml:"mismatched"`
	OMSOnly           int           `json:"oms_only" yaml:"oms_only"`
	DWHOnly           int           `json:"dwh_only" yaml:"dwh_only"`
	MetricsCompared   int           `json:"metrics_compared" yaml:"metrics_compared"`
	MetricsMismatched int           `json:"metrics_mismatched" yaml:"metrics_mismatched"`
	MetricsMissing    int           `json:"metrics_missing" yaml:"metrics_missing"`
	DiffRows          int           `json:"diff_rows" yaml:"diff_rows"`
	Artifact          string        `json:"artifact" yaml:"artifact"`
	Elapsed           string        `json:"elapsed" yaml:"elapsed"`
	Findings          bool          `json:"findings" yaml:"findings"`
}

// TotalSkipped sums the skipped record counts across sources.
func (s *Summary) TotalSkipped() int {
	total := 0
	for _, src := range s.Sources {
		total += src.Skipped
	}
	return total
}

// String returns the one-line run summary.
func (s *Summary) String() string {
	line := fmt.Sprintf("run %s: %d keys (%d within, %d mismatched, %d oms-only, %d dwh-only), %d diff rows",
		s.RunID, s.TotalKeys, s.MatchedWithin, s.Mismatched, s.OMSOnly, s.DWHOnly, s.DiffRows)
	if skipped := s.TotalSkipped(); skipped > 0 {
		line += fmt.Sprintf(", %d records skipped", skipped)
	}
	if s.Elapsed != "" {
		line += " in " + s.Elapsed
	}
	return line
}

// SummaryBuilder assembles a Summary incrementally during a run.
type SummaryBuilder struct {
	summary *Summary
	started time.Time
}

// NewSummaryBuilder starts accounting for a run.
func NewSummaryBuilder(runID string) *SummaryBuilder {
	return &SummaryBuilder{
		summary: &Summary{RunID: runID},
		started: time.Now(),
	}
}

// WithWindow records the snapshot window.
func (b *SummaryBuilder) WithWindow(w inventory.Window) *SummaryBuilder {
	b.summary.Window = w.String()
	return b
}

// WithSource appends one source's record counts.
func (b *SummaryBuilder) WithSource(name string, fetched, normalized, skipped int) *SummaryBuilder {
	b.summary.Sources = append(b.summary.Sources, SourceStats{
		Source:     name,
		Fetched:    fetched,
		Normalized: normalized,
		Skipped:    skipped,
	})
	return b
}

// WithResult folds in the key and metric counts.
func (b *SummaryBuilder) WithResult(result *reconcile.Result) *SummaryBuilder {
	s := result.Summary
	b.summary.TotalKeys = s.TotalKeys
	b.summary.MatchedWithin = s.Matched - s.KeysMismatched
	b.summary.Mismatched = s.KeysMismatched
	b.summary.OMSOnly = s.SourceAOnly
	b.summary.DWHOnly = s.SourceBOnly
	b.summary.MetricsCompared = s.MetricsCompared
	b.summary.MetricsMismatched = s.MetricsMismatched
	b.summary.MetricsMissing = s.MetricsMissing
	b.summary.Findings = result.HasFindings()
	return b
}

// WithArtifact records where the diff rows were written.
func (b *SummaryBuilder) WithArtifact(path string, rows int) *SummaryBuilder {
	b.summary.Artifact = path
	b.summary.DiffRows = rows
	return b
}

// Build finalizes the summary, stamping the elapsed time.
func (b *SummaryBuilder) Build() *Summary {
	b.summary.Elapsed = time.Since(b.started).Round(time.Millisecond).String()
	return b.summary
}
