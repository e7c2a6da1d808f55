package report_test

import (
	"testing"
	"time"

	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/retailops/stockparity/pkg/reconcile"
	"github.com/retailops/stockparity/pkg/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)

func record(sku, loc string, metrics map[inventory.Metric]string) inventory.Record {
	rec := inventory.Record{SKU: sku, LocationID: loc, AsOf: asOf}
	for m, v := range metrics {
		qty := decimal.RequireFromString(v)
		switch m {
		case inventory.MetricOnHand:
			rec.OnHand = qty
		case inventory.MetricReserved:
			rec.Reserved = qty
		case inventory.MetricAvailable:
			rec.Available = qty
		case inventory.MetricDamaged:
			rec.Damaged = qty
		}
		rec.Supplied.Add(m)
	}
	return rec
}

// fixtureResult reconciles a small scenario covering every row status:
// a metric mismatch, both one-sided key flavors, an undefined relative
// delta, and a one-sided metric.
func fixtureResult(t *testing.T) *reconcile.Result {
	t.Helper()

	oms := []inventory.Record{
		record("X1", "L1", map[inventory.Metric]string{
			inventory.MetricOnHand:    "10",
			inventory.MetricAvailable: "8",
		}),
		record("X2", "L2", map[inventory.Metric]string{
			inventory.MetricOnHand: "5",
		}),
		record("X4", "L1", map[inventory.Metric]string{
			inventory.MetricOnHand:   "0",
			inventory.MetricReserved: "2",
		}),
	}
	dwh := []inventory.Record{
		record("X1", "L1", map[inventory.Metric]string{
			inventory.MetricOnHand:    "10",
			inventory.MetricAvailable: "7",
		}),
		record("X3", "L1", map[inventory.Metric]string{
			inventory.MetricOnHand: "7",
		}),
		record("X4", "L1", map[inventory.Metric]string{
			inventory.MetricOnHand: "5",
		}),
	}

	r, err := reconcile.New()
	require.NoError(t, err)
	return r.Reconcile(oms, dwh)
}

func TestBuild(t *testing.T) {
	rows := report.Build(fixtureResult(t))

	want := []report.Row{
		{SKU: "X1", LocationID: "L1", Metric: "available", OMSValue: "8", DWHValue: "7",
			Delta: "-1", PctDelta: "-0.125", Status: report.StatusMismatch},
		{SKU: "X2", LocationID: "L2", Status: report.StatusOMSOnly},
		{SKU: "X3", LocationID: "L1", Status: report.StatusDWHOnly},
		{SKU: "X4", LocationID: "L1", Metric: "on_hand", OMSValue: "0", DWHValue: "5",
			Delta: "5", PctDelta: reconcile.PctUndefined, Status: report.StatusMismatch},
		{SKU: "X4", LocationID: "L1", Metric: "reserved", OMSValue: "2", Status: report.StatusMissingMetric},
	}
	assert.Equal(t, want, rows)
}

func TestBuildSkipsCleanRuns(t *testing.T) {
	oms := []inventory.Record{record("X1", "L1", map[inventory.Metric]string{
		inventory.MetricOnHand: "10",
	})}

	r, err := reconcile.New()
	require.NoError(t, err)

	rows := report.Build(r.Reconcile(oms, oms))
	assert.Empty(t, rows)
}

func TestHeaderMatchesRecordShape(t *testing.T) {
	assert.Len(t, report.Row{}.Record(), len(report.Header()))
}

func TestSummaryBuilder(t *testing.T) {
	result := fixtureResult(t)
	rows := report.Build(result)

	summary := report.NewSummaryBuilder("run-1").
		WithWindow(inventory.Day(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.UTC)).
		WithSource("oms", 3, 3, 0).
		WithSource("dwh", 4, 3, 1).
		WithResult(result).
		WithArtifact("out/diff.csv", len(rows)).
		Build()

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, 4, summary.TotalKeys)
	assert.Equal(t, 0, summary.MatchedWithin)
	assert.Equal(t, 2, summary.Mismatched)
	assert.Equal(t, 1, summary.OMSOnly)
	assert.Equal(t, 1, summary.DWHOnly)
	assert.Equal(t, summary.TotalKeys,
		summary.MatchedWithin+summary.Mismatched+summary.OMSOnly+summary.DWHOnly)
	assert.Equal(t, 4, summary.MetricsCompared)
	assert.Equal(t, 3, summary.MetricsMismatched)
	assert.Equal(t, 1, summary.MetricsMissing)
	assert.Equal(t, 5, summary.DiffRows)
	assert.Equal(t, 1, summary.TotalSkipped())
	assert.True(t, summary.Findings)
	assert.NotEmpty(t, summary.Elapsed)

	line := summary.String()
	assert.Contains(t, line, "run run-1")
	assert.Contains(t, line, "4 keys")
	assert.Contains(t, line, "2 mismatched")
	assert.Contains(t, line, "5 diff rows")
	assert.Contains(t, line, "1 records skipped")
}
