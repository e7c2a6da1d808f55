// Package report turns reconciliation results into the run artifact
// and summary.
//
// Rows are pre-rendered to strings so the CSV, XLSX, and JSONL writers
// emit identical content, and identical inputs always produce a
// byte-identical artifact.
package report

import (
	"github.com/retailops/stockparity/pkg/reconcile"
	"github.com/shopspring/decimal"
)

// Status classifies one diff row.
type Status string

const (
	// StatusMismatch marks a metric deviation beyond tolerance.
	StatusMismatch Status = "mismatch"
	// StatusMissingMetric marks a metric supplied by only one side.
	StatusMissingMetric Status = "missing_metric"
	// StatusOMSOnly marks a key absent from the warehouse side.
	StatusOMSOnly Status = "oms_only"
	// StatusDWHOnly marks a key absent from the order-management side.
	StatusDWHOnly Status = "dwh_only"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Row is one line of the diff artifact. One-sided keys leave the
// metric and value columns empty; one-sided metrics leave the absent
// side and both delta columns empty.
type Row struct {
	SKU        string `json:"sku"`
	LocationID string `json:"location_id"`
	Metric     string `json:"metric"`
	OMSValue   string `json:"oms_value"`
	DWHValue   string `json:"dwh_value"`
	Delta      string `json:"delta"`
	PctDelta   string `json:"pct_delta"`
	Status     Status `json:"status"`
}

// Header returns the artifact column names in output order.
func Header() []string {
	return []string{"sku", "location_id", "metric", "oms_value", "dwh_value", "delta", "pct_delta", "status"}
}

// Record returns the row rendered as artifact columns.
func (r Row) Record() []string {
	return []string{r.SKU, r.LocationID, r.Metric, r.OMSValue, r.DWHValue, r.Delta, r.PctDelta, string(r.Status)}
}

// Build converts a reconciliation result into ordered diff rows. Only
// findings produce rows: within-tolerance metrics and fully matched
// keys are counted in the summary but never rendered. Row order
// follows the result order, sku then location_id, with metrics in
// canonical order inside a key.
func Build(result *reconcile.Result) []Row {
	var rows []Row
	for _, key := range result.Keys {
		rows = append(rows, buildKey(key)...)
	}
	return rows
}

func buildKey(key reconcile.KeyResult) []Row {
	base := Row{
		SKU:        key.Pair.Key.SKU,
		LocationID: key.Pair.Key.LocationID,
	}

	switch key.Pair.State {
	case reconcile.StateSourceAOnly:
		base.Status = StatusOMSOnly
		return []Row{base}
	case reconcile.StateSourceBOnly:
		base.Status = StatusDWHOnly
		return []Row{base}
	}

	var rows []Row
	for _, cmp := range key.Comparisons {
		if cmp.Within {
			continue
		}

		row := base
		row.Metric = string(cmp.Metric)
		if cmp.Missing() {
			row.Status = StatusMissingMetric
			if !cmp.MissingA {
				row.OMSValue = formatQuantity(cmp.ValueA)
			}
			if !cmp.MissingB {
				row.DWHValue = formatQuantity(cmp.ValueB)
			}
			rows = append(rows, row)
			continue
		}

		row.Status = StatusMismatch
		row.OMSValue = formatQuantity(cmp.ValueA)
		row.DWHValue = formatQuantity(cmp.ValueB)
		row.Delta = formatQuantity(cmp.Delta)
		if cmp.PctDefined {
			row.PctDelta = formatQuantity(cmp.PctDelta)
		} else {
			row.PctDelta = reconcile.PctUndefined
		}
		rows = append(rows, row)
	}
	return rows
}

// formatQuantity renders a quantity without trailing zero padding, so
// the same value always serializes to the same bytes.
func formatQuantity(d decimal.Decimal) string {
	return d.String()
}
