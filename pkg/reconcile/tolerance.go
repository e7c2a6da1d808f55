package reconcile

import (
	"fmt"
	"slices"

	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/shopspring/decimal"
)

// Mode selects which tolerance rules must hold for a metric pair to
// count as within tolerance.
type Mode string

const (
	// ModeAbs applies only the absolute threshold.
	ModeAbs Mode = "abs"
	// ModePct applies the relative threshold when both sides are
	// non-zero, falling back to the absolute threshold otherwise.
	ModePct Mode = "pct"
	// ModeAbsOrPct accepts a deviation when either rule holds.
	ModeAbsOrPct Mode = "abs_or_pct"
	// ModeAbsAndPct requires both rules to hold.
	ModeAbsAndPct Mode = "abs_and_pct"
)

// Modes returns all supported tolerance modes.
func Modes() []Mode {
	return []Mode{ModeAbs, ModePct, ModeAbsOrPct, ModeAbsAndPct}
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// IsValid returns true if the mode is a supported value.
func (m Mode) IsValid() bool {
	return slices.Contains(Modes(), m)
}

// MetricTolerance is the allowed deviation for a single metric. Abs is
// expressed in quantity units, Pct as a fraction of the larger
// magnitude (0.05 means 5%). An empty Mode means ModePct.
type MetricTolerance struct {
	Abs  decimal.Decimal
	Pct  decimal.Decimal
	Mode Mode
}

// Tolerance holds the default deviation rule and per-metric overrides.
// The zero value accepts only identical quantities.
type Tolerance struct {
	Default MetricTolerance
	Metrics map[inventory.Metric]MetricTolerance
}

// Exact returns a tolerance that accepts only identical quantities.
func Exact() Tolerance {
	return Tolerance{Default: MetricTolerance{Mode: ModePct}}
}

// Absolute returns a tolerance allowing deviations up to abs units on
// every metric.
func Absolute(abs decimal.Decimal) Tolerance {
	return Tolerance{Default: MetricTolerance{Abs: abs, Mode: ModeAbs}}
}

// Relative returns a tolerance allowing deviations up to the given
// fraction of the larger magnitude on every metric.
func Relative(pct decimal.Decimal) Tolerance {
	return Tolerance{Default: MetricTolerance{Pct: pct, Mode: ModePct}}
}

// For returns the tolerance applied to the given metric.
func (t Tolerance) For(m inventory.Metric) MetricTolerance {
	if mt, ok := t.Metrics[m]; ok {
		return mt
	}
	return t.Default
}

// Validate checks thresholds, modes, and override metric names.
func (t Tolerance) Validate() error {
	if err := t.Default.validate("default"); err != nil {
		return err
	}
	for m, mt := range t.Metrics {
		if !m.IsValid() {
			return errors.NewConfigError("tolerance", fmt.Sprintf("unknown metric %q", string(m)), nil)
		}
		if err := mt.validate(string(m)); err != nil {
			return err
		}
	}
	return nil
}

func (mt MetricTolerance) validate(scope string) error {
	if mt.Abs.IsNegative() {
		return errors.NewConfigError("tolerance", fmt.Sprintf("%s: abs threshold %s is negative", scope, mt.Abs), nil)
	}
	if mt.Pct.IsNegative() {
		return errors.NewConfigError("tolerance", fmt.Sprintf("%s: pct threshold %s is negative", scope, mt.Pct), nil)
	}
	if mt.Mode != "" && !mt.Mode.IsValid() {
		return errors.NewConfigError("tolerance", fmt.Sprintf("%s: unknown mode %q", scope, string(mt.Mode)), nil)
	}
	return nil
}

// mode returns the effective mode, applying the ModePct default.
func (mt MetricTolerance) mode() Mode {
	if mt.Mode == "" {
		return ModePct
	}
	return mt.Mode
}

// within reports whether the deviation between a and b satisfies the
// configured rules. The check is symmetric: swapping a and b never
// changes the outcome. The relative rule applies only when both sides
// are non-zero; otherwise the absolute rule decides regardless of mode.
func (mt MetricTolerance) within(a, b decimal.Decimal) bool {
	delta := b.Sub(a).Abs()
	absOK := delta.LessThanOrEqual(mt.Abs)

	if a.IsZero() || b.IsZero() {
		return absOK
	}

	base := decimal.Max(a.Abs(), b.Abs())
	pctOK := delta.LessThanOrEqual(mt.Pct.Mul(base))

	switch mt.mode() {
	case ModeAbs:
		return absOK
	case ModePct:
		return pctOK
	case ModeAbsOrPct:
		return absOK || pctOK
	case ModeAbsAndPct:
		return absOK && pctOK
	default:
		return absOK && pctOK
	}
}
