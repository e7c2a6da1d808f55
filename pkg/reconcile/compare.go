package reconcile

import (
	"fmt"
	"slices"

	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/shopspring/decimal"
)

// PctUndefined is the artifact token reported in place of a relative
// delta when the reference value is zero.
const PctUndefined = "PCT_UNDEFINED"

// MissingPolicy controls how a metric supplied by only one side of a
// matched key is classified.
type MissingPolicy string

const (
	// MissingFlagMismatch treats a one-sided metric as a mismatch.
	MissingFlagMismatch MissingPolicy = "flag_mismatch"
	// MissingIgnore reports a one-sided metric without flagging it.
	MissingIgnore MissingPolicy = "ignore"
)

// MissingPolicies returns all supported missing-metric policies.
func MissingPolicies() []MissingPolicy {
	return []MissingPolicy{MissingFlagMismatch, MissingIgnore}
}

// String returns the string representation of the policy.
func (p MissingPolicy) String() string {
	return string(p)
}

// IsValid returns true if the policy is a supported value.
func (p MissingPolicy) IsValid() bool {
	return slices.Contains(MissingPolicies(), p)
}

// MetricComparison is the outcome of comparing one metric across a
// matched key.
type MetricComparison struct {
	Metric inventory.Metric

	// ValueA and ValueB are the compared quantities. The value for a
	// missing side is zero and carries no meaning.
	ValueA decimal.Decimal
	ValueB decimal.Decimal

	// Delta is ValueB minus ValueA.
	Delta decimal.Decimal

	// PctDelta is Delta divided by ValueA. It is meaningful only when
	// PctDefined is true; a zero ValueA leaves it undefined.
	PctDelta   decimal.Decimal
	PctDefined bool

	// MissingA and MissingB mark a metric one side did not supply.
	MissingA bool
	MissingB bool

	// Within is the tolerance verdict for the metric.
	Within bool
}

// Missing reports whether either side failed to supply the metric.
func (c MetricComparison) Missing() bool {
	return c.MissingA || c.MissingB
}

// Comparator evaluates metric deviations for matched keys. It holds
// configuration only, never state from prior comparisons, and is safe
// for concurrent use.
type Comparator struct {
	tolerance Tolerance
	missing   MissingPolicy
	metrics   []inventory.Metric
}

// ComparatorOption is a functional option for configuring Comparator.
type ComparatorOption func(*Comparator)

// WithMissingPolicy sets the treatment of one-sided metrics.
func WithMissingPolicy(p MissingPolicy) ComparatorOption {
	return func(c *Comparator) {
		c.missing = p
	}
}

// WithMetrics restricts comparison to the given metrics. The canonical
// metric order is preserved regardless of the order given here.
func WithMetrics(metrics ...inventory.Metric) ComparatorOption {
	return func(c *Comparator) {
		var set inventory.MetricSet
		for _, m := range metrics {
			set.Add(m)
		}
		ordered := make([]inventory.Metric, 0, set.Len())
		for _, m := range inventory.Metrics() {
			if set.Has(m) {
				ordered = append(ordered, m)
			}
		}
		c.metrics = ordered
	}
}

// NewComparator returns a Comparator applying the given tolerance. By
// default all metrics are compared and one-sided metrics are flagged
// as mismatches.
func NewComparator(tol Tolerance, opts ...ComparatorOption) (*Comparator, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	c := &Comparator{
		tolerance: tol,
		missing:   MissingFlagMismatch,
		metrics:   inventory.Metrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.missing.IsValid() {
		return nil, errors.NewConfigError("comparator", fmt.Sprintf("unknown missing-metric policy %q", string(c.missing)), nil)
	}
	return c, nil
}

// Compare evaluates every configured metric for a joined pair. Only
// matched pairs carry quantities on both sides, so other states
// produce no comparisons. Metrics absent from both sides are skipped.
// The result order follows the canonical metric order.
func (c *Comparator) Compare(pair Pair) []MetricComparison {
	if pair.State != StateMatched {
		return nil
	}

	out := make([]MetricComparison, 0, len(c.metrics))
	for _, metric := range c.metrics {
		va, okA := pair.A.Value(metric)
		vb, okB := pair.B.Value(metric)
		if !okA && !okB {
			continue
		}

		cmp := MetricComparison{
			Metric:   metric,
			ValueA:   va,
			ValueB:   vb,
			MissingA: !okA,
			MissingB: !okB,
		}
		if cmp.Missing() {
			cmp.Within = c.missing == MissingIgnore
			out = append(out, cmp)
			continue
		}

		cmp.Delta = vb.Sub(va)
		if !va.IsZero() {
			cmp.PctDelta = cmp.Delta.Div(va)
			cmp.PctDefined = true
		}
		cmp.Within = c.tolerance.For(metric).within(va, vb)
		out = append(out, cmp)
	}
	return out
}
