package normalize

import (
	"fmt"
	"time"

	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/shopspring/decimal"
)

// Raw is one loosely-typed source record as fetched: field name to value.
// Values may be strings, numbers, []byte (SQL drivers), or time.Time.
type Raw map[string]any

// Canonical non-metric field names a mapping may target. Metric fields use
// the inventory metric names (on_hand, reserved, available, damaged).
const (
	FieldSKU        = "sku"
	FieldLocationID = "location_id"
	FieldAsOf       = "as_of"
)

// FieldMapping maps one source field to one canonical field.
type FieldMapping struct {
	// From is the field name in the raw source record.
	From string `yaml:"from" validate:"required"`

	// To is the canonical field: sku, location_id, as_of, or a metric name.
	To string `yaml:"to" validate:"required"`

	// Scale is an optional decimal factor applied to quantity fields,
	// e.g. "0.001" when the source reports grams and the run uses kilograms.
	Scale string `yaml:"scale,omitempty"`

	// Optional marks a field whose absence is not a record failure.
	Optional bool `yaml:"optional,omitempty"`
}

// Mapping describes how one source's raw records become canonical records.
// A mapping is validated once at load time; per-record work assumes it is
// well formed.
type Mapping struct {
	// Source names the source the mapping belongs to, for error messages.
	Source string `yaml:"source,omitempty"`

	// Fields is the declarative field table.
	Fields []FieldMapping `yaml:"fields" validate:"required,min=1,dive"`

	// TimeLayout is the Go layout of the source's as_of values.
	// Defaults to RFC 3339.
	TimeLayout string `yaml:"time_layout,omitempty"`

	// Timezone is the IANA zone naive source timestamps are interpreted in.
	// Defaults to the run's reference time zone.
	Timezone string `yaml:"timezone,omitempty"`
}

// field returns the mapping entry targeting the given canonical field.
func (m Mapping) field(to string) (FieldMapping, bool) {
	for _, f := range m.Fields {
		if f.To == to {
			return f, true
		}
	}
	return FieldMapping{}, false
}

// Metrics returns the metrics the mapping supplies, in declared metric order.
func (m Mapping) Metrics() []inventory.Metric {
	var out []inventory.Metric
	for _, metric := range inventory.Metrics() {
		if _, ok := m.field(metric.String()); ok {
			out = append(out, metric)
		}
	}
	return out
}

// Restrict returns a copy of the mapping whose metric fields are
// limited to the named metrics. Key fields always survive. An empty
// list leaves the mapping unchanged.
func (m Mapping) Restrict(metrics []string) Mapping {
	if len(metrics) == 0 {
		return m
	}
	keep := make(map[string]bool, len(metrics))
	for _, name := range metrics {
		keep[name] = true
	}
	out := m
	out.Fields = make([]FieldMapping, 0, len(m.Fields))
	for _, f := range m.Fields {
		if isMetricTarget(f.To) && !keep[f.To] {
			continue
		}
		out.Fields = append(out.Fields, f)
	}
	return out
}

// Validate checks the mapping table before any record is processed.
// Key fields must be mapped and required; every target must be a known
// canonical field; targets must be unique; scales must parse as positive
// decimals; the time zone must resolve.
func (m Mapping) Validate() error {
	if len(m.Fields) == 0 {
		return errors.NewConfigError(m.component(), "mapping has no fields", nil)
	}

	seen := make(map[string]string, len(m.Fields))
	for _, f := range m.Fields {
		if f.From == "" {
			return errors.NewConfigError(m.component(), fmt.Sprintf("mapping to %q has empty source field", f.To), nil)
		}
		if !knownTarget(f.To) {
			return errors.NewConfigError(m.component(), fmt.Sprintf("unknown canonical field %q", f.To), nil)
		}
		if prev, dup := seen[f.To]; dup {
			return errors.NewConfigError(m.component(),
				fmt.Sprintf("canonical field %q mapped from both %q and %q", f.To, prev, f.From), nil)
		}
		seen[f.To] = f.From

		if f.Scale != "" {
			if !isMetricTarget(f.To) {
				return errors.NewConfigError(m.component(),
					fmt.Sprintf("scale is only valid on quantity fields, not %q", f.To), nil)
			}
			scale, err := decimal.NewFromString(f.Scale)
			if err != nil || !scale.IsPositive() {
				return errors.NewConfigError(m.component(),
					fmt.Sprintf("scale %q on %q is not a positive decimal", f.Scale, f.To), nil)
			}
		}
	}

	for _, key := range []string{FieldSKU, FieldLocationID, FieldAsOf} {
		f, ok := m.field(key)
		if !ok {
			return errors.NewConfigError(m.component(), fmt.Sprintf("canonical field %q is not mapped", key), nil)
		}
		if f.Optional {
			return errors.NewConfigError(m.component(), fmt.Sprintf("canonical field %q cannot be optional", key), nil)
		}
	}

	if len(m.Metrics()) == 0 {
		return errors.NewConfigError(m.component(), "mapping supplies no metrics", nil)
	}

	if m.Timezone != "" {
		if _, err := time.LoadLocation(m.Timezone); err != nil {
			return errors.NewConfigError(m.component(), fmt.Sprintf("unknown timezone %q", m.Timezone), err)
		}
	}

	return nil
}

func (m Mapping) component() string {
	if m.Source != "" {
		return "mapping." + m.Source
	}
	return "mapping"
}

func knownTarget(to string) bool {
	switch to {
	case FieldSKU, FieldLocationID, FieldAsOf:
		return true
	}
	return isMetricTarget(to)
}

func isMetricTarget(to string) bool {
	return inventory.Metric(to).IsValid()
}
