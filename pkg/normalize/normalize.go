// Package normalize converts loosely-typed source records into canonical
// inventory records through a declarative, validated field mapping. Every
// canonical field's provenance is auditable from the mapping table; there
// is no ad-hoc field access.
//
// Example usage:
//
//	mapping := normalize.Mapping{
//	    Source: "oms",
//	    Fields: []normalize.FieldMapping{
//	        {From: "article", To: "sku"},
//	        {From: "plant", To: "location_id"},
//	        {From: "snapshot_ts", To: "as_of"},
//	        {From: "qty_on_hand", To: "on_hand"},
//	        {From: "qty_reserved", To: "reserved"},
//	    },
//	}
//	n, err := normalize.New(mapping)
//	if err != nil {
//	    return err
//	}
//	rec, err := n.Record(raw)
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/inventory"
	"github.com/shopspring/decimal"
)

// DerivePolicy controls how the available quantity is resolved when sources
// disagree about supplying it directly.
type DerivePolicy string

// String returns the string representation of a DerivePolicy.
func (p DerivePolicy) String() string {
	return string(p)
}

// Derivation policies for the available quantity.
const (
	// DeriveWhenMissing keeps a directly supplied value and derives
	// on_hand - reserved - damaged only when the source omitted it.
	DeriveWhenMissing DerivePolicy = "when_missing"

	// DeriveAlways recomputes available from its components on every
	// record, discarding any supplied value.
	DeriveAlways DerivePolicy = "always"

	// DeriveNever leaves an absent available absent.
	DeriveNever DerivePolicy = "never"
)

// IsValid returns true if the DerivePolicy is one of the defined constants.
func (p DerivePolicy) IsValid() bool {
	switch p {
	case DeriveWhenMissing, DeriveAlways, DeriveNever:
		return true
	}
	return false
}

// NoRounding disables quantity rounding.
const NoRounding int32 = -1

// Normalizer converts raw records of one source into canonical records.
// The same derivation policy, precision, and reference time zone must be
// used for both sources of a run for the comparison to be valid.
type Normalizer struct {
	mapping   Mapping
	reference *time.Location
	source    *time.Location
	layout    string
	precision int32
	derive    DerivePolicy
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithTimezone sets the run's reference time zone. Defaults to UTC.
func WithTimezone(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.reference = loc
		}
	}
}

// WithPrecision sets the decimal places quantities are rounded to.
// Defaults to 0 for integer counts; NoRounding disables rounding.
func WithPrecision(places int32) Option {
	return func(n *Normalizer) {
		n.precision = places
	}
}

// WithDerivePolicy sets how available is resolved. Defaults to DeriveWhenMissing.
func WithDerivePolicy(p DerivePolicy) Option {
	return func(n *Normalizer) {
		n.derive = p
	}
}

// New creates a Normalizer for one source's mapping. The mapping is
// validated here so per-record processing can assume it is well formed.
func New(mapping Mapping, opts ...Option) (*Normalizer, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}

	n := &Normalizer{
		mapping:   mapping,
		reference: time.UTC,
		layout:    time.RFC3339,
		precision: 0,
		derive:    DeriveWhenMissing,
	}
	for _, opt := range opts {
		opt(n)
	}
	if !n.derive.IsValid() {
		return nil, errors.NewConfigError("normalizer",
			fmt.Sprintf("unknown derive policy %q", n.derive), nil)
	}

	if mapping.TimeLayout != "" {
		n.layout = mapping.TimeLayout
	}
	n.source = n.reference
	if mapping.Timezone != "" {
		loc, err := time.LoadLocation(mapping.Timezone)
		if err != nil {
			return nil, errors.NewConfigError("normalizer",
				fmt.Sprintf("unknown timezone %q", mapping.Timezone), err)
		}
		n.source = loc
	}

	return n, nil
}

// Mapping returns the mapping the normalizer was built from.
func (n *Normalizer) Mapping() Mapping {
	return n.mapping
}

// Metrics returns the metrics this source supplies, in declared order.
func (n *Normalizer) Metrics() []inventory.Metric {
	return n.mapping.Metrics()
}

// Record converts one raw record into a canonical record, or fails with a
// validation error naming the offending field and record key. A failure
// covers that single record only; callers decide whether to skip or abort.
func (n *Normalizer) Record(raw Raw) (inventory.Record, error) {
	var rec inventory.Record

	sku, err := n.stringField(raw, FieldSKU)
	if err != nil {
		return rec, n.recordError(raw, err)
	}
	rec.SKU = sku

	loc, err := n.stringField(raw, FieldLocationID)
	if err != nil {
		return rec, n.recordError(raw, err)
	}
	rec.LocationID = loc

	asOf, err := n.timeField(raw)
	if err != nil {
		return rec, n.recordError(raw, err)
	}
	rec.AsOf = asOf

	for _, metric := range inventory.Metrics() {
		fm, mapped := n.mapping.field(metric.String())
		if !mapped {
			continue
		}
		value, present := lookup(raw, fm.From)
		if !present || value == nil {
			if fm.Optional {
				continue
			}
			return rec, n.recordError(raw, &errors.ValidationError{
				Field:   fm.From,
				Message: "required field missing",
			})
		}
		qty, err := parseQuantity(value)
		if err != nil {
			return rec, n.recordError(raw, &errors.ValidationError{
				Field:   fm.From,
				Value:   value,
				Message: err.Error(),
			})
		}
		if fm.Scale != "" {
			scale, _ := decimal.NewFromString(fm.Scale)
			qty = qty.Mul(scale)
		}
		if n.precision != NoRounding {
			qty = qty.Round(n.precision)
		}
		n.setQuantity(&rec, metric, qty)
	}

	n.applyDerivation(&rec)

	if err := rec.Validate(); err != nil {
		return rec, n.recordError(raw, &errors.ValidationError{Message: err.Error()})
	}
	return rec, nil
}

// setQuantity stores a quantity and marks it supplied.
func (n *Normalizer) setQuantity(rec *inventory.Record, metric inventory.Metric, qty decimal.Decimal) {
	switch metric {
	case inventory.MetricOnHand:
		rec.OnHand = qty
	case inventory.MetricReserved:
		rec.Reserved = qty
	case inventory.MetricAvailable:
		rec.Available = qty
	case inventory.MetricDamaged:
		rec.Damaged = qty
	}
	rec.Supplied.Add(metric)
}

// applyDerivation resolves available per the configured policy.
func (n *Normalizer) applyDerivation(rec *inventory.Record) {
	switch n.derive {
	case DeriveAlways:
		n.setQuantity(rec, inventory.MetricAvailable,
			inventory.DeriveAvailable(rec.OnHand, rec.Reserved, rec.Damaged))
	case DeriveWhenMissing:
		if !rec.Supplied.Has(inventory.MetricAvailable) {
			n.setQuantity(rec, inventory.MetricAvailable,
				inventory.DeriveAvailable(rec.OnHand, rec.Reserved, rec.Damaged))
		}
	case DeriveNever:
		// Absent stays absent.
	}
}

// stringField extracts a required identifier field.
func (n *Normalizer) stringField(raw Raw, to string) (string, error) {
	fm, _ := n.mapping.field(to)
	value, present := lookup(raw, fm.From)
	if !present || value == nil {
		return "", &errors.ValidationError{Field: fm.From, Message: "required field missing"}
	}
	s, err := toString(value)
	if err != nil {
		return "", &errors.ValidationError{Field: fm.From, Value: value, Message: err.Error()}
	}
	if s == "" {
		return "", &errors.ValidationError{Field: fm.From, Message: "cannot be empty"}
	}
	return s, nil
}

// timeField extracts and converts as_of into the reference time zone.
func (n *Normalizer) timeField(raw Raw) (time.Time, error) {
	fm, _ := n.mapping.field(FieldAsOf)
	value, present := lookup(raw, fm.From)
	if !present || value == nil {
		return time.Time{}, &errors.ValidationError{Field: fm.From, Message: "required field missing"}
	}

	switch v := value.(type) {
	case time.Time:
		return v.In(n.reference), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, &errors.ValidationError{Field: fm.From, Message: "cannot be empty"}
		}
		t, err := time.ParseInLocation(n.layout, s, n.source)
		if err != nil {
			return time.Time{}, &errors.ValidationError{
				Field:   fm.From,
				Value:   v,
				Message: fmt.Sprintf("does not match layout %q", n.layout),
			}
		}
		return t.In(n.reference), nil
	case []byte:
		return n.timeFieldString(fm.From, string(v))
	default:
		return time.Time{}, &errors.ValidationError{
			Field:   fm.From,
			Value:   value,
			Message: fmt.Sprintf("unsupported timestamp type %T", value),
		}
	}
}

func (n *Normalizer) timeFieldString(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &errors.ValidationError{Field: field, Message: "cannot be empty"}
	}
	t, err := time.ParseInLocation(n.layout, s, n.source)
	if err != nil {
		return time.Time{}, &errors.ValidationError{
			Field:   field,
			Value:   s,
			Message: fmt.Sprintf("does not match layout %q", n.layout),
		}
	}
	return t.In(n.reference), nil
}

// recordError attaches source and record identity to a validation error.
func (n *Normalizer) recordError(raw Raw, err error) error {
	verr, ok := err.(*errors.ValidationError)
	if !ok {
		return err
	}
	verr.Source = n.mapping.Source
	verr.Key = rawKey(raw, n.mapping)
	return verr
}

// rawKey best-effort extracts the record key for error messages.
func rawKey(raw Raw, m Mapping) string {
	key := ""
	if fm, ok := m.field(FieldSKU); ok {
		if v, present := lookup(raw, fm.From); present {
			if s, err := toString(v); err == nil {
				key = s
			}
		}
	}
	if fm, ok := m.field(FieldLocationID); ok {
		if v, present := lookup(raw, fm.From); present {
			if s, err := toString(v); err == nil {
				key += "/" + s
			}
		}
	}
	return key
}

// lookup reads a raw field.
func lookup(raw Raw, field string) (any, bool) {
	v, ok := raw[field]
	return v, ok
}

// parseQuantity converts a raw value into a decimal quantity. Empty strings
// and non-numeric values are rejected distinctly from legitimate zero.
func parseQuantity(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, fmt.Errorf("empty value is not a number")
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("not a number")
		}
		return d, nil
	case []byte:
		return parseQuantity(string(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("not a finite number")
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		return parseQuantity(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint64:
		return decimal.NewFromString(strconv.FormatUint(v, 10))
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %T", value)
	}
}

// toString converts identifier values. Numeric identifiers are formatted
// without exponents so SKU "123456" survives a float64 round-trip.
func toString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case []byte:
		return strings.TrimSpace(string(v)), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported identifier type %T", value)
	}
}
