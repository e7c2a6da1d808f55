// Package inventory defines the canonical data model shared by every stage
// of a reconciliation run: records, keys, metrics, and snapshot windows.
// Values in this package are immutable once constructed; normalization is
// the only place they are built.
package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Key identifies one stock position: a SKU at a location.
type Key struct {
	SKU        string
	LocationID string
}

// String returns the key in "sku/location" form, used in logs and errors.
func (k Key) String() string {
	return k.SKU + "/" + k.LocationID
}

// Fold returns the key trimmed and case-folded, for case-insensitive joins.
// Folding is applied identically to both sides or not at all.
func (k Key) Fold() Key {
	return Key{
		SKU:        strings.ToLower(strings.TrimSpace(k.SKU)),
		LocationID: strings.ToLower(strings.TrimSpace(k.LocationID)),
	}
}

// Less orders keys by SKU, then location.
func (k Key) Less(other Key) bool {
	if k.SKU != other.SKU {
		return k.SKU < other.SKU
	}
	return k.LocationID < other.LocationID
}

// Record is one canonical inventory observation: the quantities for a
// (sku, location) at a point in time, in the run's reference time zone.
// Quantities that the source did not supply default to zero; Supplied
// distinguishes those defaults from explicit zeros.
type Record struct {
	SKU        string
	LocationID string
	AsOf       time.Time
	OnHand     decimal.Decimal
	Reserved   decimal.Decimal
	Available  decimal.Decimal
	Damaged    decimal.Decimal
	Supplied   MetricSet
}

// Key returns the record's join key.
func (r Record) Key() Key {
	return Key{SKU: r.SKU, LocationID: r.LocationID}
}

// Value returns the quantity for the given metric and whether the source
// actually supplied it.
func (r Record) Value(m Metric) (decimal.Decimal, bool) {
	switch m {
	case MetricOnHand:
		return r.OnHand, r.Supplied.Has(MetricOnHand)
	case MetricReserved:
		return r.Reserved, r.Supplied.Has(MetricReserved)
	case MetricAvailable:
		return r.Available, r.Supplied.Has(MetricAvailable)
	case MetricDamaged:
		return r.Damaged, r.Supplied.Has(MetricDamaged)
	default:
		return decimal.Zero, false
	}
}

// Validate checks the structural invariants every canonical record must hold.
func (r Record) Validate() error {
	if strings.TrimSpace(r.SKU) == "" {
		return fmt.Errorf("sku cannot be empty")
	}
	if strings.TrimSpace(r.LocationID) == "" {
		return fmt.Errorf("location_id cannot be empty")
	}
	if r.AsOf.IsZero() {
		return fmt.Errorf("as_of cannot be zero")
	}
	return nil
}

// DeriveAvailable computes the sellable quantity from its components.
func DeriveAvailable(onHand, reserved, damaged decimal.Decimal) decimal.Decimal {
	return onHand.Sub(reserved).Sub(damaged)
}
