package inventory

import "slices"

// Metric identifies one measured inventory quantity.
type Metric string

// String returns the string representation of a Metric.
func (m Metric) String() string {
	return string(m)
}

// Measured inventory quantities.
const (
	MetricOnHand    Metric = "on_hand"   // Physical quantity present at a location
	MetricReserved  Metric = "reserved"  // Quantity allocated to unfulfilled orders
	MetricAvailable Metric = "available" // Sellable quantity
	MetricDamaged   Metric = "damaged"   // Quantity unfit for sale
)

// Metrics returns all metrics in their declared comparison order.
// Every per-metric iteration and every output sort uses this order,
// never map iteration order.
func Metrics() []Metric {
	return []Metric{
		MetricOnHand,
		MetricReserved,
		MetricAvailable,
		MetricDamaged,
	}
}

// IsValid returns true if the Metric is one of the defined constants.
func (m Metric) IsValid() bool {
	return slices.Contains(Metrics(), m)
}

// Index returns the metric's position in the declared order, or -1
// for unknown metrics.
func (m Metric) Index() int {
	return slices.Index(Metrics(), m)
}

// MetricSet is a small set of metrics, used to track which quantities a
// record actually supplied as opposed to defaulted.
type MetricSet uint8

// Add marks a metric as present in the set.
func (s *MetricSet) Add(m Metric) {
	if i := m.Index(); i >= 0 {
		*s |= 1 << uint(i)
	}
}

// Has reports whether the metric is present in the set.
func (s MetricSet) Has(m Metric) bool {
	i := m.Index()
	return i >= 0 && s&(1<<uint(i)) != 0
}

// Len returns the number of metrics in the set.
func (s MetricSet) Len() int {
	n := 0
	for _, m := range Metrics() {
		if s.Has(m) {
			n++
		}
	}
	return n
}
