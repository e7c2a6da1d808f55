package reconcile

import (
	"sort"

	"github.com/retailops/stockparity/pkg/inventory"
)

// State classifies a key after the outer join.
type State string

const (
	// StateMatched indicates the key is present in both sources.
	StateMatched State = "matched"
	// StateSourceAOnly indicates the key is present only in source A.
	StateSourceAOnly State = "source_a_only"
	// StateSourceBOnly indicates the key is present only in source B.
	StateSourceBOnly State = "source_b_only"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// Pair is the outer-join result for a single key. A or B is nil when
// the key is absent from that source.
type Pair struct {
	Key   inventory.Key
	State State
	A     *inventory.Record
	B     *inventory.Record
}

// Joiner matches records from two sources on (sku, location_id). Each
// side is deduplicated before matching: for a repeated key the record
// with the newest as_of wins, and among equal as_of values the one
// appearing later in the input.
type Joiner struct {
	window   inventory.Window
	foldCase bool
}

// JoinerOption is a functional option for configuring Joiner.
type JoinerOption func(*Joiner)

// WithWindow restricts the join to records whose as_of falls inside w.
// Records outside the window are discarded before deduplication.
func WithWindow(w inventory.Window) JoinerOption {
	return func(j *Joiner) {
		j.window = w
	}
}

// WithCaseFolding enables case-insensitive key matching. Joined keys
// are reported in their folded form.
func WithCaseFolding(enabled bool) JoinerOption {
	return func(j *Joiner) {
		j.foldCase = enabled
	}
}

// NewJoiner returns a Joiner configured by opts. The zero configuration
// joins all records with case-sensitive keys.
func NewJoiner(opts ...JoinerOption) *Joiner {
	j := &Joiner{}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Join performs a full outer join of the two record sets. Every key
// surviving the window filter in either source appears in the result
// exactly once, ordered by sku then location_id.
func (j *Joiner) Join(a, b []inventory.Record) []Pair {
	aIdx := j.index(a)
	bIdx := j.index(b)

	keys := make([]inventory.Key, 0, len(aIdx)+len(bIdx))
	for key := range aIdx {
		keys = append(keys, key)
	}
	for key := range bIdx {
		if _, ok := aIdx[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(x, y int) bool { return keys[x].Less(keys[y]) })

	pairs := make([]Pair, 0, len(keys))
	for _, key := range keys {
		pair := Pair{Key: key}
		if rec, ok := aIdx[key]; ok {
			pair.A = &rec
		}
		if rec, ok := bIdx[key]; ok {
			pair.B = &rec
		}
		switch {
		case pair.A != nil && pair.B != nil:
			pair.State = StateMatched
		case pair.A != nil:
			pair.State = StateSourceAOnly
		default:
			pair.State = StateSourceBOnly
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

// index builds the deduplicated lookup for one side.
func (j *Joiner) index(records []inventory.Record) map[inventory.Key]inventory.Record {
	idx := make(map[inventory.Key]inventory.Record, len(records))
	for _, rec := range records {
		if !j.window.IsZero() && !j.window.Contains(rec.AsOf) {
			continue
		}
		key := rec.Key()
		if j.foldCase {
			key = key.Fold()
		}
		if cur, ok := idx[key]; ok && rec.AsOf.Before(cur.AsOf) {
			continue
		}
		idx[key] = rec
	}
	return idx
}
