package inventory

import (
	"fmt"
	"time"
)

// Window is the snapshot window a comparison is valid over. Both bounds
// are inclusive and expressed in the run's reference time zone.
type Window struct {
	Start time.Time
	End   time.Time
}

// Day returns the window covering one calendar day in the given location.
func Day(date time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return Window{
		Start: start,
		End:   start.Add(24*time.Hour - time.Nanosecond),
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Validate checks that the window bounds are ordered.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("window bounds cannot be zero")
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("window end %s precedes start %s",
			w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

// String renders the window for logs.
func (w Window) String() string {
	return w.Start.Format(time.RFC3339) + ".." + w.End.Format(time.RFC3339)
}
