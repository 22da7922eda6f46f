package model

import (
	"fmt"
	"time"
)

// nightHours is the length of one billable night.
const nightHours = 24

// DateRange is a half-open interval [start, end) over time. The start
// instant is included, the end instant is excluded, so a stay ending on
// a given day and another starting that same day do not overlap.
//
// A DateRange is immutable once constructed and is always valid:
// NewDateRange rejects ranges whose end is not strictly after their
// start. The zero value is not a usable range.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange builds a range from check-in to check-out. It returns
// ErrInvalidRange when end is at or before start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if !end.After(start) {
		return DateRange{}, fmt.Errorf("%w: start %s, end %s", ErrInvalidRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return DateRange{start: start, end: end}, nil
}

// Start returns the inclusive lower bound of the range.
func (r DateRange) Start() time.Time { return r.start }

// End returns the exclusive upper bound of the range.
func (r DateRange) End() time.Time { return r.end }

// IsZero reports whether r is the zero value rather than a range built
// by NewDateRange.
func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}

// Overlaps reports whether r and other share at least one instant.
// Because both bounds form half-open intervals, ranges that merely
// touch (one ends exactly where the other starts) do not overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

// Equal reports whether both ranges cover exactly the same interval.
func (r DateRange) Equal(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}

// Compare orders ranges by start instant, then by end instant. It
// returns -1 when r sorts before other, +1 when it sorts after and 0
// when both are equal.
func (r DateRange) Compare(other DateRange) int {
	if c := r.start.Compare(other.start); c != 0 {
		return c
	}
	return r.end.Compare(other.end)
}

// Nights returns the number of whole nights the range spans. Partial
// nights are rounded down, so a range shorter than one night counts as
// zero and is rejected by pricing.
func (r DateRange) Nights() int64 {
	return int64(r.end.Sub(r.start).Hours() / nightHours)
}

// String renders the range in half-open interval notation, which keeps
// log lines and error messages unambiguous about bound inclusivity.
func (r DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.start.Format("2006-01-02"), r.end.Format("2006-01-02"))
}
