package model

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Calendar tracks the booked date ranges of a single room. Entries are
// kept sorted by (start, end) and are pairwise non-overlapping, which
// lets availability checks binary search instead of scanning every
// entry.
//
// All methods are safe for concurrent use. Add and Replace perform
// their own availability check under the write lock, so the decision
// to insert and the insertion itself form one critical section and two
// goroutines can never commit overlapping ranges.
type Calendar struct {
	mu     sync.RWMutex
	ranges []DateRange
}

// NewCalendar returns an empty calendar.
func NewCalendar() *Calendar {
	return &Calendar{}
}

// IsAvailable reports whether r overlaps no held entry. When exclude is
// non-nil, an entry equal to *exclude is ignored, which lets a
// reservation test new dates for its own room without colliding with
// its current stay.
//
// The result is advisory under concurrency: another goroutine may
// commit a conflicting range between this check and a later Add. Add
// re-validates before inserting, so the advisory check is a fast path,
// not a correctness guarantee.
func (c *Calendar) IsAvailable(r DateRange, exclude *DateRange) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.freeLocked(r, exclude)
}

// Add inserts r after re-checking availability under the write lock.
// It returns ErrInvalidRange when r is the zero value and ErrConflict
// when r overlaps a held entry.
func (c *Calendar) Add(r DateRange) error {
	if r.IsZero() {
		return fmt.Errorf("%w: zero range", ErrInvalidRange)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.freeLocked(r, nil) {
		return fmt.Errorf("%w: %s", ErrConflict, r)
	}
	c.insertLocked(r)
	return nil
}

// Remove deletes the entry exactly equal to r and reports whether such
// an entry was held. Overlapping but non-identical entries are left
// untouched.
func (c *Calendar) Remove(r DateRange) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.indexLocked(r)
	if !ok {
		return false
	}
	c.ranges = slices.Delete(c.ranges, i, i+1)
	return true
}

// Replace atomically swaps the entry equal to old for updated. The
// availability of updated is checked after old is taken out, so a stay
// may be moved onto dates that merely abut or partially reuse its
// current interval. On conflict the old entry is restored and
// ErrConflict returned; when old is not held, ErrRangeNotFound is
// returned and nothing changes.
func (c *Calendar) Replace(old, updated DateRange) error {
	if updated.IsZero() {
		return fmt.Errorf("%w: zero range", ErrInvalidRange)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.indexLocked(old)
	if !ok {
		return fmt.Errorf("%w: %s", ErrRangeNotFound, old)
	}
	c.ranges = slices.Delete(c.ranges, i, i+1)
	if !c.freeLocked(updated, nil) {
		c.insertLocked(old)
		return fmt.Errorf("%w: %s", ErrConflict, updated)
	}
	c.insertLocked(updated)
	return nil
}

// Holds reports whether an entry exactly equal to r is held.
func (c *Calendar) Holds(r DateRange) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.indexLocked(r)
	return ok
}

// Ranges returns a copy of the held entries in ascending order.
func (c *Calendar) Ranges() []DateRange {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]DateRange, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// Len returns the number of held entries.
func (c *Calendar) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ranges)
}

// freeLocked reports whether r overlaps no entry besides exclude. The
// caller must hold at least the read lock.
//
// Only entries starting before r.End can overlap r, and because the
// slice is sorted and non-overlapping their end instants ascend too.
// Scanning those candidates backwards can therefore stop at the first
// one ending at or before r.Start: everything earlier ends even
// sooner.
func (c *Calendar) freeLocked(r DateRange, exclude *DateRange) bool {
	hi := sort.Search(len(c.ranges), func(i int) bool {
		return !c.ranges[i].start.Before(r.end)
	})
	for i := hi - 1; i >= 0; i-- {
		held := c.ranges[i]
		if (exclude == nil || !held.Equal(*exclude)) && held.Overlaps(r) {
			return false
		}
		if !held.end.After(r.start) {
			break
		}
	}
	return true
}

// indexLocked binary searches for the entry exactly equal to r. The
// caller must hold at least the read lock.
func (c *Calendar) indexLocked(r DateRange) (int, bool) {
	i := sort.Search(len(c.ranges), func(i int) bool {
		return c.ranges[i].Compare(r) >= 0
	})
	if i < len(c.ranges) && c.ranges[i].Equal(r) {
		return i, true
	}
	return 0, false
}

// insertLocked places r at its sorted position. The caller must hold
// the write lock and have verified availability.
func (c *Calendar) insertLocked(r DateRange) {
	i := sort.Search(len(c.ranges), func(i int) bool {
		return c.ranges[i].Compare(r) >= 0
	})
	c.ranges = slices.Insert(c.ranges, i, r)
}
