package model

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"
)

func TestCalendarAddRejectsOverlap(t *testing.T) {
	c := NewCalendar()
	if err := c.Add(mustRange(t, date(2026, 3, 10), date(2026, 3, 15))); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := c.Add(mustRange(t, date(2026, 3, 14), date(2026, 3, 16)))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("failed add must not change the calendar, len=%d", c.Len())
	}
}

func TestCalendarBackToBackStays(t *testing.T) {
	c := NewCalendar()
	if err := c.Add(mustRange(t, date(2026, 3, 10), date(2026, 3, 15))); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := c.Add(mustRange(t, date(2026, 3, 15), date(2026, 3, 20))); err != nil {
		t.Fatalf("back-to-back stay must be allowed: %v", err)
	}
	if err := c.Add(mustRange(t, date(2026, 3, 5), date(2026, 3, 10))); err != nil {
		t.Fatalf("back-to-back stay before must be allowed: %v", err)
	}
}

func TestCalendarRangesSorted(t *testing.T) {
	c := NewCalendar()
	for _, d := range []int{20, 5, 12, 1, 8} {
		if err := c.Add(mustRange(t, date(2026, 5, d), date(2026, 5, d+2))); err != nil {
			t.Fatalf("add day %d: %v", d, err)
		}
	}
	got := c.Ranges()
	for i := 1; i < len(got); i++ {
		if got[i-1].Compare(got[i]) >= 0 {
			t.Fatalf("ranges out of order at %d: %s, %s", i, got[i-1], got[i])
		}
	}
}

func TestCalendarRemoveExactMatchOnly(t *testing.T) {
	c := NewCalendar()
	held := mustRange(t, date(2026, 3, 10), date(2026, 3, 15))
	if err := c.Add(held); err != nil {
		t.Fatalf("add: %v", err)
	}
	if c.Remove(mustRange(t, date(2026, 3, 10), date(2026, 3, 14))) {
		t.Fatalf("overlapping but different range must not be removed")
	}
	if c.Len() != 1 {
		t.Fatalf("failed remove must not change the calendar")
	}
	if !c.Remove(held) {
		t.Fatalf("exact range must be removed")
	}
	if c.Remove(held) {
		t.Fatalf("second remove of the same range must report false")
	}
}

func TestCalendarIsAvailableWithExclusion(t *testing.T) {
	c := NewCalendar()
	own := mustRange(t, date(2026, 3, 10), date(2026, 3, 15))
	other := mustRange(t, date(2026, 3, 20), date(2026, 3, 25))
	if err := c.Add(own); err != nil {
		t.Fatalf("add own: %v", err)
	}
	if err := c.Add(other); err != nil {
		t.Fatalf("add other: %v", err)
	}

	// Shifting the own stay by two days overlaps itself only.
	moved := mustRange(t, date(2026, 3, 12), date(2026, 3, 17))
	if c.IsAvailable(moved, nil) {
		t.Fatalf("moved stay must conflict without exclusion")
	}
	if !c.IsAvailable(moved, &own) {
		t.Fatalf("moved stay must be available when excluding the own range")
	}
	// The exclusion must not hide other bookings.
	ontoOther := mustRange(t, date(2026, 3, 18), date(2026, 3, 22))
	if c.IsAvailable(ontoOther, &own) {
		t.Fatalf("exclusion of own range must not allow overlap with another booking")
	}
}

func TestCalendarReplaceSwapsAtomically(t *testing.T) {
	c := NewCalendar()
	old := mustRange(t, date(2026, 3, 10), date(2026, 3, 15))
	other := mustRange(t, date(2026, 3, 20), date(2026, 3, 25))
	if err := c.Add(old); err != nil {
		t.Fatalf("add old: %v", err)
	}
	if err := c.Add(other); err != nil {
		t.Fatalf("add other: %v", err)
	}

	// Moving onto dates that reuse part of the old interval works
	// because the old entry is taken out before the check.
	moved := mustRange(t, date(2026, 3, 12), date(2026, 3, 17))
	if err := c.Replace(old, moved); err != nil {
		t.Fatalf("replace onto own dates: %v", err)
	}
	if !c.Holds(moved) || c.Holds(old) {
		t.Fatalf("replace must swap the entries")
	}

	// A conflicting target restores the old entry.
	ontoOther := mustRange(t, date(2026, 3, 19), date(2026, 3, 22))
	if err := c.Replace(moved, ontoOther); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if !c.Holds(moved) {
		t.Fatalf("failed replace must keep the old entry held")
	}

	// A missing old entry changes nothing.
	ghost := mustRange(t, date(2026, 4, 1), date(2026, 4, 5))
	if err := c.Replace(ghost, ontoOther); !errors.Is(err, ErrRangeNotFound) {
		t.Fatalf("expected ErrRangeNotFound, got %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("failed replace must not change the calendar, len=%d", c.Len())
	}
}

func TestCalendarConcurrentAddSameRange(t *testing.T) {
	c := NewCalendar()
	rng := mustRange(t, date(2026, 7, 1), date(2026, 7, 5))

	const workers = 64
	var wg sync.WaitGroup
	errs := make([]error, workers)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = c.Add(rng)
		}(i)
	}
	close(start)
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, ErrConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("exactly one concurrent add must win, got %d", wins)
	}
	if c.Len() != 1 {
		t.Fatalf("calendar must hold exactly one entry, got %d", c.Len())
	}
}

func TestCalendarConcurrentAddDisjointRanges(t *testing.T) {
	c := NewCalendar()

	const workers = 50
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := date(2026, 1, 1).Add(time.Duration(i) * 48 * time.Hour)
			r, err := NewDateRange(start, start.Add(24*time.Hour))
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = c.Add(r)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("disjoint add %d failed: %v", i, err)
		}
	}
	if c.Len() != workers {
		t.Fatalf("expected %d entries, got %d", workers, c.Len())
	}
	got := c.Ranges()
	for i := 1; i < len(got); i++ {
		if got[i-1].Compare(got[i]) >= 0 {
			t.Fatalf("entries out of order after concurrent adds")
		}
		if got[i-1].Overlaps(got[i]) {
			t.Fatalf("overlapping entries after concurrent adds: %s, %s", got[i-1], got[i])
		}
	}
}

func TestCalendarAvailabilityScanStopsEarly(t *testing.T) {
	// A long calendar with the query far from most entries still
	// answers correctly; this guards the binary search bounds.
	c := NewCalendar()
	for i := 0; i < 200; i++ {
		start := date(2026, 1, 1).AddDate(0, 0, i*3)
		if err := c.Add(mustRange(t, start, start.AddDate(0, 0, 2))); err != nil {
			t.Fatalf("seed add %d: %v", i, err)
		}
	}
	// The gap day between two entries is free for exactly one night.
	free := mustRange(t, date(2026, 1, 3), date(2026, 1, 4))
	if !c.IsAvailable(free, nil) {
		t.Fatalf("gap night must be available")
	}
	busy := mustRange(t, date(2026, 1, 1), date(2026, 1, 2))
	if c.IsAvailable(busy, nil) {
		t.Fatalf("booked night must not be available")
	}
	before := mustRange(t, date(2025, 12, 1), date(2025, 12, 31))
	if !c.IsAvailable(before, nil) {
		t.Fatalf("range before every entry must be available")
	}
	afterAll := mustRange(t, date(2028, 1, 1), date(2028, 1, 2))
	if !c.IsAvailable(afterAll, nil) {
		t.Fatalf("range after every entry must be available")
	}
}

func TestCalendarRandomOperationsKeepInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	c := NewCalendar()
	var held []DateRange

	overlapsHeld := func(r DateRange) bool {
		for _, h := range held {
			if h.Overlaps(r) {
				return true
			}
		}
		return false
	}

	for i := 0; i < 800; i++ {
		start := date(2026, 1, 1).AddDate(0, 0, rnd.Intn(300))
		r := mustRange(t, start, start.AddDate(0, 0, 1+rnd.Intn(6)))

		if rnd.Intn(3) > 0 || len(held) == 0 {
			err := c.Add(r)
			if overlapsHeld(r) {
				if !errors.Is(err, ErrConflict) {
					t.Fatalf("op %d: add %s: want ErrConflict, got %v", i, r, err)
				}
			} else if err != nil {
				t.Fatalf("op %d: add %s: %v", i, r, err)
			} else {
				held = append(held, r)
			}
		} else {
			victim := held[rnd.Intn(len(held))]
			if !c.Remove(victim) {
				t.Fatalf("op %d: remove %s: held entry not found", i, victim)
			}
			for j, h := range held {
				if h.Equal(victim) {
					held = append(held[:j], held[j+1:]...)
					break
				}
			}
		}

		got := c.Ranges()
		if len(got) != len(held) {
			t.Fatalf("op %d: calendar holds %d entries, reference holds %d", i, len(got), len(held))
		}
		for a := 0; a < len(got); a++ {
			for b := a + 1; b < len(got); b++ {
				if got[a].Overlaps(got[b]) {
					t.Fatalf("op %d: overlapping entries %s and %s", i, got[a], got[b])
				}
			}
		}
	}
}

func TestCalendarAvailabilityMatchesNaiveScan(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for round := 0; round < 40; round++ {
		c := NewCalendar()
		for i := 0; i < 30; i++ {
			start := date(2026, 1, 1).AddDate(0, 0, rnd.Intn(200))
			_ = c.Add(mustRange(t, start, start.AddDate(0, 0, 1+rnd.Intn(5))))
		}
		held := c.Ranges()

		for probe := 0; probe < 50; probe++ {
			start := date(2026, 1, 1).AddDate(0, 0, rnd.Intn(210)-5)
			r := mustRange(t, start, start.AddDate(0, 0, 1+rnd.Intn(8)))
			var exclude *DateRange
			if len(held) > 0 && probe%4 == 0 {
				exclude = &held[rnd.Intn(len(held))]
			}

			want := true
			for _, h := range held {
				if exclude != nil && h.Equal(*exclude) {
					continue
				}
				if h.Overlaps(r) {
					want = false
					break
				}
			}
			if got := c.IsAvailable(r, exclude); got != want {
				t.Fatalf("round %d: IsAvailable(%s) = %t, naive scan says %t", round, r, got, want)
			}
		}
	}
}

func ExampleCalendar_Add() {
	c := NewCalendar()
	stay, _ := NewDateRange(date(2026, 8, 1), date(2026, 8, 5))
	if err := c.Add(stay); err == nil {
		fmt.Println("booked", stay)
	}
	// Output: booked [2026-08-01, 2026-08-05)
}
