// Package booking orchestrates reservation workflows across the
// repositories: it resolves entities, quotes costs, commits calendar
// ranges, applies status transitions and emits telemetry around every
// operation. Each operation validates what it can up front, commits
// through the calendar's own conflict check, and compensates already
// applied steps when a later step fails, so a failed operation leaves
// the engine exactly as it found it.
package booking

import "errors"

// ErrUnavailable is returned when the requested dates overlap an
// existing booking while creating a reservation.
var ErrUnavailable = errors.New("requested dates are unavailable")

// ErrDatesUnavailable is returned when the new dates of a reservation
// update overlap another booking. The reservation keeps its current
// dates.
var ErrDatesUnavailable = errors.New("new dates are unavailable")

// ErrCalendarMismatch is returned when a reservation's range is
// missing from its room calendar, which means the stored state has
// drifted and needs operator attention.
var ErrCalendarMismatch = errors.New("reservation range missing from room calendar")
