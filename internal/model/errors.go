// Package model defines the booking domain entities: date ranges, per-room
// calendars, rooms, accommodations, reservations and payments. These
// sentinel values let higher layers such as the booking orchestrator
// distinguish between failure scenarios with errors.Is instead of
// inspecting strings. For example, ErrConflict signals that a date range
// collides with an existing calendar entry, while ErrInvalidTransition
// marks an illegal reservation status change.
package model

import "errors"

// ErrInvalidRange is returned when a date range would be empty or
// inverted (end at or before start), or when a stay spans less than
// one full night.
var ErrInvalidRange = errors.New("invalid date range")

// ErrConflict is returned when a date range overlaps an entry already
// held in a room's calendar. It is an expected outcome of normal
// operation, not a fault; callers choose different dates and retry.
var ErrConflict = errors.New("date range conflicts with an existing booking")

// ErrRangeNotFound is returned when an exact calendar entry that was
// expected to be present is missing, which indicates the reservation
// records and the calendar have drifted apart.
var ErrRangeNotFound = errors.New("date range not held in calendar")

// ErrInvalidTransition is returned when a reservation status operation
// is attempted from a state that does not permit it. It indicates a
// caller logic bug and is never retried.
var ErrInvalidTransition = errors.New("invalid reservation status transition")

// ErrInvalidReservation is returned when a reservation cannot be
// constructed because one of its identifiers, dates or amounts fails
// validation.
var ErrInvalidReservation = errors.New("invalid reservation")

// ErrInvalidID is returned when an entity is constructed with the zero
// identifier, which the identity sequences never issue.
var ErrInvalidID = errors.New("invalid identifier")

// ErrRoomNotFound is returned when an accommodation holds no room with
// the requested identifier.
var ErrRoomNotFound = errors.New("room not found")

// ErrDuplicateRoom is returned when a room id is added to an
// accommodation that already holds it.
var ErrDuplicateRoom = errors.New("duplicate room id")

// ErrRoomOccupied is returned when a room whose calendar still holds
// booked dates would be removed.
var ErrRoomOccupied = errors.New("room has booked dates")

// ErrInvalidPayment is returned when a payment amount is zero or
// negative.
var ErrInvalidPayment = errors.New("invalid payment amount")

// ErrAlreadyPaid is returned when a payment is recorded against a
// reservation whose balance is already settled.
var ErrAlreadyPaid = errors.New("reservation already fully paid")

// ErrPaymentExceedsBalance is returned when a payment, or a date change
// that lowers the total cost, would push the amount paid above the
// reservation's total cost.
var ErrPaymentExceedsBalance = errors.New("payment exceeds remaining balance")
