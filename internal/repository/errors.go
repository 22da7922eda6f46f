// Package repository keeps the engine's entities in memory: flat
// id-keyed collections for owners, clients and accommodations, an
// indexed collection for reservations, and the identity sequences that
// mint their ids. Repositories guard their maps with read-write locks
// and hand out the shared entity pointers; entity-level invariants are
// enforced by the entities themselves.
package repository

import "errors"

// ErrAccommodationNotFound is returned when no accommodation exists
// with the requested id.
var ErrAccommodationNotFound = errors.New("accommodation not found")

// ErrReservationNotFound is returned when no reservation exists with
// the requested id.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrClientNotFound is returned when no client exists with the
// requested id.
var ErrClientNotFound = errors.New("client not found")

// ErrOwnerNotFound is returned when no owner exists with the requested
// id.
var ErrOwnerNotFound = errors.New("owner not found")

// ErrDuplicateID is returned when an entity is inserted under an id
// that is already taken. With ids minted by the identity sequences
// this indicates a restore of inconsistent data or a caller bug.
var ErrDuplicateID = errors.New("duplicate id")

// ErrIDExhausted is returned when an identity sequence reaches the
// numeric maximum. It is fatal: the sequence refuses to wrap around
// and reissue ids.
var ErrIDExhausted = errors.New("identifier space exhausted")

// ErrAccommodationOccupied is returned when an accommodation whose
// rooms still hold booked dates would be deleted.
var ErrAccommodationOccupied = errors.New("accommodation has booked dates")

// ErrOwnerHasProperties is returned when an owner who still holds
// accommodations would be removed.
var ErrOwnerHasProperties = errors.New("owner still holds accommodations")
