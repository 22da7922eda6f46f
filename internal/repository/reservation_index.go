package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Basiiii/SmartStay-sub000/internal/model"
)

// ReservationIndex is the id-keyed collection of every reservation the
// engine knows about, cancelled ones included. A reservation exists
// exactly as long as it is present here; cancellation flips its status
// but keeps the record.
//
// The index also owns the identity sequences for reservation and
// payment ids, because the orchestrator needs an id before the
// reservation object exists.
type ReservationIndex struct {
	mu     sync.RWMutex
	byID   map[uint64]*model.Reservation
	seq    *IdentitySequence
	paySeq *IdentitySequence
}

// NewReservationIndex returns an empty index with fresh sequences.
func NewReservationIndex() *ReservationIndex {
	return &ReservationIndex{
		byID:   make(map[uint64]*model.Reservation),
		seq:    NewIdentitySequence(),
		paySeq: NewIdentitySequence(),
	}
}

// NextID mints the id for a reservation about to be created.
func (x *ReservationIndex) NextID() (uint64, error) {
	return x.seq.Next()
}

// NextPaymentID mints the id for a payment about to be recorded.
func (x *ReservationIndex) NextPaymentID() (uint64, error) {
	return x.paySeq.Next()
}

// Insert adds res under its id. It returns ErrDuplicateID when the id
// is already taken, leaving the existing entry untouched.
func (x *ReservationIndex) Insert(res *model.Reservation) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.byID[res.ID()]; ok {
		return fmt.Errorf("%w: reservation %d", ErrDuplicateID, res.ID())
	}
	x.byID[res.ID()] = res
	return nil
}

// Restore adds a reservation rebuilt from persisted state and raises
// the id sequences past it and its payments.
func (x *ReservationIndex) Restore(res *model.Reservation) error {
	if err := x.Insert(res); err != nil {
		return err
	}
	x.seq.Observe(res.ID())
	for _, p := range res.Payments() {
		x.paySeq.Observe(p.ID)
	}
	return nil
}

// Get looks up a reservation by id.
func (x *ReservationIndex) Get(id uint64) (*model.Reservation, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	res, ok := x.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrReservationNotFound, id)
	}
	return res, nil
}

// Remove deletes the reservation with the given id. This is the only
// way a reservation ceases to exist.
func (x *ReservationIndex) Remove(id uint64) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.byID[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrReservationNotFound, id)
	}
	delete(x.byID, id)
	return nil
}

// ByClient returns the client's reservations sorted by id.
func (x *ReservationIndex) ByClient(clientID uint64) []*model.Reservation {
	return x.filter(func(res *model.Reservation) bool {
		return res.ClientID() == clientID
	})
}

// ByRoom returns the room's reservations sorted by id.
func (x *ReservationIndex) ByRoom(roomID uint64) []*model.Reservation {
	return x.filter(func(res *model.Reservation) bool {
		return res.RoomID() == roomID
	})
}

// ByAccommodation returns the accommodation's reservations sorted by
// id.
func (x *ReservationIndex) ByAccommodation(accommodationID uint64) []*model.Reservation {
	return x.filter(func(res *model.Reservation) bool {
		return res.AccommodationID() == accommodationID
	})
}

// All returns every reservation sorted by id.
func (x *ReservationIndex) All() []*model.Reservation {
	return x.filter(func(*model.Reservation) bool { return true })
}

// Len returns the number of reservations held.
func (x *ReservationIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byID)
}

func (x *ReservationIndex) filter(keep func(*model.Reservation) bool) []*model.Reservation {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]*model.Reservation, 0, len(x.byID))
	for _, res := range x.byID {
		if keep(res) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
