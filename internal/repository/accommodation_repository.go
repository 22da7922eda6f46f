package repository

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Basiiii/SmartStay-sub000/internal/model"
)

// AccommodationRepo keeps the accommodations and coordinates the
// owner association on create and delete. It mints accommodation ids
// and room ids from its own sequences; room ids are unique across the
// whole engine, not per accommodation, so a reservation can name its
// room without ambiguity.
type AccommodationRepo struct {
	mu      sync.RWMutex
	byID    map[uint64]*model.Accommodation
	seq     *IdentitySequence
	roomSeq *IdentitySequence
	owners  *OwnerRepo
}

// NewAccommodationRepo returns an empty repository bound to the owner
// repository it keeps associations in step with.
func NewAccommodationRepo(owners *OwnerRepo) *AccommodationRepo {
	return &AccommodationRepo{
		byID:    make(map[uint64]*model.Accommodation),
		seq:     NewIdentitySequence(),
		roomSeq: NewIdentitySequence(),
		owners:  owners,
	}
}

// Create validates the fields, mints an id, stores the accommodation
// and attaches it to its owner. When the owner disappears between the
// existence check and the attach, the stored accommodation is removed
// again so no property ends up without an owner.
func (r *AccommodationRepo) Create(ownerID uint64, accType model.AccommodationType, name, address string) (*model.Accommodation, error) {
	if _, err := r.owners.Get(ownerID); err != nil {
		return nil, err
	}
	id, err := r.seq.Next()
	if err != nil {
		return nil, err
	}
	acc, err := model.NewAccommodation(id, ownerID, accType, name, address)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.byID[acc.ID()] = acc
	r.mu.Unlock()
	if err := r.owners.Attach(ownerID, acc.ID()); err != nil {
		r.mu.Lock()
		delete(r.byID, acc.ID())
		r.mu.Unlock()
		return nil, err
	}
	return acc, nil
}

// Restore inserts an accommodation rebuilt from persisted state and
// raises the sequences past its id and its room ids. The owner
// association is restored by the owner repository, not here.
func (r *AccommodationRepo) Restore(acc *model.Accommodation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[acc.ID()]; ok {
		return fmt.Errorf("%w: accommodation %d", ErrDuplicateID, acc.ID())
	}
	r.byID[acc.ID()] = acc
	r.seq.Observe(acc.ID())
	for _, room := range acc.Rooms() {
		r.roomSeq.Observe(room.ID())
	}
	return nil
}

// Get looks up an accommodation by id.
func (r *AccommodationRepo) Get(id uint64) (*model.Accommodation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrAccommodationNotFound, id)
	}
	return acc, nil
}

// List returns every accommodation sorted by id.
func (r *AccommodationRepo) List() []*model.Accommodation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Accommodation, 0, len(r.byID))
	for _, acc := range r.byID {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Delete removes an accommodation and detaches it from its owner.
// Accommodations whose rooms still hold booked dates return
// ErrAccommodationOccupied and stay untouched.
func (r *AccommodationRepo) Delete(id uint64) error {
	r.mu.Lock()
	acc, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: id %d", ErrAccommodationNotFound, id)
	}
	if acc.HasBookings() {
		r.mu.Unlock()
		return fmt.Errorf("%w: accommodation %d", ErrAccommodationOccupied, id)
	}
	delete(r.byID, id)
	r.mu.Unlock()
	if err := r.owners.Detach(acc.OwnerID(), id); err != nil && !errors.Is(err, ErrOwnerNotFound) {
		return err
	}
	return nil
}

// AddRoom mints a room id, builds the room and registers it on the
// accommodation.
func (r *AccommodationRepo) AddRoom(accommodationID uint64, roomType model.RoomType, priceCents int64) (*model.Room, error) {
	acc, err := r.Get(accommodationID)
	if err != nil {
		return nil, err
	}
	id, err := r.roomSeq.Next()
	if err != nil {
		return nil, err
	}
	room, err := model.NewRoom(id, roomType, priceCents)
	if err != nil {
		return nil, err
	}
	if err := acc.AddRoom(room); err != nil {
		return nil, err
	}
	return room, nil
}

// RemoveRoom deletes a room from the accommodation. Rooms whose
// calendars still hold booked dates are refused by the accommodation.
func (r *AccommodationRepo) RemoveRoom(accommodationID, roomID uint64) error {
	acc, err := r.Get(accommodationID)
	if err != nil {
		return err
	}
	return acc.RemoveRoom(roomID)
}

// Room resolves a room through its accommodation in one call,
// distinguishing a missing accommodation from a missing room in the
// returned error.
func (r *AccommodationRepo) Room(accommodationID, roomID uint64) (*model.Room, error) {
	acc, err := r.Get(accommodationID)
	if err != nil {
		return nil, err
	}
	room, ok := acc.Room(roomID)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", model.ErrRoomNotFound, roomID)
	}
	return room, nil
}

// Len returns the number of accommodations held.
func (r *AccommodationRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
