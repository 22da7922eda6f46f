package model

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Basiiii/SmartStay-sub000/internal/validate"
)

// AccommodationType classifies a property.
type AccommodationType string

// Supported accommodation types.
const (
	AccommodationHotel      AccommodationType = "hotel"
	AccommodationApartment  AccommodationType = "apartment"
	AccommodationHostel     AccommodationType = "hostel"
	AccommodationGuesthouse AccommodationType = "guesthouse"
)

// Accommodation is a property owned by exactly one owner and holding
// the rooms that clients book. Descriptive fields change through
// validated setters; the room set changes through AddRoom and
// RemoveRoom, which guard against removing a room that still has
// booked dates.
//
// All methods are safe for concurrent use.
type Accommodation struct {
	id      uint64
	ownerID uint64

	mu      sync.RWMutex
	accType AccommodationType
	name    string
	address string
	rooms   map[uint64]*Room
}

// NewAccommodation builds an accommodation with no rooms. Name,
// address and type pass the same validation used for later mutation.
func NewAccommodation(id, ownerID uint64, accType AccommodationType, name, address string) (*Accommodation, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: zero accommodation id", ErrInvalidID)
	}
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: zero owner id", ErrInvalidID)
	}
	if err := validate.AccommodationType(string(accType)); err != nil {
		return nil, err
	}
	if err := validate.Name(name); err != nil {
		return nil, err
	}
	if err := validate.Address(address); err != nil {
		return nil, err
	}
	return &Accommodation{
		id:      id,
		ownerID: ownerID,
		accType: accType,
		name:    name,
		address: address,
		rooms:   make(map[uint64]*Room),
	}, nil
}

// ID returns the accommodation identifier.
func (a *Accommodation) ID() uint64 { return a.id }

// OwnerID returns the identifier of the owning owner.
func (a *Accommodation) OwnerID() uint64 { return a.ownerID }

// Type returns the current accommodation type.
func (a *Accommodation) Type() AccommodationType {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.accType
}

// Name returns the current display name.
func (a *Accommodation) Name() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.name
}

// Address returns the current street address.
func (a *Accommodation) Address() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.address
}

// SetType changes the accommodation type after validation. Existing
// reservations keep the type they captured at booking time.
func (a *Accommodation) SetType(accType AccommodationType) error {
	if err := validate.AccommodationType(string(accType)); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accType = accType
	return nil
}

// SetName changes the display name after validation.
func (a *Accommodation) SetName(name string) error {
	if err := validate.Name(name); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.name = name
	return nil
}

// SetAddress changes the street address after validation.
func (a *Accommodation) SetAddress(address string) error {
	if err := validate.Address(address); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.address = address
	return nil
}

// AddRoom registers room under its id. It returns ErrDuplicateRoom
// when the id is already taken.
func (a *Accommodation) AddRoom(room *Room) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.rooms[room.ID()]; ok {
		return fmt.Errorf("%w: id %d", ErrDuplicateRoom, room.ID())
	}
	a.rooms[room.ID()] = room
	return nil
}

// RemoveRoom deletes the room with the given id. It returns
// ErrRoomOccupied while the room's calendar still holds bookings, so
// rooms with future or past stays stay queryable.
func (a *Accommodation) RemoveRoom(id uint64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	room, ok := a.rooms[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
	}
	if room.Calendar().Len() > 0 {
		return fmt.Errorf("%w: room %d", ErrRoomOccupied, id)
	}
	delete(a.rooms, id)
	return nil
}

// Room looks up a room by id.
func (a *Accommodation) Room(id uint64) (*Room, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	room, ok := a.rooms[id]
	return room, ok
}

// Rooms returns the rooms sorted by id.
func (a *Accommodation) Rooms() []*Room {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*Room, 0, len(a.rooms))
	for _, room := range a.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// RoomCount returns the number of rooms.
func (a *Accommodation) RoomCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.rooms)
}

// HasBookings reports whether any room calendar holds at least one
// booked range. Accommodations with bookings cannot be deleted.
func (a *Accommodation) HasBookings() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, room := range a.rooms {
		if room.Calendar().Len() > 0 {
			return true
		}
	}
	return false
}
