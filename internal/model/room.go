package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/Basiiii/SmartStay-sub000/internal/validate"
)

// RoomType classifies a room by its layout.
type RoomType string

// Supported room types.
const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomSuite  RoomType = "suite"
	RoomFamily RoomType = "family"
)

// Room is a bookable unit inside an accommodation. It couples the
// room's pricing with the calendar that tracks its booked dates; cost
// quotes and availability answers always come from the same room
// instance.
//
// All methods are safe for concurrent use. Prices are in cents.
type Room struct {
	id       uint64
	calendar *Calendar

	mu         sync.RWMutex
	roomType   RoomType
	priceCents int64
}

// NewRoom builds a room with an empty calendar. The type and nightly
// price pass the same validation used for later mutation.
func NewRoom(id uint64, roomType RoomType, priceCents int64) (*Room, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: zero room id", ErrInvalidID)
	}
	if err := validate.RoomType(string(roomType)); err != nil {
		return nil, err
	}
	if err := validate.NightlyPrice(priceCents); err != nil {
		return nil, err
	}
	return &Room{
		id:         id,
		calendar:   NewCalendar(),
		roomType:   roomType,
		priceCents: priceCents,
	}, nil
}

// ID returns the room identifier.
func (r *Room) ID() uint64 { return r.id }

// Calendar returns the room's booking calendar. The calendar is shared
// state; it only changes through its own conflict-checked operations.
func (r *Room) Calendar() *Calendar { return r.calendar }

// Type returns the room's current type.
func (r *Room) Type() RoomType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roomType
}

// NightlyPriceCents returns the current price of one night in cents.
func (r *Room) NightlyPriceCents() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.priceCents
}

// SetType changes the room's type after validation.
func (r *Room) SetType(roomType RoomType) error {
	if err := validate.RoomType(string(roomType)); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roomType = roomType
	return nil
}

// SetNightlyPrice changes the nightly price after validation. Existing
// reservations keep the total they were quoted; only new quotes see
// the new price.
func (r *Room) SetNightlyPrice(priceCents int64) error {
	if err := validate.NightlyPrice(priceCents); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.priceCents = priceCents
	return nil
}

// TotalCost quotes the stay between checkIn and checkOut at the
// current nightly price. It returns ErrInvalidRange when the interval
// is inverted or spans less than one full night.
func (r *Room) TotalCost(checkIn, checkOut time.Time) (int64, error) {
	rng, err := NewDateRange(checkIn, checkOut)
	if err != nil {
		return 0, err
	}
	nights := rng.Nights()
	if nights < 1 {
		return 0, fmt.Errorf("%w: stay %s is shorter than one night", ErrInvalidRange, rng)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return nights * r.priceCents, nil
}
