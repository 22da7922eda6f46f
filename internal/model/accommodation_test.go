package model

import (
	"errors"
	"testing"

	"github.com/Basiiii/SmartStay-sub000/internal/validate"
)

func newTestAccommodation(t *testing.T) *Accommodation {
	t.Helper()
	acc, err := NewAccommodation(1, 10, AccommodationHotel, "Seaside Hotel", "1 Beach Road, Faro")
	if err != nil {
		t.Fatalf("NewAccommodation: %v", err)
	}
	return acc
}

func TestNewAccommodationValidation(t *testing.T) {
	if _, err := NewAccommodation(0, 10, AccommodationHotel, "Seaside", "1 Beach Road"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("zero id must fail, got %v", err)
	}
	if _, err := NewAccommodation(1, 0, AccommodationHotel, "Seaside", "1 Beach Road"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("zero owner id must fail, got %v", err)
	}
	if _, err := NewAccommodation(1, 10, AccommodationType("castle"), "Seaside", "1 Beach Road"); !errors.Is(err, validate.ErrInvalid) {
		t.Fatalf("unknown type must fail, got %v", err)
	}
	if _, err := NewAccommodation(1, 10, AccommodationHotel, "", "1 Beach Road"); !errors.Is(err, validate.ErrInvalid) {
		t.Fatalf("empty name must fail, got %v", err)
	}
	if _, err := NewAccommodation(1, 10, AccommodationHotel, "Seaside", ""); !errors.Is(err, validate.ErrInvalid) {
		t.Fatalf("empty address must fail, got %v", err)
	}
}

func TestAccommodationRoomSet(t *testing.T) {
	acc := newTestAccommodation(t)

	for _, id := range []uint64{3, 1, 2} {
		room, err := NewRoom(id, RoomSingle, 5000)
		if err != nil {
			t.Fatalf("NewRoom %d: %v", id, err)
		}
		if err := acc.AddRoom(room); err != nil {
			t.Fatalf("AddRoom %d: %v", id, err)
		}
	}
	if acc.RoomCount() != 3 {
		t.Fatalf("room count = %d, want 3", acc.RoomCount())
	}

	dup, err := NewRoom(2, RoomSuite, 9000)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	if err := acc.AddRoom(dup); !errors.Is(err, ErrDuplicateRoom) {
		t.Fatalf("duplicate room id must fail, got %v", err)
	}

	rooms := acc.Rooms()
	for i, room := range rooms {
		if room.ID() != uint64(i+1) {
			t.Fatalf("rooms not sorted by id: %d at position %d", room.ID(), i)
		}
	}

	if _, ok := acc.Room(2); !ok {
		t.Fatalf("room 2 must be resolvable")
	}
	if _, ok := acc.Room(99); ok {
		t.Fatalf("room 99 must not exist")
	}
}

func TestRemoveRoomGuardsBookings(t *testing.T) {
	acc := newTestAccommodation(t)
	room, err := NewRoom(1, RoomDouble, 5000)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	if err := acc.AddRoom(room); err != nil {
		t.Fatalf("AddRoom: %v", err)
	}

	if err := acc.RemoveRoom(42); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("removing unknown room must fail, got %v", err)
	}

	if err := room.Calendar().Add(mustRange(t, date(2026, 8, 1), date(2026, 8, 5))); err != nil {
		t.Fatalf("calendar add: %v", err)
	}
	if !acc.HasBookings() {
		t.Fatalf("accommodation with a booked room must report bookings")
	}
	if err := acc.RemoveRoom(1); !errors.Is(err, ErrRoomOccupied) {
		t.Fatalf("removing a booked room must fail, got %v", err)
	}

	if !room.Calendar().Remove(mustRange(t, date(2026, 8, 1), date(2026, 8, 5))) {
		t.Fatalf("calendar remove failed")
	}
	if acc.HasBookings() {
		t.Fatalf("accommodation must report no bookings after removal")
	}
	if err := acc.RemoveRoom(1); err != nil {
		t.Fatalf("removing a free room: %v", err)
	}
	if acc.RoomCount() != 0 {
		t.Fatalf("room count = %d after removal, want 0", acc.RoomCount())
	}
}

func TestAccommodationSetters(t *testing.T) {
	acc := newTestAccommodation(t)

	if err := acc.SetName("Harbour View"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if err := acc.SetAddress("2 Dock Street, Porto"); err != nil {
		t.Fatalf("set address: %v", err)
	}
	if err := acc.SetType(AccommodationGuesthouse); err != nil {
		t.Fatalf("set type: %v", err)
	}
	if acc.Name() != "Harbour View" || acc.Address() != "2 Dock Street, Porto" || acc.Type() != AccommodationGuesthouse {
		t.Fatalf("setters lost state: %s / %s / %s", acc.Name(), acc.Address(), acc.Type())
	}

	if err := acc.SetName(""); !errors.Is(err, validate.ErrInvalid) {
		t.Fatalf("empty name must fail, got %v", err)
	}
	if err := acc.SetType(AccommodationType("igloo")); !errors.Is(err, validate.ErrInvalid) {
		t.Fatalf("unknown type must fail, got %v", err)
	}
	if acc.Name() != "Harbour View" {
		t.Fatalf("failed setter must not change the name")
	}
}
