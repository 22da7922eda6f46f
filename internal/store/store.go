// Package store persists engine snapshots. A snapshot is a plain
// record tree of everything the engine holds; the engine saves one on
// shutdown and restores from one on start. Two backends implement the
// same interface: a JSON file for single-node setups and MySQL for
// shared durability.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Basiiii/SmartStay-sub000/internal/model"
)

// Store saves and loads engine snapshots.
type Store interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
}

// Snapshot is the full persisted state of the engine.
//
// Fields:
//
//	SavedAt        – when the snapshot was taken.
//	Owners         – property owners with their accommodation ids.
//	Clients        – guests.
//	Accommodations – properties with rooms and booked ranges.
//	Reservations   – reservations with payment ledgers.
type Snapshot struct {
	SavedAt        time.Time             `json:"saved_at"`
	Owners         []OwnerRecord         `json:"owners"`
	Clients        []ClientRecord        `json:"clients"`
	Accommodations []AccommodationRecord `json:"accommodations"`
	Reservations   []ReservationRecord   `json:"reservations"`
}

// OwnerRecord is the persisted form of an owner.
type OwnerRecord struct {
	ID               uint64   `json:"id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	AccommodationIDs []uint64 `json:"accommodation_ids"`
}

// ClientRecord is the persisted form of a client.
type ClientRecord struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// AccommodationRecord is the persisted form of an accommodation with
// its rooms.
type AccommodationRecord struct {
	ID      uint64       `json:"id"`
	OwnerID uint64       `json:"owner_id"`
	Type    string       `json:"type"`
	Name    string       `json:"name"`
	Address string       `json:"address"`
	Rooms   []RoomRecord `json:"rooms"`
}

// RoomRecord is the persisted form of a room with its booked ranges.
type RoomRecord struct {
	ID                 uint64        `json:"id"`
	Type               string        `json:"type"`
	PricePerNightCents int64         `json:"price_per_night_cents"`
	BookedRanges       []RangeRecord `json:"booked_ranges"`
}

// RangeRecord is the persisted form of one booked date range.
type RangeRecord struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReservationRecord is the persisted form of a reservation with its
// payment ledger.
type ReservationRecord struct {
	ID                uint64          `json:"id"`
	ClientID          uint64          `json:"client_id"`
	AccommodationID   uint64          `json:"accommodation_id"`
	RoomID            uint64          `json:"room_id"`
	AccommodationType string          `json:"accommodation_type"`
	CheckIn           time.Time       `json:"check_in"`
	CheckOut          time.Time       `json:"check_out"`
	Status            string          `json:"status"`
	TotalCostCents    int64           `json:"total_cost_cents"`
	AmountPaidCents   int64           `json:"amount_paid_cents"`
	CreatedAt         time.Time       `json:"created_at"`
	Payments          []PaymentRecord `json:"payments"`
}

// PaymentRecord is the persisted form of a payment.
type PaymentRecord struct {
	ID            uint64    `json:"id"`
	ReservationID uint64    `json:"reservation_id"`
	AmountCents   int64     `json:"amount_cents"`
	Date          time.Time `json:"date"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	Reference     string    `json:"reference"`
}

// RecordOwner converts an owner and its accommodation ids to its
// persisted form.
func RecordOwner(owner *model.Owner, accommodationIDs []uint64) OwnerRecord {
	return OwnerRecord{
		ID:               owner.ID,
		Name:             owner.Name,
		Email:            owner.Email,
		Phone:            owner.Phone,
		AccommodationIDs: accommodationIDs,
	}
}

// RecordClient converts a client to its persisted form.
func RecordClient(client *model.Client) ClientRecord {
	return ClientRecord{ID: client.ID, Name: client.Name, Email: client.Email, Phone: client.Phone}
}

// RecordAccommodation converts an accommodation, its rooms and their
// calendars to the persisted form.
func RecordAccommodation(acc *model.Accommodation) AccommodationRecord {
	rec := AccommodationRecord{
		ID:      acc.ID(),
		OwnerID: acc.OwnerID(),
		Type:    string(acc.Type()),
		Name:    acc.Name(),
		Address: acc.Address(),
	}
	for _, room := range acc.Rooms() {
		roomRec := RoomRecord{
			ID:                 room.ID(),
			Type:               string(room.Type()),
			PricePerNightCents: room.NightlyPriceCents(),
		}
		for _, rng := range room.Calendar().Ranges() {
			roomRec.BookedRanges = append(roomRec.BookedRanges, RangeRecord{Start: rng.Start(), End: rng.End()})
		}
		rec.Rooms = append(rec.Rooms, roomRec)
	}
	return rec
}

// RecordReservation converts a reservation and its payment ledger to
// the persisted form.
func RecordReservation(res *model.Reservation) ReservationRecord {
	rec := ReservationRecord{
		ID:                res.ID(),
		ClientID:          res.ClientID(),
		AccommodationID:   res.AccommodationID(),
		RoomID:            res.RoomID(),
		AccommodationType: string(res.AccommodationKind()),
		CheckIn:           res.CheckInDate(),
		CheckOut:          res.CheckOutDate(),
		Status:            string(res.Status()),
		TotalCostCents:    res.TotalCostCents(),
		AmountPaidCents:   res.AmountPaidCents(),
		CreatedAt:         res.CreatedAt(),
	}
	for _, p := range res.Payments() {
		rec.Payments = append(rec.Payments, PaymentRecord{
			ID:            p.ID,
			ReservationID: p.ReservationID,
			AmountCents:   p.AmountCents,
			Date:          p.Date,
			Method:        string(p.Method),
			Status:        string(p.Status),
			Reference:     p.Reference,
		})
	}
	return rec
}

// ReservationFromRecord rebuilds a reservation from its persisted
// form.
func ReservationFromRecord(rec ReservationRecord) (*model.Reservation, error) {
	payments := make([]model.Payment, 0, len(rec.Payments))
	for _, p := range rec.Payments {
		payments = append(payments, model.Payment{
			ID:            p.ID,
			ReservationID: p.ReservationID,
			AmountCents:   p.AmountCents,
			Date:          p.Date,
			Method:        model.PaymentMethod(p.Method),
			Status:        model.PaymentStatus(p.Status),
			Reference:     p.Reference,
		})
	}
	res, err := model.RestoreReservation(
		rec.ID, rec.ClientID, rec.AccommodationID, rec.RoomID,
		model.AccommodationType(rec.AccommodationType),
		rec.CheckIn, rec.CheckOut,
		model.ReservationStatus(rec.Status),
		rec.TotalCostCents, rec.AmountPaidCents,
		payments, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("reservation %d: %w", rec.ID, err)
	}
	return res, nil
}
