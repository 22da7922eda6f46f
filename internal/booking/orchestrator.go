package booking

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Basiiii/SmartStay-sub000/internal/events"
	"github.com/Basiiii/SmartStay-sub000/internal/model"
	"github.com/Basiiii/SmartStay-sub000/internal/repository"
	"github.com/Basiiii/SmartStay-sub000/internal/store"
)

// Clock supplies the current time so tests can pin it.
type Clock interface {
	Now() time.Time
}

// RealClock is the Clock used outside tests.
type RealClock struct{}

// Now implements Clock.
func (RealClock) Now() time.Time { return time.Now() }

// Orchestrator coordinates reservation operations across the
// accommodation, client, owner and reservation repositories. It owns
// no entity state itself; it sequences the repositories' and entities'
// conflict-checked operations and undoes earlier steps when a later
// one fails.
type Orchestrator struct {
	accommodations *repository.AccommodationRepo
	clients        *repository.ClientRepo
	owners         *repository.OwnerRepo
	reservations   *repository.ReservationIndex
	sink           events.Sink
	log            *logrus.Logger
	clock          Clock
}

// NewOrchestrator wires an orchestrator over the given repositories.
// A nil sink disables telemetry and a nil log falls back to the
// standard logger.
func NewOrchestrator(
	accommodations *repository.AccommodationRepo,
	clients *repository.ClientRepo,
	owners *repository.OwnerRepo,
	reservations *repository.ReservationIndex,
	sink events.Sink,
	log *logrus.Logger,
) *Orchestrator {
	if sink == nil {
		sink = events.NopSink{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Orchestrator{
		accommodations: accommodations,
		clients:        clients,
		owners:         owners,
		reservations:   reservations,
		sink:           sink,
		log:            log,
		clock:          RealClock{},
	}
}

// NewEmptyOrchestrator wires an orchestrator over fresh repositories.
func NewEmptyOrchestrator(sink events.Sink, log *logrus.Logger) *Orchestrator {
	owners := repository.NewOwnerRepo()
	return NewOrchestrator(
		repository.NewAccommodationRepo(owners),
		repository.NewClientRepo(),
		owners,
		repository.NewReservationIndex(),
		sink,
		log,
	)
}

// Accommodations returns the accommodation repository for property
// management calls.
func (o *Orchestrator) Accommodations() *repository.AccommodationRepo { return o.accommodations }

// Clients returns the client repository.
func (o *Orchestrator) Clients() *repository.ClientRepo { return o.clients }

// Owners returns the owner repository.
func (o *Orchestrator) Owners() *repository.OwnerRepo { return o.owners }

// Reservation looks up a reservation by id.
func (o *Orchestrator) Reservation(id uint64) (*model.Reservation, error) {
	return o.reservations.Get(id)
}

// ReservationsByClient returns the client's reservations sorted by id.
func (o *Orchestrator) ReservationsByClient(clientID uint64) []*model.Reservation {
	return o.reservations.ByClient(clientID)
}

// ReservationsByRoom returns the room's reservations sorted by id.
func (o *Orchestrator) ReservationsByRoom(roomID uint64) []*model.Reservation {
	return o.reservations.ByRoom(roomID)
}

// ReservationsByAccommodation returns the accommodation's reservations
// sorted by id.
func (o *Orchestrator) ReservationsByAccommodation(accommodationID uint64) []*model.Reservation {
	return o.reservations.ByAccommodation(accommodationID)
}

// Reservations returns every reservation sorted by id.
func (o *Orchestrator) Reservations() []*model.Reservation {
	return o.reservations.All()
}

// CheckAvailability reports whether the room is free over the stay.
// The answer is advisory; creating the reservation re-checks under the
// calendar lock.
func (o *Orchestrator) CheckAvailability(accommodationID, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	room, err := o.accommodations.Room(accommodationID, roomID)
	if err != nil {
		return false, err
	}
	rng, err := model.NewDateRange(checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return room.Calendar().IsAvailable(rng, nil), nil
}

// QuoteCost quotes the stay at the room's current nightly price
// without reserving anything.
func (o *Orchestrator) QuoteCost(accommodationID, roomID uint64, checkIn, checkOut time.Time) (int64, error) {
	room, err := o.accommodations.Room(accommodationID, roomID)
	if err != nil {
		return 0, err
	}
	return room.TotalCost(checkIn, checkOut)
}

// Snapshot captures the full engine state for persistence. Collections
// come out sorted by id so snapshots of the same state are identical.
func (o *Orchestrator) Snapshot() *store.Snapshot {
	snap := &store.Snapshot{SavedAt: o.clock.Now().UTC()}
	for _, owner := range o.owners.List() {
		ids, err := o.owners.AccommodationIDs(owner.ID)
		if err != nil {
			ids = nil
		}
		snap.Owners = append(snap.Owners, store.RecordOwner(owner, ids))
	}
	for _, client := range o.clients.List() {
		snap.Clients = append(snap.Clients, store.RecordClient(client))
	}
	for _, acc := range o.accommodations.List() {
		snap.Accommodations = append(snap.Accommodations, store.RecordAccommodation(acc))
	}
	for _, res := range o.reservations.All() {
		snap.Reservations = append(snap.Reservations, store.RecordReservation(res))
	}
	return snap
}

// FromSnapshot rebuilds a fully loaded orchestrator from persisted
// state. Every entity passes the same validation as at creation, every
// restored id raises its identity sequence, and every booked range
// goes back through the calendar's conflict check, so a snapshot that
// would put the engine in an impossible state is rejected as a whole
// rather than partially applied.
func FromSnapshot(snap *store.Snapshot, sink events.Sink, log *logrus.Logger) (*Orchestrator, error) {
	o := NewEmptyOrchestrator(sink, log)
	if snap == nil {
		return o, nil
	}

	for _, rec := range snap.Owners {
		owner, err := model.NewOwner(rec.ID, rec.Name, rec.Email, rec.Phone)
		if err != nil {
			return nil, fmt.Errorf("restore owner %d: %w", rec.ID, err)
		}
		if err := o.owners.Restore(owner, rec.AccommodationIDs); err != nil {
			return nil, fmt.Errorf("restore owner %d: %w", rec.ID, err)
		}
	}

	for _, rec := range snap.Clients {
		client, err := model.NewClient(rec.ID, rec.Name, rec.Email, rec.Phone)
		if err != nil {
			return nil, fmt.Errorf("restore client %d: %w", rec.ID, err)
		}
		if err := o.clients.Restore(client); err != nil {
			return nil, fmt.Errorf("restore client %d: %w", rec.ID, err)
		}
	}

	for _, rec := range snap.Accommodations {
		acc, err := restoreAccommodation(rec)
		if err != nil {
			return nil, err
		}
		owned, err := o.owners.AccommodationIDs(rec.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("restore accommodation %d: %w", rec.ID, err)
		}
		if !slices.Contains(owned, rec.ID) {
			return nil, fmt.Errorf("restore accommodation %d: owner %d does not list it", rec.ID, rec.OwnerID)
		}
		if err := o.accommodations.Restore(acc); err != nil {
			return nil, fmt.Errorf("restore accommodation %d: %w", rec.ID, err)
		}
	}

	for _, rec := range snap.Reservations {
		res, err := store.ReservationFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("restore reservation: %w", err)
		}
		if res.Status() != model.StatusCancelled {
			room, err := o.accommodations.Room(res.AccommodationID(), res.RoomID())
			if err != nil {
				return nil, fmt.Errorf("restore reservation %d: %w", res.ID(), err)
			}
			if !room.Calendar().Holds(res.Range()) {
				return nil, fmt.Errorf("restore reservation %d: %w", res.ID(), ErrCalendarMismatch)
			}
		}
		if err := o.reservations.Restore(res); err != nil {
			return nil, fmt.Errorf("restore reservation %d: %w", res.ID(), err)
		}
	}
	return o, nil
}

func restoreAccommodation(rec store.AccommodationRecord) (*model.Accommodation, error) {
	acc, err := model.NewAccommodation(rec.ID, rec.OwnerID, model.AccommodationType(rec.Type), rec.Name, rec.Address)
	if err != nil {
		return nil, fmt.Errorf("restore accommodation %d: %w", rec.ID, err)
	}
	for _, rr := range rec.Rooms {
		room, err := model.NewRoom(rr.ID, model.RoomType(rr.Type), rr.PricePerNightCents)
		if err != nil {
			return nil, fmt.Errorf("restore room %d: %w", rr.ID, err)
		}
		for _, br := range rr.BookedRanges {
			rng, err := model.NewDateRange(br.Start, br.End)
			if err != nil {
				return nil, fmt.Errorf("restore room %d: %w", rr.ID, err)
			}
			if err := room.Calendar().Add(rng); err != nil {
				return nil, fmt.Errorf("restore room %d: %w", rr.ID, err)
			}
		}
		if err := acc.AddRoom(room); err != nil {
			return nil, fmt.Errorf("restore accommodation %d: %w", rec.ID, err)
		}
	}
	return acc, nil
}

// emit publishes ev and logs a publish failure without failing the
// operation that emitted it.
func (o *Orchestrator) emit(ctx context.Context, ev events.Event) {
	if err := o.sink.Publish(ctx, ev); err != nil {
		o.log.WithError(err).WithField("kind", ev.Kind()).Warn("publish event failed")
	}
}

// succeeded emits the success counterpart of base with a fresh id and
// timestamp.
func (o *Orchestrator) succeeded(ctx context.Context, base events.Event) {
	ev := events.New(base.Op, events.PhaseSucceeded)
	ev.ReservationID = base.ReservationID
	ev.ClientID = base.ClientID
	ev.AccommodationID = base.AccommodationID
	ev.RoomID = base.RoomID
	ev.Details = base.Details
	o.emit(ctx, ev)
}

// failed emits the failure counterpart of base carrying err and
// returns err so operations can emit and bail in one statement.
func (o *Orchestrator) failed(ctx context.Context, base events.Event, err error) error {
	ev := events.New(base.Op, events.PhaseFailed)
	ev.ReservationID = base.ReservationID
	ev.ClientID = base.ClientID
	ev.AccommodationID = base.AccommodationID
	ev.RoomID = base.RoomID
	ev.Details = base.Details
	ev.Error = err.Error()
	o.emit(ctx, ev)
	return err
}
