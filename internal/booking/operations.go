package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Basiiii/SmartStay-sub000/internal/events"
	"github.com/Basiiii/SmartStay-sub000/internal/model"
)

// CreateReservation books the room for the stay. The flow resolves
// client, accommodation and room, quotes the cost at the current
// nightly price, constructs the reservation and only then commits the
// range; the calendar re-checks availability under its own lock, so a
// race with another booking surfaces here as ErrUnavailable even when
// the advisory check passed. If indexing the reservation fails after
// the range was committed, the range is removed again.
func (o *Orchestrator) CreateReservation(ctx context.Context, clientID, accommodationID, roomID uint64, checkIn, checkOut time.Time) (*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ev := events.New(events.OpReservationCreate, events.PhaseAttempt)
	ev.ClientID = clientID
	ev.AccommodationID = accommodationID
	ev.RoomID = roomID
	ev.Details = stayDetails(checkIn, checkOut)
	o.emit(ctx, ev)

	if _, err := o.clients.Get(clientID); err != nil {
		return nil, o.failed(ctx, ev, err)
	}
	acc, err := o.accommodations.Get(accommodationID)
	if err != nil {
		return nil, o.failed(ctx, ev, err)
	}
	room, ok := acc.Room(roomID)
	if !ok {
		return nil, o.failed(ctx, ev, fmt.Errorf("%w: id %d", model.ErrRoomNotFound, roomID))
	}

	rng, err := model.NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, o.failed(ctx, ev, err)
	}
	if !room.Calendar().IsAvailable(rng, nil) {
		return nil, o.failed(ctx, ev, fmt.Errorf("%w: room %d over %s", ErrUnavailable, roomID, rng))
	}
	totalCents, err := room.TotalCost(checkIn, checkOut)
	if err != nil {
		return nil, o.failed(ctx, ev, fmt.Errorf("compute cost: %w", err))
	}

	id, err := o.reservations.NextID()
	if err != nil {
		return nil, o.failed(ctx, ev, err)
	}
	res, err := model.NewReservation(id, clientID, accommodationID, roomID, acc.Type(), checkIn, checkOut, totalCents, o.clock.Now())
	if err != nil {
		return nil, o.failed(ctx, ev, err)
	}

	if err := room.Calendar().Add(rng); err != nil {
		if errors.Is(err, model.ErrConflict) {
			err = fmt.Errorf("%w: room %d over %s", ErrUnavailable, roomID, rng)
		}
		return nil, o.failed(ctx, ev, err)
	}
	if err := o.reservations.Insert(res); err != nil {
		if !room.Calendar().Remove(rng) {
			o.log.WithFields(logrus.Fields{
				"reservation_id": res.ID(),
				"room_id":        roomID,
			}).Error("range vanished while undoing failed reservation insert")
		}
		return nil, o.failed(ctx, ev, err)
	}

	ev.ReservationID = res.ID()
	ev.Details["total_cost_cents"] = strconv.FormatInt(totalCents, 10)
	o.succeeded(ctx, ev)
	o.log.WithFields(logrus.Fields{
		"reservation_id":   res.ID(),
		"client_id":        clientID,
		"accommodation_id": accommodationID,
		"room_id":          roomID,
		"stay":             rng.String(),
		"total_cents":      totalCents,
	}).Info("reservation created")
	return res, nil
}

// UpdateReservationDates moves a reservation to new dates and reprices
// it at the room's current nightly price. Nil arguments keep the
// corresponding current date. The old and new ranges swap atomically
// under the calendar lock, so the stay is never given up before the
// new dates are secured: on conflict the old range stays held and
// ErrDatesUnavailable is returned. A shorter stay is rejected when the
// amount already paid would exceed the new total.
func (o *Orchestrator) UpdateReservationDates(ctx context.Context, reservationID uint64, newCheckIn, newCheckOut *time.Time) (*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ev := events.New(events.OpReservationUpdate, events.PhaseAttempt)
	ev.ReservationID = reservationID
	o.emit(ctx, ev)

	res, err := o.reservations.Get(reservationID)
	if err != nil {
		return nil, o.failed(ctx, ev, err)
	}
	ev.ClientID = res.ClientID()
	ev.AccommodationID = res.AccommodationID()
	ev.RoomID = res.RoomID()

	room, err := o.accommodations.Room(res.AccommodationID(), res.RoomID())
	if err != nil {
		return nil, o.failed(ctx, ev, err)
	}

	checkIn := res.CheckInDate()
	checkOut := res.CheckOutDate()
	if newCheckIn != nil {
		checkIn = *newCheckIn
	}
	if newCheckOut != nil {
		checkOut = *newCheckOut
	}
	ev.Details = stayDetails(checkIn, checkOut)

	newRng, err := model.NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, o.failed(ctx, ev, err)
	}
	oldRng := res.Range()
	if newRng.Equal(oldRng) {
		o.succeeded(ctx, ev)
		return res, nil
	}

	if !room.Calendar().IsAvailable(newRng, &oldRng) {
		return nil, o.failed(ctx, ev, fmt.Errorf("%w: room %d over %s", ErrDatesUnavailable, res.RoomID(), newRng))
	}
	newTotal, err := room.TotalCost(checkIn, checkOut)
	if err != nil {
		return nil, o.failed(ctx, ev, fmt.Errorf("compute cost: %w", err))
	}
	if paid := res.AmountPaidCents(); paid > newTotal {
		return nil, o.failed(ctx, ev, fmt.Errorf("%w: %d cents already paid, new total is %d", model.ErrPaymentExceedsBalance, paid, newTotal))
	}

	if err := room.Calendar().Replace(oldRng, newRng); err != nil {
		if errors.Is(err, model.ErrConflict) {
			err = fmt.Errorf("%w: room %d over %s", ErrDatesUnavailable, res.RoomID(), newRng)
		}
		return nil, o.failed(ctx, ev, err)
	}
	if err := res.SetDates(checkIn, checkOut, newTotal); err != nil {
		// A payment recorded between the guard above and here can push
		// the paid amount over the new total; give the new dates back.
		if rerr := room.Calendar().Replace(newRng, oldRng); rerr != nil {
			o.log.WithError(rerr).WithField("reservation_id", reservationID).
				Error("restore calendar after failed reprice")
		}
		return nil, o.failed(ctx, ev, err)
	}

	ev.Details["total_cost_cents"] = strconv.FormatInt(newTotal, 10)
	o.succeeded(ctx, ev)
	o.log.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"stay":           newRng.String(),
		"total_cents":    newTotal,
	}).Info("reservation dates updated")
	return res, nil
}

// CancelReservation frees the reservation's dates and marks it
// cancelled. The range is removed first; when it is missing the stored
// state has drifted and the operation fails with ErrCalendarMismatch
// before touching the status. When the status transition itself is
// illegal the range is re-added, so a reservation that cannot be
// cancelled keeps its dates.
func (o *Orchestrator) CancelReservation(ctx context.Context, reservationID uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ev := events.New(events.OpReservationCancel, events.PhaseAttempt)
	ev.ReservationID = reservationID
	o.emit(ctx, ev)

	res, err := o.reservations.Get(reservationID)
	if err != nil {
		return o.failed(ctx, ev, err)
	}
	ev.ClientID = res.ClientID()
	ev.AccommodationID = res.AccommodationID()
	ev.RoomID = res.RoomID()

	room, err := o.accommodations.Room(res.AccommodationID(), res.RoomID())
	if err != nil {
		return o.failed(ctx, ev, err)
	}

	// Terminal reservations hold no range anymore (cancelled) or must
	// keep it as history (checked out); report the illegal transition
	// instead of a calendar mismatch.
	if st := res.Status(); st != model.StatusPending && st != model.StatusCheckedIn {
		return o.failed(ctx, ev, fmt.Errorf("%w: cancel from %s", model.ErrInvalidTransition, st))
	}

	rng := res.Range()
	if !room.Calendar().Remove(rng) {
		return o.failed(ctx, ev, fmt.Errorf("%w: reservation %d, room %d", ErrCalendarMismatch, reservationID, res.RoomID()))
	}
	if err := res.Cancel(); err != nil {
		if aerr := room.Calendar().Add(rng); aerr != nil {
			o.log.WithError(aerr).WithField("reservation_id", reservationID).
				Error("restore calendar after refused cancel")
		}
		return o.failed(ctx, ev, err)
	}

	o.succeeded(ctx, ev)
	o.log.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"stay":           rng.String(),
	}).Info("reservation cancelled")
	return nil
}

// CheckIn marks the guest as arrived. Only pending reservations can
// check in; the booked dates stay held.
func (o *Orchestrator) CheckIn(ctx context.Context, reservationID uint64) error {
	return o.transition(ctx, events.OpReservationCheckIn, reservationID, (*model.Reservation).CheckIn, "guest checked in")
}

// CheckOut marks the guest as departed. Only checked-in reservations
// can check out; the stay remains on the calendar as history.
func (o *Orchestrator) CheckOut(ctx context.Context, reservationID uint64) error {
	return o.transition(ctx, events.OpReservationCheckOut, reservationID, (*model.Reservation).CheckOut, "guest checked out")
}

// transition runs a pure status transition with the shared resolve,
// telemetry and logging scaffolding.
func (o *Orchestrator) transition(ctx context.Context, op events.Op, reservationID uint64, apply func(*model.Reservation) error, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ev := events.New(op, events.PhaseAttempt)
	ev.ReservationID = reservationID
	o.emit(ctx, ev)

	res, err := o.reservations.Get(reservationID)
	if err != nil {
		return o.failed(ctx, ev, err)
	}
	ev.ClientID = res.ClientID()
	ev.AccommodationID = res.AccommodationID()
	ev.RoomID = res.RoomID()

	if err := apply(res); err != nil {
		return o.failed(ctx, ev, err)
	}
	o.succeeded(ctx, ev)
	o.log.WithField("reservation_id", reservationID).Info(msg)
	return nil
}

// RecordPayment settles part or all of the reservation's balance. The
// reservation validates the amount against its remaining balance and
// appends the payment atomically, so concurrent payments can never
// overshoot the total.
func (o *Orchestrator) RecordPayment(ctx context.Context, reservationID uint64, amountCents int64, method model.PaymentMethod) (model.Payment, error) {
	if err := ctx.Err(); err != nil {
		return model.Payment{}, err
	}
	ev := events.New(events.OpPaymentRecord, events.PhaseAttempt)
	ev.ReservationID = reservationID
	ev.Details = map[string]string{
		"amount_cents": strconv.FormatInt(amountCents, 10),
		"method":       string(method),
	}
	o.emit(ctx, ev)

	res, err := o.reservations.Get(reservationID)
	if err != nil {
		return model.Payment{}, o.failed(ctx, ev, err)
	}
	ev.ClientID = res.ClientID()
	ev.AccommodationID = res.AccommodationID()
	ev.RoomID = res.RoomID()

	paymentID, err := o.reservations.NextPaymentID()
	if err != nil {
		return model.Payment{}, o.failed(ctx, ev, err)
	}
	payment, err := res.RecordPayment(paymentID, amountCents, method, o.clock.Now())
	if err != nil {
		return model.Payment{}, o.failed(ctx, ev, err)
	}

	ev.Details["payment_id"] = strconv.FormatUint(payment.ID, 10)
	ev.Details["reference"] = payment.Reference
	o.succeeded(ctx, ev)
	o.log.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"payment_id":     payment.ID,
		"amount_cents":   amountCents,
		"method":         method,
		"fully_paid":     res.IsFullyPaid(),
	}).Info("payment recorded")
	return payment, nil
}

func stayDetails(checkIn, checkOut time.Time) map[string]string {
	return map[string]string{
		"check_in":  checkIn.Format(time.RFC3339),
		"check_out": checkOut.Format(time.RFC3339),
	}
}
