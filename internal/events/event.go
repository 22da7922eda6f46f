// Package events defines the telemetry messages the booking engine
// emits around every orchestrated operation and the sinks that carry
// them to a broker, a cache channel or the log. Emission is fire and
// forget: a sink failure is logged and never blocks or fails the
// booking operation that triggered it.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Op names an orchestrated operation that emits telemetry.
type Op string

// Operations covered by telemetry.
const (
	OpReservationCreate   Op = "reservation.create"
	OpReservationUpdate   Op = "reservation.update"
	OpReservationCancel   Op = "reservation.cancel"
	OpReservationCheckIn  Op = "reservation.checkin"
	OpReservationCheckOut Op = "reservation.checkout"
	OpPaymentRecord       Op = "payment.record"
)

// Phase marks where in the operation the event was emitted.
type Phase string

// Event phases. Every operation emits attempt first and exactly one of
// succeeded or failed afterwards.
const (
	PhaseAttempt   Phase = "attempt"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// Event is one telemetry message. It carries enough identifiers for
// downstream consumers to log, notify or aggregate without querying
// the engine.
//
// Fields:
//
//	ID              – unique event identifier.
//	Op              – operation that emitted the event.
//	Phase           – attempt, succeeded or failed.
//	OccurredAt      – emission instant in UTC.
//	ReservationID   – reservation involved, zero before one exists.
//	ClientID        – booking client, when known.
//	AccommodationID – accommodation involved, when known.
//	RoomID          – room involved, when known.
//	Details         – free-form operation specifics, such as dates.
//	Error           – failure description, only on failed events.
type Event struct {
	ID              string            `json:"id"`
	Op              Op                `json:"op"`
	Phase           Phase             `json:"phase"`
	OccurredAt      time.Time         `json:"occurred_at"`
	ReservationID   uint64            `json:"reservation_id,omitempty"`
	ClientID        uint64            `json:"client_id,omitempty"`
	AccommodationID uint64            `json:"accommodation_id,omitempty"`
	RoomID          uint64            `json:"room_id,omitempty"`
	Details         map[string]string `json:"details,omitempty"`
	Error           string            `json:"error,omitempty"`
}

// New builds an event for op in the given phase with a fresh id and
// the current UTC time.
func New(op Op, phase Phase) Event {
	return Event{
		ID:         uuid.NewString(),
		Op:         op,
		Phase:      phase,
		OccurredAt: time.Now().UTC(),
	}
}

// Kind returns the dotted routing name, such as
// "reservation.create.failed".
func (e Event) Kind() string {
	return string(e.Op) + "." + string(e.Phase)
}
