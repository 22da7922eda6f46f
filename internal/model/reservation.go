package model

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Basiiii/SmartStay-sub000/internal/validate"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

// Reservation lifecycle states. Pending moves to CheckedIn and then
// CheckedOut; Pending and CheckedIn may also move to Cancelled. Both
// CheckedOut and Cancelled are terminal.
const (
	StatusPending    ReservationStatus = "PENDING"
	StatusCheckedIn  ReservationStatus = "CHECKED_IN"
	StatusCheckedOut ReservationStatus = "CHECKED_OUT"
	StatusCancelled  ReservationStatus = "CANCELLED"
)

// Valid reports whether s is one of the known lifecycle states.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// Reservation is a client's booking of one room for a date interval.
// It owns its status transitions and payment ledger; date changes and
// calendar bookkeeping are coordinated by the booking orchestrator,
// which is why SetDates trusts its caller to have secured the new
// interval first.
//
// All methods are safe for concurrent use. Monetary amounts are in
// cents.
type Reservation struct {
	id              uint64
	clientID        uint64
	accommodationID uint64
	roomID          uint64
	accType         AccommodationType
	createdAt       time.Time

	mu         sync.Mutex
	checkIn    time.Time
	checkOut   time.Time
	status     ReservationStatus
	totalCents int64
	amountPaid int64
	payments   []Payment
}

// NewReservation builds a pending reservation. It returns
// ErrInvalidReservation when an identifier is zero, the check-out is
// not after the check-in, or the total cost is negative.
func NewReservation(id, clientID, accommodationID, roomID uint64, accType AccommodationType, checkIn, checkOut time.Time, totalCents int64, createdAt time.Time) (*Reservation, error) {
	switch {
	case id == 0:
		return nil, fmt.Errorf("%w: zero reservation id", ErrInvalidReservation)
	case clientID == 0:
		return nil, fmt.Errorf("%w: zero client id", ErrInvalidReservation)
	case accommodationID == 0:
		return nil, fmt.Errorf("%w: zero accommodation id", ErrInvalidReservation)
	case roomID == 0:
		return nil, fmt.Errorf("%w: zero room id", ErrInvalidReservation)
	case !checkOut.After(checkIn):
		return nil, fmt.Errorf("%w: check-out %s not after check-in %s", ErrInvalidReservation, checkOut.Format(time.RFC3339), checkIn.Format(time.RFC3339))
	case totalCents < 0:
		return nil, fmt.Errorf("%w: negative total cost %d", ErrInvalidReservation, totalCents)
	}
	return &Reservation{
		id:              id,
		clientID:        clientID,
		accommodationID: accommodationID,
		roomID:          roomID,
		accType:         accType,
		createdAt:       createdAt,
		checkIn:         checkIn,
		checkOut:        checkOut,
		status:          StatusPending,
		totalCents:      totalCents,
	}, nil
}

// RestoreReservation rebuilds a reservation from persisted state,
// including its status and payment ledger. It rejects unknown
// statuses, a paid amount outside [0, total] and a ledger that does
// not sum to the paid amount, so a corrupted snapshot cannot smuggle
// an impossible reservation back into the engine.
func RestoreReservation(id, clientID, accommodationID, roomID uint64, accType AccommodationType, checkIn, checkOut time.Time, status ReservationStatus, totalCents, amountPaidCents int64, payments []Payment, createdAt time.Time) (*Reservation, error) {
	res, err := NewReservation(id, clientID, accommodationID, roomID, accType, checkIn, checkOut, totalCents, createdAt)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidReservation, status)
	}
	if amountPaidCents < 0 || amountPaidCents > totalCents {
		return nil, fmt.Errorf("%w: paid %d outside [0, %d]", ErrInvalidReservation, amountPaidCents, totalCents)
	}
	var sum int64
	for _, p := range payments {
		sum += p.AmountCents
	}
	if sum != amountPaidCents {
		return nil, fmt.Errorf("%w: payment ledger sums to %d, paid amount is %d", ErrInvalidReservation, sum, amountPaidCents)
	}
	res.status = status
	res.amountPaid = amountPaidCents
	res.payments = append(res.payments, payments...)
	return res, nil
}

// ID returns the reservation identifier.
func (r *Reservation) ID() uint64 { return r.id }

// ClientID returns the booking client's identifier.
func (r *Reservation) ClientID() uint64 { return r.clientID }

// AccommodationID returns the booked accommodation's identifier.
func (r *Reservation) AccommodationID() uint64 { return r.accommodationID }

// RoomID returns the booked room's identifier.
func (r *Reservation) RoomID() uint64 { return r.roomID }

// AccommodationKind returns the accommodation type captured when the
// reservation was made. It is a snapshot: later changes to the
// accommodation do not rewrite history.
func (r *Reservation) AccommodationKind() AccommodationType { return r.accType }

// CreatedAt returns the instant the reservation was created.
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }

// CheckInDate returns the current check-in instant.
func (r *Reservation) CheckInDate() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkIn
}

// CheckOutDate returns the current check-out instant.
func (r *Reservation) CheckOutDate() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkOut
}

// Range returns the reservation's stay as a date range.
func (r *Reservation) Range() DateRange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return DateRange{start: r.checkIn, end: r.checkOut}
}

// Status returns the current lifecycle state.
func (r *Reservation) Status() ReservationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// TotalCostCents returns the current total cost in cents.
func (r *Reservation) TotalCostCents() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalCents
}

// AmountPaidCents returns the amount settled so far in cents.
func (r *Reservation) AmountPaidCents() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.amountPaid
}

// IsFullyPaid reports whether the paid amount covers the total cost.
func (r *Reservation) IsFullyPaid() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.amountPaid >= r.totalCents
}

// Payments returns a copy of the payment ledger in recording order.
func (r *Reservation) Payments() []Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Payment, len(r.payments))
	copy(out, r.payments)
	return out
}

// CheckIn transitions the reservation from Pending to CheckedIn. Any
// other starting state returns ErrInvalidTransition.
func (r *Reservation) CheckIn() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusPending {
		return fmt.Errorf("%w: check-in from %s", ErrInvalidTransition, r.status)
	}
	r.status = StatusCheckedIn
	return nil
}

// CheckOut transitions the reservation from CheckedIn to CheckedOut.
// Any other starting state returns ErrInvalidTransition.
func (r *Reservation) CheckOut() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusCheckedIn {
		return fmt.Errorf("%w: check-out from %s", ErrInvalidTransition, r.status)
	}
	r.status = StatusCheckedOut
	return nil
}

// Cancel transitions the reservation to Cancelled from Pending or
// CheckedIn. Terminal states return ErrInvalidTransition.
func (r *Reservation) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusPending && r.status != StatusCheckedIn {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, r.status)
	}
	r.status = StatusCancelled
	return nil
}

// RecordPayment appends a completed payment to the ledger and raises
// the paid amount. The amount must be positive, the reservation must
// not be fully paid yet, and the amount must not exceed the remaining
// balance; overpayment is rejected rather than clamped so the payer
// can correct the charge.
func (r *Reservation) RecordPayment(paymentID uint64, amountCents int64, method PaymentMethod, at time.Time) (Payment, error) {
	if err := validate.PaymentMethod(string(method)); err != nil {
		return Payment{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if amountCents <= 0 {
		return Payment{}, fmt.Errorf("%w: %d cents", ErrInvalidPayment, amountCents)
	}
	if r.amountPaid >= r.totalCents {
		return Payment{}, fmt.Errorf("%w: reservation %d", ErrAlreadyPaid, r.id)
	}
	if remaining := r.totalCents - r.amountPaid; amountCents > remaining {
		return Payment{}, fmt.Errorf("%w: %d cents against %d remaining", ErrPaymentExceedsBalance, amountCents, remaining)
	}
	p := Payment{
		ID:            paymentID,
		ReservationID: r.id,
		AmountCents:   amountCents,
		Date:          at,
		Method:        method,
		Status:        PaymentCompleted,
		Reference:     uuid.NewString(),
	}
	r.amountPaid += amountCents
	r.payments = append(r.payments, p)
	return p, nil
}

// SetDates moves the stay to a new interval and reprices it. The
// caller must already hold the new interval in the room calendar. It
// returns ErrInvalidRange for an inverted interval and
// ErrPaymentExceedsBalance when the amount already paid would exceed
// the new total.
func (r *Reservation) SetDates(checkIn, checkOut time.Time, newTotalCents int64) error {
	if !checkOut.After(checkIn) {
		return fmt.Errorf("%w: check-out %s not after check-in %s", ErrInvalidRange, checkOut.Format(time.RFC3339), checkIn.Format(time.RFC3339))
	}
	if newTotalCents < 0 {
		return fmt.Errorf("%w: negative total cost %d", ErrInvalidReservation, newTotalCents)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.amountPaid > newTotalCents {
		return fmt.Errorf("%w: %d cents already paid, new total is %d", ErrPaymentExceedsBalance, r.amountPaid, newTotalCents)
	}
	r.checkIn = checkIn
	r.checkOut = checkOut
	r.totalCents = newTotalCents
	return nil
}
