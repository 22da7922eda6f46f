package model

import "time"

// PaymentMethod identifies how a payment was made.
type PaymentMethod string

// Supported payment methods.
const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentMBWay    PaymentMethod = "mbway"
)

// PaymentStatus reflects the settlement state of a payment.
type PaymentStatus string

// PaymentCompleted marks a payment that has been settled. Payments are
// recorded after the money moved, so every stored payment carries this
// status.
const PaymentCompleted PaymentStatus = "COMPLETED"

// Payment is a single partial or full payment against a reservation.
// Amounts are in cents to keep arithmetic exact. A payment is immutable
// once recorded.
//
// Fields:
//   - ID – unique payment identifier.
//   - ReservationID – the reservation the payment settles.
//   - AmountCents – paid amount in cents, always positive.
//   - Date – instant the payment was recorded.
//   - Method – how the payment was made.
//   - Status – settlement state, always PaymentCompleted.
//   - Reference – opaque receipt reference handed back to the payer.
type Payment struct {
	ID            uint64        `json:"id"`
	ReservationID uint64        `json:"reservation_id"`
	AmountCents   int64         `json:"amount_cents"`
	Date          time.Time     `json:"date"`
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	Reference     string        `json:"reference"`
}
