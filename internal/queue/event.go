// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentConfirmedEvent is published when the payment gateway settles a
// subscription payment. It carries enough information for downstream
// consumers to log, notify, or feed analytics without querying the
// primary database.
type PaymentConfirmedEvent struct {
	PaymentID   uint64 `json:"payment_id"`
	OrderID     string `json:"order_id"`
	LibraryID   uint64 `json:"library_id"`
	LibraryName string `json:"library_name"`
	StudentID   uint64 `json:"student_id"`
	StudentName string `json:"student_name"`
	ShiftName   string `json:"shift_name"`
	SeatNumber  uint32 `json:"seat_number,omitempty"`
	AmountCents uint32 `json:"amount_cents"`
	Months      uint32 `json:"months"`
	SettledAt   string `json:"settled_at"`
}
