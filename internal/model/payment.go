package model

import "time"

// Payment records one subscription charge for a student. The row is
// created PENDING when a gateway checkout is opened and transitions to
// SETTLED or FAILED when the gateway notification arrives. A settled
// payment extends the student's membership by Months.
//
// Fields:
//  ID          – primary key identifier.
//  OrderID     – gateway order identifier (uuid, unique).
//  LibraryID   – library collecting the payment.
//  StudentID   – student being charged.
//  ShiftID     – shift whose fee the amount was derived from.
//  AmountCents – charged amount in cents (fee * months).
//  Months      – number of subscription months purchased.
//  Status      – PENDING, SETTLED or FAILED.
//  SettledAt   – when the gateway confirmed settlement (nullable).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Payment struct {
	ID          uint64     // payments.id
	OrderID     string     // payments.order_id
	LibraryID   uint64     // payments.library_id
	StudentID   uint64     // payments.student_id
	ShiftID     uint64     // payments.shift_id
	AmountCents uint32     // payments.amount_cents
	Months      uint32     // payments.months
	Status      string     // payments.status
	SettledAt   *time.Time // payments.settled_at (nullable)
	CreatedAt   time.Time  // payments.created_at
	UpdatedAt   time.Time  // payments.updated_at
}
