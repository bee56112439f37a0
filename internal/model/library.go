package model

import "time"

// Library represents a study hall owned by a user. Each library is an
// isolated tenant: shifts, students and payments all hang off a library
// and are only visible to its owner. Seats are not stored as rows;
// a seat is simply an integer in [1, TotalSeats].
//
// Fields:
//  ID         – primary key identifier.
//  OwnerID    – user ID of the library owner.
//  Name       – unique library name per owner.
//  Address    – optional street address shown in the public directory.
//  TotalSeats – number of numbered seats in the hall.
//  IsActive   – whether the library is active.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Library struct {
	ID         uint64    // libraries.id
	OwnerID    uint64    // libraries.owner_id
	Name       string    // libraries.name
	Address    *string   // libraries.address (nullable)
	TotalSeats uint32    // libraries.total_seats
	IsActive   bool      // libraries.is_active
	CreatedAt  time.Time // libraries.created_at
	UpdatedAt  time.Time // libraries.updated_at
}
