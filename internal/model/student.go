package model

import "time"

// Student is a person holding at most one seat under at most one shift
// in a library. Many students may reference the same seat number as long
// as their shifts' time windows are pairwise non-overlapping; that
// invariant is enforced by the schedule package before any mutation is
// persisted.
//
// Fields:
//  ID             – primary key identifier.
//  LibraryID      – library the student belongs to.
//  Name           – student name.
//  Phone          – contact phone number.
//  Status         – ACTIVE or INACTIVE.
//  SeatNumber     – assigned seat (nil when unassigned).
//  ShiftID        – assigned shift (nil when unassigned).
//  JoinedOn       – date the student joined.
//  MembershipTill – paid-up-to date, extended by settled payments (nil
//                   when no subscription has been paid yet).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Student struct {
	ID             uint64     // students.id
	LibraryID      uint64     // students.library_id
	Name           string     // students.name
	Phone          string     // students.phone
	Status         string     // students.status
	SeatNumber     *uint32    // students.seat_number (nullable)
	ShiftID        *uint64    // students.shift_id (nullable)
	JoinedOn       time.Time  // students.joined_on
	MembershipTill *time.Time // students.membership_till (nullable)
	CreatedAt      time.Time  // students.created_at
	UpdatedAt      time.Time  // students.updated_at
}
