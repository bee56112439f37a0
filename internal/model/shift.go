package model

import "time"

// Shift represents a recurring daily time window a library operates
// under. Start and end are wall-clock times without a date component;
// a shift whose end is before its start wraps past midnight (a night
// shift such as 22:00-06:00). End times are exclusive, so back-to-back
// shifts never collide.
//
// Fields:
//  ID        – primary key identifier.
//  LibraryID – library the shift belongs to.
//  Name      – display name, unique per library (Morning, Evening, ...).
//  StartTime – "HH:MM" wall-clock start.
//  EndTime   – "HH:MM" wall-clock end (exclusive).
//  FeeCents  – monthly subscription fee in cents.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Shift struct {
	ID        uint64    // shifts.id
	LibraryID uint64    // shifts.library_id
	Name      string    // shifts.name
	StartTime string    // shifts.start_time (TIME column)
	EndTime   string    // shifts.end_time (TIME column)
	FeeCents  uint32    // shifts.fee_cents
	CreatedAt time.Time // shifts.created_at
	UpdatedAt time.Time // shifts.updated_at
}
