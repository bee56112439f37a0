package schedule

// Shift is the time window a resolver decision is made against. It is a
// projection of the persisted shift record carrying only what the
// conflict scan needs.
type Shift struct {
	ID        uint64 // shift identifier within the library
	Name      string // display name (Morning, Evening, ...)
	StartTime string // "HH:MM" wall-clock start
	EndTime   string // "HH:MM" wall-clock end (exclusive)
}

// Assignment is one student's current seat occupancy: the tuple
// (student, seat, shift) for every student of a library. SeatNumber is
// nil for students without a seat; Shift is nil when the referenced
// shift record could not be resolved.
type Assignment struct {
	StudentID  uint64
	SeatNumber *uint32
	Shift      *Shift
}

// Decision is the outcome of a seat assignment check. When Assignable is
// false, ConflictingStudentID names the occupant blocking the seat and
// ConflictingShift carries that occupant's shift window so the caller can
// tell the user exactly what is in the way. ConflictingShift is nil when
// the conflict was raised because the occupant's shift data was missing.
type Decision struct {
	Assignable           bool
	ConflictingStudentID uint64
	ConflictingShift     *Shift
}

// ResolveSeatAssignment decides whether the candidate (seat, shift) pair
// may be granted, given every current assignment of the library. The scan
// only considers occupants of the candidate seat; students without a seat
// never conflict. excludeStudentID removes the student being edited from
// the scan (a student does not conflict with themself); pass zero when
// creating a new student.
//
// An occupant whose shift cannot be resolved is an automatic conflict.
// Unlike the predicate's fail-safe on malformed times, missing occupant
// data fails closed: granting the seat anyway could create a
// double-booking nobody would detect.
//
// The function is pure. Persisting the assignment, and re-running the
// check inside a transaction when the assignment set may have changed
// concurrently, is the caller's responsibility.
func ResolveSeatAssignment(candidateSeat uint32, candidateShift Shift, existing []Assignment, excludeStudentID uint64) Decision {
	for _, a := range existing {
		if a.SeatNumber == nil || *a.SeatNumber != candidateSeat {
			continue
		}
		if excludeStudentID != 0 && a.StudentID == excludeStudentID {
			continue
		}
		if a.Shift == nil {
			return Decision{Assignable: false, ConflictingStudentID: a.StudentID}
		}
		if Overlaps(candidateShift.StartTime, candidateShift.EndTime, a.Shift.StartTime, a.Shift.EndTime) {
			return Decision{Assignable: false, ConflictingStudentID: a.StudentID, ConflictingShift: a.Shift}
		}
	}
	return Decision{Assignable: true}
}
