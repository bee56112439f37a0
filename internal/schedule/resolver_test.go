package schedule

import "testing"

func seatPtr(n uint32) *uint32 { return &n }

var (
	morning = Shift{ID: 1, Name: "Morning", StartTime: "08:00", EndTime: "14:00"}
	evening = Shift{ID: 2, Name: "Evening", StartTime: "15:00", EndTime: "21:00"}
	midday  = Shift{ID: 3, Name: "Midday", StartTime: "13:00", EndTime: "18:00"}
)

func TestResolveSeatAssignmentDetectsConflict(t *testing.T) {
	existing := []Assignment{
		{StudentID: 11, SeatNumber: seatPtr(5), Shift: &morning},
	}
	d := ResolveSeatAssignment(5, midday, existing, 0)
	if d.Assignable {
		t.Fatal("expected conflict for overlapping shift on same seat")
	}
	if d.ConflictingStudentID != 11 {
		t.Fatalf("conflicting student = %d, want 11", d.ConflictingStudentID)
	}
	if d.ConflictingShift == nil || d.ConflictingShift.ID != morning.ID {
		t.Fatalf("conflicting shift = %+v, want morning", d.ConflictingShift)
	}
}

func TestResolveSeatAssignmentAllowsSeatReuseAcrossShifts(t *testing.T) {
	existing := []Assignment{
		{StudentID: 11, SeatNumber: seatPtr(5), Shift: &morning},
	}
	if d := ResolveSeatAssignment(5, evening, existing, 0); !d.Assignable {
		t.Fatalf("non-overlapping shift on same seat should be assignable, got %+v", d)
	}
}

func TestResolveSeatAssignmentIgnoresOtherSeats(t *testing.T) {
	existing := []Assignment{
		{StudentID: 11, SeatNumber: seatPtr(4), Shift: &morning},
	}
	if d := ResolveSeatAssignment(5, morning, existing, 0); !d.Assignable {
		t.Fatalf("occupant of another seat should not conflict, got %+v", d)
	}
}

func TestResolveSeatAssignmentSkipsUnassignedStudents(t *testing.T) {
	existing := []Assignment{
		{StudentID: 11, SeatNumber: nil, Shift: &morning},
	}
	if d := ResolveSeatAssignment(5, morning, existing, 0); !d.Assignable {
		t.Fatalf("students without a seat must never conflict, got %+v", d)
	}
}

func TestResolveSeatAssignmentExcludesSelf(t *testing.T) {
	existing := []Assignment{
		{StudentID: 11, SeatNumber: seatPtr(5), Shift: &morning},
	}
	if d := ResolveSeatAssignment(5, morning, existing, 11); !d.Assignable {
		t.Fatalf("editing a student must not conflict with their own assignment, got %+v", d)
	}
}

func TestResolveSeatAssignmentFailsClosedOnMissingShift(t *testing.T) {
	existing := []Assignment{
		{StudentID: 11, SeatNumber: seatPtr(5), Shift: nil},
	}
	d := ResolveSeatAssignment(5, evening, existing, 0)
	if d.Assignable {
		t.Fatal("occupant with unresolved shift must block the seat")
	}
	if d.ConflictingStudentID != 11 {
		t.Fatalf("conflicting student = %d, want 11", d.ConflictingStudentID)
	}
	if d.ConflictingShift != nil {
		t.Fatalf("missing-data conflict should carry no shift, got %+v", d.ConflictingShift)
	}
}

func TestResolveSeatAssignmentReturnsFirstConflict(t *testing.T) {
	existing := []Assignment{
		{StudentID: 11, SeatNumber: seatPtr(5), Shift: &morning},
		{StudentID: 12, SeatNumber: seatPtr(5), Shift: &midday},
	}
	d := ResolveSeatAssignment(5, Shift{ID: 9, StartTime: "09:00", EndTime: "17:00"}, existing, 0)
	if d.Assignable || d.ConflictingStudentID != 11 {
		t.Fatalf("expected first scan hit (student 11), got %+v", d)
	}
}

// The end-to-end scenario from the product: one seat shared by a morning
// and an evening student, a third morning request is refused.
func TestResolveSeatAssignmentSeatSharingScenario(t *testing.T) {
	var existing []Assignment

	// Student A takes seat 1 on the morning shift.
	if d := ResolveSeatAssignment(1, morning, existing, 0); !d.Assignable {
		t.Fatalf("empty library should accept any assignment, got %+v", d)
	}
	existing = append(existing, Assignment{StudentID: 1, SeatNumber: seatPtr(1), Shift: &morning})

	// Student B takes the same seat on the evening shift.
	if d := ResolveSeatAssignment(1, evening, existing, 0); !d.Assignable {
		t.Fatalf("evening on a morning-occupied seat should be assignable, got %+v", d)
	}
	existing = append(existing, Assignment{StudentID: 2, SeatNumber: seatPtr(1), Shift: &evening})

	// Student C asks for the seat on the morning shift and is refused.
	d := ResolveSeatAssignment(1, morning, existing, 0)
	if d.Assignable {
		t.Fatal("second morning student on the same seat must be refused")
	}
	if d.ConflictingStudentID != 1 {
		t.Fatalf("conflicting student = %d, want 1", d.ConflictingStudentID)
	}
}
