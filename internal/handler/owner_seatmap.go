package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-manager/internal/repository"
	"github.com/iliyamo/library-seat-manager/internal/schedule"
)

type seatOccupant struct {
	ShiftID     uint64 `json:"shift_id"`
	ShiftName   string `json:"shift_name"`
	StudentID   uint64 `json:"student_id"`
	StudentName string `json:"student_name"`
}

type seatEntry struct {
	SeatNumber uint32         `json:"seat_number"`
	Occupants  []seatOccupant `json:"occupants"`
}

// SeatMap renders the occupancy grid of a library: for each seat number
// 1..total_seats, who holds it under which shift. A seat held under
// non-overlapping shifts lists several occupants, which is the whole
// point of shift-based seating.
func (h *OwnerHandler) SeatMap(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}

	students, err := h.Students.ListByLibrary(ctx, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	shifts, err := h.Shifts.ListByLibrary(ctx, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	shiftNames := make(map[uint64]string, len(shifts))
	for _, s := range shifts {
		shiftNames[s.ID] = s.Name
	}

	seats := make([]seatEntry, lib.TotalSeats)
	for i := range seats {
		seats[i] = seatEntry{SeatNumber: uint32(i + 1), Occupants: []seatOccupant{}}
	}
	for _, st := range students {
		if st.SeatNumber == nil || st.Status != "ACTIVE" {
			continue
		}
		idx := int(*st.SeatNumber) - 1
		if idx < 0 || idx >= len(seats) {
			continue
		}
		occ := seatOccupant{StudentID: st.ID, StudentName: st.Name}
		if st.ShiftID != nil {
			occ.ShiftID = *st.ShiftID
			occ.ShiftName = shiftNames[*st.ShiftID]
		}
		seats[idx].Occupants = append(seats[idx].Occupants, occ)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"library_id":  lib.ID,
		"total_seats": lib.TotalSeats,
		"seats":       seats,
	})
}

// CheckSeat answers "could this seat be assigned under this shift right
// now?" without changing anything. The answer is advisory: the same
// check re-runs inside the transaction when the assignment is actually
// written. Optional exclude_student_id makes the check usable while
// editing an existing student.
func (h *OwnerHandler) CheckSeat(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}

	seat64, err := strconv.ParseUint(c.QueryParam("seat_number"), 10, 32)
	if err != nil || seat64 < 1 || uint32(seat64) > lib.TotalSeats {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number out of range"})
	}
	shiftID, err := strconv.ParseUint(c.QueryParam("shift_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift_id required"})
	}
	var exclude uint64
	if raw := c.QueryParam("exclude_student_id"); raw != "" {
		exclude, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exclude_student_id"})
		}
	}

	sh, err := h.Shifts.GetByIDAndLibrary(ctx, shiftID, lib.ID)
	if err != nil {
		if errors.Is(err, repository.ErrShiftNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift not found in this library"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	existing, err := h.Students.ListAssignments(ctx, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	cand := schedule.Shift{ID: sh.ID, Name: sh.Name, StartTime: sh.StartTime, EndTime: sh.EndTime}
	dec := schedule.ResolveSeatAssignment(uint32(seat64), cand, existing, exclude)
	if !dec.Assignable {
		body := conflictBody(dec)
		delete(body, "error")
		body["assignable"] = false
		return c.JSON(http.StatusOK, body)
	}
	return c.JSON(http.StatusOK, echo.Map{"assignable": true})
}

type assignSeatReq struct {
	StudentID  uint64  `json:"student_id" validate:"required"`
	SeatNumber *uint32 `json:"seat_number"`
	ShiftID    *uint64 `json:"shift_id"`
}

// AssignSeat moves, sets or releases a student's seat without touching
// their other fields. Releasing (null seat) always succeeds; assigning
// goes through the same transactional conflict check as a student
// update.
func (h *OwnerHandler) AssignSeat(c echo.Context) error {
	var req assignSeatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}
	if err := validateSeatRange(req.SeatNumber, lib.TotalSeats); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	st, err := h.Students.GetByIDAndLibrary(ctx, req.StudentID, lib.ID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	st.SeatNumber = req.SeatNumber
	if req.ShiftID != nil {
		st.ShiftID = req.ShiftID
	}

	dec, err := h.Students.Update(ctx, st)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrShiftRequired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift_id required when assigning a seat"})
		case errors.Is(err, repository.ErrShiftNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift not found in this library"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign seat failed"})
		}
	}
	if !dec.Assignable {
		return c.JSON(http.StatusConflict, conflictBody(dec))
	}

	fresh, err := h.Students.GetByIDAndLibrary(ctx, st.ID, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toStudentResp(fresh))
}
