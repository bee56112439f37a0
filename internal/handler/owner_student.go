package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-manager/internal/model"
	"github.com/iliyamo/library-seat-manager/internal/repository"
)

type studentReq struct {
	Name       string  `json:"name" validate:"required,min=1,max=190"`
	Phone      string  `json:"phone" validate:"omitempty,max=32"`
	Status     string  `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	SeatNumber *uint32 `json:"seat_number"`
	ShiftID    *uint64 `json:"shift_id"`
	JoinedOn   string  `json:"joined_on"` // YYYY-MM-DD, defaults to today
}

type studentResp struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	Phone          string  `json:"phone,omitempty"`
	Status         string  `json:"status"`
	SeatNumber     *uint32 `json:"seat_number,omitempty"`
	ShiftID        *uint64 `json:"shift_id,omitempty"`
	JoinedOn       string  `json:"joined_on"`
	MembershipTill *string `json:"membership_till,omitempty"`
}

func toStudentResp(st *model.Student) studentResp {
	resp := studentResp{
		ID:         st.ID,
		Name:       st.Name,
		Phone:      st.Phone,
		Status:     st.Status,
		SeatNumber: st.SeatNumber,
		ShiftID:    st.ShiftID,
		JoinedOn:   st.JoinedOn.Format("2006-01-02"),
	}
	if st.MembershipTill != nil {
		s := st.MembershipTill.Format("2006-01-02")
		resp.MembershipTill = &s
	}
	return resp
}

// validateSeatRange rejects seats outside 1..total_seats. A nil seat is
// always fine; students can exist without an assignment.
func validateSeatRange(seat *uint32, totalSeats uint32) error {
	if seat == nil {
		return nil
	}
	if *seat < 1 || *seat > totalSeats {
		return errors.New("seat_number out of range")
	}
	return nil
}

// CreateStudent registers a student, optionally with a seat+shift
// assignment. The seat conflict check runs inside the insert
// transaction; a refusal comes back as 409 naming the occupant.
func (h *OwnerHandler) CreateStudent(c echo.Context) error {
	var req studentReq
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

	joined := time.Now().UTC()
	if s := strings.TrimSpace(req.JoinedOn); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "joined_on must be YYYY-MM-DD"})
		}
		joined = d
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = "ACTIVE"
	}

	st := &model.Student{
		LibraryID:  lib.ID,
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		Status:     status,
		SeatNumber: req.SeatNumber,
		ShiftID:    req.ShiftID,
		JoinedOn:   joined,
	}
	dec, err := h.Students.Create(ctx, st)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrShiftRequired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift_id required when assigning a seat"})
		case errors.Is(err, repository.ErrShiftNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift not found in this library"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create student failed"})
		}
	}
	if !dec.Assignable {
		return c.JSON(http.StatusConflict, conflictBody(dec))
	}
	return c.JSON(http.StatusCreated, toStudentResp(st))
}

// ListStudents returns all students of a library.
func (h *OwnerHandler) ListStudents(c echo.Context) error {
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
	out := make([]studentResp, 0, len(students))
	for _, st := range students {
		out = append(out, toStudentResp(st))
	}
	return c.JSON(http.StatusOK, out)
}

// GetStudent returns one student of a library.
func (h *OwnerHandler) GetStudent(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}
	studentID, err := pathID(c, "student_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	st, err := h.Students.GetByIDAndLibrary(ctx, studentID, lib.ID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toStudentResp(st))
}

// UpdateStudent edits a student, including moving or releasing their
// seat. The conflict check excludes the student themselves, so saving an
// unchanged assignment never self-conflicts.
func (h *OwnerHandler) UpdateStudent(c echo.Context) error {
	var req studentReq
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
	studentID, err := pathID(c, "student_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	if err := validateSeatRange(req.SeatNumber, lib.TotalSeats); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	st, err := h.Students.GetByIDAndLibrary(ctx, studentID, lib.ID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	st.Name = strings.TrimSpace(req.Name)
	st.Phone = strings.TrimSpace(req.Phone)
	if s := strings.ToUpper(strings.TrimSpace(req.Status)); s != "" {
		st.Status = s
	}
	st.SeatNumber = req.SeatNumber
	st.ShiftID = req.ShiftID

	dec, err := h.Students.Update(ctx, st)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrShiftRequired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift_id required when assigning a seat"})
		case errors.Is(err, repository.ErrShiftNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift not found in this library"})
		case errors.Is(err, repository.ErrStudentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update student failed"})
		}
	}
	if !dec.Assignable {
		return c.JSON(http.StatusConflict, conflictBody(dec))
	}

	fresh, err := h.Students.GetByIDAndLibrary(ctx, studentID, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toStudentResp(fresh))
}

// DeleteStudent removes a student and frees their seat.
func (h *OwnerHandler) DeleteStudent(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}
	studentID, err := pathID(c, "student_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	if err := h.Students.DeleteByIDAndLibrary(ctx, studentID, lib.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete student failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
