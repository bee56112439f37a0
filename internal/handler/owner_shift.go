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
	"github.com/iliyamo/library-seat-manager/internal/schedule"
)

type shiftReq struct {
	Name      string `json:"name" validate:"required,min=1,max=190"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	FeeCents  uint32 `json:"fee_cents" validate:"required,min=1"`
}

type shiftResp struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	FeeCents  uint32 `json:"fee_cents"`
}

func toShiftResp(s *model.Shift) shiftResp {
	return shiftResp{ID: s.ID, Name: s.Name, StartTime: s.StartTime, EndTime: s.EndTime, FeeCents: s.FeeCents}
}

// validateWindow rejects malformed shift windows at the API boundary.
// A window wrapping past midnight (end before start) is legal; only
// unparseable values and zero-length windows are refused.
func validateWindow(start, end string) error {
	if !schedule.ValidTimeOfDay(start) || !schedule.ValidTimeOfDay(end) {
		return errors.New("start_time/end_time must be HH:MM")
	}
	if start == end {
		return errors.New("shift window must not be empty")
	}
	return nil
}

// CreateShift adds a daily time window to a library. Overlapping shift
// windows are allowed; the conflict rules apply per seat, not per shift.
func (h *OwnerHandler) CreateShift(c echo.Context) error {
	var req shiftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.StartTime = strings.TrimSpace(req.StartTime)
	req.EndTime = strings.TrimSpace(req.EndTime)
	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}

	s := &model.Shift{
		LibraryID: lib.ID,
		Name:      strings.TrimSpace(req.Name),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		FeeCents:  req.FeeCents,
	}
	if err := h.Shifts.Create(ctx, s); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "shift name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create shift failed"})
	}
	return c.JSON(http.StatusCreated, toShiftResp(s))
}

// ListShifts returns all shifts of a library ordered by start time.
func (h *OwnerHandler) ListShifts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}
	shifts, err := h.Shifts.ListByLibrary(ctx, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]shiftResp, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, toShiftResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateShift edits a shift's name, window and fee. Widening a window
// may create new overlaps with other shifts; existing assignments stay
// untouched, only future assignment attempts see the new window.
func (h *OwnerHandler) UpdateShift(c echo.Context) error {
	var req shiftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	req.StartTime = strings.TrimSpace(req.StartTime)
	req.EndTime = strings.TrimSpace(req.EndTime)
	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}
	shiftID, err := pathID(c, "shift_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift id"})
	}

	s := &model.Shift{
		ID:        shiftID,
		LibraryID: lib.ID,
		Name:      strings.TrimSpace(req.Name),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		FeeCents:  req.FeeCents,
	}
	if err := h.Shifts.UpdateByIDAndLibrary(ctx, s); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "shift name already exists"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update shift failed"})
		}
	}
	fresh, err := h.Shifts.GetByIDAndLibrary(ctx, shiftID, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toShiftResp(fresh))
}

// DeleteShift removes a shift. Refused while any student is still
// assigned to it.
func (h *OwnerHandler) DeleteShift(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}
	shiftID, err := pathID(c, "shift_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift id"})
	}

	if err := h.Shifts.DeleteByIDAndLibrary(ctx, shiftID, lib.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "shift still has students"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "shift not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete shift failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
