package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-manager/internal/model"
	"github.com/iliyamo/library-seat-manager/internal/payment"
	"github.com/iliyamo/library-seat-manager/internal/repository"
	"github.com/iliyamo/library-seat-manager/internal/schedule"
)

// OwnerHandler bundles everything the owner-scoped endpoints need:
// the repositories, the payment gateway and the schedule types flowing
// between them.
type OwnerHandler struct {
	Libraries *repository.LibraryRepo
	Shifts    *repository.ShiftRepo
	Students  *repository.StudentRepo
	Payments  *repository.PaymentRepo
	Gateway   *payment.Gateway
}

// NewOwnerHandler constructs an OwnerHandler and panics if any
// dependency is nil.
func NewOwnerHandler(libraries *repository.LibraryRepo, shifts *repository.ShiftRepo, students *repository.StudentRepo, payments *repository.PaymentRepo, gw *payment.Gateway) *OwnerHandler {
	if libraries == nil || shifts == nil || students == nil || payments == nil || gw == nil {
		panic("nil dependency passed to NewOwnerHandler")
	}
	return &OwnerHandler{
		Libraries: libraries,
		Shifts:    shifts,
		Students:  students,
		Payments:  payments,
		Gateway:   gw,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// requireLibrary resolves the :library_id path parameter against the
// caller's ownership. It writes the error response itself and returns
// nil when the request has already been answered.
func (h *OwnerHandler) requireLibrary(c echo.Context, ctx context.Context) *model.Library {
	uid, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return nil
	}
	libID, err := pathID(c, "library_id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid library id"})
		return nil
	}
	lib, err := h.Libraries.GetByIDAndOwner(ctx, libID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrLibraryNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "library not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return nil
	}
	return lib
}

// conflictBody shapes a non-assignable decision into the 409 payload so
// create, update and availability checks all report conflicts the same
// way.
func conflictBody(dec schedule.Decision) echo.Map {
	body := echo.Map{
		"error":                  "seat conflict",
		"conflicting_student_id": dec.ConflictingStudentID,
	}
	if dec.ConflictingShift != nil {
		body["conflicting_shift"] = echo.Map{
			"id":         dec.ConflictingShift.ID,
			"name":       dec.ConflictingShift.Name,
			"start_time": dec.ConflictingShift.StartTime,
			"end_time":   dec.ConflictingShift.EndTime,
		}
	}
	return body
}
