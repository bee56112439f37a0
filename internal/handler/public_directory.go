package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-manager/internal/repository"
)

// PublicHandler exposes the unauthenticated library directory.
type PublicHandler struct {
	Libraries *repository.LibraryRepo
	Shifts    *repository.ShiftRepo
}

func NewPublicHandler(libraries *repository.LibraryRepo, shifts *repository.ShiftRepo) *PublicHandler {
	return &PublicHandler{Libraries: libraries, Shifts: shifts}
}

type publicLibrary struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	Address    *string `json:"address,omitempty"`
	TotalSeats uint32  `json:"total_seats"`
}

// ListLibraries returns every active library. Inactive tenants are
// filtered out at the repository.
func (h *PublicHandler) ListLibraries(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	libs, err := h.Libraries.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]publicLibrary, 0, len(libs))
	for _, l := range libs {
		out = append(out, publicLibrary{ID: l.ID, Name: l.Name, Address: l.Address, TotalSeats: l.TotalSeats})
	}
	return c.JSON(http.StatusOK, out)
}

// ListShifts returns the shift windows and fees of one active library so
// prospective students can see what is on offer.
func (h *PublicHandler) ListShifts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	libID, err := pathID(c, "library_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid library id"})
	}
	lib, err := h.Libraries.GetByID(ctx, libID)
	if err != nil || !lib.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "library not found"})
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
