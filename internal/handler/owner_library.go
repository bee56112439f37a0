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

type libraryReq struct {
	Name       string  `json:"name" validate:"required,min=2,max=190"`
	Address    *string `json:"address" validate:"omitempty,max=500"`
	TotalSeats uint32  `json:"total_seats" validate:"required,min=1,max=10000"`
	IsActive   *bool   `json:"is_active"`
}

type libraryResp struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	Address    *string `json:"address,omitempty"`
	TotalSeats uint32  `json:"total_seats"`
	IsActive   bool    `json:"is_active"`
}

func toLibraryResp(l *model.Library) libraryResp {
	return libraryResp{
		ID:         l.ID,
		Name:       l.Name,
		Address:    l.Address,
		TotalSeats: l.TotalSeats,
		IsActive:   l.IsActive,
	}
}

// CreateLibrary registers a new library for the authenticated owner.
// Seats are implicit: the library has seats numbered 1..total_seats.
func (h *OwnerHandler) CreateLibrary(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req libraryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := &model.Library{
		OwnerID:    uid,
		Name:       strings.TrimSpace(req.Name),
		Address:    req.Address,
		TotalSeats: req.TotalSeats,
	}
	if err := h.Libraries.Create(ctx, lib); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create library failed"})
	}
	return c.JSON(http.StatusCreated, toLibraryResp(lib))
}

// ListLibraries returns all libraries of the authenticated owner.
func (h *OwnerHandler) ListLibraries(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	libs, err := h.Libraries.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]libraryResp, 0, len(libs))
	for _, l := range libs {
		out = append(out, toLibraryResp(l))
	}
	return c.JSON(http.StatusOK, out)
}

// GetLibrary returns one library of the authenticated owner.
func (h *OwnerHandler) GetLibrary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}
	return c.JSON(http.StatusOK, toLibraryResp(lib))
}

// UpdateLibrary edits name, address, capacity and active flag. Shrinking
// total_seats below the highest occupied seat is refused so no student
// ends up holding a seat that no longer exists.
func (h *OwnerHandler) UpdateLibrary(c echo.Context) error {
	var req libraryReq
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

	if req.TotalSeats < lib.TotalSeats {
		maxSeat, err := h.Students.MaxOccupiedSeat(ctx, lib.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if req.TotalSeats < maxSeat {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":            "cannot shrink below occupied seats",
				"highest_occupied": maxSeat,
				"requested_total":  req.TotalSeats,
			})
		}
	}

	lib.Name = strings.TrimSpace(req.Name)
	lib.Address = req.Address
	lib.TotalSeats = req.TotalSeats
	if req.IsActive != nil {
		lib.IsActive = *req.IsActive
	}
	if err := h.Libraries.UpdateByIDAndOwner(ctx, lib); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "library not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update library failed"})
	}
	return c.JSON(http.StatusOK, toLibraryResp(lib))
}

// DeleteLibrary removes a library. The delete is refused while shifts or
// students still reference it.
func (h *OwnerHandler) DeleteLibrary(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	libID, err := pathID(c, "library_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid library id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Libraries.DeleteByIDAndOwner(ctx, libID, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "library still has shifts or students"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "library not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete library failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
