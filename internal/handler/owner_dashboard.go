package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Dashboard aggregates a library's vitals: student counts, per-shift
// seat occupancy and fees collected this month. The route sits behind
// the Redis response cache, so repeated polling stays off the database.
func (h *OwnerHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lib := h.requireLibrary(c, ctx)
	if lib == nil {
		return nil
	}

	total, active, err := h.Students.Counts(ctx, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	occupancy, err := h.Students.OccupancyByShift(ctx, lib.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	revenue, err := h.Payments.SumSettledSince(ctx, lib.ID, monthStart)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"library_id":          lib.ID,
		"total_seats":         lib.TotalSeats,
		"students_total":      total,
		"students_active":     active,
		"occupancy_by_shift":  occupancy,
		"revenue_month_cents": revenue,
		"revenue_month_since": monthStart.Format("2006-01-02"),
	})
}
