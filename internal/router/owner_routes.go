package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-manager/internal/handler"
	"github.com/iliyamo/library-seat-manager/internal/middleware"
)

// RegisterOwner registers the owner-scoped endpoints under /v1. All
// routes require a valid JWT with the OWNER role; per-library ownership
// is enforced again inside every handler.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Libraries ----
	g.POST("/libraries", o.CreateLibrary)
	g.GET("/libraries", o.ListLibraries)
	g.GET("/libraries/:library_id", o.GetLibrary)
	g.PUT("/libraries/:library_id", o.UpdateLibrary)
	g.PATCH("/libraries/:library_id", o.UpdateLibrary)
	g.DELETE("/libraries/:library_id", o.DeleteLibrary)

	// ---- Shifts ----
	g.POST("/libraries/:library_id/shifts", o.CreateShift)
	g.GET("/libraries/:library_id/shifts", o.ListShifts)
	g.PUT("/libraries/:library_id/shifts/:shift_id", o.UpdateShift)
	g.PATCH("/libraries/:library_id/shifts/:shift_id", o.UpdateShift)
	g.DELETE("/libraries/:library_id/shifts/:shift_id", o.DeleteShift)

	// ---- Students ----
	g.POST("/libraries/:library_id/students", o.CreateStudent)
	g.GET("/libraries/:library_id/students", o.ListStudents)
	g.GET("/libraries/:library_id/students/:student_id", o.GetStudent)
	g.PUT("/libraries/:library_id/students/:student_id", o.UpdateStudent)
	g.PATCH("/libraries/:library_id/students/:student_id", o.UpdateStudent)
	g.DELETE("/libraries/:library_id/students/:student_id", o.DeleteStudent)

	// ---- Seat map ----
	g.GET("/libraries/:library_id/seatmap", o.SeatMap)
	g.GET("/libraries/:library_id/seats/check", o.CheckSeat)
	g.POST("/libraries/:library_id/seats/assign", o.AssignSeat)

	// ---- Payments ----
	g.POST("/libraries/:library_id/students/:student_id/checkout", o.CreateCheckout)
	g.GET("/libraries/:library_id/payments", o.ListPayments)

	// ---- Dashboard ----
	g.GET("/libraries/:library_id/dashboard", o.Dashboard)

	// The gateway's server-to-server callback carries no JWT; it is
	// authenticated by its SHA-512 signature instead.
	e.POST("/v1/payments/notification", o.PaymentNotification)
}
