package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-manager/internal/handler"
)

// RegisterPublic registers the unauthenticated directory endpoints.
// Guests can browse active libraries and their shift offerings before
// ever talking to an owner.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/directory/libraries", p.ListLibraries)
	e.GET("/v1/directory/libraries/:library_id/shifts", p.ListShifts)
}
