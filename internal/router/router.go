package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-slot-booking/internal/handler"
	"github.com/iliyamo/game-slot-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not belong to a feature group.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterBooking registers the booking form, the booking submission and
// the read-only JSON views.  limit and invalidate wrap POST /book, cache
// wraps the availability view; pass nil to leave a route bare.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, limit, cache, invalidate echo.MiddlewareFunc) {
	e.GET("/", b.Home)
	e.POST("/book", b.Book, append(optional(limit), optional(invalidate)...)...)

	e.GET("/v1/bookings", b.ListBookings)
	e.GET("/v1/slots", b.Slots, optional(cache)...)
}

// RegisterAdmin registers the administration endpoints.  Login is open;
// everything else under /v1/admin requires an admin token.  invalidate,
// when non-nil, wraps the routes that remove bookings.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, invalidate echo.MiddlewareFunc) {
	g := e.Group("/v1/admin")
	g.POST("/login", a.Login)

	auth := g.Group("", middleware.AdminAuth(jwtSecret))
	auth.POST("/sweep", a.Sweep, optional(invalidate)...)
	auth.DELETE("/bookings/:id", a.DeleteBooking, optional(invalidate)...)
}

func optional(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}
