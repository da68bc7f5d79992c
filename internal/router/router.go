package router // route registration for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/handler"
	"github.com/iliyamo/flight-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require a session token.
// Currently the health check and session creation.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler) {
	e.GET("/healthz", handler.Health)
	// Opening a session is the only way to obtain a token; everything
	// else happens inside a session.
	e.POST("/v1/sessions", a.OpenSession)
}

// RegisterSession registers all session-scoped operations behind the
// SessionAuth middleware. Every handler resolves its *booking.Session
// from the request context; the engine enforces login state itself, so
// anonymous sessions can still register and log in here.
func RegisterSession(e *echo.Echo, a *handler.AuthHandler, b *handler.BookingHandler, jwtSecret string, reg *booking.Registry, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.SessionAuth(jwtSecret, reg))
	if limiter != nil {
		g.Use(limiter)
	}

	g.POST("/users", a.Register)
	g.POST("/login", a.Login)
	g.DELETE("/sessions", a.CloseSession)

	g.GET("/itineraries", b.Search)
	g.POST("/reservations", b.Book)
	g.POST("/reservations/:rid/payment", b.Pay)
	g.GET("/reservations", b.List)
	g.DELETE("/reservations/:rid", b.Cancel)
}
