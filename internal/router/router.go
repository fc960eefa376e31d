package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/nebeng/nebeng-api/internal/handler"    // import the handlers that implement business logic
	"github.com/nebeng/nebeng-api/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/nebeng/nebeng-api/internal/model"      // role constants
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The /healthz endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /api/auth,
// while the protected profile endpoint lives under /api.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and returns a new pair.
	g.POST("/refresh", a.Refresh)
	// Logout does not require JWT middleware; the handler accepts either a
	// bearer token (revoke all sessions) or a refresh_token body (revoke
	// one session).
	g.POST("/logout", a.Logout)

	// The profile endpoint requires a valid access token.
	auth := e.Group("/api")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints.  Guests can
// inspect the mass schedule, the neighborhood groups and active rides
// without an account.
func RegisterPublic(e *echo.Echo, m *handler.MassHandler, env *handler.EnvironmentHandler, r *handler.RideHandler) {
	e.GET("/api/masses", m.List)
	e.GET("/api/masses/:id", m.Get)
	e.GET("/api/environments", env.List)
	// Active rides, optionally filtered with ?massId=.
	e.GET("/api/rides", r.List)
	e.GET("/api/rides/:id", r.Get)
}

// RegisterProtected registers the authenticated API: ride management for
// drivers, bookings for passengers and reference-data maintenance for
// admins.  All routes run the JWTAuth middleware; role checks are applied
// per route.
func RegisterProtected(e *echo.Echo, r *handler.RideHandler, b *handler.BookingHandler, m *handler.MassHandler, env *handler.EnvironmentHandler, jwtSecret string) {
	g := e.Group("/api")
	g.Use(middleware.JWTAuth(jwtSecret))

	// Rides: offering and managing a ride requires the driver role (or
	// admin); ownership of the ride is enforced in the handler.
	g.POST("/rides", r.Create, middleware.RequireRole(model.RoleDriver, model.RoleAdmin))
	g.PATCH("/rides/:id/status", r.UpdateStatus, middleware.RequireRole(model.RoleDriver, model.RoleAdmin))
	g.GET("/rides/:id/bookings", b.ListForRide, middleware.RequireRole(model.RoleDriver, model.RoleAdmin))

	// Bookings: any authenticated user can reserve seats and manage their
	// own bookings.
	g.GET("/bookings", b.ListMine)
	g.POST("/bookings", b.Create)
	g.DELETE("/bookings/:id", b.Delete)

	// Reference data maintenance is admin only.
	admin := middleware.RequireRole(model.RoleAdmin)
	g.POST("/masses", m.Create, admin)
	g.PATCH("/masses/:id", m.Update, admin)
	g.DELETE("/masses/:id", m.Delete, admin)
	g.POST("/environments", env.Create, admin)
	g.DELETE("/environments/:id", env.Delete, admin)
}
