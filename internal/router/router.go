// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mlagdao/benguetstays/internal/config"
	"github.com/mlagdao/benguetstays/internal/handler"
	"github.com/mlagdao/benguetstays/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication and no
// other infrastructure.  Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login
// and refresh live under /v1/auth without a session; /v1/me sits behind
// the JWT middleware and accepts both roles.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout works with either a bearer token or a refresh_token body,
	// so it stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("OWNER", "TENANT"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated catalogue endpoints:
// listing search, listing detail and the availability calendar.  Search
// and detail are the hot read paths and sit behind the Redis response
// cache when one is configured.  The calendar is served uncached: a
// tenant who just booked must see those dates blocked on the next
// request, not after the cache TTL runs out.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	e.GET("/v1/properties", p.SearchProperties, cache)
	e.GET("/v1/properties/:id", p.GetProperty, cache)
	e.GET("/v1/properties/:id/booked-dates", p.BookedDates)
}

// RegisterTenant registers TENANT-scoped booking endpoints under /v1.
func RegisterTenant(e *echo.Echo, t *handler.TenantHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("TENANT"),
	)

	g.POST("/bookings", t.CreateBooking)
	g.GET("/bookings/my", t.MyBookings)
	g.GET("/bookings/:id", t.GetBooking)
	g.POST("/bookings/:id/payment", t.SubmitPayment)
	g.POST("/bookings/:id/cancel", t.CancelBooking)
}

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner.
// All routes require a valid JWT and the OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Listings ----
	g.POST("/properties", o.CreateProperty)
	g.GET("/properties", o.MyProperties)
	g.PUT("/properties/:id", o.UpdateProperty)
	g.PATCH("/properties/:id", o.UpdateProperty)

	// ---- Bookings & payments ----
	g.GET("/properties/:id/bookings", o.PropertyBookings)
	g.POST("/bookings/:id/verify-payment", o.VerifyPayment)
	g.POST("/bookings/:id/confirm", o.ConfirmBooking)
	g.POST("/bookings/:id/cancel", o.CancelBooking)
}
