// Package router defines how HTTP routes are registered for the API.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/share-ride/internal/handler"
	"github.com/iliyamo/share-ride/internal/middleware"
)

// listCacheTTL is how long cached list responses stay fresh.  Mutating
// endpoints invalidate the cache anyway; the TTL only bounds staleness when
// time itself moves a ride from upcoming to past.
const listCacheTTL = 30 * time.Second

// RegisterRoutes wires every endpoint onto the Echo instance.  GET list
// endpoints go through the Redis response cache; every mutating endpoint
// drops the cache after a successful write.  rdb may be nil, in which case
// both are no-ops.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, r *handler.RideHandler,
	b *handler.BookingHandler, adm *handler.AdminHandler, rdb *redis.Client, adminSecret string) {

	cached := middleware.CacheList(rdb, listCacheTTL)
	invalidate := middleware.InvalidateCache(rdb)

	e.GET("/health", handler.Health)

	// Account endpoints.
	e.POST("/register", a.Register)
	e.POST("/login", a.Login)
	e.GET("/profile", a.Profile)
	e.POST("/profile/update", a.UpdateProfile, invalidate)

	// Driver-side ride endpoints.
	e.POST("/publish-ride", r.Publish, invalidate)
	e.GET("/rides", r.ListMine, cached)
	e.GET("/rides/:id/bookings", r.RideBookings)
	e.PUT("/rides/:id", r.Update, invalidate)
	e.DELETE("/rides/:id", r.Delete, invalidate)
	e.GET("/past-published-rides", r.PastPublished, cached)

	// Rider-side browse and booking endpoints.
	e.GET("/available-rides", r.Available, cached)
	e.GET("/all-rides", r.All, cached)
	e.POST("/book-ride", b.Book, invalidate)
	e.PUT("/bookings/:id/accept", b.Accept, invalidate)
	e.PUT("/bookings/:id/reject", b.Reject, invalidate)
	e.DELETE("/bookings", b.Cancel, invalidate)
	e.GET("/booked-rides", b.BookedRides, cached)
	e.GET("/past-booked-rides", b.PastBookedRides, cached)

	// Admin panel.  Everything except login requires a valid admin JWT.
	e.POST("/admin/login", adm.Login)
	g := e.Group("/admin")
	g.Use(middleware.AdminAuth(adminSecret))
	g.GET("/users", adm.ListUsers)
	g.DELETE("/users/:email", adm.DeleteUser, invalidate)
	g.GET("/upcoming-rides", adm.UpcomingRides)
	g.GET("/previous-rides", adm.PreviousRides)
	g.GET("/rides/:rideId/riders", adm.Riders)
}
