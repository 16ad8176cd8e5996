// Package router defines how HTTP routes are registered for the API.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/hotel-reservation/internal/config"
    "github.com/iliyamo/hotel-reservation/internal/handler"
    "github.com/iliyamo/hotel-reservation/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
    Availability *handler.AvailabilityHandler
    Booking      *handler.BookingHandler
    Reception    *handler.ReceptionHandler
    Payment      *handler.PaymentHandler
    Hotel        *handler.HotelHandler
    Guest        *handler.GuestHandler
}

// RegisterRoutes mounts the whole API.  Reference-data reads go through
// the response cache; the booking/check-in/payment writes go through the
// token-bucket rate limiter.  With a nil Redis client both middlewares
// are pass-throughs.
func RegisterRoutes(e *echo.Echo, h Handlers, rdb *redis.Client) {
    e.GET("/healthz", handler.Health)

    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
    limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

    // Reference data, cacheable: capacity does not flow through these.
    cached := e.Group("/v1")
    cached.Use(cache)
    cached.GET("/hotels", h.Hotel.List)
    cached.GET("/hotels/:id", h.Hotel.Get)
    cached.GET("/hotels/:id/rooms", h.Hotel.Rooms)
    cached.GET("/hotels/:id/room-categories", h.Hotel.RoomCategories)
    cached.GET("/hotels/:id/amenities", h.Hotel.Amenities)
    cached.GET("/cities", h.Hotel.Cities)

    // Availability quotes stay uncached: every booking moves the counts.
    e.GET("/v1/availability", h.Availability.CheckAvailability)
    e.GET("/v1/hotels/:id/available-categories", h.Availability.ListAvailableCategories)

    // Operational reads.
    e.GET("/v1/reservations/:id", h.Reception.GetReservation)
    e.GET("/v1/hotels/:id/reservations", h.Reception.HotelReservations)
    e.GET("/v1/cities/:name/reservations", h.Reception.CityReservations)
    e.GET("/v1/guests/:id", h.Guest.Get)
    e.GET("/v1/guests/:id/payments", h.Payment.PaymentHistory)

    // Writes, rate limited.
    writes := e.Group("/v1")
    writes.Use(limit)
    writes.POST("/bookings", h.Booking.CreateBooking)
    writes.POST("/reservations/:id/register-guests", h.Reception.RegisterGuests)
    writes.POST("/payments", h.Payment.ProcessPayment)
    writes.POST("/guests", h.Guest.Create)
    writes.PUT("/hotels/:id", h.Hotel.Update)
}
