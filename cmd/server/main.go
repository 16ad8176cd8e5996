package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/config"
    "github.com/iliyamo/hotel-reservation/internal/database"
    "github.com/iliyamo/hotel-reservation/internal/handler"
    "github.com/iliyamo/hotel-reservation/internal/queue"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/router"
    queue_publisher "github.com/iliyamo/hotel-reservation/internal/service"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

func main() {
    // .env is optional; real deployments set variables in the environment.
    _ = godotenv.Load()

    cfg := config.Load(store.Names)

    handles, err := database.OpenStores(cfg.Stores)
    if err != nil {
        log.Fatalf("open stores: %v", err)
    }
    cluster := store.NewCluster(handles)
    resolver := store.NewResolver(cluster)

    hotelRepo := repository.NewHotelRepo(cluster.Central())
    categoryRepo := repository.NewCategoryRepo(cluster.Central())
    loyaltyRepo := repository.NewLoyaltyRepo(cluster.Central())
    roomRepo := repository.NewRoomRepo(cluster)
    amenityRepo := repository.NewAmenityRepo(cluster)
    guestRepo := repository.NewGuestRepo(cluster)
    reservationRepo := repository.NewReservationRepo(cluster)
    paymentRepo := repository.NewPaymentRepo(cluster)

    booking := handler.NewBookingHandler(resolver, hotelRepo, categoryRepo, guestRepo, reservationRepo)
    booking.PublishReservationCreated = queue_publisher.PublishReservationCreated
    payment := handler.NewPaymentHandler(resolver, loyaltyRepo, guestRepo, reservationRepo, paymentRepo)
    payment.PublishPaymentProcessed = queue_publisher.PublishPaymentProcessed

    handlers := router.Handlers{
        Availability: handler.NewAvailabilityHandler(resolver, hotelRepo, categoryRepo, roomRepo, reservationRepo),
        Booking:      booking,
        Reception:    handler.NewReceptionHandler(resolver, roomRepo, guestRepo, reservationRepo),
        Payment:      payment,
        Hotel:        handler.NewHotelHandler(resolver, hotelRepo, categoryRepo, roomRepo, amenityRepo, reservationRepo),
        Guest:        handler.NewGuestHandler(guestRepo),
    }

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable, running without cache and rate limiting")
    }

    e := echo.New()
    router.RegisterRoutes(e, handlers, rdb)

    // Background consumer; reconnects on its own.
    go func() {
        if err := queue.StartEventsConsumer(); err != nil {
            log.Printf("events consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
