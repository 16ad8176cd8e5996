package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/queue"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

// BookingHandler orchestrates booking creation: validation, store
// resolution, price computation and the atomic capacity-recheck-and-insert
// transaction on the city-primary store.
type BookingHandler struct {
    Resolver        *store.Resolver
    HotelRepo       *repository.HotelRepo
    CategoryRepo    *repository.CategoryRepo
    GuestRepo       *repository.GuestRepo
    ReservationRepo *repository.ReservationRepo

    // PublishReservationCreated sends the post-commit event.  Nil disables
    // publishing; failures are logged, never surfaced to the client.
    PublishReservationCreated func(ctx context.Context, ev queue.ReservationCreatedEvent) error
}

// NewBookingHandler constructs a BookingHandler.  All repository
// dependencies must be non-nil; the publisher may be nil.
func NewBookingHandler(resolver *store.Resolver, hotelRepo *repository.HotelRepo, categoryRepo *repository.CategoryRepo, guestRepo *repository.GuestRepo, reservationRepo *repository.ReservationRepo) *BookingHandler {
    if resolver == nil || hotelRepo == nil || categoryRepo == nil || guestRepo == nil || reservationRepo == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{
        Resolver:        resolver,
        HotelRepo:       hotelRepo,
        CategoryRepo:    categoryRepo,
        GuestRepo:       guestRepo,
        ReservationRepo: reservationRepo,
    }
}

// newGuestPayload is the inline guest record accepted instead of an
// existing guest_id.  Phone number is the only hard requirement.
type newGuestPayload struct {
    FirstName   string `json:"first_name"`
    LastName    string `json:"last_name"`
    PhoneNumber string `json:"phone_number"`
    Email       string `json:"email"`
    BirthDate   string `json:"birth_date"`
}

// bookingRequest is the body of POST /v1/bookings.
type bookingRequest struct {
    HotelID            uint64           `json:"hotel_id"`
    GuestID            uint64           `json:"guest_id"`
    NewGuest           *newGuestPayload `json:"new_guest"`
    RoomCategoryID     uint64           `json:"room_category_id"`
    StartDate          string           `json:"start_date"`
    EndDate            string           `json:"end_date"`
    TotalGuests        int              `json:"total_guests"`
    AdditionalGuestIDs []uint64         `json:"additional_guest_ids"`
}

// missingFields names every absent required field so the client can fix
// the whole request in one round trip.
func (b *bookingRequest) missingFields() []string {
    var missing []string
    if b.HotelID == 0 {
        missing = append(missing, "hotel_id")
    }
    if b.GuestID == 0 && b.NewGuest == nil {
        missing = append(missing, "guest_id or new_guest")
    }
    if b.RoomCategoryID == 0 {
        missing = append(missing, "room_category_id")
    }
    if b.StartDate == "" {
        missing = append(missing, "start_date")
    }
    if b.EndDate == "" {
        missing = append(missing, "end_date")
    }
    if b.TotalGuests == 0 {
        missing = append(missing, "total_guests")
    }
    return missing
}

// CreateBooking handles POST /v1/bookings.  It re-checks category
// capacity inside the same transaction that inserts the reservation, so a
// positive availability quote that has since been consumed turns into a
// 409 rather than an overbooking.  Responds 201 with the reservation id
// and total price.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    var req bookingRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if missing := req.missingFields(); len(missing) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error":          "missing required fields",
            "missing_fields": missing,
        })
    }
    start, end, ok := parseDateRange(req.StartDate, req.EndDate)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date range: dates must be YYYY-MM-DD with start_date before end_date"})
    }
    if req.TotalGuests < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_guests must be positive"})
    }
    if req.NewGuest != nil && strings.TrimSpace(req.NewGuest.PhoneNumber) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_guest.phone_number is required"})
    }

    ctx := c.Request().Context()
    hotel, err := h.HotelRepo.GetByID(ctx, req.HotelID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    category, err := h.CategoryRepo.GetByID(ctx, req.RoomCategoryID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room category not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    storeName := store.NameForCity(hotel.CityName)

    // Resolve or create the payer before the booking transaction.  New
    // guests are created local-first in the city-primary store;
    // replication to central is external.
    payerID := req.GuestID
    if req.NewGuest != nil {
        g := &model.Guest{
            FirstName:   req.NewGuest.FirstName,
            LastName:    req.NewGuest.LastName,
            PhoneNumber: req.NewGuest.PhoneNumber,
            Email:       req.NewGuest.Email,
            BirthDate:   req.NewGuest.BirthDate,
        }
        if g.BirthDate == "" {
            g.BirthDate = "1970-01-01"
        }
        payerID, err = h.GuestRepo.Create(ctx, storeName, g)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create guest"})
        }
    } else {
        if _, err := h.GuestRepo.GetByID(ctx, storeName, payerID); err != nil {
            if errors.Is(err, repository.ErrNotFound) {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
    }

    nights := pricing.Nights(start, end)
    stay := pricing.StayPrice(category.PricePerNight, hotel.LocationCoeff, nights)
    total := pricing.TotalWithSurcharge(stay, req.TotalGuests, category.GuestsCapacity)

    tx, err := h.Resolver.Cluster().Get(storeName).BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Capacity recheck under lock.  The quote the client saw may already
    // be stale; this is the authoritative count.
    totalRooms, reserved, err := h.ReservationRepo.CapacityTx(ctx, tx, req.HotelID, req.RoomCategoryID, start, end)
    if err != nil {
        if errors.Is(err, repository.ErrNoCapacity) {
            return c.JSON(http.StatusConflict, echo.Map{
                "error":          "no rooms available for the requested category and dates",
                "total_rooms":    totalRooms,
                "reserved_rooms": reserved,
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check capacity"})
    }

    resRec := &repository.ReservationRecord{
        HotelID:    req.HotelID,
        StartDate:  start,
        EndDate:    end,
        TotalPrice: total,
        PayerID:    payerID,
    }
    if err := h.ReservationRepo.CreateTx(ctx, tx, resRec); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
    }
    detRec := &repository.DetailRecord{
        ReservationID:     resRec.ID,
        GuestID:           payerID,
        RequestedCategory: req.RoomCategoryID,
        TotalGuestNumber:  req.TotalGuests,
    }
    if err := h.ReservationRepo.CreateDetailTx(ctx, tx, detRec); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation detail"})
    }

    // Payer first, then the additional companions.  Unknown companion ids
    // are skipped rather than failing the booking.
    if err := h.ReservationRepo.LinkGuestTx(ctx, tx, detRec.ID, payerID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to link payer"})
    }
    seen := map[uint64]struct{}{payerID: {}}
    for _, gid := range req.AdditionalGuestIDs {
        if gid == 0 {
            continue
        }
        if _, dup := seen[gid]; dup {
            continue
        }
        seen[gid] = struct{}{}
        exists, err := h.GuestRepo.ExistsTx(ctx, tx, gid)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check guest"})
        }
        if !exists {
            continue
        }
        if err := h.ReservationRepo.LinkGuestTx(ctx, tx, detRec.ID, gid); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to link guest"})
        }
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    if h.PublishReservationCreated != nil {
        ev := queue.ReservationCreatedEvent{
            EventID:       uuid.NewString(),
            ReservationID: resRec.ID,
            HotelID:       hotel.ID,
            HotelName:     hotel.Name,
            CityName:      hotel.CityName,
            StoreName:     storeName,
            CategoryID:    req.RoomCategoryID,
            GuestCount:    req.TotalGuests,
            PayerID:       payerID,
            StartDate:     start.Format(dateLayout),
            EndDate:       end.Format(dateLayout),
            TotalPrice:    total,
            CreatedAt:     time.Now().UTC().Format(time.RFC3339),
        }
        if err := h.PublishReservationCreated(ctx, ev); err != nil {
            log.Printf("booking: publish reservation.created failed: %v", err)
        }
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "reservation_id": resRec.ID,
        "total_price":    total,
        "nights":         nights,
        "status":         model.StatusPending,
    })
}
