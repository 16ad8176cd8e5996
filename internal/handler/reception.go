package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

// ReceptionHandler covers the front-desk surface: assigning a physical
// room at check-in, registering the staying guests, and the per-city
// reservation board.
type ReceptionHandler struct {
    Resolver        *store.Resolver
    RoomRepo        *repository.RoomRepo
    GuestRepo       *repository.GuestRepo
    ReservationRepo *repository.ReservationRepo
}

// NewReceptionHandler constructs a ReceptionHandler.  All dependencies
// must be non-nil.
func NewReceptionHandler(resolver *store.Resolver, roomRepo *repository.RoomRepo, guestRepo *repository.GuestRepo, reservationRepo *repository.ReservationRepo) *ReceptionHandler {
    if resolver == nil || roomRepo == nil || guestRepo == nil || reservationRepo == nil {
        panic("nil dependency passed to NewReceptionHandler")
    }
    return &ReceptionHandler{
        Resolver:        resolver,
        RoomRepo:        roomRepo,
        GuestRepo:       guestRepo,
        ReservationRepo: reservationRepo,
    }
}

// registerGuestsRequest is the body of POST /v1/reservations/:id/register-guests.
type registerGuestsRequest struct {
    RoomID   uint64   `json:"room_id"`
    GuestIDs []uint64 `json:"guest_ids"`
}

// RegisterGuests handles POST /v1/reservations/:id/register-guests.  It
// assigns a concrete room to the reservation and links the staying
// guests.  The room-level conflict check runs inside the transaction and
// a 409 names the blocking reservation.  Re-running the call with the
// same guests is a no-op for the links.  On success the reservation is
// confirmed.
func (h *ReceptionHandler) RegisterGuests(c echo.Context) error {
    resID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req registerGuestsRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.RoomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
    }

    ctx := c.Request().Context()
    header, err := h.ReservationRepo.HeaderFromCentral(ctx, resID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    storeName := h.Resolver.StoreNameForHotel(ctx, header.HotelID)
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

    belongs, err := h.RoomRepo.BelongsToHotelTx(ctx, tx, req.RoomID, header.HotelID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check room"})
    }
    if !belongs {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room does not belong to the reservation's hotel"})
    }

    blocking, err := h.ReservationRepo.FindRoomConflictTx(ctx, tx, req.RoomID, resID, header.StartDate, header.EndDate)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check room conflicts"})
    }
    if blocking != 0 {
        return c.JSON(http.StatusConflict, echo.Map{
            "error":                   "room is already occupied for these dates",
            "blocking_reservation_id": blocking,
        })
    }

    detailID, err := h.ReservationRepo.DetailIDTx(ctx, tx, resID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation detail"})
    }
    if err := h.ReservationRepo.AssignRoomTx(ctx, tx, resID, req.RoomID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to assign room"})
    }

    // Re-assert the payer link, then register each staying guest.
    // Unknown guest ids are skipped; duplicates are absorbed by the
    // unique (detail, guest) pair.
    registered := 0
    if err := h.ReservationRepo.LinkGuestTx(ctx, tx, detailID, header.PayerID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to link payer"})
    }
    seen := map[uint64]struct{}{header.PayerID: {}}
    skipped := make([]uint64, 0)
    for _, gid := range req.GuestIDs {
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
            skipped = append(skipped, gid)
            continue
        }
        if err := h.ReservationRepo.LinkGuestTx(ctx, tx, detailID, gid); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to link guest"})
        }
        registered++
    }

    if err := h.ReservationRepo.ConfirmTx(ctx, tx, resID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm reservation"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    resp := echo.Map{
        "reservation_id":    resID,
        "room_id":           req.RoomID,
        "registered_guests": registered,
        "status":            model.StatusConfirmed,
    }
    if len(skipped) > 0 {
        resp["skipped_guest_ids"] = skipped
    }
    return c.JSON(http.StatusOK, resp)
}

// CityReservations handles GET /v1/cities/:name/reservations.  It serves
// the reception board of one city from that city's primary store: every
// active reservation with payer contact, category and registration
// progress.
func (h *ReceptionHandler) CityReservations(c echo.Context) error {
    city := c.Param("name")
    if city == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid city name"})
    }
    storeName := store.NameForCity(city)
    items, err := h.ReservationRepo.CityBoard(c.Request().Context(), storeName)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "city":  city,
        "store": storeName,
        "items": items,
    })
}

// HotelReservations handles GET /v1/hotels/:id/reservations?status=.
// Status defaults to pending, the list a desk works through before
// check-ins.
func (h *ReceptionHandler) HotelReservations(c echo.Context) error {
    hotelID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    status := c.QueryParam("status")
    if status == "" {
        status = model.StatusPending
    }
    switch status {
    case model.StatusPending, model.StatusConfirmed, model.StatusCancelled:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
    }
    ctx := c.Request().Context()
    storeName := h.Resolver.StoreNameForHotel(ctx, hotelID)
    items, err := h.ReservationRepo.ListByHotel(ctx, storeName, hotelID, status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "hotel_id": hotelID,
        "status":   status,
        "items":    items,
    })
}

// GetReservation handles GET /v1/reservations/:id, the full denormalised
// reservation view from the central store.
func (h *ReceptionHandler) GetReservation(c echo.Context) error {
    resID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    detail, err := h.ReservationRepo.GetFullDetail(c.Request().Context(), resID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": detail})
}
