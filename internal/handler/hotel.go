package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

// HotelHandler serves the reference-data surface: hotel listings and
// detail, per-hotel rooms, categories and amenities, and the city
// directory.  These endpoints sit behind the response cache.
type HotelHandler struct {
    Resolver        *store.Resolver
    HotelRepo       *repository.HotelRepo
    CategoryRepo    *repository.CategoryRepo
    RoomRepo        *repository.RoomRepo
    AmenityRepo     *repository.AmenityRepo
    ReservationRepo *repository.ReservationRepo
}

// NewHotelHandler constructs a HotelHandler.  All dependencies must be
// non-nil.
func NewHotelHandler(resolver *store.Resolver, hotelRepo *repository.HotelRepo, categoryRepo *repository.CategoryRepo, roomRepo *repository.RoomRepo, amenityRepo *repository.AmenityRepo, reservationRepo *repository.ReservationRepo) *HotelHandler {
    if resolver == nil || hotelRepo == nil || categoryRepo == nil || roomRepo == nil || amenityRepo == nil || reservationRepo == nil {
        panic("nil dependency passed to NewHotelHandler")
    }
    return &HotelHandler{
        Resolver:        resolver,
        HotelRepo:       hotelRepo,
        CategoryRepo:    categoryRepo,
        RoomRepo:        roomRepo,
        AmenityRepo:     amenityRepo,
        ReservationRepo: reservationRepo,
    }
}

// List handles GET /v1/hotels with an optional ?city= filter.
func (h *HotelHandler) List(c echo.Context) error {
    hotels, err := h.HotelRepo.List(c.Request().Context(), c.QueryParam("city"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hotels"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": hotels})
}

// Get handles GET /v1/hotels/:id.
func (h *HotelHandler) Get(c echo.Context) error {
    hotelID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    hotel, err := h.HotelRepo.GetByID(c.Request().Context(), hotelID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": hotel})
}

// updateHotelRequest is the body of PUT /v1/hotels/:id.  City and star
// rating are structural reference data and not editable here.
type updateHotelRequest struct {
    Name          string  `json:"name"`
    Address       string  `json:"address"`
    PhoneNumber   string  `json:"phone_number"`
    Email         string  `json:"email"`
    CheckInTime   string  `json:"check_in_time"`
    CheckOutTime  string  `json:"check_out_time"`
    LocationCoeff float64 `json:"location_coeff_room"`
    Description   string  `json:"description"`
}

// Update handles PUT /v1/hotels/:id, rewriting the hotel's editable
// metadata in the central store.
func (h *HotelHandler) Update(c echo.Context) error {
    hotelID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    var req updateHotelRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    if req.LocationCoeff < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_coeff_room must not be negative"})
    }

    ctx := c.Request().Context()
    hotel, err := h.HotelRepo.GetByID(ctx, hotelID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    hotel.Name = req.Name
    hotel.Address = req.Address
    hotel.PhoneNumber = req.PhoneNumber
    hotel.Email = req.Email
    hotel.CheckInTime = req.CheckInTime
    hotel.CheckOutTime = req.CheckOutTime
    hotel.LocationCoeff = req.LocationCoeff
    hotel.Description = req.Description
    if err := h.HotelRepo.Update(ctx, hotel); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update hotel"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": hotel})
}

// Rooms handles GET /v1/hotels/:id/rooms, listing the hotel's physical
// inventory from its city-primary store.
func (h *HotelHandler) Rooms(c echo.Context) error {
    hotelID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    ctx := c.Request().Context()
    if _, err := h.HotelRepo.GetByID(ctx, hotelID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    storeName := h.Resolver.StoreNameForHotel(ctx, hotelID)
    rooms, err := h.RoomRepo.ListByHotel(ctx, storeName, hotelID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "hotel_id": hotelID,
        "items":    rooms,
    })
}

// Amenities handles GET /v1/hotels/:id/amenities, listing the hotel's
// amenities from its city-primary store.
func (h *HotelHandler) Amenities(c echo.Context) error {
    hotelID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    ctx := c.Request().Context()
    if _, err := h.HotelRepo.GetByID(ctx, hotelID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    storeName := h.Resolver.StoreNameForHotel(ctx, hotelID)
    amenities, err := h.AmenityRepo.ListByHotel(ctx, storeName, hotelID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load amenities"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "hotel_id": hotelID,
        "items":    amenities,
    })
}

// hotelCategory is one row of the per-hotel category listing with the
// coefficient-adjusted nightly price.
type hotelCategory struct {
    repository.CategoryWithCount
    PriceWithCoeff float64 `json:"price_per_night_with_coeff"`
}

// RoomCategories handles GET /v1/hotels/:id/room-categories.  Only
// categories with at least one room in the hotel appear, cheapest first.
func (h *HotelHandler) RoomCategories(c echo.Context) error {
    hotelID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    ctx := c.Request().Context()
    hotel, err := h.HotelRepo.GetByID(ctx, hotelID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    cats, err := h.CategoryRepo.ListForHotelWithCounts(ctx, hotelID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load categories"})
    }
    items := make([]hotelCategory, 0, len(cats))
    for _, cat := range cats {
        items = append(items, hotelCategory{
            CategoryWithCount: cat,
            PriceWithCoeff:    pricing.NightlyRate(cat.PricePerNight, hotel.LocationCoeff),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "hotel_id": hotelID,
        "items":    items,
    })
}

// cityEntry merges the hotel and active-reservation counts of one city.
type cityEntry struct {
    CityName           string `json:"city_name"`
    StoreName          string `json:"store_name"`
    HotelsCount        int    `json:"hotels_count"`
    ActiveReservations int    `json:"active_reservations"`
}

// Cities handles GET /v1/cities: every city with its store assignment,
// hotel count and active reservation count.
func (h *HotelHandler) Cities(c echo.Context) error {
    ctx := c.Request().Context()
    hotelCounts, err := h.HotelRepo.CitiesWithHotelCounts(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cities"})
    }
    resCounts, err := h.ReservationRepo.CitiesWithReservationCounts(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation counts"})
    }
    byCity := make(map[string]int, len(resCounts))
    for _, rc := range resCounts {
        byCity[rc.CityName] = rc.Count
    }
    items := make([]cityEntry, 0, len(hotelCounts))
    for _, hc := range hotelCounts {
        items = append(items, cityEntry{
            CityName:           hc.CityName,
            StoreName:          store.NameForCity(hc.CityName),
            HotelsCount:        hc.Count,
            ActiveReservations: byCity[hc.CityName],
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
