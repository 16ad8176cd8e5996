package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

// AvailabilityHandler serves the count-based availability surface: a
// single-category quote and the per-hotel listing of categories with free
// units.  Capacity reads go to the hotel's city-primary store; category
// and coefficient reference comes from central.
type AvailabilityHandler struct {
    Resolver        *store.Resolver
    HotelRepo       *repository.HotelRepo
    CategoryRepo    *repository.CategoryRepo
    RoomRepo        *repository.RoomRepo
    ReservationRepo *repository.ReservationRepo
}

// NewAvailabilityHandler constructs an AvailabilityHandler.  All
// dependencies must be non-nil.
func NewAvailabilityHandler(resolver *store.Resolver, hotelRepo *repository.HotelRepo, categoryRepo *repository.CategoryRepo, roomRepo *repository.RoomRepo, reservationRepo *repository.ReservationRepo) *AvailabilityHandler {
    if resolver == nil || hotelRepo == nil || categoryRepo == nil || roomRepo == nil || reservationRepo == nil {
        panic("nil dependency passed to NewAvailabilityHandler")
    }
    return &AvailabilityHandler{
        Resolver:        resolver,
        HotelRepo:       hotelRepo,
        CategoryRepo:    categoryRepo,
        RoomRepo:        roomRepo,
        ReservationRepo: reservationRepo,
    }
}

// CheckAvailability handles GET /v1/availability.  Query parameters:
// hotel_id, room_category_id, start_date, end_date (dates as 2006-01-02,
// half-open range).  It returns total/reserved/available counts for the
// category, the coefficient-adjusted price for the period and up to five
// sample rooms.  Availability is purely count-based: a positive available
// count promises capacity, not a specific room.
func (h *AvailabilityHandler) CheckAvailability(c echo.Context) error {
    hotelID, err := strconv.ParseUint(c.QueryParam("hotel_id"), 10, 64)
    if err != nil || hotelID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel_id"})
    }
    categoryID, err := strconv.ParseUint(c.QueryParam("room_category_id"), 10, 64)
    if err != nil || categoryID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_category_id"})
    }
    start, end, ok := parseDateRange(c.QueryParam("start_date"), c.QueryParam("end_date"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date range: dates must be YYYY-MM-DD with start_date before end_date"})
    }

    ctx := c.Request().Context()
    hotel, err := h.HotelRepo.GetByID(ctx, hotelID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    category, err := h.CategoryRepo.GetByID(ctx, categoryID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room category not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    storeName := store.NameForCity(hotel.CityName)
    total, err := h.RoomRepo.CountByCategory(ctx, storeName, hotelID, categoryID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count rooms"})
    }
    reserved, err := h.ReservationRepo.CountOverlapping(ctx, storeName, hotelID, categoryID, start, end)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count reservations"})
    }
    available := total - reserved
    if available < 0 {
        available = 0
    }

    nights := pricing.Nights(start, end)
    perNight := pricing.NightlyRate(category.PricePerNight, hotel.LocationCoeff)
    totalPrice := pricing.StayPrice(category.PricePerNight, hotel.LocationCoeff, nights)

    var sample []model.Room
    if available > 0 {
        sample, err = h.RoomRepo.SampleByCategory(ctx, storeName, hotelID, categoryID, 5)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
        }
    }

    return c.JSON(http.StatusOK, echo.Map{
        "hotel_id":         hotelID,
        "hotel_name":       hotel.Name,
        "city_name":        hotel.CityName,
        "room_category_id": categoryID,
        "category_name":    category.CategoryName,
        "start_date":       start.Format(dateLayout),
        "end_date":         end.Format(dateLayout),
        "nights":           nights,
        "total_rooms":      total,
        "reserved_rooms":   reserved,
        "available_rooms":  available,
        "price_per_night":  perNight,
        "price_for_period": totalPrice,
        "sample_rooms":     sample,
    })
}

// availableCategory is one row of the per-hotel category listing.
type availableCategory struct {
    model.RoomCategory
    TotalRooms     int     `json:"total_rooms"`
    ReservedRooms  int     `json:"reserved_rooms"`
    AvailableRooms int     `json:"available_rooms"`
    PricePerNight  float64 `json:"price_per_night_with_coeff"`
    PriceForPeriod float64 `json:"price_for_period"`
}

// ListAvailableCategories handles GET /v1/hotels/:id/available-categories.
// It lists every category with at least one free unit in the hotel for
// the queried range, cheapest base price first.  Categories with zero
// physical rooms in the hotel never appear.
func (h *AvailabilityHandler) ListAvailableCategories(c echo.Context) error {
    hotelID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    start, end, ok := parseDateRange(c.QueryParam("start_date"), c.QueryParam("end_date"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date range: dates must be YYYY-MM-DD with start_date before end_date"})
    }

    ctx := c.Request().Context()
    hotel, err := h.HotelRepo.GetByID(ctx, hotelID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    storeName := store.NameForCity(hotel.CityName)
    roomCounts, err := h.RoomRepo.CountsByHotel(ctx, storeName, hotelID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count rooms"})
    }
    reservedCounts, err := h.ReservationRepo.ReservedCountsByHotel(ctx, storeName, hotelID, start, end)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to count reservations"})
    }

    ids := make([]uint64, 0, len(roomCounts))
    for id := range roomCounts {
        ids = append(ids, id)
    }
    // ListByIDs orders by base price ascending, the listing contract.
    categories, err := h.CategoryRepo.ListByIDs(ctx, ids)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load categories"})
    }

    nights := pricing.Nights(start, end)
    items := make([]availableCategory, 0, len(categories))
    for _, cat := range categories {
        total := roomCounts[cat.ID]
        reserved := reservedCounts[cat.ID]
        available := total - reserved
        if available <= 0 {
            continue
        }
        items = append(items, availableCategory{
            RoomCategory:   cat,
            TotalRooms:     total,
            ReservedRooms:  reserved,
            AvailableRooms: available,
            PricePerNight:  pricing.NightlyRate(cat.PricePerNight, hotel.LocationCoeff),
            PriceForPeriod: pricing.StayPrice(cat.PricePerNight, hotel.LocationCoeff, nights),
        })
    }

    return c.JSON(http.StatusOK, echo.Map{
        "hotel_id":   hotelID,
        "hotel_name": hotel.Name,
        "start_date": start.Format(dateLayout),
        "end_date":   end.Format(dateLayout),
        "nights":     nights,
        "items":      items,
    })
}
