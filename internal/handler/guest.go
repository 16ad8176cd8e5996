package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

// GuestHandler serves standalone guest creation and lookup.  Guests are
// stored city-locally, so both endpoints take the city that decides the
// store; absent or unmapped cities go to central.
type GuestHandler struct {
    GuestRepo *repository.GuestRepo
}

// NewGuestHandler constructs a GuestHandler.
func NewGuestHandler(guestRepo *repository.GuestRepo) *GuestHandler {
    if guestRepo == nil {
        panic("nil repository passed to NewGuestHandler")
    }
    return &GuestHandler{GuestRepo: guestRepo}
}

// createGuestRequest is the body of POST /v1/guests.
type createGuestRequest struct {
    FirstName   string `json:"first_name"`
    LastName    string `json:"last_name"`
    PhoneNumber string `json:"phone_number"`
    Email       string `json:"email"`
    BirthDate   string `json:"birth_date"`
    City        string `json:"city"`
}

// Create handles POST /v1/guests.  Phone number is the only hard
// requirement; the optional city field picks the store the guest lives
// in.
func (h *GuestHandler) Create(c echo.Context) error {
    var req createGuestRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if strings.TrimSpace(req.PhoneNumber) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone_number is required"})
    }
    if req.BirthDate == "" {
        req.BirthDate = "1970-01-01"
    }
    storeName := store.NameForCity(req.City)
    g := &model.Guest{
        FirstName:   req.FirstName,
        LastName:    req.LastName,
        PhoneNumber: req.PhoneNumber,
        Email:       req.Email,
        BirthDate:   req.BirthDate,
    }
    id, err := h.GuestRepo.Create(c.Request().Context(), storeName, g)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create guest"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":    id,
        "store": storeName,
        "item":  g,
    })
}

// Get handles GET /v1/guests/:id with an optional ?city= to pick the
// store; defaults to central.
func (h *GuestHandler) Get(c echo.Context) error {
    guestID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
    }
    storeName := store.NameForCity(c.QueryParam("city"))
    g, err := h.GuestRepo.GetByID(c.Request().Context(), storeName, guestID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": g})
}
