package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/pricing"
    "github.com/iliyamo/hotel-reservation/internal/queue"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

// PaymentHandler settles reservations: loyalty discount, the single
// ledger row, bonus accrual and tier re-evaluation, all in one
// transaction on the reservation's city-primary store.
type PaymentHandler struct {
    Resolver        *store.Resolver
    LoyaltyRepo     *repository.LoyaltyRepo
    GuestRepo       *repository.GuestRepo
    ReservationRepo *repository.ReservationRepo
    PaymentRepo     *repository.PaymentRepo

    // PublishPaymentProcessed sends the post-commit event.  Nil disables
    // publishing; failures are logged, never surfaced to the client.
    PublishPaymentProcessed func(ctx context.Context, ev queue.PaymentProcessedEvent) error
}

// NewPaymentHandler constructs a PaymentHandler.  All repository
// dependencies must be non-nil; the publisher may be nil.
func NewPaymentHandler(resolver *store.Resolver, loyaltyRepo *repository.LoyaltyRepo, guestRepo *repository.GuestRepo, reservationRepo *repository.ReservationRepo, paymentRepo *repository.PaymentRepo) *PaymentHandler {
    if resolver == nil || loyaltyRepo == nil || guestRepo == nil || reservationRepo == nil || paymentRepo == nil {
        panic("nil dependency passed to NewPaymentHandler")
    }
    return &PaymentHandler{
        Resolver:        resolver,
        LoyaltyRepo:     loyaltyRepo,
        GuestRepo:       guestRepo,
        ReservationRepo: reservationRepo,
        PaymentRepo:     paymentRepo,
    }
}

// paymentRequest is the body of POST /v1/payments.
type paymentRequest struct {
    ReservationID uint64  `json:"reservation_id"`
    Amount        float64 `json:"amount"`
    Method        string  `json:"method"`
}

// ProcessPayment handles POST /v1/payments.  Exactly one ledger row per
// reservation: the reservation row is read under lock and an already-paid
// state is rejected before anything is written, so a double submit cannot
// settle twice.  Loyalty applies at most one card's discount; accrued
// bonus is 1% of the settled amount, truncated; the tier only upgrades.
func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
    var req paymentRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    var missing []string
    if req.ReservationID == 0 {
        missing = append(missing, "reservation_id")
    }
    if req.Amount == 0 {
        missing = append(missing, "amount")
    }
    if req.Method == "" {
        missing = append(missing, "method")
    }
    if len(missing) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "error":          "missing required fields",
            "missing_fields": missing,
        })
    }
    if req.Amount < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
    }
    if !model.ValidPaymentMethod(req.Method) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "method must be one of cash, card, online"})
    }

    ctx := c.Request().Context()
    city, err := h.ReservationRepo.CityForReservation(ctx, req.ReservationID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    storeName := store.NameForCity(city)

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

    view, err := h.ReservationRepo.GetForSettlementTx(ctx, tx, req.ReservationID)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        if errors.Is(err, repository.ErrAlreadyPaid) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation already paid"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
    }

    // At most one card's discount, and only when the balance clears the
    // card's threshold.
    discountPercent := 0.0
    var currentCard *model.LoyaltyCard
    if view.LoyaltyCardID != nil {
        currentCard, err = h.LoyaltyRepo.CardByID(ctx, *view.LoyaltyCardID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load loyalty card"})
        }
        if currentCard != nil && view.BonusPoints >= currentCard.ReqBonusAmount {
            discountPercent = currentCard.Discount
        }
    }
    final := pricing.ApplyDiscount(req.Amount, discountPercent)

    if err := h.ReservationRepo.MarkPaidTx(ctx, tx, req.ReservationID, final); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to settle reservation"})
    }
    payment := &model.Payment{
        ReservationID: req.ReservationID,
        Reference:     uuid.NewString(),
        Amount:        final,
        Method:        req.Method,
    }
    if err := h.PaymentRepo.InsertTx(ctx, tx, payment); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record payment"})
    }

    bonus := pricing.BonusPoints(final)
    if bonus > 0 {
        if err := h.GuestRepo.AddBonusTx(ctx, tx, view.PayerID, bonus); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to credit bonus points"})
        }
    }

    // Tier re-evaluation, upgrade only.
    newPoints, err := h.GuestRepo.BonusPointsTx(ctx, tx, view.PayerID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read bonus points"})
    }
    best, err := h.LoyaltyRepo.BestCardFor(ctx, newPoints)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to evaluate loyalty tier"})
    }
    currentReq := -1
    if currentCard != nil {
        currentReq = currentCard.ReqBonusAmount
    }
    if best != nil && best.ReqBonusAmount > currentReq {
        if err := h.GuestRepo.SetLoyaltyCardTx(ctx, tx, view.PayerID, best.ID); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upgrade loyalty tier"})
        }
    }

    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    if h.PublishPaymentProcessed != nil {
        ev := queue.PaymentProcessedEvent{
            EventID:         uuid.NewString(),
            ReservationID:   req.ReservationID,
            PayerID:         view.PayerID,
            StoreName:       storeName,
            Method:          req.Method,
            Reference:       payment.Reference,
            BaseAmount:      req.Amount,
            DiscountPercent: discountPercent,
            AmountPaid:      final,
            BonusAccrued:    bonus,
            ProcessedAt:     time.Now().UTC().Format(time.RFC3339),
        }
        if err := h.PublishPaymentProcessed(ctx, ev); err != nil {
            log.Printf("payment: publish payment.processed failed: %v", err)
        }
    }

    return c.JSON(http.StatusOK, echo.Map{
        "reservation_id":     req.ReservationID,
        "reference":          payment.Reference,
        "amount_paid":        final,
        "discount_percent":   discountPercent,
        "bonus_points_added": bonus,
    })
}

// PaymentHistory handles GET /v1/guests/:id/payments?limit=.  History is
// read from central so it spans every city the guest paid in.
func (h *PaymentHandler) PaymentHistory(c echo.Context) error {
    guestID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guest id"})
    }
    limit := 20
    if s := c.QueryParam("limit"); s != "" {
        n, err := strconv.Atoi(s)
        if err != nil || n <= 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
        }
        if n > 100 {
            n = 100
        }
        limit = n
    }
    items, err := h.PaymentRepo.HistoryByGuest(c.Request().Context(), guestID, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payments"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "guest_id": guestID,
        "items":    items,
    })
}
