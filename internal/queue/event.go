// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published when a booking is successfully
// created. It carries enough denormalised data for downstream consumers to
// log, notify, or feed analytics without querying the stores.
type ReservationCreatedEvent struct {
    EventID       string  `json:"event_id"`
    ReservationID uint64  `json:"reservation_id"`
    HotelID       uint64  `json:"hotel_id"`
    HotelName     string  `json:"hotel_name"`
    CityName      string  `json:"city_name"`
    StoreName     string  `json:"store_name"`
    CategoryID    uint64  `json:"requested_room_category"`
    GuestCount    int     `json:"total_guest_number"`
    PayerID       uint64  `json:"payer_id"`
    StartDate     string  `json:"start_date"`
    EndDate       string  `json:"end_date"`
    TotalPrice    float64 `json:"total_price"`
    CreatedAt     string  `json:"created_at"`
}

// PaymentProcessedEvent is published when a reservation settles. Discount
// and bonus fields mirror what was actually applied so the consumer log is
// a faithful ledger trail.
type PaymentProcessedEvent struct {
    EventID         string  `json:"event_id"`
    ReservationID   uint64  `json:"reservation_id"`
    PayerID         uint64  `json:"payer_id"`
    StoreName       string  `json:"store_name"`
    Method          string  `json:"payments_method"`
    Reference       string  `json:"reference"`
    BaseAmount      float64 `json:"base_amount"`
    DiscountPercent float64 `json:"discount_percent"`
    AmountPaid      float64 `json:"amount_paid"`
    BonusAccrued    int     `json:"bonus_accrued"`
    ProcessedAt     string  `json:"processed_at"`
}
