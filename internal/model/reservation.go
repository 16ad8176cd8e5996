package model

import "time"

// Reservation statuses.  A reservation is created pending/unpaid and
// becomes confirmed either when a room is physically assigned at check-in
// or when a payment settles; the two triggers are independent.
const (
    StatusPending   = "pending"
    StatusConfirmed = "confirmed"
    StatusCancelled = "cancelled"

    PaymentsUnpaid = "unpaid"
    PaymentsPaid   = "paid"
)

// Reservation holds a category-level booking for a date range.  It lives
// in the city-primary store of its hotel.  Invariant: StartDate < EndDate,
// with the interval half-open [StartDate, EndDate).
//
// Fields:
//  ID             – primary key identifier.
//  HotelID        – hotel being booked.
//  CreateDate     – when the booking was created.
//  StartDate      – first night of the stay.
//  EndDate        – checkout day (exclusive).
//  Status         – pending, confirmed or cancelled.
//  TotalPrice     – quoted price; overwritten with the settled amount on payment.
//  PaymentsStatus – unpaid or paid; transitions unpaid→paid exactly once.
//  PayerID        – guest responsible for payment.
type Reservation struct {
    ID             uint64    `json:"id"`
    HotelID        uint64    `json:"hotel_id"`
    CreateDate     time.Time `json:"create_date"`
    StartDate      time.Time `json:"start_date"`
    EndDate        time.Time `json:"end_date"`
    Status         string    `json:"status"`
    TotalPrice     float64   `json:"total_price"`
    PaymentsStatus string    `json:"payments_status"`
    PayerID        uint64    `json:"payer_id"`
}

// ReservationDetail is the one-to-one companion of a Reservation.  The
// requested category is fixed at booking time; RoomID stays nil until a
// concrete room is assigned at reception check-in.
type ReservationDetail struct {
    ID                uint64  `json:"id"`
    ReservationID     uint64  `json:"reservation_id"`
    GuestID           uint64  `json:"guest_id"`
    RequestedCategory uint64  `json:"requested_room_category"`
    TotalGuestNumber  int     `json:"total_guest_number"`
    RoomID            *uint64 `json:"room_id,omitempty"`
}
