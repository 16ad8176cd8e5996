package model

import "time"

// Accepted settlement methods.
const (
    MethodCash   = "cash"
    MethodCard   = "card"
    MethodOnline = "online"
)

// ValidPaymentMethod reports whether m is one of the accepted settlement
// methods.
func ValidPaymentMethod(m string) bool {
    return m == MethodCash || m == MethodCard || m == MethodOnline
}

// Payment is one append-only ledger row per settlement.  Amount is the
// final charged sum after any loyalty discount.  Reference is an opaque
// identifier generated at settlement time for reconciliation.
type Payment struct {
    ID            uint64    `json:"id"`
    ReservationID uint64    `json:"reservation_id"`
    Amount        float64   `json:"payments_sum"`
    Date          time.Time `json:"payments_date"`
    Method        string    `json:"payments_method"`
    Reference     string    `json:"reference"`
}
