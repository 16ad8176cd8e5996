package model

// Guest is the person paying for or staying under a reservation.  Guests
// are created in whichever store is primary for the booking's city and are
// assumed to replicate centrally through a mechanism external to this
// service.  BonusPoints only grow through payments; LoyaltyCardID is
// derived from BonusPoints via the highest-threshold card the guest
// qualifies for.
type Guest struct {
    ID            uint64  `json:"id"`
    FirstName     string  `json:"first_name"`
    LastName      string  `json:"last_name"`
    PhoneNumber   string  `json:"phone_number"`
    Email         string  `json:"email"`
    BirthDate     string  `json:"birth_date"`
    Document      string  `json:"document,omitempty"`
    LoyaltyCardID *uint64 `json:"loyalty_card_id,omitempty"`
    BonusPoints   int     `json:"bonus_points"`
}

// LoyaltyCard is a discount tier.  Tiers are ordered by the bonus amount
// required to qualify; the discount applies only once the guest's points
// clear ReqBonusAmount.  Reference data, central store.
type LoyaltyCard struct {
    ID             uint64  `json:"id"`
    Discount       float64 `json:"discount"`
    ReqBonusAmount int     `json:"req_bonus_amount"`
}
