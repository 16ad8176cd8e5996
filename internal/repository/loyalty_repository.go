package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// LoyaltyRepo reads loyalty-card tiers from the central store.  Tiers are
// ordered by the bonus amount required to qualify; a guest's card is
// always the highest tier their points clear.
type LoyaltyRepo struct {
    db *sql.DB
}

// NewLoyaltyRepo returns a LoyaltyRepo bound to the central store.
func NewLoyaltyRepo(central *sql.DB) *LoyaltyRepo { return &LoyaltyRepo{db: central} }

// CardByID returns one loyalty card, or nil without error when the id
// does not exist.  Missing cards are treated as "no discount" rather
// than a failure so a stale card reference cannot block a payment.
func (r *LoyaltyRepo) CardByID(ctx context.Context, cardID uint64) (*model.LoyaltyCard, error) {
    const q = `SELECT id, discount, req_bonus_amount FROM loyalty_cards WHERE id = ?`
    var c model.LoyaltyCard
    err := r.db.QueryRowContext(ctx, q, cardID).Scan(&c.ID, &c.Discount, &c.ReqBonusAmount)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// BestCardFor returns the highest-threshold card whose requirement the
// given points satisfy, or nil when the guest qualifies for none.
func (r *LoyaltyRepo) BestCardFor(ctx context.Context, bonusPoints int) (*model.LoyaltyCard, error) {
    const q = `SELECT id, discount, req_bonus_amount
               FROM loyalty_cards
               WHERE req_bonus_amount <= ?
               ORDER BY req_bonus_amount DESC
               LIMIT 1`
    var c model.LoyaltyCard
    err := r.db.QueryRowContext(ctx, q, bonusPoints).Scan(&c.ID, &c.Discount, &c.ReqBonusAmount)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &c, nil
}
