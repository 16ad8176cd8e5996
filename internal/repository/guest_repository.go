package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

// GuestRepo provides CRUD access to guest records.  Guests are created
// in the store that is primary for the booking's city (local-first;
// replication to central is handled outside this service), so methods
// take the resolved store name.
type GuestRepo struct {
    stores *store.Cluster
}

// NewGuestRepo returns a GuestRepo over the store cluster.
func NewGuestRepo(c *store.Cluster) *GuestRepo { return &GuestRepo{stores: c} }

// Create inserts a guest into the named store and returns the generated
// id.  BirthDate defaults in the caller; phone number is the only hard
// requirement and is validated at the handler boundary.
func (r *GuestRepo) Create(ctx context.Context, storeName string, g *model.Guest) (uint64, error) {
    const q = `INSERT INTO guests (first_name, last_name, phone_number, email, birth_date)
               VALUES (?, ?, ?, ?, ?)`
    res, err := r.stores.Get(storeName).ExecContext(ctx, q,
        g.FirstName, g.LastName, g.PhoneNumber, g.Email, g.BirthDate)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    g.ID = uint64(id)
    return g.ID, nil
}

// GetByID returns one guest from the named store, or ErrNotFound.
func (r *GuestRepo) GetByID(ctx context.Context, storeName string, guestID uint64) (*model.Guest, error) {
    const q = `SELECT id, first_name, last_name, phone_number, email, birth_date,
                      COALESCE(document, ''), loyalty_card_id, bonus_points
               FROM guests
               WHERE id = ?`
    var g model.Guest
    var birth sql.NullTime
    var cardID sql.NullInt64
    err := r.stores.Get(storeName).QueryRowContext(ctx, q, guestID).Scan(
        &g.ID, &g.FirstName, &g.LastName, &g.PhoneNumber, &g.Email, &birth,
        &g.Document, &cardID, &g.BonusPoints,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if birth.Valid {
        g.BirthDate = birth.Time.Format("2006-01-02")
    }
    if cardID.Valid {
        v := uint64(cardID.Int64)
        g.LoyaltyCardID = &v
    }
    return &g, nil
}

// ExistsTx reports within a transaction whether a guest id exists in the
// transaction's store.  Check-in skips unknown guest ids instead of
// failing the whole registration.
func (r *GuestRepo) ExistsTx(ctx context.Context, tx *sql.Tx, guestID uint64) (bool, error) {
    const q = `SELECT id FROM guests WHERE id = ?`
    var id uint64
    err := tx.QueryRowContext(ctx, q, guestID).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// AddBonusTx credits bonus points to a guest inside a transaction.
// Points only ever grow through this path.
func (r *GuestRepo) AddBonusTx(ctx context.Context, tx *sql.Tx, guestID uint64, points int) error {
    const q = `UPDATE guests SET bonus_points = bonus_points + ? WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, points, guestID)
    return err
}

// SetLoyaltyCardTx assigns a loyalty card to a guest inside a
// transaction, skipping the write when the card is already assigned.
func (r *GuestRepo) SetLoyaltyCardTx(ctx context.Context, tx *sql.Tx, guestID, cardID uint64) error {
    const q = `UPDATE guests
               SET loyalty_card_id = ?
               WHERE id = ? AND (loyalty_card_id IS NULL OR loyalty_card_id != ?)`
    _, err := tx.ExecContext(ctx, q, cardID, guestID, cardID)
    return err
}

// BonusPointsTx reads a guest's current bonus balance inside a
// transaction, after accrual, for tier re-evaluation.
func (r *GuestRepo) BonusPointsTx(ctx context.Context, tx *sql.Tx, guestID uint64) (int, error) {
    const q = `SELECT bonus_points FROM guests WHERE id = ?`
    var pts int
    err := tx.QueryRowContext(ctx, q, guestID).Scan(&pts)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, ErrNotFound
    }
    return pts, err
}
