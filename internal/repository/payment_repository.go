package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

// PaymentRepo appends to and reads from the payment ledger.  Ledger rows
// are written in the same store and transaction as the reservation they
// settle; one settled reservation has exactly one row.
type PaymentRepo struct {
    stores *store.Cluster
}

// NewPaymentRepo returns a PaymentRepo over the store cluster.
func NewPaymentRepo(c *store.Cluster) *PaymentRepo { return &PaymentRepo{stores: c} }

// InsertTx appends a ledger row within a transaction and populates the
// generated id.
func (r *PaymentRepo) InsertTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
    const q = `INSERT INTO payments (reservation_id, reference, payments_sum, payments_date, payments_method)
               VALUES (?, ?, ?, UTC_TIMESTAMP(), ?)`
    res, err := tx.ExecContext(ctx, q, p.ReservationID, p.Reference, p.Amount, p.Method)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

// HistoryByGuest returns the ledger rows for reservations the guest
// paid, newest first, capped at limit.  Read from the central store so
// the history spans every city.
func (r *PaymentRepo) HistoryByGuest(ctx context.Context, guestID uint64, limit int) ([]model.Payment, error) {
    const q = `SELECT p.id, p.reservation_id, p.reference, p.payments_sum, p.payments_date, p.payments_method
               FROM payments p
               JOIN reservations res ON p.reservation_id = res.id
               WHERE res.payer_id = ?
               ORDER BY p.payments_date DESC
               LIMIT ?`
    rows, err := r.stores.Central().QueryContext(ctx, q, guestID, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Payment, 0, limit)
    for rows.Next() {
        var p model.Payment
        if err := rows.Scan(&p.ID, &p.ReservationID, &p.Reference, &p.Amount,
            &p.Date, &p.Method); err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    return out, rows.Err()
}
