package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// CategoryRepo reads room-category reference data from the central store.
// Categories are shared across hotels; per-hotel pricing is obtained by
// combining the base rate with the hotel's location coefficient.
type CategoryRepo struct {
    db *sql.DB
}

// NewCategoryRepo returns a CategoryRepo bound to the central store.
func NewCategoryRepo(central *sql.DB) *CategoryRepo { return &CategoryRepo{db: central} }

// GetByID returns one category or ErrNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, categoryID uint64) (*model.RoomCategory, error) {
    const q = `SELECT id, category_name, guests_capacity, price_per_night, description
               FROM categories_room
               WHERE id = ?`
    var c model.RoomCategory
    err := r.db.QueryRowContext(ctx, q, categoryID).Scan(
        &c.ID, &c.CategoryName, &c.GuestsCapacity, &c.PricePerNight, &c.Description,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &c, nil
}

// ListByIDs returns the given categories ordered by base price ascending.
// The ordering is part of the availability-listing contract: cheapest
// category first.  Passing an empty slice returns an empty result.
func (r *CategoryRepo) ListByIDs(ctx context.Context, ids []uint64) ([]model.RoomCategory, error) {
    if len(ids) == 0 {
        return []model.RoomCategory{}, nil
    }
    placeholders := make([]string, len(ids))
    args := make([]interface{}, len(ids))
    for i, id := range ids {
        placeholders[i] = "?"
        args[i] = id
    }
    q := `SELECT id, category_name, guests_capacity, price_per_night, description
          FROM categories_room
          WHERE id IN (` + strings.Join(placeholders, ",") + `)
          ORDER BY price_per_night`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    cats := make([]model.RoomCategory, 0, len(ids))
    for rows.Next() {
        var c model.RoomCategory
        if err := rows.Scan(&c.ID, &c.CategoryName, &c.GuestsCapacity, &c.PricePerNight, &c.Description); err != nil {
            return nil, err
        }
        cats = append(cats, c)
    }
    return cats, rows.Err()
}

// CategoryWithCount carries a category plus its physical room count and
// coefficient-adjusted price for one hotel.
type CategoryWithCount struct {
    model.RoomCategory
    RoomCount int `json:"room_count"`
}

// ListForHotelWithCounts returns the categories that have at least one
// physical room in the given hotel, with room counts, ordered by base
// price.  Categories without rooms in this hotel never appear (HAVING
// filters them out), which keeps zero-inventory tiers off booking forms.
func (r *CategoryRepo) ListForHotelWithCounts(ctx context.Context, hotelID uint64) ([]CategoryWithCount, error) {
    const q = `SELECT cr.id, cr.category_name, cr.guests_capacity,
                      cr.price_per_night, cr.description,
                      COUNT(rm.id) AS total_rooms
               FROM categories_room cr
               JOIN rooms rm ON rm.categories_room_id = cr.id AND rm.hotel_id = ?
               GROUP BY cr.id, cr.category_name, cr.guests_capacity,
                        cr.price_per_night, cr.description
               HAVING COUNT(rm.id) > 0
               ORDER BY cr.price_per_night`
    rows, err := r.db.QueryContext(ctx, q, hotelID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]CategoryWithCount, 0)
    for rows.Next() {
        var cc CategoryWithCount
        if err := rows.Scan(&cc.ID, &cc.CategoryName, &cc.GuestsCapacity,
            &cc.PricePerNight, &cc.Description, &cc.RoomCount); err != nil {
            return nil, err
        }
        out = append(out, cc)
    }
    return out, rows.Err()
}
