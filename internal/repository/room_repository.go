package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

// RoomRepo provides access to physical room inventory.  Rooms are
// operational data: they live in the store of the hotel's city, so every
// method takes the resolved store name (or an open transaction on that
// store).
type RoomRepo struct {
    stores *store.Cluster
}

// NewRoomRepo returns a RoomRepo over the store cluster.
func NewRoomRepo(c *store.Cluster) *RoomRepo { return &RoomRepo{stores: c} }

// CountByCategory counts the physical rooms of one category in a hotel.
// This is the capacity side of the count-based availability model.
func (r *RoomRepo) CountByCategory(ctx context.Context, storeName string, hotelID, categoryID uint64) (int, error) {
    const q = `SELECT COUNT(*) FROM rooms r
               WHERE r.hotel_id = ? AND r.categories_room_id = ?`
    var n int
    err := r.stores.Get(storeName).QueryRowContext(ctx, q, hotelID, categoryID).Scan(&n)
    return n, err
}

// CountsByHotel returns the physical room count per category for a
// hotel.  Only categories with at least one room appear in the map.
func (r *RoomRepo) CountsByHotel(ctx context.Context, storeName string, hotelID uint64) (map[uint64]int, error) {
    const q = `SELECT r.categories_room_id, COUNT(*) AS total_rooms
               FROM rooms r
               WHERE r.hotel_id = ?
               GROUP BY r.categories_room_id`
    rows, err := r.stores.Get(storeName).QueryContext(ctx, q, hotelID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    counts := make(map[uint64]int)
    for rows.Next() {
        var catID uint64
        var n int
        if err := rows.Scan(&catID, &n); err != nil {
            return nil, err
        }
        counts[catID] = n
    }
    return counts, rows.Err()
}

// SampleByCategory returns up to limit rooms of a category ordered by
// room number.  The rooms are informational only: a booking reserves
// category capacity, not a specific room.
func (r *RoomRepo) SampleByCategory(ctx context.Context, storeName string, hotelID, categoryID uint64, limit int) ([]model.Room, error) {
    const q = `SELECT r.id, r.room_number, r.floor, r.view
               FROM rooms r
               WHERE r.hotel_id = ? AND r.categories_room_id = ?
               ORDER BY r.room_number
               LIMIT ?`
    rows, err := r.stores.Get(storeName).QueryContext(ctx, q, hotelID, categoryID, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Room, 0, limit)
    for rows.Next() {
        var rm model.Room
        if err := rows.Scan(&rm.ID, &rm.RoomNumber, &rm.Floor, &rm.View); err != nil {
            return nil, err
        }
        out = append(out, rm)
    }
    return out, rows.Err()
}

// ListByHotel returns every room of a hotel joined with its category,
// ordered by room number.  Used by the hotel detail surface.
func (r *RoomRepo) ListByHotel(ctx context.Context, storeName string, hotelID uint64) ([]model.Room, error) {
    const q = `SELECT r.id, r.hotel_id, r.categories_room_id, r.room_number, r.floor, r.view,
                      cr.category_name
               FROM rooms r
               JOIN categories_room cr ON r.categories_room_id = cr.id
               WHERE r.hotel_id = ?
               ORDER BY r.room_number`
    rows, err := r.stores.Get(storeName).QueryContext(ctx, q, hotelID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Room, 0)
    for rows.Next() {
        var rm model.Room
        if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.CategoryID, &rm.RoomNumber, &rm.Floor, &rm.View,
            &rm.CategoryName); err != nil {
            return nil, err
        }
        out = append(out, rm)
    }
    return out, rows.Err()
}

// BelongsToHotelTx verifies within a transaction that a room is part of
// the given hotel.  Check-in must not assign a room from another
// property.
func (r *RoomRepo) BelongsToHotelTx(ctx context.Context, tx *sql.Tx, roomID, hotelID uint64) (bool, error) {
    const q = `SELECT id FROM rooms WHERE id = ? AND hotel_id = ?`
    var id uint64
    err := tx.QueryRowContext(ctx, q, roomID, hotelID).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}
