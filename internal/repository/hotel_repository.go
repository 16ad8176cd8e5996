package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-reservation/internal/model"
)

// HotelRepo provides read/update access to hotel reference data.  Hotels,
// cities and star ratings all live in the central store, so the repo is
// bound to that single handle.
type HotelRepo struct {
    db *sql.DB
}

// NewHotelRepo returns a HotelRepo bound to the central store.
func NewHotelRepo(central *sql.DB) *HotelRepo { return &HotelRepo{db: central} }

// List returns all hotels joined with their city and star rating,
// optionally filtered by city name.  Results are ordered by city then
// hotel name for stable display.
func (r *HotelRepo) List(ctx context.Context, city string) ([]model.Hotel, error) {
    q := `SELECT h.id, h.name, c.city_name, h.address,
                 h.phone_number, h.email, ch.star_rating,
                 h.check_in_time, h.check_out_time,
                 h.location_coeff_room, h.description
          FROM hotels h
          JOIN cities c ON h.city_id = c.id
          JOIN categories_hotel ch ON h.star_rating_id = ch.id`
    var args []interface{}
    if city != "" {
        q += ` WHERE c.city_name = ? ORDER BY h.name`
        args = append(args, city)
    } else {
        q += ` ORDER BY c.city_name, h.name`
    }
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    hotels := make([]model.Hotel, 0)
    for rows.Next() {
        var h model.Hotel
        var rating sql.NullInt64
        if err := rows.Scan(&h.ID, &h.Name, &h.CityName, &h.Address,
            &h.PhoneNumber, &h.Email, &rating,
            &h.CheckInTime, &h.CheckOutTime,
            &h.LocationCoeff, &h.Description); err != nil {
            return nil, err
        }
        if rating.Valid {
            v := uint32(rating.Int64)
            h.StarRating = &v
        }
        hotels = append(hotels, h)
    }
    return hotels, rows.Err()
}

// GetByID returns one hotel with its city and rating joined in.  It
// returns ErrNotFound when the hotel does not exist.
func (r *HotelRepo) GetByID(ctx context.Context, hotelID uint64) (*model.Hotel, error) {
    const q = `SELECT h.id, h.name, h.city_id, c.city_name, h.address,
                      h.phone_number, h.email, ch.star_rating,
                      h.check_in_time, h.check_out_time,
                      h.location_coeff_room, h.description
               FROM hotels h
               JOIN cities c ON h.city_id = c.id
               JOIN categories_hotel ch ON h.star_rating_id = ch.id
               WHERE h.id = ?`
    var h model.Hotel
    var rating sql.NullInt64
    err := r.db.QueryRowContext(ctx, q, hotelID).Scan(
        &h.ID, &h.Name, &h.CityID, &h.CityName, &h.Address,
        &h.PhoneNumber, &h.Email, &rating,
        &h.CheckInTime, &h.CheckOutTime,
        &h.LocationCoeff, &h.Description,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if rating.Valid {
        v := uint32(rating.Int64)
        h.StarRating = &v
    }
    return &h, nil
}

// Update rewrites a hotel's editable metadata.  It returns ErrNotFound
// when no row matched the id.
func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
    const q = `UPDATE hotels
               SET name = ?, address = ?, phone_number = ?,
                   email = ?, check_in_time = ?, check_out_time = ?,
                   location_coeff_room = ?, description = ?
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q,
        h.Name, h.Address, h.PhoneNumber,
        h.Email, h.CheckInTime, h.CheckOutTime,
        h.LocationCoeff, h.Description, h.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// CityCount pairs a city name with an aggregate count, used by the city
// listing endpoints.
type CityCount struct {
    CityName string `json:"city_name"`
    Count    int    `json:"count"`
}

// CitiesWithHotelCounts lists every city with the number of hotels in it,
// ordered by city name.  Cities without hotels are included with zero.
func (r *HotelRepo) CitiesWithHotelCounts(ctx context.Context) ([]CityCount, error) {
    const q = `SELECT c.city_name, COUNT(h.id) AS hotels_count
               FROM cities c
               LEFT JOIN hotels h ON c.id = h.city_id
               GROUP BY c.id, c.city_name
               ORDER BY c.city_name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]CityCount, 0)
    for rows.Next() {
        var cc CityCount
        if err := rows.Scan(&cc.CityName, &cc.Count); err != nil {
            return nil, err
        }
        out = append(out, cc)
    }
    return out, rows.Err()
}
