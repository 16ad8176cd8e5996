package repository

import (
	"context"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/store"
)

// AmenityRepo provides read access to hotel amenities.  Like rooms,
// amenities live in the store of the hotel's city, so every method takes
// the resolved store name.
type AmenityRepo struct {
	stores *store.Cluster
}

// NewAmenityRepo returns an AmenityRepo over the store cluster.
func NewAmenityRepo(c *store.Cluster) *AmenityRepo { return &AmenityRepo{stores: c} }

// ListByHotel returns the amenities of a hotel joined with their type
// names, alphabetical by type name.
func (r *AmenityRepo) ListByHotel(ctx context.Context, storeName string, hotelID uint64) ([]model.Amenity, error) {
	const q = `SELECT a.id, a.hotel_id, a.types_amenities_id, ta.name
               FROM amenities a
               JOIN types_amenities ta ON a.types_amenities_id = ta.id
               WHERE a.hotel_id = ?
               ORDER BY ta.name`
	rows, err := r.stores.Get(storeName).QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Amenity, 0)
	for rows.Next() {
		var a model.Amenity
		if err := rows.Scan(&a.ID, &a.HotelID, &a.TypeID, &a.TypeName); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
