package model

// Amenity is one amenity of a hotel (pool, parking, wifi).  Amenity rows
// are operational data and live in the store of the hotel's city; the
// amenity type names are joined in from types_amenities.
type Amenity struct {
	ID       uint64 `json:"id"`
	HotelID  uint64 `json:"hotel_id,omitempty"`
	TypeID   uint64 `json:"types_amenities_id,omitempty"`
	TypeName string `json:"name"`
}
