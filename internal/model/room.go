package model

// RoomCategory is a room type/tier shared across hotels.  PricePerNight is
// a base rate; the actual quoted price multiplies it by the hotel's
// location coefficient.  Reference data, central store.
type RoomCategory struct {
    ID             uint64  `json:"id"`
    CategoryName   string  `json:"category_name"`
    GuestsCapacity int     `json:"guests_capacity"`
    PricePerNight  float64 `json:"price_per_night"`
    Description    string  `json:"description"`
}

// Room is operational inventory and lives in the store of the hotel's
// city.  One room belongs to exactly one category and one hotel.
type Room struct {
    ID           uint64 `json:"id"`
    HotelID      uint64 `json:"hotel_id,omitempty"`
    CategoryID   uint64 `json:"categories_room_id,omitempty"`
    RoomNumber   string `json:"room_number"`
    Floor        int    `json:"floor"`
    View         string `json:"view"`
    CategoryName string `json:"category_name,omitempty"`
}
