package model

// Hotel describes a single property.  Hotels are reference data in the
// central store.  LocationCoeff multiplies every nightly price quoted for
// rooms in this hotel, so the same room category can be priced differently
// per property.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name of the hotel.
//  CityID        – reference to the city the hotel is located in.
//  CityName      – denormalised city name, populated by list/detail joins.
//  Address       – street address.
//  PhoneNumber   – contact phone.
//  Email         – contact email.
//  StarRating    – star rating pulled from categories_hotel.
//  CheckInTime   – earliest check-in, "HH:MM".
//  CheckOutTime  – latest check-out, "HH:MM".
//  LocationCoeff – per-hotel multiplier on category base prices.
//  Description   – free-form description.
type Hotel struct {
    ID            uint64  `json:"id"`
    Name          string  `json:"name"`
    CityID        uint64  `json:"city_id,omitempty"`
    CityName      string  `json:"city_name"`
    Address       string  `json:"address"`
    PhoneNumber   string  `json:"phone_number"`
    Email         string  `json:"email"`
    StarRating    *uint32 `json:"star_rating,omitempty"`
    CheckInTime   string  `json:"check_in_time"`
    CheckOutTime  string  `json:"check_out_time"`
    LocationCoeff float64 `json:"location_coeff_room"`
    Description   string  `json:"description"`
}
