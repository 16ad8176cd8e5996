// Package pricing holds the pure price computations of the booking and
// payment flows.  Every function here is deterministic in its inputs so
// that quoting, booking and settlement all agree on the numbers.
package pricing

import (
    "math"
    "time"
)

// extraGuestRate is the linear per-guest surcharge applied when a booking
// exceeds the category's guest capacity.
const extraGuestRate = 0.2

// bonusRate is the cash-back rate credited in bonus points per settled
// payment.
const bonusRate = 0.01

// Round2 rounds to two decimal places, the precision every price and
// settled amount is stored with.
func Round2(x float64) float64 {
    return math.Round(x*100) / 100
}

// Nights returns the number of nights in the half-open range
// [start, end).  Inputs are expected to be midnight civil dates.
func Nights(start, end time.Time) int {
    return int(end.Sub(start).Hours() / 24)
}

// NightlyRate is the per-night price of a category at a given hotel:
// base rate times the hotel's location coefficient.  A zero coefficient
// is treated as the neutral 1.0 (unset reference data must not zero out
// prices).
func NightlyRate(basePerNight, locationCoeff float64) float64 {
    if locationCoeff == 0 {
        locationCoeff = 1.0
    }
    return Round2(basePerNight * locationCoeff)
}

// StayPrice is the undiscounted price of a stay: nightly rate times
// nights, before any extra-guest surcharge.
func StayPrice(basePerNight, locationCoeff float64, nights int) float64 {
    if locationCoeff == 0 {
        locationCoeff = 1.0
    }
    return Round2(basePerNight * locationCoeff * float64(nights))
}

// TotalWithSurcharge applies the extra-guest surcharge to a stay price.
// Each guest above the category capacity adds 20% of the stay price;
// the surcharge is linear per extra guest, not compounding.
func TotalWithSurcharge(stayPrice float64, guests, capacity int) float64 {
    if guests > capacity {
        extra := float64(guests - capacity)
        stayPrice += stayPrice * extraGuestRate * extra
    }
    return Round2(stayPrice)
}

// ApplyDiscount reduces amount by discountPercent (0..100), rounded to
// two decimals.
func ApplyDiscount(amount, discountPercent float64) float64 {
    return Round2(amount * (1 - discountPercent/100))
}

// BonusPoints is the number of loyalty points credited for a settled
// amount: 1% cash-back, truncated.
func BonusPoints(amountPaid float64) int {
    return int(amountPaid * bonusRate)
}
