package pricing

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        panic(err)
    }
    return t
}

func TestNights(t *testing.T) {
    assert.Equal(t, 2, Nights(date("2026-09-01"), date("2026-09-03")))
    assert.Equal(t, 1, Nights(date("2026-09-01"), date("2026-09-02")))
    assert.Equal(t, 0, Nights(date("2026-09-01"), date("2026-09-01")))
}

func TestStayPrice(t *testing.T) {
    // 1000 base, 1.2 coefficient, two nights.
    assert.Equal(t, 2400.0, StayPrice(1000, 1.2, 2))
    // Zero coefficient must behave as the neutral 1.0.
    assert.Equal(t, 2000.0, StayPrice(1000, 0, 2))
    assert.Equal(t, 1200.0, NightlyRate(1000, 1.2))
}

func TestStayPriceDeterminism(t *testing.T) {
    first := StayPrice(999.99, 1.17, 5)
    for i := 0; i < 10; i++ {
        assert.Equal(t, first, StayPrice(999.99, 1.17, 5))
    }
}

func TestTotalWithSurcharge(t *testing.T) {
    // Capacity 2, 4 guests: two extra guests at 20% each on 1000.
    assert.Equal(t, 1400.0, TotalWithSurcharge(1000, 4, 2))
    // Within capacity, no surcharge.
    assert.Equal(t, 1000.0, TotalWithSurcharge(1000, 2, 2))
    assert.Equal(t, 1000.0, TotalWithSurcharge(1000, 1, 2))
    // Surcharge is linear, not compounding.
    assert.Equal(t, 1200.0, TotalWithSurcharge(1000, 3, 2))
    assert.Equal(t, 1600.0, TotalWithSurcharge(1000, 5, 2))
}

func TestApplyDiscount(t *testing.T) {
    // The 10% loyalty card on a 1000 charge.
    assert.Equal(t, 900.0, ApplyDiscount(1000, 10))
    assert.Equal(t, 1000.0, ApplyDiscount(1000, 0))
    assert.Equal(t, 925.92, ApplyDiscount(1234.56, 25))
}

func TestBonusPoints(t *testing.T) {
    // 1% cash-back, truncated toward zero.
    assert.Equal(t, 9, BonusPoints(900))
    assert.Equal(t, 9, BonusPoints(999.99))
    assert.Equal(t, 10, BonusPoints(1000))
    assert.Equal(t, 0, BonusPoints(99.99))
}

func TestRound2(t *testing.T) {
    assert.Equal(t, 1.23, Round2(1.234))
    assert.Equal(t, 1.24, Round2(1.239))
    assert.Equal(t, 100.0, Round2(100.004))
}
