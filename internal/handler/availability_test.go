package handler

import (
    "database/sql"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func (env *testEnv) availability() *AvailabilityHandler {
    return NewAvailabilityHandler(env.resolver, env.hotelRepo, env.categoryRepo, env.roomRepo, env.reservationRepo)
}

func availabilityContext(target string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodGet, target, nil)
    rec := httptest.NewRecorder()
    return echo.New().NewContext(req, rec), rec
}

func TestCheckAvailabilityInvalidRange(t *testing.T) {
    env := newTestEnv(t)
    h := env.availability()

    cases := []string{
        "/v1/availability?hotel_id=1&room_category_id=2&start_date=2026-09-03&end_date=2026-09-01",
        "/v1/availability?hotel_id=1&room_category_id=2&start_date=2026-09-01&end_date=2026-09-01",
        "/v1/availability?hotel_id=1&room_category_id=2&start_date=bad&end_date=2026-09-03",
        "/v1/availability?room_category_id=2&start_date=2026-09-01&end_date=2026-09-03",
    }
    for _, target := range cases {
        c, rec := availabilityContext(target)
        require.NoError(t, h.CheckAvailability(c))
        assert.Equal(t, http.StatusBadRequest, rec.Code, target)
    }
}

func TestCheckAvailabilityCounts(t *testing.T) {
    env := newTestEnv(t)
    h := env.availability()

    env.centralMock.ExpectQuery(`SELECT h.id, h.name, h.city_id`).
        WithArgs(uint64(1)).
        WillReturnRows(moscowHotelRow())
    env.centralMock.ExpectQuery(`SELECT id, category_name, guests_capacity`).
        WithArgs(uint64(2)).
        WillReturnRows(sqlmock.NewRows(categoryCols).AddRow(2, "Standard", 2, 1000.0, "two beds"))

    env.filialMock.ExpectQuery(`SELECT COUNT\(\*\) FROM rooms r`).
        WithArgs(uint64(1), uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
    env.filialMock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations res`).
        WithArgs(uint64(1), uint64(2), sqlmock.AnyArg(), sqlmock.AnyArg()).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
    env.filialMock.ExpectQuery(`SELECT r.id, r.room_number, r.floor, r.view`).
        WithArgs(uint64(1), uint64(2), 5).
        WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "floor", "view"}).
            AddRow(11, "101", 1, "courtyard").
            AddRow(12, "102", 1, "street"))

    c, rec := availabilityContext("/v1/availability?hotel_id=1&room_category_id=2&start_date=2026-09-01&end_date=2026-09-03")
    require.NoError(t, h.CheckAvailability(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var resp struct {
        TotalRooms     int     `json:"total_rooms"`
        ReservedRooms  int     `json:"reserved_rooms"`
        AvailableRooms int     `json:"available_rooms"`
        Nights         int     `json:"nights"`
        PricePerNight  float64 `json:"price_per_night"`
        PriceForPeriod float64 `json:"price_for_period"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, 5, resp.TotalRooms)
    assert.Equal(t, 3, resp.ReservedRooms)
    assert.Equal(t, 2, resp.AvailableRooms)
    assert.Equal(t, 2, resp.Nights)
    assert.Equal(t, 1200.0, resp.PricePerNight)
    assert.Equal(t, 2400.0, resp.PriceForPeriod)
    assert.NoError(t, env.filialMock.ExpectationsWereMet())
}

func TestCheckAvailabilityClampsToZero(t *testing.T) {
    env := newTestEnv(t)
    h := env.availability()

    env.centralMock.ExpectQuery(`SELECT h.id, h.name, h.city_id`).
        WithArgs(uint64(1)).
        WillReturnRows(moscowHotelRow())
    env.centralMock.ExpectQuery(`SELECT id, category_name, guests_capacity`).
        WithArgs(uint64(2)).
        WillReturnRows(sqlmock.NewRows(categoryCols).AddRow(2, "Standard", 2, 1000.0, "two beds"))

    // Overbooked data must never surface a negative availability.
    env.filialMock.ExpectQuery(`SELECT COUNT\(\*\) FROM rooms r`).
        WithArgs(uint64(1), uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
    env.filialMock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations res`).
        WithArgs(uint64(1), uint64(2), sqlmock.AnyArg(), sqlmock.AnyArg()).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

    c, rec := availabilityContext("/v1/availability?hotel_id=1&room_category_id=2&start_date=2026-09-01&end_date=2026-09-03")
    require.NoError(t, h.CheckAvailability(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var resp struct {
        AvailableRooms int `json:"available_rooms"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, 0, resp.AvailableRooms)
}

func TestCheckAvailabilityUnknownHotel(t *testing.T) {
    env := newTestEnv(t)
    h := env.availability()

    env.centralMock.ExpectQuery(`SELECT h.id, h.name, h.city_id`).
        WithArgs(uint64(404)).
        WillReturnError(sql.ErrNoRows)

    c, rec := availabilityContext("/v1/availability?hotel_id=404&room_category_id=2&start_date=2026-09-01&end_date=2026-09-03")
    require.NoError(t, h.CheckAvailability(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAvailableCategoriesFiltersAndOrders(t *testing.T) {
    env := newTestEnv(t)
    h := env.availability()

    env.centralMock.ExpectQuery(`SELECT h.id, h.name, h.city_id`).
        WithArgs(uint64(1)).
        WillReturnRows(moscowHotelRow())

    // Category 3 exists physically but is fully booked; category 9 has no
    // rooms at all and never reaches the listing.
    env.filialMock.ExpectQuery(`SELECT r.categories_room_id, COUNT\(\*\)`).
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"categories_room_id", "total_rooms"}).
            AddRow(2, 5).
            AddRow(3, 1))
    env.filialMock.ExpectQuery(`SELECT dr.requested_room_category, COUNT\(\*\)`).
        WithArgs(uint64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
        WillReturnRows(sqlmock.NewRows([]string{"requested_room_category", "reserved_rooms"}).
            AddRow(3, 1))

    env.centralMock.ExpectQuery(`SELECT id, category_name, guests_capacity`).
        WillReturnRows(sqlmock.NewRows(categoryCols).
            AddRow(2, "Standard", 2, 1000.0, "two beds").
            AddRow(3, "Suite", 4, 3000.0, "living room"))

    c, rec := availabilityContext("/v1/hotels/1/available-categories?start_date=2026-09-01&end_date=2026-09-03")
    c.SetParamNames("id")
    c.SetParamValues("1")
    require.NoError(t, h.ListAvailableCategories(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var resp struct {
        Items []struct {
            ID             uint64  `json:"id"`
            AvailableRooms int     `json:"available_rooms"`
            PriceForPeriod float64 `json:"price_for_period"`
        } `json:"items"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    require.Len(t, resp.Items, 1)
    assert.Equal(t, uint64(2), resp.Items[0].ID)
    assert.Equal(t, 5, resp.Items[0].AvailableRooms)
    assert.Equal(t, 2400.0, resp.Items[0].PriceForPeriod)
}
