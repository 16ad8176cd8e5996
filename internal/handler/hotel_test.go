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

func (env *testEnv) hotel() *HotelHandler {
    return NewHotelHandler(env.resolver, env.hotelRepo, env.categoryRepo, env.roomRepo, env.amenityRepo, env.reservationRepo)
}

func TestCitiesMergesCountsAndStores(t *testing.T) {
    env := newTestEnv(t)
    h := env.hotel()

    env.centralMock.ExpectQuery(`SELECT c.city_name, COUNT\(h.id\)`).
        WillReturnRows(sqlmock.NewRows([]string{"city_name", "hotels_count"}).
            AddRow("Kazan", 2).
            AddRow("Moscow", 5).
            AddRow("Samara", 1))
    env.centralMock.ExpectQuery(`SELECT c.city_name, COUNT\(res.id\)`).
        WillReturnRows(sqlmock.NewRows([]string{"city_name", "reservations_count"}).
            AddRow("Kazan", 3).
            AddRow("Moscow", 9).
            AddRow("Samara", 0))

    c, rec := availabilityContext("/v1/cities")
    require.NoError(t, h.Cities(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var resp struct {
        Items []struct {
            CityName           string `json:"city_name"`
            StoreName          string `json:"store_name"`
            HotelsCount        int    `json:"hotels_count"`
            ActiveReservations int    `json:"active_reservations"`
        } `json:"items"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    require.Len(t, resp.Items, 3)
    assert.Equal(t, "filial3", resp.Items[0].StoreName)
    assert.Equal(t, 3, resp.Items[0].ActiveReservations)
    assert.Equal(t, "filial1", resp.Items[1].StoreName)
    assert.Equal(t, 9, resp.Items[1].ActiveReservations)
    // Unmapped cities are served by central.
    assert.Equal(t, "central", resp.Items[2].StoreName)
    assert.NoError(t, env.centralMock.ExpectationsWereMet())
}

func TestHotelAmenities(t *testing.T) {
    env := newTestEnv(t)
    h := env.hotel()

    env.centralMock.ExpectQuery(`SELECT h.id, h.name, h.city_id`).
        WithArgs(uint64(1)).
        WillReturnRows(moscowHotelRow())
    env.centralMock.ExpectQuery(`SELECT c.city_name`).
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"city_name"}).AddRow("Moscow"))
    env.filialMock.ExpectQuery(`SELECT a.id, a.hotel_id, a.types_amenities_id, ta.name`).
        WithArgs(uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "types_amenities_id", "name"}).
            AddRow(4, 1, 2, "Parking").
            AddRow(9, 1, 7, "Pool"))

    req := httptest.NewRequest(http.MethodGet, "/v1/hotels/1/amenities", nil)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues("1")

    require.NoError(t, h.Amenities(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var resp struct {
        HotelID uint64 `json:"hotel_id"`
        Items   []struct {
            ID   uint64 `json:"id"`
            Name string `json:"name"`
        } `json:"items"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, uint64(1), resp.HotelID)
    require.Len(t, resp.Items, 2)
    assert.Equal(t, "Parking", resp.Items[0].Name)
    assert.Equal(t, "Pool", resp.Items[1].Name)
    assert.NoError(t, env.centralMock.ExpectationsWereMet())
    assert.NoError(t, env.filialMock.ExpectationsWereMet())
}

func TestHotelAmenitiesUnknownHotel(t *testing.T) {
    env := newTestEnv(t)
    h := env.hotel()

    env.centralMock.ExpectQuery(`SELECT h.id, h.name, h.city_id`).
        WithArgs(uint64(99)).
        WillReturnError(sql.ErrNoRows)

    req := httptest.NewRequest(http.MethodGet, "/v1/hotels/99/amenities", nil)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues("99")

    require.NoError(t, h.Amenities(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateHotelValidation(t *testing.T) {
    env := newTestEnv(t)
    h := env.hotel()

    req, rec := jsonRequest(http.MethodPut, "/v1/hotels/1", `{"name":""}`)
    c := echo.New().NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues("1")
    require.NoError(t, h.Update(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}
