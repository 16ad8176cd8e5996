package handler

import (
    "database/sql"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func (env *testEnv) reception() *ReceptionHandler {
    return NewReceptionHandler(env.resolver, env.roomRepo, env.guestRepo, env.reservationRepo)
}

var headerCols = []string{"id", "hotel_id", "payer_id", "start_date", "end_date"}

func sept(day int) time.Time {
    return time.Date(2026, 9, day, 0, 0, 0, 0, time.UTC)
}

// expectHeaderAndStore mocks the central header read plus the resolver's
// city lookup for the hotel.
func expectHeaderAndStore(env *testEnv, resID, hotelID, payerID uint64) {
    env.centralMock.ExpectQuery(`SELECT res.id, res.hotel_id, res.payer_id`).
        WithArgs(resID).
        WillReturnRows(sqlmock.NewRows(headerCols).AddRow(resID, hotelID, payerID, sept(1), sept(3)))
    env.centralMock.ExpectQuery(`SELECT c.city_name`).
        WithArgs(hotelID).
        WillReturnRows(sqlmock.NewRows([]string{"city_name"}).AddRow("Moscow"))
}

func registerGuestsContext(resID, body string) (echo.Context, *httptest.ResponseRecorder) {
    req, rec := jsonRequest(http.MethodPost, "/v1/reservations/"+resID+"/register-guests", body)
    c := echo.New().NewContext(req, rec)
    c.SetParamNames("id")
    c.SetParamValues(resID)
    return c, rec
}

func TestRegisterGuestsConflictNamesBlockingReservation(t *testing.T) {
    env := newTestEnv(t)
    h := env.reception()

    expectHeaderAndStore(env, 7, 1, 5)
    env.filialMock.ExpectBegin()
    env.filialMock.ExpectQuery(`SELECT id FROM rooms`).
        WithArgs(uint64(30), uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(30))
    env.filialMock.ExpectQuery(`SELECT res.id FROM reservations res`).
        WithArgs(uint64(30), uint64(7), sept(1), sept(3)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
    env.filialMock.ExpectRollback()

    c, rec := registerGuestsContext("7", `{"room_id":30,"guest_ids":[5]}`)
    require.NoError(t, h.RegisterGuests(c))
    assert.Equal(t, http.StatusConflict, rec.Code)

    var body struct {
        BlockingReservationID uint64 `json:"blocking_reservation_id"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    assert.Equal(t, uint64(12), body.BlockingReservationID)
    assert.NoError(t, env.filialMock.ExpectationsWereMet())
}

func TestRegisterGuestsHappyPath(t *testing.T) {
    env := newTestEnv(t)
    h := env.reception()

    expectHeaderAndStore(env, 7, 1, 5)
    env.filialMock.ExpectBegin()
    env.filialMock.ExpectQuery(`SELECT id FROM rooms`).
        WithArgs(uint64(30), uint64(1)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(30))
    env.filialMock.ExpectQuery(`SELECT res.id FROM reservations res`).
        WithArgs(uint64(30), uint64(7), sept(1), sept(3)).
        WillReturnError(sql.ErrNoRows)
    env.filialMock.ExpectQuery(`SELECT id FROM details_reservations`).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
    env.filialMock.ExpectExec(`UPDATE details_reservations SET room_id`).
        WithArgs(uint64(30), uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    // Payer link is re-asserted, then guest 6 is checked and linked.
    env.filialMock.ExpectExec(`INSERT IGNORE INTO room_reservation_guests`).
        WithArgs(uint64(10), uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    env.filialMock.ExpectQuery(`SELECT id FROM guests`).
        WithArgs(uint64(6)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
    env.filialMock.ExpectExec(`INSERT IGNORE INTO room_reservation_guests`).
        WithArgs(uint64(10), uint64(6)).
        WillReturnResult(sqlmock.NewResult(2, 1))
    env.filialMock.ExpectExec(`UPDATE reservations SET status = 'confirmed'`).
        WithArgs(uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    env.filialMock.ExpectCommit()

    // The payer appears in guest_ids too; the duplicate is absorbed.
    c, rec := registerGuestsContext("7", `{"room_id":30,"guest_ids":[5,6]}`)
    require.NoError(t, h.RegisterGuests(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    var body struct {
        RegisteredGuests int    `json:"registered_guests"`
        Status           string `json:"status"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    assert.Equal(t, 1, body.RegisteredGuests)
    assert.Equal(t, "confirmed", body.Status)
    assert.NoError(t, env.filialMock.ExpectationsWereMet())
}

func TestRegisterGuestsUnknownReservation(t *testing.T) {
    env := newTestEnv(t)
    h := env.reception()

    env.centralMock.ExpectQuery(`SELECT res.id, res.hotel_id, res.payer_id`).
        WithArgs(uint64(404)).
        WillReturnError(sql.ErrNoRows)

    c, rec := registerGuestsContext("404", `{"room_id":30}`)
    require.NoError(t, h.RegisterGuests(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterGuestsForeignRoom(t *testing.T) {
    env := newTestEnv(t)
    h := env.reception()

    expectHeaderAndStore(env, 7, 1, 5)
    env.filialMock.ExpectBegin()
    env.filialMock.ExpectQuery(`SELECT id FROM rooms`).
        WithArgs(uint64(77), uint64(1)).
        WillReturnError(sql.ErrNoRows)
    env.filialMock.ExpectRollback()

    c, rec := registerGuestsContext("7", `{"room_id":77}`)
    require.NoError(t, h.RegisterGuests(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}
