package repository

import (
    "context"
    "database/sql"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-reservation/internal/store"
)

func mustDate(t *testing.T, s string) time.Time {
    t.Helper()
    d, err := time.Parse("2006-01-02", s)
    require.NoError(t, err)
    return d
}

// clusterWith builds a cluster where both central and filial1 point at
// mock handles.
func clusterWith(t *testing.T) (*store.Cluster, sqlmock.Sqlmock, sqlmock.Sqlmock) {
    t.Helper()
    central, centralMock, err := sqlmock.New()
    require.NoError(t, err)
    filial, filialMock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() {
        central.Close()
        filial.Close()
    })
    c := store.NewCluster(map[string]*sql.DB{
        store.Central: central,
        store.Filial1: filial,
    })
    return c, centralMock, filialMock
}

func TestCountOverlapping(t *testing.T) {
    cluster, _, filialMock := clusterWith(t)
    repo := NewReservationRepo(cluster)

    start := mustDate(t, "2026-09-01")
    end := mustDate(t, "2026-09-03")

    filialMock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations res`).
        WithArgs(uint64(1), uint64(2), start, end).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

    n, err := repo.CountOverlapping(context.Background(), store.Filial1, 1, 2, start, end)
    require.NoError(t, err)
    assert.Equal(t, 3, n)
    assert.NoError(t, filialMock.ExpectationsWereMet())
}

func TestCapacityTx(t *testing.T) {
    cluster, _, filialMock := clusterWith(t)
    repo := NewReservationRepo(cluster)

    start := mustDate(t, "2026-09-01")
    end := mustDate(t, "2026-09-03")

    filialMock.ExpectBegin()
    filialMock.ExpectQuery(`SELECT COUNT\(\*\) FROM rooms r`).
        WithArgs(uint64(1), uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
    filialMock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations res`).
        WithArgs(uint64(1), uint64(2), start, end).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
    filialMock.ExpectRollback()

    tx, err := cluster.Get(store.Filial1).Begin()
    require.NoError(t, err)
    defer tx.Rollback()

    total, reserved, err := repo.CapacityTx(context.Background(), tx, 1, 2, start, end)
    require.NoError(t, err)
    assert.Equal(t, 5, total)
    assert.Equal(t, 3, reserved)
}

func TestCapacityTxNoCapacity(t *testing.T) {
    cluster, _, filialMock := clusterWith(t)
    repo := NewReservationRepo(cluster)

    start := mustDate(t, "2026-09-01")
    end := mustDate(t, "2026-09-03")

    filialMock.ExpectBegin()
    filialMock.ExpectQuery(`SELECT COUNT\(\*\) FROM rooms r`).
        WithArgs(uint64(1), uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
    filialMock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations res`).
        WithArgs(uint64(1), uint64(2), start, end).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
    filialMock.ExpectRollback()

    tx, err := cluster.Get(store.Filial1).Begin()
    require.NoError(t, err)
    defer tx.Rollback()

    total, reserved, err := repo.CapacityTx(context.Background(), tx, 1, 2, start, end)
    require.ErrorIs(t, err, ErrNoCapacity)
    // The counts survive the sentinel so the caller can report them.
    assert.Equal(t, 2, total)
    assert.Equal(t, 2, reserved)
}

func TestCreateTxAssignsID(t *testing.T) {
    cluster, _, filialMock := clusterWith(t)
    repo := NewReservationRepo(cluster)

    start := mustDate(t, "2026-09-01")
    end := mustDate(t, "2026-09-03")

    filialMock.ExpectBegin()
    filialMock.ExpectExec(`INSERT INTO reservations`).
        WithArgs(uint64(1), 2400.0, uint64(5), start, end).
        WillReturnResult(sqlmock.NewResult(42, 1))
    filialMock.ExpectCommit()

    ctx := context.Background()
    tx, err := cluster.Get(store.Filial1).BeginTx(ctx, nil)
    require.NoError(t, err)

    rec := &ReservationRecord{HotelID: 1, StartDate: start, EndDate: end, TotalPrice: 2400.0, PayerID: 5}
    require.NoError(t, repo.CreateTx(ctx, tx, rec))
    assert.Equal(t, uint64(42), rec.ID)

    require.NoError(t, tx.Commit())
    assert.NoError(t, filialMock.ExpectationsWereMet())
}

func TestLinkGuestTxIsIdempotent(t *testing.T) {
    cluster, _, filialMock := clusterWith(t)
    repo := NewReservationRepo(cluster)

    filialMock.ExpectBegin()
    filialMock.ExpectExec(`INSERT IGNORE INTO room_reservation_guests`).
        WithArgs(uint64(10), uint64(5)).
        WillReturnResult(sqlmock.NewResult(1, 1))
    // Second link of the same pair affects zero rows instead of failing.
    filialMock.ExpectExec(`INSERT IGNORE INTO room_reservation_guests`).
        WithArgs(uint64(10), uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    filialMock.ExpectCommit()

    ctx := context.Background()
    tx, err := cluster.Get(store.Filial1).BeginTx(ctx, nil)
    require.NoError(t, err)

    require.NoError(t, repo.LinkGuestTx(ctx, tx, 10, 5))
    require.NoError(t, repo.LinkGuestTx(ctx, tx, 10, 5))

    require.NoError(t, tx.Commit())
    assert.NoError(t, filialMock.ExpectationsWereMet())
}

func TestGetForSettlementTx(t *testing.T) {
    cluster, _, filialMock := clusterWith(t)
    repo := NewReservationRepo(cluster)

    cols := []string{"id", "payer_id", "payments_status", "loyalty_card_id", "bonus_points"}

    filialMock.ExpectBegin()
    filialMock.ExpectQuery(`SELECT res.id, res.payer_id, res.payments_status`).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows(cols).AddRow(7, 5, "unpaid", 2, 500))

    ctx := context.Background()
    tx, err := cluster.Get(store.Filial1).BeginTx(ctx, nil)
    require.NoError(t, err)

    view, err := repo.GetForSettlementTx(ctx, tx, 7)
    require.NoError(t, err)
    assert.Equal(t, uint64(5), view.PayerID)
    require.NotNil(t, view.LoyaltyCardID)
    assert.Equal(t, uint64(2), *view.LoyaltyCardID)
    assert.Equal(t, 500, view.BonusPoints)
    _ = tx.Rollback()
}

func TestGetForSettlementTxAlreadyPaid(t *testing.T) {
    cluster, _, filialMock := clusterWith(t)
    repo := NewReservationRepo(cluster)

    cols := []string{"id", "payer_id", "payments_status", "loyalty_card_id", "bonus_points"}

    filialMock.ExpectBegin()
    filialMock.ExpectQuery(`SELECT res.id, res.payer_id, res.payments_status`).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows(cols).AddRow(7, 5, "paid", nil, 0))

    ctx := context.Background()
    tx, err := cluster.Get(store.Filial1).BeginTx(ctx, nil)
    require.NoError(t, err)

    _, err = repo.GetForSettlementTx(ctx, tx, 7)
    assert.ErrorIs(t, err, ErrAlreadyPaid)
    _ = tx.Rollback()
}

func TestGetForSettlementTxNotFound(t *testing.T) {
    cluster, _, filialMock := clusterWith(t)
    repo := NewReservationRepo(cluster)

    filialMock.ExpectBegin()
    filialMock.ExpectQuery(`SELECT res.id, res.payer_id, res.payments_status`).
        WithArgs(uint64(404)).
        WillReturnError(sql.ErrNoRows)

    ctx := context.Background()
    tx, err := cluster.Get(store.Filial1).BeginTx(ctx, nil)
    require.NoError(t, err)

    _, err = repo.GetForSettlementTx(ctx, tx, 404)
    assert.ErrorIs(t, err, ErrNotFound)
    _ = tx.Rollback()
}

func TestFindRoomConflictTx(t *testing.T) {
    cluster, _, filialMock := clusterWith(t)
    repo := NewReservationRepo(cluster)

    start := mustDate(t, "2026-09-01")
    end := mustDate(t, "2026-09-03")

    filialMock.ExpectBegin()
    filialMock.ExpectQuery(`SELECT res.id FROM reservations res`).
        WithArgs(uint64(30), uint64(7), start, end).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
    // A free room yields no rows and id zero.
    filialMock.ExpectQuery(`SELECT res.id FROM reservations res`).
        WithArgs(uint64(31), uint64(7), start, end).
        WillReturnError(sql.ErrNoRows)

    ctx := context.Background()
    tx, err := cluster.Get(store.Filial1).BeginTx(ctx, nil)
    require.NoError(t, err)

    blocking, err := repo.FindRoomConflictTx(ctx, tx, 30, 7, start, end)
    require.NoError(t, err)
    assert.Equal(t, uint64(12), blocking)

    blocking, err = repo.FindRoomConflictTx(ctx, tx, 31, 7, start, end)
    require.NoError(t, err)
    assert.Equal(t, uint64(0), blocking)
    _ = tx.Rollback()
}

func TestCityForReservation(t *testing.T) {
    cluster, centralMock, _ := clusterWith(t)
    repo := NewReservationRepo(cluster)

    centralMock.ExpectQuery(`SELECT c.city_name FROM reservations res`).
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"city_name"}).AddRow("Moscow"))

    city, err := repo.CityForReservation(context.Background(), 7)
    require.NoError(t, err)
    assert.Equal(t, "Moscow", city)

    centralMock.ExpectQuery(`SELECT c.city_name FROM reservations res`).
        WithArgs(uint64(404)).
        WillReturnError(sql.ErrNoRows)
    _, err = repo.CityForReservation(context.Background(), 404)
    assert.ErrorIs(t, err, ErrNotFound)
}
