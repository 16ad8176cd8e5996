package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/store"
)

// ReservationRepo provides CRUD operations for reservations, their
// detail rows and the room/guest join table.  Reservations are
// operational data owned by the city-primary store of their hotel;
// reference joins (hotel, city names) are served from central.  All date
// ranges are half-open [start, end) civil dates; two ranges overlap when
// NOT (a.end <= b.start OR a.start >= b.end).
type ReservationRepo struct {
    stores *store.Cluster
}

// NewReservationRepo returns a ReservationRepo over the store cluster.
func NewReservationRepo(c *store.Cluster) *ReservationRepo { return &ReservationRepo{stores: c} }

// ReservationRecord mirrors the reservations table for inserts.  It is
// used internally by the repository; business logic should use
// model.Reservation.
type ReservationRecord struct {
    ID         uint64
    HotelID    uint64
    StartDate  time.Time
    EndDate    time.Time
    TotalPrice float64
    PayerID    uint64
}

// DetailRecord mirrors the details_reservations table for inserts.
type DetailRecord struct {
    ID                uint64
    ReservationID     uint64
    GuestID           uint64
    RequestedCategory uint64
    TotalGuestNumber  int
}

// overlapCond is the shared active-overlap predicate: only pending and
// confirmed reservations block inventory, and the date test keeps
// back-to-back stays (checkout day == next check-in) compatible.
const overlapCond = `res.status IN ('confirmed', 'pending')
                     AND NOT (res.end_date <= ? OR res.start_date >= ?)`

// CountOverlapping counts active reservations of one category in a hotel
// that overlap the queried range.  This is the demand side of the
// count-based availability model; it is a plain read, suitable for
// quoting.
func (r *ReservationRepo) CountOverlapping(ctx context.Context, storeName string, hotelID, categoryID uint64, start, end time.Time) (int, error) {
    const q = `SELECT COUNT(*) FROM reservations res
               JOIN details_reservations dr ON dr.reservation_id = res.id
               WHERE res.hotel_id = ?
               AND dr.requested_room_category = ?
               AND ` + overlapCond
    var n int
    err := r.stores.Get(storeName).QueryRowContext(ctx, q, hotelID, categoryID, start, end).Scan(&n)
    return n, err
}

// CapacityTx re-runs the capacity check inside the booking transaction:
// physical rooms of the category versus active overlapping reservations,
// both under FOR UPDATE so the check and the insert form one atomic unit
// against the target store.  Two transactions racing for the last free
// room cannot both proceed past this point.  Returns the counts together
// with ErrNoCapacity when nothing is left; the counts stay valid in the
// error case so callers can report them.
func (r *ReservationRepo) CapacityTx(ctx context.Context, tx *sql.Tx, hotelID, categoryID uint64, start, end time.Time) (total, reserved int, err error) {
    const roomsQ = `SELECT COUNT(*) FROM rooms r
                    WHERE r.hotel_id = ? AND r.categories_room_id = ?
                    FOR UPDATE`
    if err = tx.QueryRowContext(ctx, roomsQ, hotelID, categoryID).Scan(&total); err != nil {
        return 0, 0, err
    }
    const reservedQ = `SELECT COUNT(*) FROM reservations res
                       JOIN details_reservations dr ON dr.reservation_id = res.id
                       WHERE res.hotel_id = ?
                       AND dr.requested_room_category = ?
                       AND ` + overlapCond + `
                       FOR UPDATE`
    if err = tx.QueryRowContext(ctx, reservedQ, hotelID, categoryID, start, end).Scan(&reserved); err != nil {
        return 0, 0, err
    }
    if total-reserved <= 0 {
        return total, reserved, ErrNoCapacity
    }
    return total, reserved, nil
}

// ReservedCountsByHotel returns, per category, the number of active
// reservations overlapping the range, for one hotel.  Categories with no
// overlapping reservations are absent from the map (callers default to
// zero).
func (r *ReservationRepo) ReservedCountsByHotel(ctx context.Context, storeName string, hotelID uint64, start, end time.Time) (map[uint64]int, error) {
    const q = `SELECT dr.requested_room_category, COUNT(*) AS reserved_rooms
               FROM reservations res
               JOIN details_reservations dr ON dr.reservation_id = res.id
               WHERE res.hotel_id = ?
               AND ` + overlapCond + `
               GROUP BY dr.requested_room_category`
    rows, err := r.stores.Get(storeName).QueryContext(ctx, q, hotelID, start, end)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    counts := make(map[uint64]int)
    for rows.Next() {
        var catID uint64
        var n int
        if err := rows.Scan(&catID, &n); err != nil {
            return nil, err
        }
        counts[catID] = n
    }
    return counts, rows.Err()
}

// CreateTx inserts a new reservation in pending/unpaid state within the
// scope of an existing transaction and populates the generated ID on the
// record.  The caller must commit or roll back the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *ReservationRecord) error {
    const q = `INSERT INTO reservations
               (hotel_id, create_date, status, total_price, payments_status, payer_id, start_date, end_date)
               VALUES (?, UTC_TIMESTAMP(), 'pending', ?, 'unpaid', ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, rec.HotelID, rec.TotalPrice, rec.PayerID, rec.StartDate, rec.EndDate)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    return nil
}

// CreateDetailTx inserts the one-to-one detail row of a reservation
// within a transaction and populates the generated ID.  The room_id
// column stays NULL until check-in assigns a concrete room.
func (r *ReservationRepo) CreateDetailTx(ctx context.Context, tx *sql.Tx, det *DetailRecord) error {
    const q = `INSERT INTO details_reservations
               (reservation_id, guest_id, requested_room_category, total_guest_number)
               VALUES (?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, det.ReservationID, det.GuestID, det.RequestedCategory, det.TotalGuestNumber)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    det.ID = uint64(id)
    return nil
}

// LinkGuestTx inserts a guest into the room/guest join table within a
// transaction.  INSERT IGNORE makes re-registering the same guest a
// no-op rather than an error; the (detail, guest) pair is unique.
func (r *ReservationRepo) LinkGuestTx(ctx context.Context, tx *sql.Tx, detailID, guestID uint64) error {
    const q = `INSERT IGNORE INTO room_reservation_guests (room_reservation_id, guest_id)
               VALUES (?, ?)`
    _, err := tx.ExecContext(ctx, q, detailID, guestID)
    return err
}

// Header carries the fields of a reservation needed to route follow-up
// operations: which hotel, who pays, and the stay interval.
type Header struct {
    ID        uint64
    HotelID   uint64
    PayerID   uint64
    StartDate time.Time
    EndDate   time.Time
}

// HeaderFromCentral reads a reservation's routing header from the
// central store.  Returns ErrNotFound when the reservation is unknown
// there.
func (r *ReservationRepo) HeaderFromCentral(ctx context.Context, reservationID uint64) (*Header, error) {
    const q = `SELECT res.id, res.hotel_id, res.payer_id, res.start_date, res.end_date
               FROM reservations res
               WHERE res.id = ?`
    var h Header
    err := r.stores.Central().QueryRowContext(ctx, q, reservationID).Scan(
        &h.ID, &h.HotelID, &h.PayerID, &h.StartDate, &h.EndDate,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &h, nil
}

// CityForReservation resolves the city of a reservation's hotel through
// the central reference joins.  Returns ErrNotFound when the reservation
// does not resolve to any city.
func (r *ReservationRepo) CityForReservation(ctx context.Context, reservationID uint64) (string, error) {
    const q = `SELECT c.city_name
               FROM reservations res
               JOIN hotels h ON res.hotel_id = h.id
               JOIN cities c ON h.city_id = c.id
               WHERE res.id = ?`
    var city string
    err := r.stores.Central().QueryRowContext(ctx, q, reservationID).Scan(&city)
    if errors.Is(err, sql.ErrNoRows) {
        return "", ErrNotFound
    }
    if err != nil {
        return "", err
    }
    return city, nil
}

// FindRoomConflictTx looks for another active reservation whose detail
// already holds the given room for an overlapping range.  It returns the
// blocking reservation id, or 0 when the room is free.  This is the
// room-level guard that runs at check-in, finer-grained than the
// category-level capacity check at booking time.
func (r *ReservationRepo) FindRoomConflictTx(ctx context.Context, tx *sql.Tx, roomID, excludeReservationID uint64, start, end time.Time) (uint64, error) {
    const q = `SELECT res.id
               FROM reservations res
               JOIN details_reservations dr ON dr.reservation_id = res.id
               WHERE dr.room_id = ?
               AND res.id != ?
               AND ` + overlapCond + `
               LIMIT 1
               FOR UPDATE`
    var id uint64
    err := tx.QueryRowContext(ctx, q, roomID, excludeReservationID, start, end).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, nil
    }
    if err != nil {
        return 0, err
    }
    return id, nil
}

// AssignRoomTx writes the physical room onto the reservation's detail
// row within a transaction.
func (r *ReservationRepo) AssignRoomTx(ctx context.Context, tx *sql.Tx, reservationID, roomID uint64) error {
    const q = `UPDATE details_reservations SET room_id = ? WHERE reservation_id = ?`
    _, err := tx.ExecContext(ctx, q, roomID, reservationID)
    return err
}

// DetailIDTx returns the detail row id of a reservation within a
// transaction, or ErrNotFound when the reservation has no detail.
func (r *ReservationRepo) DetailIDTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (uint64, error) {
    const q = `SELECT id FROM details_reservations WHERE reservation_id = ?`
    var id uint64
    err := tx.QueryRowContext(ctx, q, reservationID).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, ErrNotFound
    }
    return id, err
}

// ConfirmTx transitions a reservation to confirmed within a
// transaction.  Both the check-in path and the payment path call this
// independently; no ordering between them is enforced.
func (r *ReservationRepo) ConfirmTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
    const q = `UPDATE reservations SET status = 'confirmed' WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, reservationID)
    return err
}

// SettlementView is the snapshot a payment operates on: the reservation's
// payment state plus the payer's loyalty data, read together under lock.
type SettlementView struct {
    ReservationID  uint64
    PayerID        uint64
    PaymentsStatus string
    LoyaltyCardID  *uint64
    BonusPoints    int
}

// GetForSettlementTx reads a reservation joined with its payer's loyalty
// card and bonus points, locking both rows for the duration of the
// transaction.  Returns ErrNotFound when the reservation is absent from
// this store and ErrAlreadyPaid when it has already settled.
func (r *ReservationRepo) GetForSettlementTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (*SettlementView, error) {
    const q = `SELECT res.id, res.payer_id, res.payments_status, g.loyalty_card_id, g.bonus_points
               FROM reservations res
               JOIN guests g ON res.payer_id = g.id
               WHERE res.id = ?
               FOR UPDATE`
    var v SettlementView
    var cardID sql.NullInt64
    err := tx.QueryRowContext(ctx, q, reservationID).Scan(
        &v.ReservationID, &v.PayerID, &v.PaymentsStatus, &cardID, &v.BonusPoints,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if cardID.Valid {
        id := uint64(cardID.Int64)
        v.LoyaltyCardID = &id
    }
    if v.PaymentsStatus == model.PaymentsPaid {
        return &v, ErrAlreadyPaid
    }
    return &v, nil
}

// MarkPaidTx settles a reservation within a transaction: payments_status
// becomes paid, status becomes confirmed, and total_price is overwritten
// with the final (possibly discounted) amount.
func (r *ReservationRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, reservationID uint64, finalAmount float64) error {
    const q = `UPDATE reservations
               SET payments_status = 'paid', status = 'confirmed', total_price = ?
               WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, finalAmount, reservationID)
    return err
}

// Summary is a reservation row denormalised for listing surfaces:
// payer name/contact, hotel name, category and registration progress.
type Summary struct {
    model.Reservation
    FirstName        string  `json:"first_name"`
    LastName         string  `json:"last_name"`
    PhoneNumber      string  `json:"phone_number"`
    Email            string  `json:"email,omitempty"`
    HotelName        string  `json:"hotel_name"`
    CategoryID       *uint64 `json:"requested_room_category,omitempty"`
    CategoryName     *string `json:"category_name,omitempty"`
    TotalGuestNumber *int    `json:"total_guest_number,omitempty"`
    RoomID           *uint64 `json:"room_id,omitempty"`
    RegisteredGuests int     `json:"registered_guests_count"`
}

// ListByHotel returns a hotel's reservations with the given status,
// newest first, from the named store.
func (r *ReservationRepo) ListByHotel(ctx context.Context, storeName string, hotelID uint64, status string) ([]Summary, error) {
    const q = `SELECT res.id, res.hotel_id, res.create_date, res.start_date, res.end_date,
                      res.status, res.total_price, res.payments_status, res.payer_id,
                      g.first_name, g.last_name, g.phone_number,
                      h.name AS hotel_name,
                      COUNT(rrg.guest_id) AS registered_guests
               FROM reservations res
               JOIN guests g ON res.payer_id = g.id
               JOIN hotels h ON res.hotel_id = h.id
               LEFT JOIN details_reservations dr ON dr.reservation_id = res.id
               LEFT JOIN room_reservation_guests rrg ON rrg.room_reservation_id = dr.id
               WHERE res.hotel_id = ? AND res.status = ?
               GROUP BY res.id, res.hotel_id, res.create_date, res.start_date, res.end_date,
                        res.status, res.total_price, res.payments_status, res.payer_id,
                        g.first_name, g.last_name, g.phone_number, h.name
               ORDER BY res.create_date DESC`
    rows, err := r.stores.Get(storeName).QueryContext(ctx, q, hotelID, status)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanSummaries(rows, false)
}

// CityBoard returns every active reservation in the named store with the
// denormalised columns the reception desk works from, newest first.
func (r *ReservationRepo) CityBoard(ctx context.Context, storeName string) ([]Summary, error) {
    const q = `SELECT res.id, res.hotel_id, res.create_date, res.start_date, res.end_date,
                      res.status, res.total_price, res.payments_status, res.payer_id,
                      g.first_name, g.last_name, g.phone_number, g.email,
                      h.name AS hotel_name,
                      dr.requested_room_category, cr.category_name,
                      dr.total_guest_number, dr.room_id,
                      COUNT(rrg.guest_id) AS registered_guests
               FROM reservations res
               JOIN guests g ON res.payer_id = g.id
               JOIN hotels h ON res.hotel_id = h.id
               LEFT JOIN details_reservations dr ON dr.reservation_id = res.id
               LEFT JOIN categories_room cr ON dr.requested_room_category = cr.id
               LEFT JOIN room_reservation_guests rrg ON rrg.room_reservation_id = dr.id
               WHERE res.status IN ('pending', 'confirmed')
               GROUP BY res.id, res.hotel_id, res.create_date, res.start_date, res.end_date,
                        res.status, res.total_price, res.payments_status, res.payer_id,
                        g.first_name, g.last_name, g.phone_number, g.email,
                        h.name, dr.requested_room_category, cr.category_name,
                        dr.total_guest_number, dr.room_id
               ORDER BY res.create_date DESC`
    rows, err := r.stores.Get(storeName).QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanSummaries(rows, true)
}

// scanSummaries scans listing rows; extended toggles the reception-board
// columns (email, category, room assignment).
func scanSummaries(rows *sql.Rows, extended bool) ([]Summary, error) {
    out := make([]Summary, 0)
    for rows.Next() {
        var s Summary
        var email sql.NullString
        var catID, roomID sql.NullInt64
        var catName sql.NullString
        var guests sql.NullInt64
        var err error
        if extended {
            err = rows.Scan(&s.Reservation.ID, &s.Reservation.HotelID, &s.CreateDate,
                &s.StartDate, &s.EndDate, &s.Status, &s.TotalPrice, &s.PaymentsStatus, &s.PayerID,
                &s.FirstName, &s.LastName, &s.PhoneNumber, &email,
                &s.HotelName, &catID, &catName, &guests, &roomID, &s.RegisteredGuests)
        } else {
            err = rows.Scan(&s.Reservation.ID, &s.Reservation.HotelID, &s.CreateDate,
                &s.StartDate, &s.EndDate, &s.Status, &s.TotalPrice, &s.PaymentsStatus, &s.PayerID,
                &s.FirstName, &s.LastName, &s.PhoneNumber,
                &s.HotelName, &s.RegisteredGuests)
        }
        if err != nil {
            return nil, err
        }
        if email.Valid {
            s.Email = email.String
        }
        if catID.Valid {
            v := uint64(catID.Int64)
            s.CategoryID = &v
        }
        if catName.Valid {
            v := catName.String
            s.CategoryName = &v
        }
        if guests.Valid {
            v := int(guests.Int64)
            s.TotalGuestNumber = &v
        }
        if roomID.Valid {
            v := uint64(roomID.Int64)
            s.RoomID = &v
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// FullDetail is the complete reservation view: reservation, payer with
// loyalty data, hotel/city names, requested category and the assigned
// room when check-in already happened.
type FullDetail struct {
    model.Reservation
    FirstName        string  `json:"first_name"`
    LastName         string  `json:"last_name"`
    PhoneNumber      string  `json:"phone_number"`
    Email            string  `json:"email"`
    Document         string  `json:"document,omitempty"`
    LoyaltyCardID    *uint64 `json:"loyalty_card_id,omitempty"`
    BonusPoints      int     `json:"bonus_points"`
    HotelName        string  `json:"hotel_name"`
    CityName         string  `json:"city_name"`
    CategoryID       *uint64 `json:"requested_room_category,omitempty"`
    CategoryName     *string `json:"category_name,omitempty"`
    TotalGuestNumber *int    `json:"total_guest_number,omitempty"`
    RoomID           *uint64 `json:"room_id,omitempty"`
    RoomNumber       *string `json:"room_number,omitempty"`
    Floor            *int    `json:"floor,omitempty"`
    View             *string `json:"view,omitempty"`
    Nights           int     `json:"nights"`
}

// GetFullDetail returns the complete reservation view from the central
// store, or ErrNotFound.
func (r *ReservationRepo) GetFullDetail(ctx context.Context, reservationID uint64) (*FullDetail, error) {
    const q = `SELECT res.id, res.hotel_id, res.create_date, res.start_date, res.end_date,
                      res.status, res.total_price, res.payments_status, res.payer_id,
                      g.first_name, g.last_name, g.phone_number, g.email,
                      COALESCE(g.document, ''), g.loyalty_card_id, g.bonus_points,
                      h.name AS hotel_name, c.city_name,
                      dr.requested_room_category, cr.category_name,
                      dr.total_guest_number, dr.room_id,
                      rm.room_number, rm.floor, rm.view,
                      DATEDIFF(res.end_date, res.start_date) AS nights
               FROM reservations res
               JOIN guests g ON res.payer_id = g.id
               JOIN hotels h ON res.hotel_id = h.id
               JOIN cities c ON h.city_id = c.id
               LEFT JOIN details_reservations dr ON dr.reservation_id = res.id
               LEFT JOIN categories_room cr ON dr.requested_room_category = cr.id
               LEFT JOIN rooms rm ON dr.room_id = rm.id
               WHERE res.id = ?`
    var d FullDetail
    var cardID, catID, guests, roomID, floor sql.NullInt64
    var catName, roomNumber, view sql.NullString
    err := r.stores.Central().QueryRowContext(ctx, q, reservationID).Scan(
        &d.Reservation.ID, &d.Reservation.HotelID, &d.CreateDate, &d.StartDate, &d.EndDate,
        &d.Status, &d.TotalPrice, &d.PaymentsStatus, &d.PayerID,
        &d.FirstName, &d.LastName, &d.PhoneNumber, &d.Email,
        &d.Document, &cardID, &d.BonusPoints,
        &d.HotelName, &d.CityName,
        &catID, &catName, &guests, &roomID,
        &roomNumber, &floor, &view,
        &d.Nights,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if cardID.Valid {
        v := uint64(cardID.Int64)
        d.LoyaltyCardID = &v
    }
    if catID.Valid {
        v := uint64(catID.Int64)
        d.CategoryID = &v
    }
    if catName.Valid {
        v := catName.String
        d.CategoryName = &v
    }
    if guests.Valid {
        v := int(guests.Int64)
        d.TotalGuestNumber = &v
    }
    if roomID.Valid {
        v := uint64(roomID.Int64)
        d.RoomID = &v
    }
    if roomNumber.Valid {
        v := roomNumber.String
        d.RoomNumber = &v
    }
    if floor.Valid {
        v := int(floor.Int64)
        d.Floor = &v
    }
    if view.Valid {
        v := view.String
        d.View = &v
    }
    return &d, nil
}

// CitiesWithReservationCounts lists every city with the number of active
// reservations across its hotels, from the central store.
func (r *ReservationRepo) CitiesWithReservationCounts(ctx context.Context) ([]CityCount, error) {
    const q = `SELECT c.city_name, COUNT(res.id) AS reservations_count
               FROM cities c
               LEFT JOIN hotels h ON c.id = h.city_id
               LEFT JOIN reservations res ON res.hotel_id = h.id AND res.status IN ('pending', 'confirmed')
               GROUP BY c.id, c.city_name
               ORDER BY c.city_name`
    rows, err := r.stores.Central().QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]CityCount, 0)
    for rows.Next() {
        var cc CityCount
        if err := rows.Scan(&cc.CityName, &cc.Count); err != nil {
            return nil, err
        }
        out = append(out, cc)
    }
    return out, rows.Err()
}
