// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios and map
// them onto HTTP statuses.  For example, ErrNoCapacity signals that a
// category has no free rooms left for the requested dates, while
// ErrAlreadyPaid rejects a second settlement of the same reservation.
package repository

import "errors"

// ErrNotFound is returned when a referenced entity (hotel, reservation,
// category, guest) does not exist in the expected store.  Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrNoCapacity is returned by the booking flow when the category-level
// capacity check finds no free rooms for the requested date range.
// Handlers should translate this into an HTTP 409 response.
var ErrNoCapacity = errors.New("no capacity")

// ErrAlreadyPaid is returned when a payment is attempted against a
// reservation whose payments_status is already "paid".  The settlement
// must not be recorded twice.
var ErrAlreadyPaid = errors.New("already paid")
