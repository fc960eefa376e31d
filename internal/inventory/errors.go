// Package inventory implements the seat-inventory reservation engine.
// This file defines the sentinel errors the engine reports.  These
// values allow higher layers such as handlers to distinguish between
// failure scenarios: a missing ride, a ride that can no longer be
// booked, a request for more seats than remain, a cancellation
// attempted by a non-owner, and a transient transaction failure.
package inventory

import "errors"

// ErrRideNotFound is returned by queries when no ride with the given
// id exists.  Handlers should translate this into an HTTP 404.
var ErrRideNotFound = errors.New("ride not found")

// ErrBookingNotFound is returned when no booking with the given id
// exists.  Releasing an already-released booking reports this error
// rather than succeeding silently.
var ErrBookingNotFound = errors.New("booking not found")

// ErrRideUnavailable is returned by Reserve when the ride is absent
// or inactive at reservation time.  Handlers should translate this
// into an HTTP 404 to match the public listing behaviour.
var ErrRideUnavailable = errors.New("ride not found or inactive")

// ErrInsufficientSeats is returned by Reserve when the requested seat
// count exceeds the seats still available.  No partial reservation is
// ever made.
var ErrInsufficientSeats = errors.New("not enough seats available")

// ErrInvalidSeatCount is returned by Reserve when the requested seat
// count is zero or negative.
var ErrInvalidSeatCount = errors.New("seats requested must be positive")

// ErrForbidden is returned by Release when the requesting passenger
// does not own the booking.  The seat counter is left unchanged.
var ErrForbidden = errors.New("forbidden")

// ErrTxConflict is returned when the underlying store transaction
// could not commit (deadlock, lock wait timeout).  The failure is
// transient: the whole call is safe to retry from scratch.
var ErrTxConflict = errors.New("transaction conflict")
