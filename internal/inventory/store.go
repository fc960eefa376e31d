package inventory

import (
	"context"

	"github.com/nebeng/nebeng-api/internal/model"
)

// RideFilter narrows ListRides.  MassID limits results to rides
// serving one mass when non-empty; ActiveOnly excludes inactive
// rides, which is what every public listing wants.
type RideFilter struct {
	MassID     string
	ActiveOnly bool
}

// Tx is the transactional view of the store the engine composes its
// reserve and release operations from.  Every method participates in
// the enclosing WithTx transaction; nothing is visible to other
// transactions until WithTx commits.
type Tx interface {
	// GetRideForUpdate fetches a ride with exclusive access: no
	// concurrent transaction may observe or mutate the same ride's
	// seat counter until this transaction ends.  The exclusivity is
	// scoped to the single ride; transactions on other rides proceed
	// in parallel.  Returns ErrRideNotFound when the ride is absent.
	GetRideForUpdate(ctx context.Context, rideID string) (*model.Ride, error)

	// SetRideSeats unconditionally writes the new seat counter.  Only
	// ever called after GetRideForUpdate on the same ride within the
	// same transaction.
	SetRideSeats(ctx context.Context, rideID string, seatsAvailable int) error

	// InsertBooking persists a new booking with a fresh id and
	// creation timestamp and returns it.
	InsertBooking(ctx context.Context, rideID, passengerID string, seatsRequested int) (*model.Booking, error)

	// GetBooking fetches a booking.  Returns ErrBookingNotFound when
	// the booking is absent.
	GetBooking(ctx context.Context, bookingID string) (*model.Booking, error)

	// DeleteBooking removes a booking, reporting whether a row was
	// deleted.
	DeleteBooking(ctx context.Context, bookingID string) (bool, error)
}

// Store is the seat-inventory persistence contract.  WithTx runs fn
// inside a single atomic transaction: either every mutation fn makes
// through its Tx commits, or none do.  The read methods are snapshot
// reads outside any transaction; they never take row locks and may
// trail a concurrent commit.
//
// Two interchangeable implementations exist: the MySQL-backed store
// in internal/repository for production and MemoryStore below for
// tests and development.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	GetRide(ctx context.Context, rideID string) (*model.Ride, error)
	GetBooking(ctx context.Context, bookingID string) (*model.Booking, error)
	ListRides(ctx context.Context, f RideFilter) ([]model.Ride, error)
	ListBookingsByPassenger(ctx context.Context, passengerID string) ([]model.Booking, error)
	ListBookingsByRide(ctx context.Context, rideID string) ([]model.Booking, error)
}
