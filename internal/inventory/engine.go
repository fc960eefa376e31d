package inventory

import (
	"context"
	"errors"

	"github.com/nebeng/nebeng-api/internal/model"
)

// Engine is the only path by which a ride's seat counter may change.
// Reserve and Release each run as one atomic store transaction that
// fetches the ride with exclusive access, so committed operations on
// any single ride form a total order and the counter can never go
// negative or exceed the ride's capacity.  The store is injected at
// construction; the engine itself is storage-agnostic.
type Engine struct {
	store Store
}

// NewEngine constructs an Engine bound to the given store.  The store
// must be non-nil.
func NewEngine(store Store) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{store: store}
}

// Reserve books seatsRequested seats on a ride for a passenger.  It
// fails with ErrRideUnavailable when the ride is absent or inactive,
// with ErrInsufficientSeats when fewer seats remain than requested,
// and with ErrInvalidSeatCount for a non-positive request.  On
// success the created booking is returned and the ride's counter has
// been decremented in the same transaction; on any failure nothing
// is persisted.
func (e *Engine) Reserve(ctx context.Context, rideID, passengerID string, seatsRequested int) (*model.Booking, error) {
	if seatsRequested < 1 {
		return nil, ErrInvalidSeatCount
	}
	var booking *model.Booking
	err := e.store.WithTx(ctx, func(tx Tx) error {
		ride, err := tx.GetRideForUpdate(ctx, rideID)
		if err != nil {
			if errors.Is(err, ErrRideNotFound) {
				return ErrRideUnavailable
			}
			return err
		}
		if ride.Status != model.RideStatusActive {
			return ErrRideUnavailable
		}
		if seatsRequested > ride.SeatsAvailable {
			return ErrInsufficientSeats
		}
		b, err := tx.InsertBooking(ctx, rideID, passengerID, seatsRequested)
		if err != nil {
			return err
		}
		if err := tx.SetRideSeats(ctx, rideID, ride.SeatsAvailable-seatsRequested); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Release cancels a booking on behalf of a passenger and returns its
// seats to the ride.  It fails with ErrBookingNotFound when the
// booking is absent (cancellation is safe to retry until it reports
// this) and with ErrForbidden when the booking belongs to a different
// passenger, in which case the seat counter is untouched.  When the
// ride itself no longer exists the booking is still deleted and the
// seats are simply not restored.
func (e *Engine) Release(ctx context.Context, bookingID, passengerID string) error {
	return e.store.WithTx(ctx, func(tx Tx) error {
		booking, err := tx.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.PassengerID != passengerID {
			return ErrForbidden
		}
		deleted, err := tx.DeleteBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrBookingNotFound
		}
		ride, err := tx.GetRideForUpdate(ctx, booking.RideID)
		if err != nil {
			if errors.Is(err, ErrRideNotFound) {
				// Ride vanished; the booking deletion stands and the
				// seats are not restored anywhere.
				return nil
			}
			return err
		}
		return tx.SetRideSeats(ctx, booking.RideID, ride.SeatsAvailable+booking.SeatsRequested)
	})
}

// ListActiveRides returns active rides newest-first, optionally
// limited to one mass.  The read is a snapshot without locks.
func (e *Engine) ListActiveRides(ctx context.Context, massID string) ([]model.Ride, error) {
	return e.store.ListRides(ctx, RideFilter{MassID: massID, ActiveOnly: true})
}

// ListBookingsForPassenger returns a passenger's bookings
// newest-first.
func (e *Engine) ListBookingsForPassenger(ctx context.Context, passengerID string) ([]model.Booking, error) {
	return e.store.ListBookingsByPassenger(ctx, passengerID)
}

// ListBookingsForRide returns the bookings held against one ride
// newest-first.
func (e *Engine) ListBookingsForRide(ctx context.Context, rideID string) ([]model.Booking, error) {
	return e.store.ListBookingsByRide(ctx, rideID)
}

// GetRide fetches a ride by id.  Returns ErrRideNotFound when absent.
func (e *Engine) GetRide(ctx context.Context, rideID string) (*model.Ride, error) {
	return e.store.GetRide(ctx, rideID)
}

// GetBooking fetches a booking by id.  Returns ErrBookingNotFound
// when absent.
func (e *Engine) GetBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	return e.store.GetBooking(ctx, bookingID)
}
