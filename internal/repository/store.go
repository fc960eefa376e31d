package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/nebeng/nebeng-api/internal/inventory"
	"github.com/nebeng/nebeng-api/internal/model"
)

// MySQL server error numbers that indicate a transient locking
// failure.  The enclosing call is safe to retry from scratch.
const (
	mysqlErrLockDeadlock    = 1213
	mysqlErrLockWaitTimeout = 1205
)

// SQLStore adapts the ride and booking repositories to the
// inventory.Store contract.  WithTx provides the single atomic
// transaction the engine's reserve/release sequences run in; row
// locking comes from RideRepo.GetForUpdateTx, so transactions on
// different rides never serialize against each other.
type SQLStore struct {
	db       *sql.DB
	rides    *RideRepo
	bookings *BookingRepo
}

// NewSQLStore builds a SQLStore over the given database handle.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{
		db:       db,
		rides:    NewRideRepo(db),
		bookings: NewBookingRepo(db),
	}
}

// Rides exposes the ride repository for collaborators that create
// rides or flip their status outside the reservation engine.
func (s *SQLStore) Rides() *RideRepo { return s.rides }

// sqlTx is the transactional view handed to the engine.  It routes
// every primitive through the repositories' *Tx methods so all of
// them share one *sql.Tx.
type sqlTx struct {
	tx       *sql.Tx
	rides    *RideRepo
	bookings *BookingRepo
}

func (t *sqlTx) GetRideForUpdate(ctx context.Context, rideID string) (*model.Ride, error) {
	return t.rides.GetForUpdateTx(ctx, t.tx, rideID)
}

func (t *sqlTx) SetRideSeats(ctx context.Context, rideID string, seatsAvailable int) error {
	return t.rides.SetSeatsTx(ctx, t.tx, rideID, seatsAvailable)
}

func (t *sqlTx) InsertBooking(ctx context.Context, rideID, passengerID string, seatsRequested int) (*model.Booking, error) {
	return t.bookings.CreateTx(ctx, t.tx, rideID, passengerID, seatsRequested)
}

func (t *sqlTx) GetBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	return t.bookings.GetTx(ctx, t.tx, bookingID)
}

func (t *sqlTx) DeleteBooking(ctx context.Context, bookingID string) (bool, error) {
	return t.bookings.DeleteTx(ctx, t.tx, bookingID)
}

// WithTx begins a transaction, runs fn over it and commits.  Any
// error from fn or from the commit rolls the whole transaction back,
// leaving no partial effect.  Deadlocks and lock wait timeouts are
// reported as inventory.ErrTxConflict so callers can recognize the
// failure as transient.
func (s *SQLStore) WithTx(ctx context.Context, fn func(tx inventory.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateTxErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&sqlTx{tx: tx, rides: s.rides, bookings: s.bookings}); err != nil {
		return translateTxErr(err)
	}
	if err := tx.Commit(); err != nil {
		return translateTxErr(err)
	}
	committed = true
	return nil
}

// translateTxErr maps MySQL locking failures onto the engine's
// transient-conflict sentinel and passes everything else through.
func translateTxErr(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number == mysqlErrLockDeadlock || myErr.Number == mysqlErrLockWaitTimeout {
			return inventory.ErrTxConflict
		}
	}
	return err
}

func (s *SQLStore) GetRide(ctx context.Context, rideID string) (*model.Ride, error) {
	return s.rides.GetByID(ctx, rideID)
}

func (s *SQLStore) GetBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	return s.bookings.GetByID(ctx, bookingID)
}

func (s *SQLStore) ListRides(ctx context.Context, f inventory.RideFilter) ([]model.Ride, error) {
	return s.rides.List(ctx, f)
}

func (s *SQLStore) ListBookingsByPassenger(ctx context.Context, passengerID string) ([]model.Booking, error) {
	return s.bookings.ListByPassenger(ctx, passengerID)
}

func (s *SQLStore) ListBookingsByRide(ctx context.Context, rideID string) ([]model.Booking, error) {
	return s.bookings.ListByRide(ctx, rideID)
}
