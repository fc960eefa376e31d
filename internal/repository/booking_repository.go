package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/nebeng/nebeng-api/internal/inventory"
	"github.com/nebeng/nebeng-api/internal/model"
)

// BookingRepo provides persistence for bookings.  A booking row is
// the reservation itself: creating one claims seats and deleting it
// is the cancellation.  Both mutating operations are *Tx methods
// because they must share a transaction with the ride seat update.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, ride_id, passenger_id, seats_requested, created_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.RideID, &b.PassengerID, &b.SeatsRequested, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateTx inserts a new booking inside the given transaction and
// returns it with a fresh id and creation timestamp.  The caller
// must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, rideID, passengerID string, seatsRequested int) (*model.Booking, error) {
	b := model.Booking{
		ID:             uuid.NewString(),
		RideID:         rideID,
		PassengerID:    passengerID,
		SeatsRequested: seatsRequested,
		CreatedAt:      time.Now().UTC(),
	}
	const q = `INSERT INTO bookings (` + bookingColumns + `) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, q, b.ID, b.RideID, b.PassengerID, b.SeatsRequested, b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetTx fetches a booking inside the given transaction.  Returns
// inventory.ErrBookingNotFound when the booking does not exist.
func (r *BookingRepo) GetTx(ctx context.Context, tx *sql.Tx, id string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, inventory.ErrBookingNotFound
	}
	return b, err
}

// DeleteTx removes a booking inside the given transaction, reporting
// whether a row was deleted.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	const q = `DELETE FROM bookings WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByID fetches a booking without transactional isolation.
// Returns inventory.ErrBookingNotFound when the booking does not
// exist.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, inventory.ErrBookingNotFound
	}
	return b, err
}

// ListByPassenger returns a passenger's bookings ordered by creation
// time descending (newest first).
func (r *BookingRepo) ListByPassenger(ctx context.Context, passengerID string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE passenger_id = ? ORDER BY created_at DESC, id`
	return r.list(ctx, q, passengerID)
}

// ListByRide returns the bookings held against one ride ordered by
// creation time descending.
func (r *BookingRepo) ListByRide(ctx context.Context, rideID string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE ride_id = ? ORDER BY created_at DESC, id`
	return r.list(ctx, q, rideID)
}

func (r *BookingRepo) list(ctx context.Context, q string, arg any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
