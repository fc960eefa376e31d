package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/nebeng/nebeng-api/internal/inventory"
	"github.com/nebeng/nebeng-api/internal/model"
)

// RideRepo provides persistence for rides.  Plain reads go through
// the repository's own DB handle; the *Tx methods participate in a
// caller-managed transaction and exist for the seat-inventory store,
// which is the only component allowed to mutate seats_available.
type RideRepo struct {
	db *sql.DB
}

// NewRideRepo returns a RideRepo bound to the given database.
func NewRideRepo(db *sql.DB) *RideRepo { return &RideRepo{db: db} }

const rideColumns = `id, driver_id, mass_id, pickup_point, seats_total, seats_available, notes, status, created_at`

// scanRide reads one ride row.  pickup_point and notes are nullable.
func scanRide(row interface{ Scan(...any) error }) (*model.Ride, error) {
	var (
		r      model.Ride
		pickup sql.NullString
		notes  sql.NullString
	)
	err := row.Scan(&r.ID, &r.DriverID, &r.MassID, &pickup, &r.SeatsTotal,
		&r.SeatsAvailable, &notes, &r.Status, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if pickup.Valid {
		p := pickup.String
		r.PickupPoint = &p
	}
	if notes.Valid {
		n := notes.String
		r.Notes = &n
	}
	return &r, nil
}

// Create inserts a new ride.  The id and creation timestamp are
// generated here and written back onto the given ride; the available
// seat counter starts equal to the total and the status defaults to
// active.  Foreign keys on driver_id and mass_id are enforced by the
// schema.
func (r *RideRepo) Create(ctx context.Context, ride *model.Ride) error {
	ride.ID = uuid.NewString()
	ride.SeatsAvailable = ride.SeatsTotal
	if ride.Status == "" {
		ride.Status = model.RideStatusActive
	}
	ride.CreatedAt = time.Now().UTC()
	const q = `INSERT INTO rides (` + rideColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, ride.ID, ride.DriverID, ride.MassID,
		ride.PickupPoint, ride.SeatsTotal, ride.SeatsAvailable, ride.Notes,
		ride.Status, ride.CreatedAt)
	return err
}

// GetByID fetches a ride without any lock.  Returns
// inventory.ErrRideNotFound when the ride does not exist.
func (r *RideRepo) GetByID(ctx context.Context, id string) (*model.Ride, error) {
	const q = `SELECT ` + rideColumns + ` FROM rides WHERE id = ?`
	ride, err := scanRide(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, inventory.ErrRideNotFound
	}
	return ride, err
}

// GetForUpdateTx fetches a ride with SELECT ... FOR UPDATE inside the
// given transaction.  The row lock blocks every other transaction's
// GetForUpdateTx on the same ride until this transaction commits or
// rolls back; rows of other rides stay unlocked.  Returns
// inventory.ErrRideNotFound when the ride does not exist.
func (r *RideRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id string) (*model.Ride, error) {
	const q = `SELECT ` + rideColumns + ` FROM rides WHERE id = ? FOR UPDATE`
	ride, err := scanRide(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, inventory.ErrRideNotFound
	}
	return ride, err
}

// SetSeatsTx unconditionally writes a new seats_available value
// inside the given transaction.  Callers must hold the ride's row
// lock via GetForUpdateTx.
func (r *RideRepo) SetSeatsTx(ctx context.Context, tx *sql.Tx, id string, seatsAvailable int) error {
	const q = `UPDATE rides SET seats_available = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, seatsAvailable, id)
	return err
}

// List returns rides matching the filter ordered by creation time
// descending (newest first).  The read takes no locks and may trail
// a concurrently committing reservation.
func (r *RideRepo) List(ctx context.Context, f inventory.RideFilter) ([]model.Ride, error) {
	q := `SELECT ` + rideColumns + ` FROM rides`
	args := make([]any, 0, 2)
	where := ""
	if f.ActiveOnly {
		where = ` WHERE status = ?`
		args = append(args, model.RideStatusActive)
	}
	if f.MassID != "" {
		if where == "" {
			where = ` WHERE mass_id = ?`
		} else {
			where += ` AND mass_id = ?`
		}
		args = append(args, f.MassID)
	}
	q += where + ` ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rides := make([]model.Ride, 0)
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, *ride)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rides, nil
}

// UpdateStatus sets a ride's status, reporting whether a ride with
// the given id exists.  Deactivation removes the ride from public
// listings and blocks new reservations; existing bookings keep their
// seats until released.
func (r *RideRepo) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	const q = `UPDATE rides SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	// RowsAffected is zero both for a missing ride and for a no-op
	// status write, so check existence explicitly.
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM rides WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
