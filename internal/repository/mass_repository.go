package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/nebeng/nebeng-api/internal/model"
)

// MassRepo provides CRUD operations for masses.  Masses are admin
// maintained reference data; rides point at them via rides.mass_id.
// All timestamps are stored in UTC.
type MassRepo struct {
	db *sql.DB
}

// NewMassRepo returns a MassRepo bound to the given database.
func NewMassRepo(db *sql.DB) *MassRepo { return &MassRepo{db: db} }

// Create inserts a new mass.  The id is generated here and written
// back onto the given mass.
func (r *MassRepo) Create(ctx context.Context, m *model.Mass) error {
	m.ID = uuid.NewString()
	const q = `INSERT INTO masses (id, name, datetime, special) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, m.ID, m.Name, m.Datetime.UTC(), m.Special)
	return err
}

// GetByID fetches one mass.  Returns ErrMassNotFound when absent.
func (r *MassRepo) GetByID(ctx context.Context, id string) (*model.Mass, error) {
	const q = `SELECT id, name, datetime, special FROM masses WHERE id = ?`
	var m model.Mass
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Name, &m.Datetime, &m.Special)
	if err == sql.ErrNoRows {
		return nil, ErrMassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns all masses ordered by their scheduled time ascending,
// so the next upcoming mass comes first in chronological order.
func (r *MassRepo) List(ctx context.Context) ([]model.Mass, error) {
	const q = `SELECT id, name, datetime, special FROM masses ORDER BY datetime, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	masses := make([]model.Mass, 0)
	for rows.Next() {
		var m model.Mass
		if err := rows.Scan(&m.ID, &m.Name, &m.Datetime, &m.Special); err != nil {
			return nil, err
		}
		masses = append(masses, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return masses, nil
}

// Update overwrites a mass's mutable fields.  Returns
// ErrMassNotFound when the mass does not exist.
func (r *MassRepo) Update(ctx context.Context, id, name string, datetime time.Time, special bool) (*model.Mass, error) {
	const q = `UPDATE masses SET name = ?, datetime = ?, special = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, name, datetime.UTC(), special, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a mass, reporting whether a row was deleted.
// Returns ErrConflict when rides still reference the mass (foreign
// key restriction).
func (r *MassRepo) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM masses WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		if isFKConstraintErr(err) {
			return false, ErrConflict
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
