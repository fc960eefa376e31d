package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/nebeng/nebeng-api/internal/model"
)

// MySQL error numbers for constraint violations shared by the
// reference-data repositories.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrRowIsReferenced = 1451
)

// ErrNameExists is returned when creating an environment whose name
// is already taken; environment names are unique.
var ErrNameExists = errors.New("name already exists")

// isDuplicateErr reports whether err is a unique-key violation.
func isDuplicateErr(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlErrDuplicateEntry
}

// isFKConstraintErr reports whether err is a foreign-key restriction
// on delete (dependent rows still reference the target).
func isFKConstraintErr(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlErrRowIsReferenced
}

// EnvironmentRepo provides CRUD operations for environments
// ("lingkungan" neighborhood groups).  Like masses, environments
// are admin maintained reference data.
type EnvironmentRepo struct {
	db *sql.DB
}

// NewEnvironmentRepo returns an EnvironmentRepo bound to the given
// database.
func NewEnvironmentRepo(db *sql.DB) *EnvironmentRepo { return &EnvironmentRepo{db: db} }

// Create inserts a new environment.  The id is generated here and
// written back.  Returns ErrNameExists when the name is taken.
func (r *EnvironmentRepo) Create(ctx context.Context, e *model.Environment) error {
	e.ID = uuid.NewString()
	const q = `INSERT INTO environments (id, name) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, q, e.ID, e.Name); err != nil {
		if isDuplicateErr(err) {
			return ErrNameExists
		}
		return err
	}
	return nil
}

// GetByID fetches one environment.  Returns ErrEnvironmentNotFound
// when absent.
func (r *EnvironmentRepo) GetByID(ctx context.Context, id string) (*model.Environment, error) {
	const q = `SELECT id, name FROM environments WHERE id = ?`
	var e model.Environment
	err := r.db.QueryRowContext(ctx, q, id).Scan(&e.ID, &e.Name)
	if err == sql.ErrNoRows {
		return nil, ErrEnvironmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns all environments ordered by name.
func (r *EnvironmentRepo) List(ctx context.Context) ([]model.Environment, error) {
	const q = `SELECT id, name FROM environments ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	envs := make([]model.Environment, 0)
	for rows.Next() {
		var e model.Environment
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, err
		}
		envs = append(envs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return envs, nil
}

// Delete removes an environment, reporting whether a row was
// deleted.
func (r *EnvironmentRepo) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM environments WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
