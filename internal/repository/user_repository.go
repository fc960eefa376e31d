package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nebeng/nebeng-api/internal/model"
	"github.com/nebeng/nebeng-api/internal/utils"
)

// ErrEmailExists is returned when registering an email address that
// is already taken.
var ErrEmailExists = errors.New("email already exists")

// UserRepo provides persistence for users.
type UserRepo struct{ db *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, name, email, phone, neighborhood, role, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u    model.User
		hood sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &hood, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if hood.Valid {
		h := hood.String
		u.Neighborhood = &h
	}
	return &u, nil
}

// Create hashes the password and inserts a new user, generating its
// id and creation timestamp.  The email is normalized to lower case.
// Returns ErrEmailExists on a duplicate email.
func (r *UserRepo) Create(ctx context.Context, u *model.User, password string, bcryptCost int) error {
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.CreatedAt = time.Now().UTC()
	const q = `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, u.ID, u.Name, u.Email, u.Phone,
		u.Neighborhood, u.Role, u.PasswordHash, u.CreatedAt); err != nil {
		if isDuplicateErr(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = ? LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}
