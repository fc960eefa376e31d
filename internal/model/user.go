package model

import "time"

// Role names stored in users.role.  Roles gate who may create rides
// (drivers) and who may manage masses and environments (admins).
const (
	RolePassenger = "passenger"
	RoleDriver    = "driver"
	RoleAdmin     = "admin"
)

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column in the
// database.  JSON tags are included so handlers can return the
// struct directly; the password hash is never serialized.
//
// Fields:
//  ID           – primary key identifier (UUID string).
//  Name         – display name of the user.
//  Email        – unique email address.
//  Phone        – contact phone number.
//  Neighborhood – parish neighborhood ("lingkungan") the user belongs to.
//  Role         – role name (passenger, driver or admin).
//  PasswordHash – bcrypt hashed password, never exposed over the API.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           string    `json:"id"`                     // users.id
	Name         string    `json:"name"`                   // users.name
	Email        string    `json:"email"`                  // users.email
	Phone        string    `json:"phone"`                  // users.phone
	Neighborhood *string   `json:"neighborhood,omitempty"` // users.neighborhood (nullable)
	Role         string    `json:"role"`                   // users.role
	PasswordHash string    `json:"-"`                      // users.password_hash
	CreatedAt    time.Time `json:"created_at"`             // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and carries metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
