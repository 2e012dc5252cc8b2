package model

import "time"

// Role enumerates the access roles recognised by the firm.  Keeping this a
// closed type means a typo in a route registration fails to compile instead
// of silently granting or denying access at runtime.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RolePartner    Role = "partner"
	RoleAdvocate   Role = "advocate"
	RoleParalegal  Role = "paralegal"
	RoleAccountant Role = "accountant"
)

// Valid reports whether the role is one of the recognised values.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RolePartner, RoleAdvocate, RoleParalegal, RoleAccountant:
		return true
	}
	return false
}

// User represents a login account as stored in the `users` table.  Each
// user may be linked to a staff profile carrying employment details.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address used for login.
//  PasswordHash – bcrypt hashed password.
//  Role         – access role (closed Role enumeration).
//  IsActive     – whether the account may log in.
//  LastLogin    – timestamp of the most recent successful login (nullable).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     `json:"id"`                   // users.id
	Email        string     `json:"email"`                // users.email
	PasswordHash string     `json:"-"`                    // users.password_hash
	Role         Role       `json:"role"`                 // users.role
	IsActive     bool       `json:"is_active"`            // users.is_active
	LastLogin    *time.Time `json:"last_login,omitempty"` // users.last_login (nullable)
	CreatedAt    time.Time  `json:"created_at"`           // users.created_at
	UpdatedAt    time.Time  `json:"updated_at"`           // users.updated_at
}

// RefreshToken models a row in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is persisted; the raw value goes back to
// the client once and is never stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp.
//  RevokedAt – when the token was revoked (null while active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     `json:"id"`                   // refresh_tokens.id
	UserID    uint64     `json:"user_id"`              // refresh_tokens.user_id
	TokenHash string     `json:"token_hash"`           // refresh_tokens.token_hash
	ExpiresAt time.Time  `json:"expires_at"`           // refresh_tokens.expires_at
	RevokedAt *time.Time `json:"revoked_at,omitempty"` // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  `json:"created_at"`           // refresh_tokens.created_at
}
