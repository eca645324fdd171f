package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated principal. Access to organizations and tenants is
// mediated exclusively through memberships; super admins bypass membership
// checks on reads but never on explicit tenant selection.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	IsSuperAdmin bool      `json:"is_super_admin" db:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
