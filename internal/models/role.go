package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Role is a named permission set scoped to one organization. Its slug is
// unique within the organization.
type Role struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Slug           string    `json:"slug" db:"slug"`
	IsAdmin        bool      `json:"is_admin" db:"is_admin"`
	Permissions    []string  `json:"permissions" db:"permissions"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// HasPermission reports whether the role grants the given permission.
// Admin roles grant every permission.
func (r *Role) HasPermission(permission string) bool {
	if r.IsAdmin {
		return true
	}
	return slices.Contains(r.Permissions, permission)
}
