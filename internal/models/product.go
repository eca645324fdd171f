package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is organization-scoped: visible to every tenant of its
// organization, never across organizations.
type Product struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	Name           string     `json:"name" db:"name"`
	SKU            string     `json:"sku" db:"sku"`
	Description    *string    `json:"description,omitempty" db:"description"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (p *Product) GetOrganizationID() uuid.UUID   { return p.OrganizationID }
func (p *Product) SetOrganizationID(id uuid.UUID) { p.OrganizationID = id }
