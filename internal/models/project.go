package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is tenant-scoped.
type Project struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	TenantID       uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Name           string     `json:"name" db:"name"`
	Description    *string    `json:"description,omitempty" db:"description"`
	Status         string     `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (p *Project) GetOrganizationID() uuid.UUID   { return p.OrganizationID }
func (p *Project) SetOrganizationID(id uuid.UUID) { p.OrganizationID = id }
func (p *Project) GetTenantID() uuid.UUID         { return p.TenantID }
func (p *Project) SetTenantID(id uuid.UUID)       { p.TenantID = id }
