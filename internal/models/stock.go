package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock is tenant-scoped: one row per (tenant, product) holding the quantity
// that tenant carries.
type Stock struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	TenantID       uuid.UUID `json:"tenant_id" db:"tenant_id"`
	ProductID      uuid.UUID `json:"product_id" db:"product_id"`
	Quantity       int       `json:"quantity" db:"quantity"`
	MinQuantity    int       `json:"min_quantity" db:"min_quantity"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (s *Stock) GetOrganizationID() uuid.UUID   { return s.OrganizationID }
func (s *Stock) SetOrganizationID(id uuid.UUID) { s.OrganizationID = id }
func (s *Stock) GetTenantID() uuid.UUID         { return s.TenantID }
func (s *Stock) SetTenantID(id uuid.UUID)       { s.TenantID = id }

// StockWithRefs is a consolidation read row: a stock joined with its product
// and the display name of its tenant.
type StockWithRefs struct {
	Stock
	Product    Product `json:"product"`
	TenantName string  `json:"tenant_name"`
}
