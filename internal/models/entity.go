package models

import "github.com/google/uuid"

// HasOrganization is implemented by entities that carry an organization id.
// Creation hooks use it to fill the id from the request context, and the
// scope engine uses the same capability to decide which filter applies.
type HasOrganization interface {
	GetOrganizationID() uuid.UUID
	SetOrganizationID(id uuid.UUID)
}

// HasTenant is implemented by tenant-scoped entities. Entities implementing
// HasTenant are expected to also implement HasOrganization, and the invariant
// entity.organization_id == tenant(entity.tenant_id).organization_id holds at
// all times.
type HasTenant interface {
	GetTenantID() uuid.UUID
	SetTenantID(id uuid.UUID)
}
