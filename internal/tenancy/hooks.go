package tenancy

import (
	"context"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"

	"github.com/google/uuid"
)

// LifecycleHooks fills organization and tenant ids on entity creation from
// the request context, once, against the capability interfaces instead of
// per entity type.
type LifecycleHooks struct {
	tenants repositories.TenantRepository
	access  AccessResolver
}

func NewLifecycleHooks(tenants repositories.TenantRepository, access AccessResolver) *LifecycleHooks {
	return &LifecycleHooks{tenants: tenants, access: access}
}

// OnCreate fills the tenant id before the organization id, so an explicitly
// supplied tenant id still yields its own organization id and the invariant
// entity.organization_id == tenant.organization_id holds.
func (h *LifecycleHooks) OnCreate(ctx context.Context, user *models.User, entity any) error {
	if ht, ok := entity.(models.HasTenant); ok {
		if ht.GetTenantID() == uuid.Nil {
			ht.SetTenantID(CurrentTenantID(ctx))
		}
	}

	ho, ok := entity.(models.HasOrganization)
	if !ok || ho.GetOrganizationID() != uuid.Nil {
		return nil
	}

	if ht, ok := entity.(models.HasTenant); ok && ht.GetTenantID() != uuid.Nil {
		tenant, err := h.tenants.GetByID(ctx, ht.GetTenantID())
		if err != nil {
			return err
		}
		ho.SetOrganizationID(tenant.OrganizationID)
		return nil
	}

	if tenant, resolved := CurrentTenant(ctx); resolved {
		ho.SetOrganizationID(tenant.OrganizationID)
		return nil
	}

	// Organization-scoped entity created outside any tenant: fall back to
	// the principal's own organization affiliation.
	orgIDs, err := h.access.AllowedOrganizationIDs(ctx, user)
	if err != nil {
		return err
	}
	if len(orgIDs) > 0 {
		ho.SetOrganizationID(orgIDs[0])
	}
	return nil
}
