package tenancy

import (
	"context"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"

	"github.com/google/uuid"
)

// ScopeEngine builds the read filters repositories consume. There is no
// ambient query rewriting: every read path asks the engine for a filter and
// passes it down explicitly, so the bypass is visible at the call site.
type ScopeEngine struct {
	access AccessResolver
}

func NewScopeEngine(access AccessResolver) *ScopeEngine {
	return &ScopeEngine{access: access}
}

// TenantScope restricts tenant-scoped reads to the request's resolved
// tenant. With no resolved tenant the filter is empty and matches zero rows.
func (s *ScopeEngine) TenantScope(ctx context.Context) repositories.TenantFilter {
	tenant, ok := CurrentTenant(ctx)
	if !ok {
		return repositories.TenantFilter{}
	}
	return repositories.TenantFilter{IDs: []uuid.UUID{tenant.ID}}
}

// OrganizationScope restricts organization-scoped reads to the user's
// reachable organizations. Super admins read unfiltered.
func (s *ScopeEngine) OrganizationScope(ctx context.Context, user *models.User) (repositories.OrgFilter, error) {
	if user.IsSuperAdmin {
		return repositories.OrgFilter{All: true}, nil
	}
	ids, err := s.access.AllowedOrganizationIDs(ctx, user)
	if err != nil {
		return repositories.OrgFilter{}, err
	}
	return repositories.OrgFilter{IDs: ids}, nil
}

// ForTenants resolves the effective tenant set for a cross-tenant read.
// Requested ids are validated down to the authorized subsequence; an empty
// request means all allowed tenants. The organization filter is returned
// alongside so the read stays inside the user's organizations even when an
// explicit tenant list was given.
func (s *ScopeEngine) ForTenants(ctx context.Context, user *models.User, requested []uuid.UUID) (repositories.TenantFilter, repositories.OrgFilter, error) {
	var (
		ids []uuid.UUID
		err error
	)
	if len(requested) == 0 {
		ids, err = s.access.AllowedTenantIDs(ctx, user)
	} else {
		ids, err = s.access.ValidateTenantIDs(ctx, user, requested)
	}
	if err != nil {
		return repositories.TenantFilter{}, repositories.OrgFilter{}, err
	}
	orgs, err := s.OrganizationScope(ctx, user)
	if err != nil {
		return repositories.TenantFilter{}, repositories.OrgFilter{}, err
	}
	return repositories.TenantFilter{IDs: ids}, orgs, nil
}

// Unscoped produces the explicit opt-out token for the two reads allowed to
// see across tenants: consolidation and slug uniqueness probing.
func (s *ScopeEngine) Unscoped(reason string) repositories.Unscoped {
	return repositories.Unscoped{Reason: reason}
}
