package tenancy

import (
	"context"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"

	"github.com/google/uuid"
)

// AccessCache is a read-through cache for a user's allowed tenant set.
// Lookups that miss fall back to the database; membership writes invalidate.
type AccessCache interface {
	GetAllowedTenants(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, bool)
	SetAllowedTenants(ctx context.Context, userID uuid.UUID, ids []uuid.UUID)
	InvalidateUser(ctx context.Context, userID uuid.UUID)
}

// AccessResolver answers which organizations and tenants a principal may
// touch. All answers are derived from memberships; super admins see
// everything on reads but explicit tenant selection still goes through
// UserCanAccessTenant.
type AccessResolver interface {
	AllowedTenantIDs(ctx context.Context, user *models.User) ([]uuid.UUID, error)
	AllowedOrganizationIDs(ctx context.Context, user *models.User) ([]uuid.UUID, error)
	ValidateTenantIDs(ctx context.Context, user *models.User, requested []uuid.UUID) ([]uuid.UUID, error)
	UserCanAccessTenant(ctx context.Context, user *models.User, tenantID uuid.UUID) (bool, error)
	ResolveDefaultTenant(ctx context.Context, user *models.User) (uuid.UUID, bool, error)
}

type accessResolver struct {
	memberships repositories.MembershipRepository
	tenants     repositories.TenantRepository
	orgs        repositories.OrganizationRepository
	cache       AccessCache // nil disables caching
}

func NewAccessResolver(memberships repositories.MembershipRepository, tenants repositories.TenantRepository, orgs repositories.OrganizationRepository, cache AccessCache) AccessResolver {
	return &accessResolver{memberships: memberships, tenants: tenants, orgs: orgs, cache: cache}
}

// AllowedTenantIDs returns every active tenant a super admin may see, or the
// active tenants of the user's memberships in membership creation order.
func (a *accessResolver) AllowedTenantIDs(ctx context.Context, user *models.User) ([]uuid.UUID, error) {
	if user.IsSuperAdmin {
		return a.tenants.ListActiveIDs(ctx)
	}
	if a.cache != nil {
		if ids, ok := a.cache.GetAllowedTenants(ctx, user.ID); ok {
			return ids, nil
		}
	}
	ids, err := a.memberships.AllowedTenantIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		a.cache.SetAllowedTenants(ctx, user.ID, ids)
	}
	return ids, nil
}

func (a *accessResolver) AllowedOrganizationIDs(ctx context.Context, user *models.User) ([]uuid.UUID, error) {
	if user.IsSuperAdmin {
		return a.orgs.ListIDs(ctx)
	}
	return a.memberships.AllowedOrganizationIDs(ctx, user.ID)
}

// ValidateTenantIDs returns the subsequence of requested ids the user may
// access, preserving the requested order. Unauthorized ids are dropped
// silently; the caller compares lengths if it cares.
func (a *accessResolver) ValidateTenantIDs(ctx context.Context, user *models.User, requested []uuid.UUID) ([]uuid.UUID, error) {
	allowed, err := a.AllowedTenantIDs(ctx, user)
	if err != nil {
		return nil, err
	}
	allowedSet := make(map[uuid.UUID]struct{}, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = struct{}{}
	}
	valid := make([]uuid.UUID, 0, len(requested))
	for _, id := range requested {
		if _, ok := allowedSet[id]; ok {
			valid = append(valid, id)
		}
	}
	return valid, nil
}

// UserCanAccessTenant is the explicit-selection check: a membership must
// bind the user to an active tenant. Super admins are not exempt here; an
// explicitly named tenant is honored only through a membership.
func (a *accessResolver) UserCanAccessTenant(ctx context.Context, user *models.User, tenantID uuid.UUID) (bool, error) {
	return a.memberships.UserCanAccessTenant(ctx, user.ID, tenantID)
}

func (a *accessResolver) ResolveDefaultTenant(ctx context.Context, user *models.User) (uuid.UUID, bool, error) {
	m, err := a.memberships.GetDefaultByUser(ctx, user.ID)
	if err != nil {
		if isNoRows(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return m.TenantID, true, nil
}
