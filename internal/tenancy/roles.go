package tenancy

import (
	"context"
	"errors"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RoleResolver answers permission questions for a (user, tenant) pair via
// the user's membership in that tenant.
type RoleResolver interface {
	RoleOf(ctx context.Context, user *models.User, tenantID uuid.UUID) (*models.Role, bool, error)
	HasPermission(ctx context.Context, user *models.User, tenantID uuid.UUID, permission string) (bool, error)
	IsAdminInTenant(ctx context.Context, user *models.User, tenantID uuid.UUID) (bool, error)
	BelongsToTenant(ctx context.Context, user *models.User, tenantID uuid.UUID) (bool, error)
}

type roleResolver struct {
	memberships repositories.MembershipRepository
	roles       repositories.RoleRepository
}

func NewRoleResolver(memberships repositories.MembershipRepository, roles repositories.RoleRepository) RoleResolver {
	return &roleResolver{memberships: memberships, roles: roles}
}

// RoleOf returns the role bound by the user's membership in the tenant.
// The second return is false when no membership exists; callers must handle
// that case instead of assuming a role.
func (r *roleResolver) RoleOf(ctx context.Context, user *models.User, tenantID uuid.UUID) (*models.Role, bool, error) {
	m, err := r.memberships.GetByUserAndTenant(ctx, user.ID, tenantID)
	if err != nil {
		if isNoRows(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	role, err := r.roles.GetByID(ctx, m.RoleID)
	if err != nil {
		if isNoRows(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return role, true, nil
}

func (r *roleResolver) HasPermission(ctx context.Context, user *models.User, tenantID uuid.UUID, permission string) (bool, error) {
	role, ok, err := r.RoleOf(ctx, user, tenantID)
	if err != nil || !ok {
		return false, err
	}
	return role.HasPermission(permission), nil
}

func (r *roleResolver) IsAdminInTenant(ctx context.Context, user *models.User, tenantID uuid.UUID) (bool, error) {
	role, ok, err := r.RoleOf(ctx, user, tenantID)
	if err != nil || !ok {
		return false, err
	}
	return role.IsAdmin, nil
}

// BelongsToTenant is a structural check: it only asks whether a membership
// row exists, ignoring the tenant's active flag.
func (r *roleResolver) BelongsToTenant(ctx context.Context, user *models.User, tenantID uuid.UUID) (bool, error) {
	_, err := r.memberships.GetByUserAndTenant(ctx, user.ID, tenantID)
	if err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
