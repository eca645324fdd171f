package services

import (
	"context"
	"errors"
	"fmt"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"
	"orgadmin/internal/tenancy"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

type CreateTenantRequest struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
}

type UpdateTenantRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

type TenantService interface {
	Create(ctx context.Context, user *models.User, req *CreateTenantRequest) (*models.Tenant, error)
	GetByID(ctx context.Context, user *models.User, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context, user *models.User, limit, offset int) ([]*models.Tenant, error)
	Update(ctx context.Context, user *models.User, id uuid.UUID, req *UpdateTenantRequest) (*models.Tenant, error)
	Delete(ctx context.Context, user *models.User, id uuid.UUID) error
}

type tenantService struct {
	tenantRepo  repositories.TenantRepository
	memberships repositories.MembershipRepository
	access      tenancy.AccessResolver
	scope       *tenancy.ScopeEngine
	slugs       *tenancy.SlugAllocator
}

func NewTenantService(tenantRepo repositories.TenantRepository, memberships repositories.MembershipRepository, access tenancy.AccessResolver, scope *tenancy.ScopeEngine, slugs *tenancy.SlugAllocator) TenantService {
	return &tenantService{
		tenantRepo:  tenantRepo,
		memberships: memberships,
		access:      access,
		scope:       scope,
		slugs:       slugs,
	}
}

// Create adds a tenant to an organization the user belongs to. The slug is
// allocated within the organization, so "branch" may exist once per
// organization.
func (s *tenantService) Create(ctx context.Context, user *models.User, req *CreateTenantRequest) (*models.Tenant, error) {
	if req.Name == "" {
		return nil, errors.New("tenant name is required")
	}
	if err := s.requireOrgAccess(ctx, user, req.OrganizationID); err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		ID:             uuid.New(),
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		IsActive:       true,
	}

	unscoped := s.scope.Unscoped("slug uniqueness probing spans the organization's tenants")
	slug, err := s.slugs.AllocateWithRetry(ctx, req.Name,
		func(ctx context.Context, candidate string) (bool, error) {
			return s.tenantRepo.SlugExists(ctx, unscoped, req.OrganizationID, candidate, uuid.Nil)
		},
		func(ctx context.Context, candidate string) error {
			tenant.Slug = candidate
			return s.tenantRepo.Create(ctx, tenant)
		},
	)
	if err != nil {
		if errors.Is(err, tenancy.ErrSlugConflict) {
			return nil, tenancy.ErrSlugConflict
		}
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	tenant.Slug = slug

	log.Info().Str("tenant_id", tenant.ID.String()).Str("slug", tenant.Slug).Msg("tenant created")
	return tenant, nil
}

func (s *tenantService) GetByID(ctx context.Context, user *models.User, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrNotFound
		}
		return nil, err
	}
	if err := s.requireOrgAccess(ctx, user, tenant.OrganizationID); err != nil {
		return nil, tenancy.ErrNotFound
	}
	return tenant, nil
}

func (s *tenantService) List(ctx context.Context, user *models.User, limit, offset int) ([]*models.Tenant, error) {
	filter, err := s.scope.OrganizationScope(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.tenantRepo.List(ctx, filter, limit, offset)
}

func (s *tenantService) Update(ctx context.Context, user *models.User, id uuid.UUID, req *UpdateTenantRequest) (*models.Tenant, error) {
	tenant, err := s.GetByID(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil && *req.Name != tenant.Name {
		tenant.Name = *req.Name
		unscoped := s.scope.Unscoped("slug uniqueness probing spans the organization's tenants")
		slug, err := s.slugs.Allocate(ctx, tenant.Name, func(ctx context.Context, candidate string) (bool, error) {
			return s.tenantRepo.SlugExists(ctx, unscoped, tenant.OrganizationID, candidate, tenant.ID)
		})
		if err != nil {
			return nil, err
		}
		tenant.Slug = slug
	}
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Delete refuses while users are still attached to the tenant.
func (s *tenantService) Delete(ctx context.Context, user *models.User, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, user, id); err != nil {
		return err
	}
	hasMembers, err := s.memberships.TenantHasMembers(ctx, id)
	if err != nil {
		return err
	}
	if hasMembers {
		return fmt.Errorf("cannot delete tenant with users attached: %w", tenancy.ErrDependentsExist)
	}
	return s.tenantRepo.SoftDelete(ctx, id)
}

func (s *tenantService) requireOrgAccess(ctx context.Context, user *models.User, organizationID uuid.UUID) error {
	if user.IsSuperAdmin {
		return nil
	}
	orgIDs, err := s.access.AllowedOrganizationIDs(ctx, user)
	if err != nil {
		return err
	}
	if !containsID(orgIDs, organizationID) {
		return tenancy.ErrTenantAccessDenied
	}
	return nil
}
