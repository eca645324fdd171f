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

type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

type UpdateOrganizationRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

type OrganizationService interface {
	Create(ctx context.Context, user *models.User, req *CreateOrganizationRequest) (*models.Organization, error)
	GetByID(ctx context.Context, user *models.User, id uuid.UUID) (*models.Organization, error)
	List(ctx context.Context, user *models.User, limit, offset int) ([]*models.Organization, error)
	Update(ctx context.Context, user *models.User, id uuid.UUID, req *UpdateOrganizationRequest) (*models.Organization, error)
	Delete(ctx context.Context, user *models.User, id uuid.UUID) error
}

type organizationService struct {
	orgRepo     repositories.OrganizationRepository
	memberships repositories.MembershipRepository
	scope       *tenancy.ScopeEngine
	slugs       *tenancy.SlugAllocator
	cache       tenancy.AccessCache
}

func NewOrganizationService(orgRepo repositories.OrganizationRepository, memberships repositories.MembershipRepository, scope *tenancy.ScopeEngine, slugs *tenancy.SlugAllocator, cache tenancy.AccessCache) OrganizationService {
	return &organizationService{
		orgRepo:     orgRepo,
		memberships: memberships,
		scope:       scope,
		slugs:       slugs,
		cache:       cache,
	}
}

// Create provisions a new organization in one transaction: the organization
// itself, its admin role, a default "Matriz" tenant, and a membership
// attaching the creating user. The membership becomes the user's default
// only when they have no default yet.
func (s *organizationService) Create(ctx context.Context, user *models.User, req *CreateOrganizationRequest) (*models.Organization, error) {
	if req.Name == "" {
		return nil, errors.New("organization name is required")
	}

	org := &models.Organization{
		ID:       uuid.New(),
		Name:     req.Name,
		IsActive: true,
	}
	adminRole := &models.Role{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		Name:           "Admin",
		Slug:           "admin",
		IsAdmin:        true,
		Permissions:    []string{},
	}
	tenant := &models.Tenant{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		Name:           "Matriz",
		Slug:           "matriz",
		IsActive:       true,
	}

	unscoped := s.scope.Unscoped("organization slug uniqueness is global")
	slug, err := s.slugs.AllocateWithRetry(ctx, req.Name,
		func(ctx context.Context, candidate string) (bool, error) {
			return s.orgRepo.SlugExists(ctx, unscoped, candidate, uuid.Nil)
		},
		func(ctx context.Context, candidate string) error {
			org.Slug = candidate
			return s.orgRepo.Provision(ctx, org, adminRole, tenant, user.ID)
		},
	)
	if err != nil {
		if errors.Is(err, tenancy.ErrSlugConflict) {
			return nil, tenancy.ErrSlugConflict
		}
		return nil, fmt.Errorf("provision organization: %w", err)
	}
	org.Slug = slug

	if s.cache != nil {
		s.cache.InvalidateUser(ctx, user.ID)
	}
	log.Info().Str("organization_id", org.ID.String()).Str("slug", org.Slug).Msg("organization provisioned")
	return org, nil
}

func (s *organizationService) GetByID(ctx context.Context, user *models.User, id uuid.UUID) (*models.Organization, error) {
	filter, err := s.scope.OrganizationScope(ctx, user)
	if err != nil {
		return nil, err
	}
	if !filter.All && !containsID(filter.IDs, id) {
		return nil, tenancy.ErrNotFound
	}
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrNotFound
		}
		return nil, err
	}
	return org, nil
}

// List returns the organizations reachable through the user's memberships.
// A user with no memberships sees none; super admins see all.
func (s *organizationService) List(ctx context.Context, user *models.User, limit, offset int) ([]*models.Organization, error) {
	filter, err := s.scope.OrganizationScope(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.orgRepo.List(ctx, filter, limit, offset)
}

func (s *organizationService) Update(ctx context.Context, user *models.User, id uuid.UUID, req *UpdateOrganizationRequest) (*models.Organization, error) {
	org, err := s.GetByID(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil && *req.Name != org.Name {
		org.Name = *req.Name
		unscoped := s.scope.Unscoped("organization slug uniqueness is global")
		slug, err := s.slugs.Allocate(ctx, org.Name, func(ctx context.Context, candidate string) (bool, error) {
			return s.orgRepo.SlugExists(ctx, unscoped, candidate, org.ID)
		})
		if err != nil {
			return nil, err
		}
		org.Slug = slug
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Delete refuses while tenants or members remain attached.
func (s *organizationService) Delete(ctx context.Context, user *models.User, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, user, id); err != nil {
		return err
	}
	hasTenants, err := s.orgRepo.HasTenants(ctx, id)
	if err != nil {
		return err
	}
	if hasTenants {
		return fmt.Errorf("cannot delete organization with tenants attached: %w", tenancy.ErrDependentsExist)
	}
	hasMembers, err := s.memberships.OrganizationHasMembers(ctx, id)
	if err != nil {
		return err
	}
	if hasMembers {
		return fmt.Errorf("cannot delete organization with users attached: %w", tenancy.ErrDependentsExist)
	}
	return s.orgRepo.SoftDelete(ctx, id)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
