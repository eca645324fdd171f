package services

import (
	"context"
	"errors"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"
	"orgadmin/internal/tenancy"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateRoleRequest struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	IsAdmin        bool      `json:"is_admin"`
	Permissions    []string  `json:"permissions"`
}

type UpdateRoleRequest struct {
	Name        *string   `json:"name"`
	IsAdmin     *bool     `json:"is_admin"`
	Permissions *[]string `json:"permissions"`
}

type RoleService interface {
	Create(ctx context.Context, user *models.User, req *CreateRoleRequest) (*models.Role, error)
	GetByID(ctx context.Context, user *models.User, id uuid.UUID) (*models.Role, error)
	ListByOrganization(ctx context.Context, user *models.User, organizationID uuid.UUID, limit, offset int) ([]*models.Role, error)
	Update(ctx context.Context, user *models.User, id uuid.UUID, req *UpdateRoleRequest) (*models.Role, error)
	Delete(ctx context.Context, user *models.User, id uuid.UUID) error
}

type roleService struct {
	roleRepo repositories.RoleRepository
	access   tenancy.AccessResolver
	scope    *tenancy.ScopeEngine
	slugs    *tenancy.SlugAllocator
}

func NewRoleService(roleRepo repositories.RoleRepository, access tenancy.AccessResolver, scope *tenancy.ScopeEngine, slugs *tenancy.SlugAllocator) RoleService {
	return &roleService{roleRepo: roleRepo, access: access, scope: scope, slugs: slugs}
}

func (s *roleService) Create(ctx context.Context, user *models.User, req *CreateRoleRequest) (*models.Role, error) {
	if req.Name == "" {
		return nil, errors.New("role name is required")
	}
	if err := s.requireOrgAccess(ctx, user, req.OrganizationID); err != nil {
		return nil, err
	}
	for _, p := range req.Permissions {
		if !containsString(models.AllPermissions(), p) {
			return nil, errors.New("unknown permission: " + p)
		}
	}

	role := &models.Role{
		ID:             uuid.New(),
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		IsAdmin:        req.IsAdmin,
		Permissions:    req.Permissions,
	}
	if role.Permissions == nil {
		role.Permissions = []string{}
	}

	unscoped := s.scope.Unscoped("slug uniqueness probing spans the organization's roles")
	slug, err := s.slugs.AllocateWithRetry(ctx, req.Name,
		func(ctx context.Context, candidate string) (bool, error) {
			return s.roleRepo.SlugExists(ctx, unscoped, req.OrganizationID, candidate, uuid.Nil)
		},
		func(ctx context.Context, candidate string) error {
			role.Slug = candidate
			return s.roleRepo.Create(ctx, role)
		},
	)
	if err != nil {
		return nil, err
	}
	role.Slug = slug
	return role, nil
}

func (s *roleService) GetByID(ctx context.Context, user *models.User, id uuid.UUID) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrNotFound
		}
		return nil, err
	}
	if err := s.requireOrgAccess(ctx, user, role.OrganizationID); err != nil {
		return nil, tenancy.ErrNotFound
	}
	return role, nil
}

func (s *roleService) ListByOrganization(ctx context.Context, user *models.User, organizationID uuid.UUID, limit, offset int) ([]*models.Role, error) {
	if err := s.requireOrgAccess(ctx, user, organizationID); err != nil {
		return nil, err
	}
	return s.roleRepo.ListByOrganization(ctx, organizationID, limit, offset)
}

func (s *roleService) Update(ctx context.Context, user *models.User, id uuid.UUID, req *UpdateRoleRequest) (*models.Role, error) {
	role, err := s.GetByID(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil && *req.Name != role.Name {
		role.Name = *req.Name
		unscoped := s.scope.Unscoped("slug uniqueness probing spans the organization's roles")
		slug, err := s.slugs.Allocate(ctx, role.Name, func(ctx context.Context, candidate string) (bool, error) {
			return s.roleRepo.SlugExists(ctx, unscoped, role.OrganizationID, candidate, role.ID)
		})
		if err != nil {
			return nil, err
		}
		role.Slug = slug
	}
	if req.IsAdmin != nil {
		role.IsAdmin = *req.IsAdmin
	}
	if req.Permissions != nil {
		for _, p := range *req.Permissions {
			if !containsString(models.AllPermissions(), p) {
				return nil, errors.New("unknown permission: " + p)
			}
		}
		role.Permissions = *req.Permissions
	}
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) Delete(ctx context.Context, user *models.User, id uuid.UUID) error {
	role, err := s.GetByID(ctx, user, id)
	if err != nil {
		return err
	}
	return s.roleRepo.Delete(ctx, role.OrganizationID, role.ID)
}

func (s *roleService) requireOrgAccess(ctx context.Context, user *models.User, organizationID uuid.UUID) error {
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

func containsString(list []string, s string) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}
