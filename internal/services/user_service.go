package services

import (
	"context"
	"errors"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"
	"orgadmin/internal/tenancy"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	TenantID uuid.UUID `json:"tenant_id"`
	RoleID   uuid.UUID `json:"role_id"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UserTenant is a row of the "user's tenants" listing: the tenant joined
// with the membership's role.
type UserTenant struct {
	Tenant    *models.Tenant `json:"tenant"`
	Role      *models.Role   `json:"role"`
	IsDefault bool           `json:"is_default"`
}

type UserService interface {
	Create(ctx context.Context, actor *models.User, req *CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, actor *models.User, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
	ListTenants(ctx context.Context, id uuid.UUID) ([]*UserTenant, error)
}

type userService struct {
	userRepo    repositories.UserRepository
	tenantRepo  repositories.TenantRepository
	roleRepo    repositories.RoleRepository
	memberships repositories.MembershipRepository
	scope       *tenancy.ScopeEngine
	cache       tenancy.AccessCache
}

func NewUserService(userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository, roleRepo repositories.RoleRepository, memberships repositories.MembershipRepository, scope *tenancy.ScopeEngine, cache tenancy.AccessCache) UserService {
	return &userService{
		userRepo:    userRepo,
		tenantRepo:  tenantRepo,
		roleRepo:    roleRepo,
		memberships: memberships,
		scope:       scope,
		cache:       cache,
	}
}

// Create registers a user and attaches them to the given tenant as their
// default membership.
func (s *userService) Create(ctx context.Context, actor *models.User, req *CreateUserRequest) (*models.User, error) {
	if req.Name == "" || req.Email == "" {
		return nil, errors.New("name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	_, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, errors.New("email already registered")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	m := &models.Membership{
		ID:        uuid.New(),
		TenantID:  req.TenantID,
		UserID:    user.ID,
		RoleID:    req.RoleID,
		IsDefault: true,
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// List shows the users who share at least one organization with the actor.
func (s *userService) List(ctx context.Context, actor *models.User, limit, offset int) ([]*models.User, error) {
	filter, err := s.scope.OrganizationScope(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.userRepo.List(ctx, filter, limit, offset)
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user and their memberships. Deleting yourself is refused.
func (s *userService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if actor.ID == id {
		return errors.New("cannot delete your own account")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.memberships.DeleteByUser(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateUser(ctx, id)
	}
	return nil
}

func (s *userService) ListTenants(ctx context.Context, id uuid.UUID) ([]*UserTenant, error) {
	memberships, err := s.memberships.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	result := make([]*UserTenant, 0, len(memberships))
	for _, m := range memberships {
		tenant, err := s.tenantRepo.GetByID(ctx, m.TenantID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		role, err := s.roleRepo.GetByID(ctx, m.RoleID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		result = append(result, &UserTenant{Tenant: tenant, Role: role, IsDefault: m.IsDefault})
	}
	return result, nil
}
