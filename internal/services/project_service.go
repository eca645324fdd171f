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

type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type ProjectService interface {
	Create(ctx context.Context, user *models.User, req *CreateProjectRequest) (*models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, limit, offset int) ([]*models.Project, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	scope       *tenancy.ScopeEngine
	hooks       *tenancy.LifecycleHooks
}

func NewProjectService(projectRepo repositories.ProjectRepository, scope *tenancy.ScopeEngine, hooks *tenancy.LifecycleHooks) ProjectService {
	return &projectService{projectRepo: projectRepo, scope: scope, hooks: hooks}
}

// Create fills tenant and organization ids from the request context. The
// tenant fill runs first so an explicit tenant id still resolves its own
// organization.
func (s *projectService) Create(ctx context.Context, user *models.User, req *CreateProjectRequest) (*models.Project, error) {
	if req.Name == "" {
		return nil, errors.New("project name is required")
	}
	status := req.Status
	if status == "" {
		status = "active"
	}
	project := &models.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
	}
	if err := s.hooks.OnCreate(ctx, user, project); err != nil {
		return nil, err
	}
	if project.TenantID == uuid.Nil {
		return nil, tenancy.ErrTenantRequired
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, s.scope.TenantScope(ctx), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// List is scoped to the current tenant and fails closed: without a resolved
// tenant it returns no rows.
func (s *projectService) List(ctx context.Context, limit, offset int) ([]*models.Project, error) {
	return s.projectRepo.List(ctx, s.scope.TenantScope(ctx), limit, offset)
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if err := s.projectRepo.Update(ctx, s.scope.TenantScope(ctx), project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.projectRepo.SoftDelete(ctx, s.scope.TenantScope(ctx), id)
}
