package repositories

import (
	"context"

	"orgadmin/internal/models"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, filter TenantFilter, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, filter TenantFilter, limit, offset int) ([]*models.Project, error)
	Update(ctx context.Context, filter TenantFilter, project *models.Project) error
	SoftDelete(ctx context.Context, filter TenantFilter, id uuid.UUID) error
}

type projectRepo struct {
	db DB
}

func NewProjectRepo(db DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (id, organization_id, tenant_id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, project.ID, project.OrganizationID, project.TenantID, project.Name, project.Description, project.Status)
	return err
}

func (r *projectRepo) GetByID(ctx context.Context, filter TenantFilter, id uuid.UUID) (*models.Project, error) {
	project := &models.Project{}
	query := `
		SELECT id, organization_id, tenant_id, name, description, status, created_at, updated_at
		FROM projects
		WHERE id = $1 AND deleted_at IS NULL AND tenant_id = ANY($2)
	`
	err := r.db.QueryRow(ctx, query, id, filter.IDs).Scan(&project.ID, &project.OrganizationID, &project.TenantID, &project.Name, &project.Description, &project.Status, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepo) List(ctx context.Context, filter TenantFilter, limit, offset int) ([]*models.Project, error) {
	query := `
		SELECT id, organization_id, tenant_id, name, description, status, created_at, updated_at
		FROM projects
		WHERE deleted_at IS NULL AND tenant_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, filter.IDs, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		if err := rows.Scan(&project.ID, &project.OrganizationID, &project.TenantID, &project.Name, &project.Description, &project.Status, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *projectRepo) Update(ctx context.Context, filter TenantFilter, project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, status = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL AND tenant_id = ANY($5)
	`
	_, err := r.db.Exec(ctx, query, project.Name, project.Description, project.Status, project.ID, filter.IDs)
	return err
}

func (r *projectRepo) SoftDelete(ctx context.Context, filter TenantFilter, id uuid.UUID) error {
	query := `
		UPDATE projects SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND tenant_id = ANY($2)
	`
	_, err := r.db.Exec(ctx, query, id, filter.IDs)
	return err
}
