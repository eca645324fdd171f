package repositories

import (
	"context"

	"orgadmin/internal/models"

	"github.com/google/uuid"
)

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	SlugExists(ctx context.Context, u Unscoped, organizationID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)
}

type roleRepo struct {
	db DB
}

func NewRoleRepo(db DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) Create(ctx context.Context, role *models.Role) error {
	query := `
		INSERT INTO roles (id, organization_id, name, slug, is_admin, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, role.ID, role.OrganizationID, role.Name, role.Slug, role.IsAdmin, role.Permissions)
	return err
}

func (r *roleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	role := &models.Role{}
	query := `
		SELECT id, organization_id, name, slug, is_admin, permissions, created_at, updated_at
		FROM roles
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&role.ID, &role.OrganizationID, &role.Name, &role.Slug, &role.IsAdmin, &role.Permissions, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepo) ListByOrganization(ctx context.Context, organizationID uuid.UUID, limit, offset int) ([]*models.Role, error) {
	query := `
		SELECT id, organization_id, name, slug, is_admin, permissions, created_at, updated_at
		FROM roles
		WHERE organization_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role := &models.Role{}
		if err := rows.Scan(&role.ID, &role.OrganizationID, &role.Name, &role.Slug, &role.IsAdmin, &role.Permissions, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepo) Update(ctx context.Context, role *models.Role) error {
	query := `
		UPDATE roles
		SET name = $1, slug = $2, is_admin = $3, permissions = $4, updated_at = NOW()
		WHERE organization_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, role.Name, role.Slug, role.IsAdmin, role.Permissions, role.OrganizationID, role.ID)
	return err
}

func (r *roleRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	query := `DELETE FROM roles WHERE organization_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, organizationID, id)
	return err
}

func (r *roleRepo) SlugExists(ctx context.Context, _ Unscoped, organizationID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM roles
			WHERE organization_id = $1 AND slug = $2 AND id != $3
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, organizationID, slug, excludeID).Scan(&exists)
	return exists, err
}
