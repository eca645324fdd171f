package repositories

import (
	"context"

	"orgadmin/internal/models"

	"github.com/google/uuid"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	List(ctx context.Context, filter OrgFilter, limit, offset int) ([]*models.Organization, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, org *models.Organization) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, u Unscoped, slug string, excludeID uuid.UUID) (bool, error)
	HasTenants(ctx context.Context, id uuid.UUID) (bool, error)
	Provision(ctx context.Context, org *models.Organization, adminRole *models.Role, tenant *models.Tenant, userID uuid.UUID) error
}

type organizationRepo struct {
	db DB
}

func NewOrganizationRepo(db DB) OrganizationRepository {
	return &organizationRepo{db: db}
}

func (r *organizationRepo) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (id, name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, org.ID, org.Name, org.Slug, org.IsActive)
	return err
}

func (r *organizationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org := &models.Organization{}
	query := `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM organizations
		WHERE id = $1 AND deleted_at IS NULL
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&org.ID, &org.Name, &org.Slug, &org.IsActive, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (r *organizationRepo) List(ctx context.Context, filter OrgFilter, limit, offset int) ([]*models.Organization, error) {
	query := `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM organizations
		WHERE deleted_at IS NULL AND id = ANY($1)
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	args := []any{filter.IDs, limit, offset}
	if filter.All {
		query = `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM organizations
		WHERE deleted_at IS NULL
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
		args = []any{limit, offset}
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org := &models.Organization{}
		if err := rows.Scan(&org.ID, &org.Name, &org.Slug, &org.IsActive, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *organizationRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM organizations WHERE deleted_at IS NULL`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *organizationRepo) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, slug = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL
	`
	_, err := r.db.Exec(ctx, query, org.Name, org.Slug, org.IsActive, org.ID)
	return err
}

func (r *organizationRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE organizations SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// SlugExists probes across all organizations: organization slugs are unique
// globally, so the check cannot run under any scope.
func (r *organizationRepo) SlugExists(ctx context.Context, _ Unscoped, slug string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM organizations WHERE slug = $1 AND id != $2 AND deleted_at IS NULL)`
	var exists bool
	err := r.db.QueryRow(ctx, query, slug, excludeID).Scan(&exists)
	return exists, err
}

func (r *organizationRepo) HasTenants(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tenants WHERE organization_id = $1 AND deleted_at IS NULL)`
	var exists bool
	err := r.db.QueryRow(ctx, query, id).Scan(&exists)
	return exists, err
}

// Provision creates an organization together with its default admin role,
// default tenant and the creating user's membership in one transaction. The
// membership becomes the user's default only if they have no default yet.
func (r *organizationRepo) Provision(ctx context.Context, org *models.Organization, adminRole *models.Role, tenant *models.Tenant, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO organizations (id, name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, org.ID, org.Name, org.Slug, org.IsActive)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO roles (id, organization_id, name, slug, is_admin, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, adminRole.ID, adminRole.OrganizationID, adminRole.Name, adminRole.Slug, adminRole.IsAdmin, adminRole.Permissions)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO tenants (id, organization_id, name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, tenant.ID, tenant.OrganizationID, tenant.Name, tenant.Slug, tenant.IsActive)
	if err != nil {
		return err
	}

	var hasDefault bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM memberships WHERE user_id = $1 AND is_default = true)
	`, userID).Scan(&hasDefault)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO memberships (id, tenant_id, user_id, role_id, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, uuid.New(), tenant.ID, userID, adminRole.ID, !hasDefault)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
