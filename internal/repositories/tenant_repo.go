package repositories

import (
	"context"

	"orgadmin/internal/models"

	"github.com/google/uuid"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context, filter OrgFilter, limit, offset int) ([]*models.Tenant, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, u Unscoped, organizationID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, organization_id, name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, tenant.ID, tenant.OrganizationID, tenant.Name, tenant.Slug, tenant.IsActive)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `
		SELECT id, organization_id, name, slug, is_active, created_at, updated_at
		FROM tenants
		WHERE id = $1 AND deleted_at IS NULL
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&tenant.ID, &tenant.OrganizationID, &tenant.Name, &tenant.Slug, &tenant.IsActive, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) List(ctx context.Context, filter OrgFilter, limit, offset int) ([]*models.Tenant, error) {
	query := `
		SELECT id, organization_id, name, slug, is_active, created_at, updated_at
		FROM tenants
		WHERE deleted_at IS NULL AND organization_id = ANY($1)
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	args := []any{filter.IDs, limit, offset}
	if filter.All {
		query = `
		SELECT id, organization_id, name, slug, is_active, created_at, updated_at
		FROM tenants
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

	var tenants []*models.Tenant
	for rows.Next() {
		tenant := &models.Tenant{}
		if err := rows.Scan(&tenant.ID, &tenant.OrganizationID, &tenant.Name, &tenant.Slug, &tenant.IsActive, &tenant.CreatedAt, &tenant.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

// ListActiveIDs returns every active tenant id system-wide. Super admin only.
func (r *tenantRepo) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM tenants WHERE is_active = true AND deleted_at IS NULL`
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

// Update never touches organization_id: a tenant cannot move between
// organizations.
func (r *tenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $1, slug = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL
	`
	_, err := r.db.Exec(ctx, query, tenant.Name, tenant.Slug, tenant.IsActive, tenant.ID)
	return err
}

func (r *tenantRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE tenants SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// SlugExists probes within one organization but across every tenant in it,
// including tenants the caller is not a member of.
func (r *tenantRepo) SlugExists(ctx context.Context, _ Unscoped, organizationID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tenants
			WHERE organization_id = $1 AND slug = $2 AND id != $3 AND deleted_at IS NULL
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, organizationID, slug, excludeID).Scan(&exists)
	return exists, err
}
