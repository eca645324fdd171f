package repositories

import (
	"context"

	"orgadmin/internal/models"

	"github.com/google/uuid"
)

type StockRepository interface {
	Upsert(ctx context.Context, stock *models.Stock) error
	GetByID(ctx context.Context, filter TenantFilter, id uuid.UUID) (*models.Stock, error)
	ListByTenant(ctx context.Context, filter TenantFilter, limit, offset int) ([]*models.StockWithRefs, error)
	ListAcrossTenants(ctx context.Context, u Unscoped, tenants TenantFilter, orgs OrgFilter) ([]*models.StockWithRefs, error)
	Update(ctx context.Context, filter TenantFilter, stock *models.Stock) error
}

type stockRepo struct {
	db DB
}

func NewStockRepo(db DB) StockRepository {
	return &stockRepo{db: db}
}

// Upsert writes the quantity for (tenant, product), creating the row on
// first write.
func (r *stockRepo) Upsert(ctx context.Context, stock *models.Stock) error {
	query := `
		INSERT INTO stocks (id, organization_id, tenant_id, product_id, quantity, min_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (tenant_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, min_quantity = EXCLUDED.min_quantity, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, stock.ID, stock.OrganizationID, stock.TenantID, stock.ProductID, stock.Quantity, stock.MinQuantity)
	return err
}

func (r *stockRepo) GetByID(ctx context.Context, filter TenantFilter, id uuid.UUID) (*models.Stock, error) {
	stock := &models.Stock{}
	query := `
		SELECT id, organization_id, tenant_id, product_id, quantity, min_quantity, created_at, updated_at
		FROM stocks
		WHERE id = $1 AND tenant_id = ANY($2)
	`
	err := r.db.QueryRow(ctx, query, id, filter.IDs).Scan(&stock.ID, &stock.OrganizationID, &stock.TenantID, &stock.ProductID, &stock.Quantity, &stock.MinQuantity, &stock.CreatedAt, &stock.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return stock, nil
}

func (r *stockRepo) ListByTenant(ctx context.Context, filter TenantFilter, limit, offset int) ([]*models.StockWithRefs, error) {
	query := `
		SELECT s.id, s.organization_id, s.tenant_id, s.product_id, s.quantity, s.min_quantity, s.created_at, s.updated_at,
		       p.id, p.organization_id, p.name, p.sku, p.description, p.is_active, p.created_at, p.updated_at,
		       t.name
		FROM stocks s
		JOIN products p ON p.id = s.product_id
		JOIN tenants t ON t.id = s.tenant_id
		WHERE s.tenant_id = ANY($1)
		ORDER BY p.name ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, filter.IDs, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStockRefs(rows)
}

// ListAcrossTenants is the consolidation read: it bypasses the single-tenant
// scope but still restricts to the organization filter as a second line of
// defense against cross-organization leakage.
func (r *stockRepo) ListAcrossTenants(ctx context.Context, _ Unscoped, tenants TenantFilter, orgs OrgFilter) ([]*models.StockWithRefs, error) {
	query := `
		SELECT s.id, s.organization_id, s.tenant_id, s.product_id, s.quantity, s.min_quantity, s.created_at, s.updated_at,
		       p.id, p.organization_id, p.name, p.sku, p.description, p.is_active, p.created_at, p.updated_at,
		       t.name
		FROM stocks s
		JOIN products p ON p.id = s.product_id
		JOIN tenants t ON t.id = s.tenant_id
		WHERE s.tenant_id = ANY($1) AND s.organization_id = ANY($2)
		ORDER BY p.name ASC, t.name ASC
	`
	args := []any{tenants.IDs, orgs.IDs}
	if orgs.All {
		query = `
		SELECT s.id, s.organization_id, s.tenant_id, s.product_id, s.quantity, s.min_quantity, s.created_at, s.updated_at,
		       p.id, p.organization_id, p.name, p.sku, p.description, p.is_active, p.created_at, p.updated_at,
		       t.name
		FROM stocks s
		JOIN products p ON p.id = s.product_id
		JOIN tenants t ON t.id = s.tenant_id
		WHERE s.tenant_id = ANY($1)
		ORDER BY p.name ASC, t.name ASC
	`
		args = []any{tenants.IDs}
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStockRefs(rows)
}

func (r *stockRepo) Update(ctx context.Context, filter TenantFilter, stock *models.Stock) error {
	query := `
		UPDATE stocks
		SET quantity = $1, min_quantity = $2, updated_at = NOW()
		WHERE id = $3 AND tenant_id = ANY($4)
	`
	_, err := r.db.Exec(ctx, query, stock.Quantity, stock.MinQuantity, stock.ID, filter.IDs)
	return err
}

func scanStockRefs(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*models.StockWithRefs, error) {
	var stocks []*models.StockWithRefs
	for rows.Next() {
		s := &models.StockWithRefs{}
		if err := rows.Scan(
			&s.ID, &s.OrganizationID, &s.TenantID, &s.ProductID, &s.Quantity, &s.MinQuantity, &s.CreatedAt, &s.UpdatedAt,
			&s.Product.ID, &s.Product.OrganizationID, &s.Product.Name, &s.Product.SKU, &s.Product.Description, &s.Product.IsActive, &s.Product.CreatedAt, &s.Product.UpdatedAt,
			&s.TenantName,
		); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}
