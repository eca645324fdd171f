package repositories

import (
	"context"

	"orgadmin/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, filter OrgFilter, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter OrgFilter, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, filter OrgFilter, product *models.Product) error
	SoftDelete(ctx context.Context, filter OrgFilter, id uuid.UUID) error
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, organization_id, name, sku, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.OrganizationID, product.Name, product.SKU, product.Description, product.IsActive)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, filter OrgFilter, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, organization_id, name, sku, description, is_active, created_at, updated_at
		FROM products
		WHERE id = $1 AND deleted_at IS NULL AND organization_id = ANY($2)
	`
	args := []any{id, filter.IDs}
	if filter.All {
		query = `
		SELECT id, organization_id, name, sku, description, is_active, created_at, updated_at
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`
		args = []any{id}
	}
	err := r.db.QueryRow(ctx, query, args...).Scan(&product.ID, &product.OrganizationID, &product.Name, &product.SKU, &product.Description, &product.IsActive, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) List(ctx context.Context, filter OrgFilter, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT id, organization_id, name, sku, description, is_active, created_at, updated_at
		FROM products
		WHERE deleted_at IS NULL AND organization_id = ANY($1)
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`
	args := []any{filter.IDs, limit, offset}
	if filter.All {
		query = `
		SELECT id, organization_id, name, sku, description, is_active, created_at, updated_at
		FROM products
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

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.OrganizationID, &product.Name, &product.SKU, &product.Description, &product.IsActive, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) Update(ctx context.Context, filter OrgFilter, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, sku = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL AND organization_id = ANY($6)
	`
	args := []any{product.Name, product.SKU, product.Description, product.IsActive, product.ID, filter.IDs}
	if filter.All {
		query = `
		UPDATE products
		SET name = $1, sku = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL
	`
		args = args[:5]
	}
	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *productRepo) SoftDelete(ctx context.Context, filter OrgFilter, id uuid.UUID) error {
	query := `
		UPDATE products SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND organization_id = ANY($2)
	`
	args := []any{id, filter.IDs}
	if filter.All {
		query = `
		UPDATE products SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
		args = args[:1]
	}
	_, err := r.db.Exec(ctx, query, args...)
	return err
}
