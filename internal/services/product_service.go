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

type CreateProductRequest struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Description *string `json:"description"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	SKU         *string `json:"sku"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type ProductService interface {
	Create(ctx context.Context, user *models.User, req *CreateProductRequest) (*models.Product, error)
	GetByID(ctx context.Context, user *models.User, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, user *models.User, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, user *models.User, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error)
	Delete(ctx context.Context, user *models.User, id uuid.UUID) error
}

type productService struct {
	productRepo repositories.ProductRepository
	scope       *tenancy.ScopeEngine
	hooks       *tenancy.LifecycleHooks
}

func NewProductService(productRepo repositories.ProductRepository, scope *tenancy.ScopeEngine, hooks *tenancy.LifecycleHooks) ProductService {
	return &productService{productRepo: productRepo, scope: scope, hooks: hooks}
}

// Create fills the organization id from the request context before the
// insert; products never carry a tenant id.
func (s *productService) Create(ctx context.Context, user *models.User, req *CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, errors.New("product name is required")
	}
	product := &models.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.hooks.OnCreate(ctx, user, product); err != nil {
		return nil, err
	}
	if product.OrganizationID == uuid.Nil {
		return nil, errors.New("no organization resolved for product")
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, user *models.User, id uuid.UUID) (*models.Product, error) {
	filter, err := s.scope.OrganizationScope(ctx, user)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(ctx, filter, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, user *models.User, limit, offset int) ([]*models.Product, error) {
	filter, err := s.scope.OrganizationScope(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.productRepo.List(ctx, filter, limit, offset)
}

func (s *productService) Update(ctx context.Context, user *models.User, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetByID(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil {
		product.SKU = *req.SKU
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	filter, err := s.scope.OrganizationScope(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, filter, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(ctx context.Context, user *models.User, id uuid.UUID) error {
	filter, err := s.scope.OrganizationScope(ctx, user)
	if err != nil {
		return err
	}
	return s.productRepo.SoftDelete(ctx, filter, id)
}
