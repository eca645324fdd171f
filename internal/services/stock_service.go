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

type UpsertStockRequest struct {
	ProductID   uuid.UUID `json:"product_id"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
}

// TenantQuantity is one tenant's share of a consolidated group.
type TenantQuantity struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	Quantity   int       `json:"quantity"`
}

// ConsolidatedGroup aggregates one product's stock across the effective
// tenant set.
type ConsolidatedGroup struct {
	Product       models.Product   `json:"product"`
	TotalQuantity int              `json:"total_quantity"`
	ByTenant      []TenantQuantity `json:"by_tenant"`
}

// ConsolidatedResult carries the groups plus the tenant ids actually used,
// so a caller asking for three tenants can see only one was authorized.
type ConsolidatedResult struct {
	Groups          []ConsolidatedGroup `json:"data"`
	TenantsIncluded []uuid.UUID         `json:"tenants_included"`
}

type StockService interface {
	Upsert(ctx context.Context, user *models.User, req *UpsertStockRequest) (*models.Stock, error)
	List(ctx context.Context, limit, offset int) ([]*models.StockWithRefs, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Stock, error)
	Consolidated(ctx context.Context, user *models.User, requestedTenantIDs []uuid.UUID) (*ConsolidatedResult, error)
}

type stockService struct {
	stockRepo repositories.StockRepository
	scope     *tenancy.ScopeEngine
	hooks     *tenancy.LifecycleHooks
}

func NewStockService(stockRepo repositories.StockRepository, scope *tenancy.ScopeEngine, hooks *tenancy.LifecycleHooks) StockService {
	return &stockService{stockRepo: stockRepo, scope: scope, hooks: hooks}
}

func (s *stockService) Upsert(ctx context.Context, user *models.User, req *UpsertStockRequest) (*models.Stock, error) {
	if req.Quantity < 0 {
		return nil, errors.New("quantity cannot be negative")
	}
	stock := &models.Stock{
		ID:          uuid.New(),
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
	}
	if err := s.hooks.OnCreate(ctx, user, stock); err != nil {
		return nil, err
	}
	if stock.TenantID == uuid.Nil {
		return nil, tenancy.ErrTenantRequired
	}
	if err := s.stockRepo.Upsert(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

func (s *stockService) List(ctx context.Context, limit, offset int) ([]*models.StockWithRefs, error) {
	return s.stockRepo.ListByTenant(ctx, s.scope.TenantScope(ctx), limit, offset)
}

func (s *stockService) GetByID(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	stock, err := s.stockRepo.GetByID(ctx, s.scope.TenantScope(ctx), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrNotFound
		}
		return nil, err
	}
	return stock, nil
}

// Consolidated aggregates stock per product across the effective tenant set:
// the authorized subsequence of the requested ids, or all allowed tenants
// when none were requested. The read bypasses the single-tenant scope but
// never the organization scope.
func (s *stockService) Consolidated(ctx context.Context, user *models.User, requestedTenantIDs []uuid.UUID) (*ConsolidatedResult, error) {
	tenants, orgs, err := s.scope.ForTenants(ctx, user, requestedTenantIDs)
	if err != nil {
		return nil, err
	}

	result := &ConsolidatedResult{
		Groups:          []ConsolidatedGroup{},
		TenantsIncluded: tenants.IDs,
	}
	if result.TenantsIncluded == nil {
		result.TenantsIncluded = []uuid.UUID{}
	}
	if len(tenants.IDs) == 0 {
		return result, nil
	}

	rows, err := s.stockRepo.ListAcrossTenants(ctx, s.scope.Unscoped("cross-tenant stock consolidation"), tenants, orgs)
	if err != nil {
		return nil, err
	}

	// Group by product, preserving first-seen order.
	index := make(map[uuid.UUID]int)
	for _, row := range rows {
		i, seen := index[row.ProductID]
		if !seen {
			index[row.ProductID] = len(result.Groups)
			result.Groups = append(result.Groups, ConsolidatedGroup{Product: row.Product})
			i = len(result.Groups) - 1
		}
		group := &result.Groups[i]
		group.TotalQuantity += row.Quantity
		group.ByTenant = append(group.ByTenant, TenantQuantity{
			TenantID:   row.TenantID,
			TenantName: row.TenantName,
			Quantity:   row.Quantity,
		})
	}
	return result, nil
}
