package services

import (
	"context"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// stubAccess is a deterministic tenancy.AccessResolver backed by fixed
// allowed sets.
type stubAccess struct {
	tenantIDs []uuid.UUID
	orgIDs    []uuid.UUID
}

func (s *stubAccess) AllowedTenantIDs(_ context.Context, user *models.User) ([]uuid.UUID, error) {
	return s.tenantIDs, nil
}

func (s *stubAccess) AllowedOrganizationIDs(_ context.Context, user *models.User) ([]uuid.UUID, error) {
	return s.orgIDs, nil
}

func (s *stubAccess) ValidateTenantIDs(_ context.Context, _ *models.User, requested []uuid.UUID) ([]uuid.UUID, error) {
	allowed := make(map[uuid.UUID]struct{}, len(s.tenantIDs))
	for _, id := range s.tenantIDs {
		allowed[id] = struct{}{}
	}
	valid := make([]uuid.UUID, 0, len(requested))
	for _, id := range requested {
		if _, ok := allowed[id]; ok {
			valid = append(valid, id)
		}
	}
	return valid, nil
}

func (s *stubAccess) UserCanAccessTenant(_ context.Context, _ *models.User, tenantID uuid.UUID) (bool, error) {
	for _, id := range s.tenantIDs {
		if id == tenantID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubAccess) ResolveDefaultTenant(_ context.Context, _ *models.User) (uuid.UUID, bool, error) {
	if len(s.tenantIDs) == 0 {
		return uuid.Nil, false, nil
	}
	return s.tenantIDs[0], true, nil
}

type mockStockRepo struct {
	mock.Mock
}

func (m *mockStockRepo) Upsert(ctx context.Context, stock *models.Stock) error {
	return m.Called(ctx, stock).Error(0)
}

func (m *mockStockRepo) GetByID(ctx context.Context, filter repositories.TenantFilter, id uuid.UUID) (*models.Stock, error) {
	args := m.Called(ctx, filter, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stock), args.Error(1)
}

func (m *mockStockRepo) ListByTenant(ctx context.Context, filter repositories.TenantFilter, limit, offset int) ([]*models.StockWithRefs, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockWithRefs), args.Error(1)
}

func (m *mockStockRepo) ListAcrossTenants(ctx context.Context, u repositories.Unscoped, tenants repositories.TenantFilter, orgs repositories.OrgFilter) ([]*models.StockWithRefs, error) {
	args := m.Called(ctx, u, tenants, orgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockWithRefs), args.Error(1)
}

func (m *mockStockRepo) Update(ctx context.Context, filter repositories.TenantFilter, stock *models.Stock) error {
	return m.Called(ctx, filter, stock).Error(0)
}

type mockMembershipRepo struct {
	mock.Mock
}

func (m *mockMembershipRepo) Create(ctx context.Context, membership *models.Membership) error {
	return m.Called(ctx, membership).Error(0)
}

func (m *mockMembershipRepo) GetByUserAndTenant(ctx context.Context, userID, tenantID uuid.UUID) (*models.Membership, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *mockMembershipRepo) GetDefaultByUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Membership), args.Error(1)
}

func (m *mockMembershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Membership), args.Error(1)
}

func (m *mockMembershipRepo) Update(ctx context.Context, membership *models.Membership) error {
	return m.Called(ctx, membership).Error(0)
}

func (m *mockMembershipRepo) SetDefault(ctx context.Context, userID, tenantID uuid.UUID) error {
	return m.Called(ctx, userID, tenantID).Error(0)
}

func (m *mockMembershipRepo) Delete(ctx context.Context, userID, tenantID uuid.UUID) error {
	return m.Called(ctx, userID, tenantID).Error(0)
}

func (m *mockMembershipRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockMembershipRepo) AllowedTenantIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockMembershipRepo) AllowedOrganizationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockMembershipRepo) UserCanAccessTenant(ctx context.Context, userID, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMembershipRepo) TenantHasMembers(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *mockMembershipRepo) OrganizationHasMembers(ctx context.Context, organizationID uuid.UUID) (bool, error) {
	args := m.Called(ctx, organizationID)
	return args.Bool(0), args.Error(1)
}

type mockOrgRepo struct {
	mock.Mock
}

func (m *mockOrgRepo) Create(ctx context.Context, org *models.Organization) error {
	return m.Called(ctx, org).Error(0)
}

func (m *mockOrgRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *mockOrgRepo) List(ctx context.Context, filter repositories.OrgFilter, limit, offset int) ([]*models.Organization, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Organization), args.Error(1)
}

func (m *mockOrgRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockOrgRepo) Update(ctx context.Context, org *models.Organization) error {
	return m.Called(ctx, org).Error(0)
}

func (m *mockOrgRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOrgRepo) SlugExists(ctx context.Context, u repositories.Unscoped, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, u, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrgRepo) HasTenants(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockOrgRepo) Provision(ctx context.Context, org *models.Organization, adminRole *models.Role, tenant *models.Tenant, userID uuid.UUID) error {
	return m.Called(ctx, org, adminRole, tenant, userID).Error(0)
}

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantRepo) List(ctx context.Context, filter repositories.OrgFilter, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *mockTenantRepo) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockTenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *mockTenantRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTenantRepo) SlugExists(ctx context.Context, u repositories.Unscoped, organizationID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, u, organizationID, slug, excludeID)
	return args.Bool(0), args.Error(1)
}
