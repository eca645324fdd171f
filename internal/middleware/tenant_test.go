package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"
	"orgadmin/internal/tenancy"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAccessResolver struct {
	mock.Mock
}

func (m *mockAccessResolver) AllowedTenantIDs(ctx context.Context, user *models.User) ([]uuid.UUID, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockAccessResolver) AllowedOrganizationIDs(ctx context.Context, user *models.User) ([]uuid.UUID, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockAccessResolver) ValidateTenantIDs(ctx context.Context, user *models.User, requested []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, user, requested)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockAccessResolver) UserCanAccessTenant(ctx context.Context, user *models.User, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, user, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAccessResolver) ResolveDefaultTenant(ctx context.Context, user *models.User) (uuid.UUID, bool, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

type mockTenantGetter struct {
	mock.Mock
}

func (m *mockTenantGetter) Create(ctx context.Context, tenant *models.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *mockTenantGetter) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantGetter) List(ctx context.Context, filter repositories.OrgFilter, limit, offset int) ([]*models.Tenant, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tenant), args.Error(1)
}

func (m *mockTenantGetter) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *mockTenantGetter) Update(ctx context.Context, tenant *models.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *mockTenantGetter) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTenantGetter) SlugExists(ctx context.Context, u repositories.Unscoped, organizationID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, u, organizationID, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func newTestRequest(user *models.User, header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	if header != "" {
		req.Header.Set(TenantHeader, header)
	}
	if user != nil {
		req = req.WithContext(tenancy.WithPrincipal(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestResolveTenantExplicitDenied(t *testing.T) {
	// A request naming tenant Z without a membership is rejected with 403
	// even when the user has access to other tenants.
	access := new(mockAccessResolver)
	tenants := new(mockTenantGetter)
	mw := NewTenantMiddleware(access, tenants)
	user := &models.User{ID: uuid.New()}
	deniedTenant := uuid.New()

	access.On("UserCanAccessTenant", mock.Anything, user, deniedTenant).Return(false, nil)

	c, _ := newTestRequest(user, deniedTenant.String())
	err := mw.ResolveTenant()(okHandler)(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.Equal(t, "Tenant not found or access denied.", httpErr.Message)
}

func TestResolveTenantMalformedHeaderDenied(t *testing.T) {
	mw := NewTenantMiddleware(new(mockAccessResolver), new(mockTenantGetter))
	c, _ := newTestRequest(&models.User{ID: uuid.New()}, "not-a-uuid")

	err := mw.ResolveTenant()(okHandler)(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.Equal(t, "Tenant not found or access denied.", httpErr.Message)
}

func TestResolveTenantExplicitAllowed(t *testing.T) {
	access := new(mockAccessResolver)
	tenants := new(mockTenantGetter)
	mw := NewTenantMiddleware(access, tenants)
	user := &models.User{ID: uuid.New()}
	tenant := &models.Tenant{ID: uuid.New(), OrganizationID: uuid.New(), IsActive: true}

	access.On("UserCanAccessTenant", mock.Anything, user, tenant.ID).Return(true, nil)
	tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)

	c, rec := newTestRequest(user, tenant.ID.String())
	handler := mw.ResolveTenant()(func(c echo.Context) error {
		resolved, ok := tenancy.CurrentTenant(c.Request().Context())
		require.True(t, ok)
		assert.Equal(t, tenant.ID, resolved.ID)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolveTenantFallsBackToDefault(t *testing.T) {
	access := new(mockAccessResolver)
	tenants := new(mockTenantGetter)
	mw := NewTenantMiddleware(access, tenants)
	user := &models.User{ID: uuid.New()}
	tenant := &models.Tenant{ID: uuid.New(), IsActive: true}

	access.On("ResolveDefaultTenant", mock.Anything, user).Return(tenant.ID, true, nil)
	tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)

	c, rec := newTestRequest(user, "")
	handler := mw.ResolveTenant()(func(c echo.Context) error {
		assert.Equal(t, tenant.ID, tenancy.CurrentTenantID(c.Request().Context()))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolveTenantNoDefaultPassesThrough(t *testing.T) {
	access := new(mockAccessResolver)
	mw := NewTenantMiddleware(access, new(mockTenantGetter))
	user := &models.User{ID: uuid.New()}

	access.On("ResolveDefaultTenant", mock.Anything, user).Return(uuid.Nil, false, nil)

	c, rec := newTestRequest(user, "")
	handler := mw.ResolveTenant()(func(c echo.Context) error {
		_, ok := tenancy.CurrentTenant(c.Request().Context())
		assert.False(t, ok)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolveTenantUnauthenticatedPassesThrough(t *testing.T) {
	mw := NewTenantMiddleware(new(mockAccessResolver), new(mockTenantGetter))
	c, rec := newTestRequest(nil, "")

	require.NoError(t, mw.ResolveTenant()(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireTenantRejectsEmptyContext(t *testing.T) {
	mw := NewTenantMiddleware(new(mockAccessResolver), new(mockTenantGetter))
	c, _ := newTestRequest(&models.User{ID: uuid.New()}, "")

	err := mw.RequireTenant()(okHandler)(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, "No tenant selected. Send X-Tenant-Id header.", httpErr.Message)
}

func TestRequireTenantPassesWithTenant(t *testing.T) {
	mw := NewTenantMiddleware(new(mockAccessResolver), new(mockTenantGetter))
	c, rec := newTestRequest(&models.User{ID: uuid.New()}, "")
	ctx := tenancy.WithTenant(c.Request().Context(), &models.Tenant{ID: uuid.New()})
	c.SetRequest(c.Request().WithContext(ctx))

	require.NoError(t, mw.RequireTenant()(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolveTenantDefaultPointsAtDeletedTenant(t *testing.T) {
	access := new(mockAccessResolver)
	tenants := new(mockTenantGetter)
	mw := NewTenantMiddleware(access, tenants)
	user := &models.User{ID: uuid.New()}
	staleID := uuid.New()

	access.On("ResolveDefaultTenant", mock.Anything, user).Return(staleID, true, nil)
	tenants.On("GetByID", mock.Anything, staleID).Return(nil, pgx.ErrNoRows)

	c, rec := newTestRequest(user, "")
	handler := mw.ResolveTenant()(func(c echo.Context) error {
		_, ok := tenancy.CurrentTenant(c.Request().Context())
		assert.False(t, ok)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
