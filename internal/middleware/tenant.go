package middleware

import (
	"net/http"

	"orgadmin/internal/repositories"
	"orgadmin/internal/tenancy"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TenantHeader is the only channel a client may name a tenant through.
// Tenant ids in request bodies or query strings are never honored.
const TenantHeader = "X-Tenant-Id"

type TenantMiddleware struct {
	access  tenancy.AccessResolver
	tenants repositories.TenantRepository
}

func NewTenantMiddleware(access tenancy.AccessResolver, tenants repositories.TenantRepository) *TenantMiddleware {
	return &TenantMiddleware{access: access, tenants: tenants}
}

// ResolveTenant resolves the request's tenant once and stores it in the
// context. An explicit header must pass the membership check and is rejected
// with 403 otherwise; an absent header falls back to the user's default
// membership, which may leave the context without a tenant.
func (m *TenantMiddleware) ResolveTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			user, ok := tenancy.CurrentPrincipal(ctx)
			if !ok {
				return next(c)
			}

			header := c.Request().Header.Get(TenantHeader)
			if header != "" {
				tenantID, err := uuid.Parse(header)
				if err != nil {
					return echo.NewHTTPError(http.StatusForbidden, tenancy.ErrTenantAccessDenied.Error())
				}
				allowed, err := m.access.UserCanAccessTenant(ctx, user, tenantID)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "Error resolving tenant")
				}
				if !allowed {
					return echo.NewHTTPError(http.StatusForbidden, tenancy.ErrTenantAccessDenied.Error())
				}
				tenant, err := m.tenants.GetByID(ctx, tenantID)
				if err != nil {
					return echo.NewHTTPError(http.StatusForbidden, tenancy.ErrTenantAccessDenied.Error())
				}
				c.SetRequest(c.Request().WithContext(tenancy.WithTenant(ctx, tenant)))
				return next(c)
			}

			tenantID, found, err := m.access.ResolveDefaultTenant(ctx, user)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Error resolving tenant")
			}
			if !found {
				return next(c)
			}
			tenant, err := m.tenants.GetByID(ctx, tenantID)
			if err != nil {
				// Default membership points at a deleted tenant; treat as
				// no tenant resolved.
				return next(c)
			}
			c.SetRequest(c.Request().WithContext(tenancy.WithTenant(ctx, tenant)))
			return next(c)
		}
	}
}

// RequireTenant guards route tiers that cannot operate without a resolved
// tenant.
func (m *TenantMiddleware) RequireTenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := tenancy.CurrentTenant(c.Request().Context()); !ok {
				return echo.NewHTTPError(http.StatusBadRequest, tenancy.ErrTenantRequired.Error())
			}
			return next(c)
		}
	}
}
