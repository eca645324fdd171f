package middleware

import (
	"net/http"

	"orgadmin/internal/tenancy"

	"github.com/labstack/echo/v4"
)

type RBACMiddleware struct {
	roles tenancy.RoleResolver
}

func NewRBACMiddleware(roles tenancy.RoleResolver) *RBACMiddleware {
	return &RBACMiddleware{roles: roles}
}

// RequirePermission gates a route on the user's role in the current tenant.
// Super admins pass unconditionally.
func (m *RBACMiddleware) RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			user, ok := tenancy.CurrentPrincipal(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if user.IsSuperAdmin {
				return next(c)
			}
			tenant, ok := tenancy.CurrentTenant(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusBadRequest, tenancy.ErrTenantRequired.Error())
			}

			hasPermission, err := m.roles.HasPermission(ctx, user, tenant.ID, permission)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Error checking permission")
			}
			if !hasPermission {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
