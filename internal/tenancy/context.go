package tenancy

import (
	"context"

	"orgadmin/internal/models"

	"github.com/google/uuid"
)

type ctxKey int

const (
	tenantKey ctxKey = iota
	principalKey
)

// WithTenant returns a context carrying the resolved tenant. The resolution
// middleware calls it once per request; nothing downstream mutates it.
func WithTenant(ctx context.Context, tenant *models.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

// CurrentTenant returns the resolved tenant for this request, or (nil, false)
// when no tenant is resolved.
func CurrentTenant(ctx context.Context) (*models.Tenant, bool) {
	tenant, ok := ctx.Value(tenantKey).(*models.Tenant)
	if !ok || tenant == nil {
		return nil, false
	}
	return tenant, true
}

// CurrentTenantID returns the resolved tenant id, or uuid.Nil when none.
func CurrentTenantID(ctx context.Context) uuid.UUID {
	tenant, ok := CurrentTenant(ctx)
	if !ok {
		return uuid.Nil
	}
	return tenant.ID
}

// WithPrincipal returns a context carrying the authenticated user.
func WithPrincipal(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

// CurrentPrincipal returns the authenticated user, or (nil, false) on
// unauthenticated routes.
func CurrentPrincipal(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(principalKey).(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
