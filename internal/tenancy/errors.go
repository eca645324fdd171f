package tenancy

import "errors"

var (
	// ErrTenantRequired is returned when a route tier mandates a resolved
	// tenant and the request carries none.
	ErrTenantRequired = errors.New("No tenant selected. Send X-Tenant-Id header.")

	// ErrTenantAccessDenied is returned when an explicit tenant id was
	// supplied but the tenant is missing, inactive, or the principal holds
	// no membership to it. It takes precedence over ErrTenantRequired.
	ErrTenantAccessDenied = errors.New("Tenant not found or access denied.")

	// ErrSlugConflict is a uniqueness violation within the slug's scope
	// that survived the allocator's retry.
	ErrSlugConflict = errors.New("slug already in use")

	ErrMembershipExists   = errors.New("user is already attached to this tenant")
	ErrMembershipNotFound = errors.New("user is not attached to this tenant")

	// ErrDependentsExist guards destroy operations: the target still has
	// tenants or users attached.
	ErrDependentsExist = errors.New("record has dependent records attached")

	ErrNotFound = errors.New("record not found")
)
