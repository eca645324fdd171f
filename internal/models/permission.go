package models

// Permission catalog. Roles store these as plain strings; admin roles imply
// all of them.
const (
	PermProjectView   = "project.view"
	PermProjectCreate = "project.create"
	PermProjectUpdate = "project.update"
	PermProjectDelete = "project.delete"

	PermUserView   = "user.view"
	PermUserCreate = "user.create"
	PermUserUpdate = "user.update"
	PermUserDelete = "user.delete"

	// Tenant administration inside an organization.
	PermTenantManage = "tenant.manage"
)

// AllPermissions lists every known permission, in catalog order.
func AllPermissions() []string {
	return []string{
		PermProjectView, PermProjectCreate, PermProjectUpdate, PermProjectDelete,
		PermUserView, PermUserCreate, PermUserUpdate, PermUserDelete,
		PermTenantManage,
	}
}
