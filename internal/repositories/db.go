package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories use. pgxmock satisfies
// it as well, which is what the repository tests run against.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrgFilter restricts a read of organization-scoped rows. A zero OrgFilter
// matches nothing: reads fail closed unless the scope engine granted ids or
// set All for a super admin.
type OrgFilter struct {
	All bool
	IDs []uuid.UUID
}

// TenantFilter restricts a read of tenant-scoped rows to an explicit tenant
// id set. Empty means zero rows, never "all rows".
type TenantFilter struct {
	IDs []uuid.UUID
}

// Unscoped marks a deliberately scope-free read. Only the consolidation path
// and slug uniqueness probing use it; every call site states its reason.
type Unscoped struct {
	Reason string
}
