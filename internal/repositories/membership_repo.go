package repositories

import (
	"context"

	"orgadmin/internal/models"

	"github.com/google/uuid"
)

type MembershipRepository interface {
	Create(ctx context.Context, m *models.Membership) error
	GetByUserAndTenant(ctx context.Context, userID, tenantID uuid.UUID) (*models.Membership, error)
	GetDefaultByUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error)
	Update(ctx context.Context, m *models.Membership) error
	SetDefault(ctx context.Context, userID, tenantID uuid.UUID) error
	Delete(ctx context.Context, userID, tenantID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	AllowedTenantIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	AllowedOrganizationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	UserCanAccessTenant(ctx context.Context, userID, tenantID uuid.UUID) (bool, error)
	TenantHasMembers(ctx context.Context, tenantID uuid.UUID) (bool, error)
	OrganizationHasMembers(ctx context.Context, organizationID uuid.UUID) (bool, error)
}

type membershipRepo struct {
	db DB
}

func NewMembershipRepo(db DB) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) Create(ctx context.Context, m *models.Membership) error {
	query := `
		INSERT INTO memberships (id, tenant_id, user_id, role_id, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, m.ID, m.TenantID, m.UserID, m.RoleID, m.IsDefault)
	return err
}

func (r *membershipRepo) GetByUserAndTenant(ctx context.Context, userID, tenantID uuid.UUID) (*models.Membership, error) {
	m := &models.Membership{}
	query := `
		SELECT id, tenant_id, user_id, role_id, is_default, created_at, updated_at
		FROM memberships
		WHERE user_id = $1 AND tenant_id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, tenantID).Scan(&m.ID, &m.TenantID, &m.UserID, &m.RoleID, &m.IsDefault, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *membershipRepo) GetDefaultByUser(ctx context.Context, userID uuid.UUID) (*models.Membership, error) {
	m := &models.Membership{}
	query := `
		SELECT id, tenant_id, user_id, role_id, is_default, created_at, updated_at
		FROM memberships
		WHERE user_id = $1 AND is_default = true
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&m.ID, &m.TenantID, &m.UserID, &m.RoleID, &m.IsDefault, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *membershipRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT id, tenant_id, user_id, role_id, is_default, created_at, updated_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		if err := rows.Scan(&m.ID, &m.TenantID, &m.UserID, &m.RoleID, &m.IsDefault, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *membershipRepo) Update(ctx context.Context, m *models.Membership) error {
	query := `
		UPDATE memberships
		SET role_id = $1, is_default = $2, updated_at = NOW()
		WHERE user_id = $3 AND tenant_id = $4
	`
	_, err := r.db.Exec(ctx, query, m.RoleID, m.IsDefault, m.UserID, m.TenantID)
	return err
}

// SetDefault flips the default flag to the (user, tenant) membership. The
// clear and the set run in one transaction so concurrent flips cannot leave
// two memberships marked default.
func (r *membershipRepo) SetDefault(ctx context.Context, userID, tenantID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE memberships SET is_default = false, updated_at = NOW()
		WHERE user_id = $1 AND tenant_id != $2 AND is_default = true
	`, userID, tenantID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE memberships SET is_default = true, updated_at = NOW()
		WHERE user_id = $1 AND tenant_id = $2
	`, userID, tenantID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *membershipRepo) Delete(ctx context.Context, userID, tenantID uuid.UUID) error {
	query := `DELETE FROM memberships WHERE user_id = $1 AND tenant_id = $2`
	_, err := r.db.Exec(ctx, query, userID, tenantID)
	return err
}

func (r *membershipRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM memberships WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

// AllowedTenantIDs returns the ids of active tenants the user is a member
// of, in membership creation order.
func (r *membershipRepo) AllowedTenantIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT t.id
		FROM memberships m
		JOIN tenants t ON t.id = m.tenant_id
		WHERE m.user_id = $1 AND t.is_active = true AND t.deleted_at IS NULL
		ORDER BY m.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *membershipRepo) AllowedOrganizationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT t.organization_id
		FROM memberships m
		JOIN tenants t ON t.id = m.tenant_id
		WHERE m.user_id = $1 AND t.deleted_at IS NULL
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UserCanAccessTenant is true iff a membership binds the user to the tenant
// and the tenant is active.
func (r *membershipRepo) UserCanAccessTenant(ctx context.Context, userID, tenantID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM memberships m
			JOIN tenants t ON t.id = m.tenant_id
			WHERE m.user_id = $1 AND m.tenant_id = $2 AND t.is_active = true AND t.deleted_at IS NULL
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, tenantID).Scan(&exists)
	return exists, err
}

func (r *membershipRepo) TenantHasMembers(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM memberships WHERE tenant_id = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&exists)
	return exists, err
}

func (r *membershipRepo) OrganizationHasMembers(ctx context.Context, organizationID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM memberships m
			JOIN tenants t ON t.id = m.tenant_id
			WHERE t.organization_id = $1
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, organizationID).Scan(&exists)
	return exists, err
}
