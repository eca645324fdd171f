package services

import (
	"context"
	"errors"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"
	"orgadmin/internal/tenancy"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

type AttachMembershipRequest struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	RoleID    uuid.UUID `json:"role_id"`
	IsDefault bool      `json:"is_default"`
}

type UpdateMembershipRequest struct {
	RoleID    *uuid.UUID `json:"role_id"`
	IsDefault *bool      `json:"is_default"`
}

type MembershipService interface {
	Attach(ctx context.Context, userID uuid.UUID, req *AttachMembershipRequest) (*models.Membership, error)
	Update(ctx context.Context, userID, tenantID uuid.UUID, req *UpdateMembershipRequest) (*models.Membership, error)
	Detach(ctx context.Context, userID, tenantID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error)
}

type membershipService struct {
	memberships repositories.MembershipRepository
	cache       tenancy.AccessCache
}

func NewMembershipService(memberships repositories.MembershipRepository, cache tenancy.AccessCache) MembershipService {
	return &membershipService{memberships: memberships, cache: cache}
}

// Attach binds a user to a tenant with a role. At most one membership may
// exist per (user, tenant) pair.
func (s *membershipService) Attach(ctx context.Context, userID uuid.UUID, req *AttachMembershipRequest) (*models.Membership, error) {
	_, err := s.memberships.GetByUserAndTenant(ctx, userID, req.TenantID)
	if err == nil {
		return nil, tenancy.ErrMembershipExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	m := &models.Membership{
		ID:        uuid.New(),
		TenantID:  req.TenantID,
		UserID:    userID,
		RoleID:    req.RoleID,
		IsDefault: false,
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		return nil, err
	}
	if req.IsDefault {
		if err := s.memberships.SetDefault(ctx, userID, req.TenantID); err != nil {
			return nil, err
		}
		m.IsDefault = true
	}
	s.invalidate(ctx, userID)
	log.Info().Str("user_id", userID.String()).Str("tenant_id", req.TenantID.String()).Msg("membership attached")
	return m, nil
}

func (s *membershipService) Update(ctx context.Context, userID, tenantID uuid.UUID, req *UpdateMembershipRequest) (*models.Membership, error) {
	m, err := s.memberships.GetByUserAndTenant(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrMembershipNotFound
		}
		return nil, err
	}

	if req.RoleID != nil {
		m.RoleID = *req.RoleID
		if err := s.memberships.Update(ctx, m); err != nil {
			return nil, err
		}
	}
	if req.IsDefault != nil && *req.IsDefault && !m.IsDefault {
		// Clear-then-set runs in one transaction so the single-default
		// invariant survives concurrent flips.
		if err := s.memberships.SetDefault(ctx, userID, tenantID); err != nil {
			return nil, err
		}
		m.IsDefault = true
	}
	s.invalidate(ctx, userID)
	return m, nil
}

func (s *membershipService) Detach(ctx context.Context, userID, tenantID uuid.UUID) error {
	_, err := s.memberships.GetByUserAndTenant(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenancy.ErrMembershipNotFound
		}
		return err
	}
	if err := s.memberships.Delete(ctx, userID, tenantID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *membershipService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	return s.memberships.ListByUser(ctx, userID)
}

func (s *membershipService) invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateUser(ctx, userID)
	}
}
