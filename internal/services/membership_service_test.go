package services

import (
	"context"
	"testing"

	"orgadmin/internal/models"
	"orgadmin/internal/tenancy"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MembershipServiceSuite struct {
	suite.Suite
	memberships *mockMembershipRepo
	service     MembershipService
	ctx         context.Context
	userID      uuid.UUID
	tenantID    uuid.UUID
	roleID      uuid.UUID
}

func (s *MembershipServiceSuite) SetupTest() {
	s.memberships = new(mockMembershipRepo)
	s.service = NewMembershipService(s.memberships, nil)
	s.ctx = context.Background()
	s.userID = uuid.New()
	s.tenantID = uuid.New()
	s.roleID = uuid.New()
}

func (s *MembershipServiceSuite) TestAttach() {
	s.memberships.On("GetByUserAndTenant", s.ctx, s.userID, s.tenantID).Return(nil, pgx.ErrNoRows)
	s.memberships.On("Create", s.ctx, mock.MatchedBy(func(m *models.Membership) bool {
		return m.UserID == s.userID && m.TenantID == s.tenantID && m.RoleID == s.roleID && !m.IsDefault
	})).Return(nil)

	m, err := s.service.Attach(s.ctx, s.userID, &AttachMembershipRequest{TenantID: s.tenantID, RoleID: s.roleID})
	s.Require().NoError(err)
	s.False(m.IsDefault)
}

func (s *MembershipServiceSuite) TestAttachDuplicateRejected() {
	s.memberships.On("GetByUserAndTenant", s.ctx, s.userID, s.tenantID).
		Return(&models.Membership{UserID: s.userID, TenantID: s.tenantID}, nil)

	_, err := s.service.Attach(s.ctx, s.userID, &AttachMembershipRequest{TenantID: s.tenantID, RoleID: s.roleID})
	s.ErrorIs(err, tenancy.ErrMembershipExists)
	s.memberships.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

// Attaching as default routes the flip through SetDefault so the clear and
// the set share one transaction.
func (s *MembershipServiceSuite) TestAttachAsDefault() {
	s.memberships.On("GetByUserAndTenant", s.ctx, s.userID, s.tenantID).Return(nil, pgx.ErrNoRows)
	s.memberships.On("Create", s.ctx, mock.Anything).Return(nil)
	s.memberships.On("SetDefault", s.ctx, s.userID, s.tenantID).Return(nil)

	m, err := s.service.Attach(s.ctx, s.userID, &AttachMembershipRequest{TenantID: s.tenantID, RoleID: s.roleID, IsDefault: true})
	s.Require().NoError(err)
	s.True(m.IsDefault)
	s.memberships.AssertExpectations(s.T())
}

func (s *MembershipServiceSuite) TestUpdateFlipsDefaultAtomically() {
	existing := &models.Membership{UserID: s.userID, TenantID: s.tenantID, RoleID: s.roleID}
	s.memberships.On("GetByUserAndTenant", s.ctx, s.userID, s.tenantID).Return(existing, nil)
	s.memberships.On("SetDefault", s.ctx, s.userID, s.tenantID).Return(nil)

	flag := true
	m, err := s.service.Update(s.ctx, s.userID, s.tenantID, &UpdateMembershipRequest{IsDefault: &flag})
	s.Require().NoError(err)
	s.True(m.IsDefault)
	s.memberships.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
}

func (s *MembershipServiceSuite) TestUpdateRole() {
	existing := &models.Membership{UserID: s.userID, TenantID: s.tenantID, RoleID: s.roleID}
	newRole := uuid.New()
	s.memberships.On("GetByUserAndTenant", s.ctx, s.userID, s.tenantID).Return(existing, nil)
	s.memberships.On("Update", s.ctx, mock.MatchedBy(func(m *models.Membership) bool {
		return m.RoleID == newRole
	})).Return(nil)

	m, err := s.service.Update(s.ctx, s.userID, s.tenantID, &UpdateMembershipRequest{RoleID: &newRole})
	s.Require().NoError(err)
	s.Equal(newRole, m.RoleID)
}

func (s *MembershipServiceSuite) TestUpdateMissingMembership() {
	s.memberships.On("GetByUserAndTenant", s.ctx, s.userID, s.tenantID).Return(nil, pgx.ErrNoRows)

	flag := true
	_, err := s.service.Update(s.ctx, s.userID, s.tenantID, &UpdateMembershipRequest{IsDefault: &flag})
	s.ErrorIs(err, tenancy.ErrMembershipNotFound)
}

func (s *MembershipServiceSuite) TestDetach() {
	s.memberships.On("GetByUserAndTenant", s.ctx, s.userID, s.tenantID).
		Return(&models.Membership{UserID: s.userID, TenantID: s.tenantID}, nil)
	s.memberships.On("Delete", s.ctx, s.userID, s.tenantID).Return(nil)

	s.Require().NoError(s.service.Detach(s.ctx, s.userID, s.tenantID))
}

func (s *MembershipServiceSuite) TestDetachMissingMembership() {
	s.memberships.On("GetByUserAndTenant", s.ctx, s.userID, s.tenantID).Return(nil, pgx.ErrNoRows)

	err := s.service.Detach(s.ctx, s.userID, s.tenantID)
	s.ErrorIs(err, tenancy.ErrMembershipNotFound)
}

func TestMembershipServiceSuite(t *testing.T) {
	suite.Run(t, new(MembershipServiceSuite))
}
