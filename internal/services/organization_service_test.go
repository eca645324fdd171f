package services

import (
	"context"
	"testing"

	"orgadmin/internal/models"
	"orgadmin/internal/repositories"
	"orgadmin/internal/tenancy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrganizationServiceSuite struct {
	suite.Suite
	orgRepo     *mockOrgRepo
	memberships *mockMembershipRepo
	access      *stubAccess
	service     OrganizationService
	ctx         context.Context
	user        *models.User
}

func (s *OrganizationServiceSuite) SetupTest() {
	s.orgRepo = new(mockOrgRepo)
	s.memberships = new(mockMembershipRepo)
	s.access = &stubAccess{}
	scope := tenancy.NewScopeEngine(s.access)
	s.service = NewOrganizationService(s.orgRepo, s.memberships, scope, tenancy.NewSlugAllocator(), nil)
	s.ctx = context.Background()
	s.user = &models.User{ID: uuid.New(), Name: "Alice"}
}

// Provisioning creates the organization, its admin role, the default
// "Matriz" tenant, and the creator's membership in one unit of work.
func (s *OrganizationServiceSuite) TestCreateProvisionsDefaults() {
	s.orgRepo.On("SlugExists", s.ctx, mock.Anything, "acme", uuid.Nil).Return(false, nil)
	s.orgRepo.On("Provision", s.ctx,
		mock.MatchedBy(func(org *models.Organization) bool {
			return org.Name == "Acme" && org.Slug == "acme" && org.IsActive
		}),
		mock.MatchedBy(func(role *models.Role) bool {
			return role.Slug == "admin" && role.IsAdmin
		}),
		mock.MatchedBy(func(tenant *models.Tenant) bool {
			return tenant.Name == "Matriz" && tenant.Slug == "matriz" && tenant.IsActive
		}),
		s.user.ID,
	).Return(nil)

	org, err := s.service.Create(s.ctx, s.user, &CreateOrganizationRequest{Name: "Acme"})
	s.Require().NoError(err)
	s.Equal("acme", org.Slug)
	s.orgRepo.AssertExpectations(s.T())
}

func (s *OrganizationServiceSuite) TestCreateAllocatesNextSlug() {
	s.orgRepo.On("SlugExists", s.ctx, mock.Anything, "acme", uuid.Nil).Return(true, nil)
	s.orgRepo.On("SlugExists", s.ctx, mock.Anything, "acme-1", uuid.Nil).Return(false, nil)
	s.orgRepo.On("Provision", s.ctx, mock.Anything, mock.Anything, mock.Anything, s.user.ID).Return(nil)

	org, err := s.service.Create(s.ctx, s.user, &CreateOrganizationRequest{Name: "Acme"})
	s.Require().NoError(err)
	s.Equal("acme-1", org.Slug)
}

func (s *OrganizationServiceSuite) TestListScopedToMemberships() {
	orgID := uuid.New()
	s.access.orgIDs = []uuid.UUID{orgID}
	expected := []*models.Organization{{ID: orgID, Name: "Acme"}}
	s.orgRepo.On("List", s.ctx, repositories.OrgFilter{IDs: []uuid.UUID{orgID}}, 20, 0).Return(expected, nil)

	orgs, err := s.service.List(s.ctx, s.user, 20, 0)
	s.Require().NoError(err)
	s.Equal(expected, orgs)
}

// A user with no memberships sees no organizations at all.
func (s *OrganizationServiceSuite) TestListEmptyForMemberlessUser() {
	s.orgRepo.On("List", s.ctx, repositories.OrgFilter{}, 20, 0).Return([]*models.Organization{}, nil)

	orgs, err := s.service.List(s.ctx, s.user, 20, 0)
	s.Require().NoError(err)
	s.Empty(orgs)
}

func (s *OrganizationServiceSuite) TestListSuperAdminUnfiltered() {
	s.user.IsSuperAdmin = true
	s.orgRepo.On("List", s.ctx, repositories.OrgFilter{All: true}, 20, 0).Return([]*models.Organization{}, nil)

	_, err := s.service.List(s.ctx, s.user, 20, 0)
	s.Require().NoError(err)
	s.orgRepo.AssertExpectations(s.T())
}

func (s *OrganizationServiceSuite) TestGetByIDOutsideScope() {
	s.access.orgIDs = []uuid.UUID{uuid.New()}

	_, err := s.service.GetByID(s.ctx, s.user, uuid.New())
	s.ErrorIs(err, tenancy.ErrNotFound)
}

func (s *OrganizationServiceSuite) TestDeleteGuardedByTenants() {
	orgID := uuid.New()
	s.access.orgIDs = []uuid.UUID{orgID}
	s.orgRepo.On("GetByID", s.ctx, orgID).Return(&models.Organization{ID: orgID}, nil)
	s.orgRepo.On("HasTenants", s.ctx, orgID).Return(true, nil)

	err := s.service.Delete(s.ctx, s.user, orgID)
	s.ErrorIs(err, tenancy.ErrDependentsExist)
	s.orgRepo.AssertNotCalled(s.T(), "SoftDelete", s.ctx, orgID)
}

func (s *OrganizationServiceSuite) TestDeleteGuardedByMembers() {
	orgID := uuid.New()
	s.access.orgIDs = []uuid.UUID{orgID}
	s.orgRepo.On("GetByID", s.ctx, orgID).Return(&models.Organization{ID: orgID}, nil)
	s.orgRepo.On("HasTenants", s.ctx, orgID).Return(false, nil)
	s.memberships.On("OrganizationHasMembers", s.ctx, orgID).Return(true, nil)

	err := s.service.Delete(s.ctx, s.user, orgID)
	s.ErrorIs(err, tenancy.ErrDependentsExist)
	s.orgRepo.AssertNotCalled(s.T(), "SoftDelete", s.ctx, orgID)
}

func (s *OrganizationServiceSuite) TestDeleteWhenEmpty() {
	orgID := uuid.New()
	s.access.orgIDs = []uuid.UUID{orgID}
	s.orgRepo.On("GetByID", s.ctx, orgID).Return(&models.Organization{ID: orgID}, nil)
	s.orgRepo.On("HasTenants", s.ctx, orgID).Return(false, nil)
	s.memberships.On("OrganizationHasMembers", s.ctx, orgID).Return(false, nil)
	s.orgRepo.On("SoftDelete", s.ctx, orgID).Return(nil)

	s.Require().NoError(s.service.Delete(s.ctx, s.user, orgID))
	s.orgRepo.AssertExpectations(s.T())
}

func TestOrganizationServiceSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceSuite))
}
