package services_test

import (
	"context"
	"testing"

	"github.com/complianceos/cos_backend/internal/apperrors"
	"github.com/complianceos/cos_backend/internal/core/domain"
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/core/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TenantRepository ---
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) SetModuleFlag(ctx context.Context, flag domain.ModuleFlag) error {
	args := m.Called(ctx, flag)
	return args.Error(0)
}

func (m *MockTenantRepository) ListModuleFlags(ctx context.Context, tenantID string) ([]domain.ModuleFlag, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModuleFlag), args.Error(1)
}

func (m *MockTenantRepository) IsModuleEnabled(ctx context.Context, tenantID string, module domain.ModuleName) (bool, error) {
	args := m.Called(ctx, tenantID, module)
	return args.Bool(0), args.Error(1)
}

func (m *MockTenantRepository) AddMembership(ctx context.Context, membership domain.TenantMembership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockTenantRepository) FindMembership(ctx context.Context, userID, tenantID string) (*domain.TenantMembership, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TenantMembership), args.Error(1)
}

// --- Mock UserReader ---
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserReader) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Suite ---
type TenantServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockTenantRepository
	mockUserRepo *MockUserReader
	service      portssvc.TenantSvcFacade
	tenantID     string
	userID       string
}

func (suite *TenantServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockTenantRepository)
	suite.mockUserRepo = new(MockUserReader)
	suite.service = services.NewTenantService(suite.mockRepo, suite.mockUserRepo)
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *TenantServiceTestSuite) TestCreateTenant_BootstrapsAdminAndGovernance() {
	ctx := context.Background()
	req := dto.CreateTenantRequest{Name: "Acme Corp"}

	suite.mockRepo.On("SaveTenant", ctx, mock.MatchedBy(func(t domain.Tenant) bool {
		return t.Name == "Acme Corp" && t.IsActive
	})).Return(nil).Once()
	suite.mockRepo.On("AddMembership", ctx, mock.MatchedBy(func(ms domain.TenantMembership) bool {
		return ms.UserID == suite.userID && ms.Role == domain.TenantRoleAdmin
	})).Return(nil).Once()
	suite.mockRepo.On("SetModuleFlag", ctx, mock.MatchedBy(func(f domain.ModuleFlag) bool {
		return f.Module == domain.ModuleGovernance && f.Enabled
	})).Return(nil).Once()

	tenant, err := suite.service.CreateTenant(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(tenant.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *TenantServiceTestSuite) TestAuthorizeUserAction_NonMemberIsForbidden() {
	ctx := context.Background()

	suite.mockRepo.On("FindMembership", ctx, suite.userID, suite.tenantID).
		Return(nil, apperrors.NewNotFoundError("membership not found")).Once()

	err := suite.service.AuthorizeUserAction(ctx, suite.userID, suite.tenantID, domain.TenantRoleViewer)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TenantServiceTestSuite) TestAuthorizeUserAction_RoleRanking() {
	ctx := context.Background()
	membership := &domain.TenantMembership{
		UserID:   suite.userID,
		TenantID: suite.tenantID,
		Role:     domain.TenantRoleOperator,
	}

	suite.mockRepo.On("FindMembership", ctx, suite.userID, suite.tenantID).Return(membership, nil)

	// An operator may act as operator or viewer, but not as admin.
	suite.NoError(suite.service.AuthorizeUserAction(ctx, suite.userID, suite.tenantID, domain.TenantRoleOperator))
	suite.NoError(suite.service.AuthorizeUserAction(ctx, suite.userID, suite.tenantID, domain.TenantRoleViewer))

	err := suite.service.AuthorizeUserAction(ctx, suite.userID, suite.tenantID, domain.TenantRoleAdmin)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TenantServiceTestSuite) TestEnsureModuleEnabled_DisabledModule() {
	ctx := context.Background()

	suite.mockRepo.On("IsModuleEnabled", ctx, suite.tenantID, domain.ModuleBCP).Return(false, nil).Once()

	err := suite.service.EnsureModuleEnabled(ctx, suite.tenantID, domain.ModuleBCP)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TenantServiceTestSuite) TestEnsureModuleEnabled_EnabledModule() {
	ctx := context.Background()

	suite.mockRepo.On("IsModuleEnabled", ctx, suite.tenantID, domain.ModuleAudit).Return(true, nil).Once()

	suite.NoError(suite.service.EnsureModuleEnabled(ctx, suite.tenantID, domain.ModuleAudit))
}

func (suite *TenantServiceTestSuite) TestSetModuleFlag_RequiresAdmin() {
	ctx := context.Background()
	membership := &domain.TenantMembership{
		UserID:   suite.userID,
		TenantID: suite.tenantID,
		Role:     domain.TenantRoleOperator,
	}
	enabled := true
	req := dto.SetModuleFlagRequest{Module: domain.ModuleTPRM, Enabled: &enabled}

	suite.mockRepo.On("FindMembership", ctx, suite.userID, suite.tenantID).Return(membership, nil).Once()

	flag, err := suite.service.SetModuleFlag(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(flag)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SetModuleFlag", mock.Anything, mock.Anything)
}

func (suite *TenantServiceTestSuite) TestAddMember_UnknownUserRejected() {
	ctx := context.Background()
	targetID := uuid.NewString()
	membership := &domain.TenantMembership{
		UserID:   suite.userID,
		TenantID: suite.tenantID,
		Role:     domain.TenantRoleAdmin,
	}
	req := dto.AddMemberRequest{UserID: targetID, Role: domain.TenantRoleViewer}

	suite.mockRepo.On("FindMembership", ctx, suite.userID, suite.tenantID).Return(membership, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, targetID).
		Return(nil, apperrors.NewNotFoundError("user not found")).Once()

	err := suite.service.AddMember(ctx, suite.tenantID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "AddMembership", mock.Anything, mock.Anything)
}

func TestTenantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TenantServiceTestSuite))
}
