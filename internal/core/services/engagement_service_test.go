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

// --- Mock EngagementRepository ---
type MockEngagementRepository struct {
	mock.Mock
}

func (m *MockEngagementRepository) FindEngagementByID(ctx context.Context, tenantID, engagementID string) (*domain.Engagement, error) {
	args := m.Called(ctx, tenantID, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Engagement), args.Error(1)
}

func (m *MockEngagementRepository) ListEngagements(ctx context.Context, tenantID string) ([]domain.Engagement, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Engagement), args.Error(1)
}

func (m *MockEngagementRepository) SaveEngagement(ctx context.Context, engagement domain.Engagement) error {
	args := m.Called(ctx, engagement)
	return args.Error(0)
}

func (m *MockEngagementRepository) UpdateEngagement(ctx context.Context, engagement domain.Engagement) error {
	args := m.Called(ctx, engagement)
	return args.Error(0)
}

// --- Test Suite ---
type EngagementServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockEngagementRepository
	mockTenantSvc  *MockTenantService
	mockAggregator *MockAggregator
	service        portssvc.EngagementSvcFacade
	tenantID       string
	userID         string
}

func (suite *EngagementServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockEngagementRepository)
	suite.mockTenantSvc = new(MockTenantService)
	suite.mockAggregator = new(MockAggregator)
	suite.service = services.NewEngagementService(suite.mockRepo, suite.mockTenantSvc, suite.mockAggregator)
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *EngagementServiceTestSuite) TestCreateEngagement_StartsPlanned() {
	ctx := context.Background()
	framework := "SOC2"
	req := dto.CreateEngagementRequest{Name: "SOC 2 Type II", Framework: &framework}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.TenantRoleOperator).Return(nil).Once()
	suite.mockRepo.On("SaveEngagement", ctx, mock.MatchedBy(func(e domain.Engagement) bool {
		return e.TenantID == suite.tenantID &&
			e.Stage == domain.StagePlanned &&
			e.Progress == 0 &&
			e.Framework != nil && *e.Framework == "SOC2"
	})).Return(nil).Once()
	suite.mockAggregator.On("InvalidateTenant", ctx, suite.tenantID).Return().Once()

	engagement, err := suite.service.CreateEngagement(ctx, suite.tenantID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StagePlanned, engagement.Stage)
	suite.Zero(engagement.Progress)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *EngagementServiceTestSuite) TestUpdateEngagement_AdvanceStage() {
	ctx := context.Background()
	engagementID := uuid.NewString()
	existing := &domain.Engagement{
		EngagementID: engagementID,
		TenantID:     suite.tenantID,
		Stage:        domain.StagePlanned,
		Progress:     10,
	}
	stage := domain.StageGapAnalysis

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.TenantRoleOperator).Return(nil).Once()
	suite.mockRepo.On("FindEngagementByID", ctx, suite.tenantID, engagementID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateEngagement", ctx, mock.MatchedBy(func(e domain.Engagement) bool {
		return e.Stage == domain.StageGapAnalysis && e.Progress == 10
	})).Return(nil).Once()
	suite.mockAggregator.On("InvalidateTenant", ctx, suite.tenantID).Return().Once()

	engagement, err := suite.service.UpdateEngagement(ctx, suite.tenantID, engagementID,
		dto.UpdateEngagementRequest{Stage: &stage}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StageGapAnalysis, engagement.Stage)
}

func (suite *EngagementServiceTestSuite) TestUpdateEngagement_BackwardStageRejected() {
	ctx := context.Background()
	engagementID := uuid.NewString()
	existing := &domain.Engagement{
		EngagementID: engagementID,
		TenantID:     suite.tenantID,
		Stage:        domain.StageRemediation,
	}
	stage := domain.StagePlanned

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.TenantRoleOperator).Return(nil).Once()
	suite.mockRepo.On("FindEngagementByID", ctx, suite.tenantID, engagementID).Return(existing, nil).Once()

	engagement, err := suite.service.UpdateEngagement(ctx, suite.tenantID, engagementID,
		dto.UpdateEngagementRequest{Stage: &stage}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(engagement)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateEngagement", mock.Anything, mock.Anything)
}

func (suite *EngagementServiceTestSuite) TestUpdateEngagement_ProgressOutOfRange() {
	ctx := context.Background()
	engagementID := uuid.NewString()
	existing := &domain.Engagement{
		EngagementID: engagementID,
		TenantID:     suite.tenantID,
		Stage:        domain.StageAuditActive,
		Progress:     80,
	}
	progress := 120

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.TenantRoleOperator).Return(nil).Once()
	suite.mockRepo.On("FindEngagementByID", ctx, suite.tenantID, engagementID).Return(existing, nil).Once()

	engagement, err := suite.service.UpdateEngagement(ctx, suite.tenantID, engagementID,
		dto.UpdateEngagementRequest{Progress: &progress}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(engagement)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EngagementServiceTestSuite) TestUpdateEngagement_NothingToUpdate() {
	ctx := context.Background()
	engagementID := uuid.NewString()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.TenantRoleOperator).Return(nil).Once()

	engagement, err := suite.service.UpdateEngagement(ctx, suite.tenantID, engagementID,
		dto.UpdateEngagementRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(engagement)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindEngagementByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngagementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EngagementServiceTestSuite))
}
