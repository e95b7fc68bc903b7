package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/core/services"
	"github.com/complianceos/cos_backend/internal/platform/scoring"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock GapScorer ---
type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(criticality, exposure, effort int) decimal.Decimal {
	args := m.Called(criticality, exposure, effort)
	return args.Get(0).(decimal.Decimal)
}

// --- Test Suite ---
type AggregatorServiceTestSuite struct {
	suite.Suite
	mockWorkItems   *MockWorkItemRepository
	mockAssignments *MockAssignmentRepository
	mockEngagements *MockEngagementRepository
	mockGaps        *MockGapRepository
	mockScorer      *MockScorer
	service         portssvc.AggregatorSvcFacade
	tenantID        string
}

func (suite *AggregatorServiceTestSuite) SetupTest() {
	suite.mockWorkItems = new(MockWorkItemRepository)
	suite.mockAssignments = new(MockAssignmentRepository)
	suite.mockEngagements = new(MockEngagementRepository)
	suite.mockGaps = new(MockGapRepository)
	suite.mockScorer = new(MockScorer)
	suite.service = services.NewAggregatorService(
		suite.mockWorkItems, suite.mockAssignments, suite.mockEngagements,
		suite.mockGaps, suite.mockScorer, nil, nil)
	suite.tenantID = uuid.NewString()
}

func (suite *AggregatorServiceTestSuite) TestComputeStats_BucketsDueDates() {
	ctx := context.Background()
	horizon := 7 * 24 * time.Hour
	now := time.Now()
	overdue := now.Add(-48 * time.Hour)
	upcoming := now.Add(72 * time.Hour)
	farOut := now.Add(30 * 24 * time.Hour)

	suite.mockWorkItems.On("CountWorkItemsByStatus", ctx, suite.tenantID).Return(map[domain.WorkItemStatus]int64{
		domain.StatusPending:    3,
		domain.StatusInProgress: 2,
		domain.StatusEscalated:  1,
		domain.StatusCompleted:  4,
	}, nil).Once()
	suite.mockWorkItems.On("ListOpenWorkItems", ctx, suite.tenantID).Return([]domain.WorkItem{
		{Status: domain.StatusPending, DueDate: &overdue},
		{Status: domain.StatusInProgress, DueDate: &upcoming},
		{Status: domain.StatusPending, DueDate: &farOut},
		{Status: domain.StatusEscalated},
	}, nil).Once()

	stats, err := suite.service.ComputeStats(ctx, suite.tenantID, horizon)

	suite.Require().NoError(err)
	suite.Equal(int64(10), stats.Total)
	suite.Equal(int64(1), stats.Escalated)
	suite.Equal(int64(1), stats.Overdue)
	suite.Equal(int64(1), stats.Upcoming)
	suite.Equal(int64(3), stats.ByStatus[domain.StatusPending])
}

func (suite *AggregatorServiceTestSuite) TestComputeCoverage() {
	ctx := context.Background()

	suite.mockAssignments.On("CountGovernanceItems", ctx, suite.tenantID, domain.ItemKindControl).Return(int64(5), nil).Once()
	suite.mockAssignments.On("CountItemsWithOwningAssignment", ctx, suite.tenantID, domain.ItemKindControl).Return(int64(2), nil).Once()

	cov, err := suite.service.ComputeCoverage(ctx, suite.tenantID, domain.ItemKindControl)

	suite.Require().NoError(err)
	suite.Equal(int64(2), cov.AssignedCount)
	suite.Equal(int64(5), cov.TotalCount)
	suite.Equal("40", cov.Percent.String())
}

func (suite *AggregatorServiceTestSuite) TestComputeComplianceScore_MeanProgress() {
	ctx := context.Background()

	suite.mockEngagements.On("ListEngagements", ctx, suite.tenantID).Return([]domain.Engagement{
		{Progress: 50},
		{Progress: 75},
		{Progress: 100},
	}, nil).Once()

	score, err := suite.service.ComputeComplianceScore(ctx, suite.tenantID)

	suite.Require().NoError(err)
	suite.Equal("75", score.String())
}

func (suite *AggregatorServiceTestSuite) TestComputeComplianceScore_RoundsToTwoPlaces() {
	ctx := context.Background()

	suite.mockEngagements.On("ListEngagements", ctx, suite.tenantID).Return([]domain.Engagement{
		{Progress: 50},
		{Progress: 50},
		{Progress: 100},
	}, nil).Once()

	score, err := suite.service.ComputeComplianceScore(ctx, suite.tenantID)

	suite.Require().NoError(err)
	suite.Equal("66.67", score.String())
}

func (suite *AggregatorServiceTestSuite) TestComputeComplianceScore_NoEngagements() {
	ctx := context.Background()

	suite.mockEngagements.On("ListEngagements", ctx, suite.tenantID).Return([]domain.Engagement{}, nil).Once()

	score, err := suite.service.ComputeComplianceScore(ctx, suite.tenantID)

	suite.Require().NoError(err)
	suite.True(score.IsZero())
}

func (suite *AggregatorServiceTestSuite) TestPrioritize_RanksByScoreThenControlID() {
	ctx := context.Background()
	assessmentID := uuid.NewString()
	responses := []domain.GapResponse{
		{ControlID: "AC-2", Criticality: 2, Exposure: 2, Effort: 2},
		{ControlID: "CM-6", Criticality: 5, Exposure: 5, Effort: 1},
		{ControlID: "AC-1", Criticality: 2, Exposure: 2, Effort: 2},
	}

	suite.mockGaps.On("ListOpenGapResponses", ctx, suite.tenantID, assessmentID).Return(responses, nil).Once()
	suite.mockScorer.On("Score", 2, 2, 2).Return(decimal.NewFromFloat(1.4)).Twice()
	suite.mockScorer.On("Score", 5, 5, 1).Return(decimal.NewFromFloat(4.1)).Once()

	ranked, err := suite.service.Prioritize(ctx, suite.tenantID, assessmentID)

	suite.Require().NoError(err)
	suite.Require().Len(ranked, 3)
	suite.Equal("CM-6", ranked[0].Response.ControlID)
	// Equal scores fall back to control ID ascending.
	suite.Equal("AC-1", ranked[1].Response.ControlID)
	suite.Equal("AC-2", ranked[2].Response.ControlID)
}

func (suite *AggregatorServiceTestSuite) TestPrioritize_WithWeightedScorer() {
	ctx := context.Background()
	assessmentID := uuid.NewString()
	responses := []domain.GapResponse{
		{ControlID: "AC-2", Criticality: 1, Exposure: 1, Effort: 5},
		{ControlID: "CM-6", Criticality: 5, Exposure: 4, Effort: 2},
	}

	mockGaps := new(MockGapRepository)
	mockGaps.On("ListOpenGapResponses", ctx, suite.tenantID, assessmentID).Return(responses, nil).Once()
	svc := services.NewAggregatorService(
		suite.mockWorkItems, suite.mockAssignments, suite.mockEngagements,
		mockGaps, scoring.NewWeightedScorer(), nil, nil)

	ranked, err := svc.Prioritize(ctx, suite.tenantID, assessmentID)

	suite.Require().NoError(err)
	suite.Require().Len(ranked, 2)
	suite.Equal("CM-6", ranked[0].Response.ControlID)
	suite.True(ranked[0].Score.GreaterThan(ranked[1].Score))
}

func TestAggregatorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AggregatorServiceTestSuite))
}
