package services_test

import (
	"context"
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Shared mocks for the collaborators most services depend on.

// --- Mock TenantSvcFacade ---
type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) AuthorizeUserAction(ctx context.Context, userID, tenantID string, requiredRole domain.TenantRole) error {
	args := m.Called(ctx, userID, tenantID, requiredRole)
	return args.Error(0)
}

func (m *MockTenantService) EnsureModuleEnabled(ctx context.Context, tenantID string, module domain.ModuleName) error {
	args := m.Called(ctx, tenantID, module)
	return args.Error(0)
}

func (m *MockTenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantService) GetTenant(ctx context.Context, tenantID, userID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantService) ListUserTenants(ctx context.Context, userID string) ([]domain.Tenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantService) SetModuleFlag(ctx context.Context, tenantID string, req dto.SetModuleFlagRequest, actorUserID string) (*domain.ModuleFlag, error) {
	args := m.Called(ctx, tenantID, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModuleFlag), args.Error(1)
}

func (m *MockTenantService) ListModuleFlags(ctx context.Context, tenantID, userID string) ([]domain.ModuleFlag, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ModuleFlag), args.Error(1)
}

func (m *MockTenantService) AddMember(ctx context.Context, tenantID string, req dto.AddMemberRequest, actingUserID string) error {
	args := m.Called(ctx, tenantID, req, actingUserID)
	return args.Error(0)
}

// --- Mock AggregatorSvcFacade ---
type MockAggregator struct {
	mock.Mock
}

func (m *MockAggregator) ComputeStats(ctx context.Context, tenantID string, horizon time.Duration) (*domain.WorkItemStats, error) {
	args := m.Called(ctx, tenantID, horizon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkItemStats), args.Error(1)
}

func (m *MockAggregator) ComputeCoverage(ctx context.Context, tenantID string, kind domain.ItemKind) (*domain.Coverage, error) {
	args := m.Called(ctx, tenantID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coverage), args.Error(1)
}

func (m *MockAggregator) ComputeComplianceScore(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAggregator) Prioritize(ctx context.Context, tenantID, assessmentID string) ([]domain.RankedGapResponse, error) {
	args := m.Called(ctx, tenantID, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RankedGapResponse), args.Error(1)
}

func (m *MockAggregator) InvalidateTenant(ctx context.Context, tenantID string) {
	m.Called(ctx, tenantID)
}

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, event, recipient string, payload map[string]any) error {
	args := m.Called(ctx, event, recipient, payload)
	return args.Error(0)
}

// --- Mock external creators ---
type MockRiskCreator struct {
	mock.Mock
}

func (m *MockRiskCreator) CreateRisk(ctx context.Context, input portssvc.RiskInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

type MockTaskCreator struct {
	mock.Mock
}

func (m *MockTaskCreator) CreateTask(ctx context.Context, input portssvc.TaskInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}
