package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/complianceos/cos_backend/internal/apperrors"
	"github.com/complianceos/cos_backend/internal/core/domain"
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/complianceos/cos_backend/internal/handlers"
	"github.com/complianceos/cos_backend/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock WorkItemService ---
type MockWorkItemService struct {
	mock.Mock
}

func (m *MockWorkItemService) CreateWorkItem(ctx context.Context, tenantID string, req dto.CreateWorkItemRequest, creatorUserID string) (*domain.WorkItem, error) {
	args := m.Called(ctx, tenantID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkItem), args.Error(1)
}

func (m *MockWorkItemService) GetWorkItem(ctx context.Context, tenantID, workItemID, userID string) (*domain.WorkItem, error) {
	args := m.Called(ctx, tenantID, workItemID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkItem), args.Error(1)
}

func (m *MockWorkItemService) ListWorkItems(ctx context.Context, tenantID, userID string, params dto.ListWorkItemsParams) (*dto.ListWorkItemsResponse, error) {
	args := m.Called(ctx, tenantID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListWorkItemsResponse), args.Error(1)
}

func (m *MockWorkItemService) UpdateWorkItemStatus(ctx context.Context, tenantID, workItemID string, req dto.UpdateWorkItemStatusRequest, userID string) (*domain.WorkItem, error) {
	args := m.Called(ctx, tenantID, workItemID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkItem), args.Error(1)
}

func (m *MockWorkItemService) EscalateWorkItem(ctx context.Context, tenantID, workItemID string, req dto.EscalateWorkItemRequest, actorUserID string) (*domain.WorkItem, error) {
	args := m.Called(ctx, tenantID, workItemID, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkItem), args.Error(1)
}

func (m *MockWorkItemService) RespondToEscalation(ctx context.Context, tenantID, workItemID string, action domain.EscalationAction, userID string) (*domain.WorkItem, error) {
	args := m.Called(ctx, tenantID, workItemID, action, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkItem), args.Error(1)
}

func (m *MockWorkItemService) ListWorkItemEvents(ctx context.Context, tenantID, workItemID, userID string, params dto.ListWorkItemEventsParams) (*dto.ListWorkItemEventsResponse, error) {
	args := m.Called(ctx, tenantID, workItemID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListWorkItemEventsResponse), args.Error(1)
}

var _ portssvc.WorkItemSvcFacade = (*MockWorkItemService)(nil)

// --- Test Suite ---
type WorkItemHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockWorkItemService *MockWorkItemService
	jwtSecret           string
	tenantID            string
	userID              string
}

func (suite *WorkItemHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "compliance-os-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *WorkItemHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.mockWorkItemService = new(MockWorkItemService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		WorkItem: suite.mockWorkItemService,
	})
}

func (suite *WorkItemHandlerTestSuite) doRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *WorkItemHandlerTestSuite) TestCreateWorkItem_Success() {
	reqBody := dto.CreateWorkItemRequest{
		Type:     domain.WorkItemReview,
		Title:    "Review new access policy",
		Priority: domain.PriorityHigh,
	}
	created := &domain.WorkItem{
		WorkItemID: uuid.NewString(),
		TenantID:   suite.tenantID,
		Type:       domain.WorkItemReview,
		Title:      reqBody.Title,
		Status:     domain.StatusPending,
		Priority:   domain.PriorityHigh,
		Version:    1,
	}

	suite.mockWorkItemService.On("CreateWorkItem", mock.Anything, suite.tenantID, mock.MatchedBy(func(r dto.CreateWorkItemRequest) bool {
		return r.Type == domain.WorkItemReview && r.Title == reqBody.Title
	}), suite.userID).Return(created, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/tenants/"+suite.tenantID+"/work-items",
		reqBody, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.WorkItemResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.WorkItemID, resp.WorkItemID)
	suite.Equal(domain.StatusPending, resp.Status)
	suite.mockWorkItemService.AssertExpectations(suite.T())
}

func (suite *WorkItemHandlerTestSuite) TestCreateWorkItem_MissingToken() {
	w := suite.doRequest(http.MethodPost, "/api/v1/tenants/"+suite.tenantID+"/work-items",
		dto.CreateWorkItemRequest{Type: domain.WorkItemReview, Title: "x", Priority: domain.PriorityLow}, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockWorkItemService.AssertNotCalled(suite.T(), "CreateWorkItem",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *WorkItemHandlerTestSuite) TestCreateWorkItem_InvalidBody() {
	w := suite.doRequest(http.MethodPost, "/api/v1/tenants/"+suite.tenantID+"/work-items",
		map[string]string{"type": "review"}, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *WorkItemHandlerTestSuite) TestUpdateWorkItemStatus_InvalidTransitionMapsToConflict() {
	workItemID := uuid.NewString()

	suite.mockWorkItemService.On("UpdateWorkItemStatus", mock.Anything, suite.tenantID, workItemID,
		mock.Anything, suite.userID).
		Return(nil, apperrors.NewInvalidTransitionError("cannot transition work item from completed to in_progress")).Once()

	w := suite.doRequest(http.MethodPatch, "/api/v1/tenants/"+suite.tenantID+"/work-items/"+workItemID+"/status",
		dto.UpdateWorkItemStatusRequest{Status: domain.StatusInProgress}, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *WorkItemHandlerTestSuite) TestGetWorkItem_NotFound() {
	workItemID := uuid.NewString()

	suite.mockWorkItemService.On("GetWorkItem", mock.Anything, suite.tenantID, workItemID, suite.userID).
		Return(nil, apperrors.NewNotFoundError("work item not found")).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/tenants/"+suite.tenantID+"/work-items/"+workItemID,
		nil, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *WorkItemHandlerTestSuite) TestRespondToEscalation_Resolve() {
	workItemID := uuid.NewString()
	resolved := &domain.WorkItem{
		WorkItemID: workItemID,
		TenantID:   suite.tenantID,
		Status:     domain.StatusCompleted,
	}

	suite.mockWorkItemService.On("RespondToEscalation", mock.Anything, suite.tenantID, workItemID,
		domain.EscalationResolve, suite.userID).Return(resolved, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/tenants/"+suite.tenantID+"/work-items/"+workItemID+"/escalation",
		dto.RespondToEscalationRequest{Action: domain.EscalationResolve}, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.WorkItemResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.StatusCompleted, resp.Status)
}

func (suite *WorkItemHandlerTestSuite) TestListWorkItems_RateLimited() {
	// A router with a two-per-minute limit rejects the third call from the
	// same client IP.
	router := gin.New()
	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true, RateLimit: "2-M"}
	handlers.RegisterRoutes(router, cfg, &portssvc.ServiceContainer{
		WorkItem: suite.mockWorkItemService,
	})

	suite.mockWorkItemService.On("ListWorkItems", mock.Anything, suite.tenantID, suite.userID, mock.Anything).
		Return(&dto.ListWorkItemsResponse{WorkItems: []dto.WorkItemResponse{}}, nil).Twice()

	token := suite.generateTestToken(suite.userID)
	path := "/api/v1/tenants/" + suite.tenantID + "/work-items"
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		suite.Equal(http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	suite.Equal(http.StatusTooManyRequests, w.Code)
	suite.mockWorkItemService.AssertExpectations(suite.T())
}

func TestWorkItemHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(WorkItemHandlerTestSuite))
}
