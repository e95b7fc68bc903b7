package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/complianceos/cos_backend/internal/apperrors"
	"github.com/complianceos/cos_backend/internal/core/domain"
	portsrepo "github.com/complianceos/cos_backend/internal/core/ports/repositories"
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/google/uuid"
)

// gapService implements the GapSvcFacade interface.
type gapService struct {
	BaseService
	gapRepo      portsrepo.GapRepositoryFacade
	workItemRepo portsrepo.WorkItemWriter
	riskCreator  portssvc.RiskCreator
	taskCreator  portssvc.TaskCreator
	aggregator   portssvc.AggregatorSvcFacade
}

// NewGapService creates a new gap-analysis service with the provided
// dependencies.
func NewGapService(
	gapRepo portsrepo.GapRepositoryFacade,
	workItemRepo portsrepo.WorkItemWriter,
	tenantSvc portssvc.TenantSvcFacade,
	riskCreator portssvc.RiskCreator,
	taskCreator portssvc.TaskCreator,
	aggregator portssvc.AggregatorSvcFacade,
) portssvc.GapSvcFacade {
	return &gapService{
		BaseService:  BaseService{TenantAuthorizer: tenantSvc},
		gapRepo:      gapRepo,
		workItemRepo: workItemRepo,
		riskCreator:  riskCreator,
		taskCreator:  taskCreator,
		aggregator:   aggregator,
	}
}

var _ portssvc.GapSvcFacade = (*gapService)(nil)

// UpsertGapResponse records the status of one control under an assessment.
// The first insert for a control also creates a review work item linked to
// the response.
func (s *gapService) UpsertGapResponse(ctx context.Context, tenantID, assessmentID string, req dto.UpsertGapResponseRequest, userID string) (*domain.GapResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleOperator); err != nil {
		return nil, err
	}
	if !req.Status.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown gap status: " + string(req.Status))
	}

	now := time.Now()
	response := domain.GapResponse{
		ResponseID:   uuid.NewString(),
		TenantID:     tenantID,
		AssessmentID: assessmentID,
		ControlID:    req.ControlID,
		Status:       req.Status,
		Criticality:  req.Criticality,
		Exposure:     req.Exposure,
		Effort:       req.Effort,
		Notes:        req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	stored, created, err := s.gapRepo.UpsertGapResponse(ctx, response)
	if err != nil {
		s.LogError(ctx, err, "Failed to upsert gap response",
			slog.String("assessment_id", assessmentID),
			slog.String("control_id", req.ControlID))
		return nil, err
	}

	if created {
		if err := s.createReviewWorkItem(ctx, stored, userID, now); err != nil {
			// The response itself is saved; the follow-up item is best effort.
			s.LogWarn(ctx, "Failed to create review work item for gap response",
				slog.String("response_id", stored.ResponseID),
				slog.String("error", err.Error()))
		}
	}

	s.aggregator.InvalidateTenant(ctx, tenantID)
	s.LogInfo(ctx, "Gap response recorded",
		slog.String("assessment_id", assessmentID),
		slog.String("control_id", req.ControlID),
		slog.String("status", string(req.Status)),
		slog.Bool("created", created))
	return stored, nil
}

// createReviewWorkItem opens the review item that tracks a newly recorded
// gap response.
func (s *gapService) createReviewWorkItem(ctx context.Context, response *domain.GapResponse, userID string, now time.Time) error {
	kind := "gap_response"
	item := domain.WorkItem{
		WorkItemID:       uuid.NewString(),
		TenantID:         response.TenantID,
		Type:             domain.WorkItemReview,
		Title:            "Review gap response for control " + response.ControlID,
		Status:           domain.StatusPending,
		Priority:         domain.PriorityMedium,
		LinkedEntityKind: &kind,
		LinkedEntityID:   &response.ResponseID,
		Version:          1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	return s.workItemRepo.SaveWorkItem(ctx, item)
}

// ListGapResponses retrieves every response of an assessment.
func (s *gapService) ListGapResponses(ctx context.Context, tenantID, assessmentID, userID string) ([]domain.GapResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	responses, err := s.gapRepo.ListGapResponses(ctx, tenantID, assessmentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list gap responses",
			slog.String("assessment_id", assessmentID))
		return nil, err
	}
	if responses == nil {
		return []domain.GapResponse{}, nil
	}
	return responses, nil
}

// PromoteGapResponse promotes an open gap finding into a tracked risk or a
// remediation task through the external creation services.
func (s *gapService) PromoteGapResponse(ctx context.Context, tenantID, assessmentID, controlID string, req dto.PromoteGapRequest, userID string) (string, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleOperator); err != nil {
		return "", err
	}

	response, err := s.gapRepo.FindGapResponse(ctx, tenantID, assessmentID, controlID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find gap response",
				slog.String("assessment_id", assessmentID),
				slog.String("control_id", controlID))
		}
		return "", err
	}
	if !response.Status.Open() {
		return "", apperrors.NewValidationFailedError("only open gap findings can be promoted")
	}

	var refID string
	switch req.Target {
	case "risk":
		refID, err = s.riskCreator.CreateRisk(ctx, portssvc.RiskInput{
			TenantID:     tenantID,
			AssessmentID: assessmentID,
			ControlID:    controlID,
			Criticality:  response.Criticality,
			Exposure:     response.Exposure,
			Notes:        response.Notes,
		})
	case "task":
		refID, err = s.taskCreator.CreateTask(ctx, portssvc.TaskInput{
			TenantID:     tenantID,
			AssessmentID: assessmentID,
			ControlID:    controlID,
			Effort:       response.Effort,
			Notes:        response.Notes,
		})
	default:
		return "", apperrors.NewValidationFailedError("unknown promotion target: " + req.Target)
	}
	if err != nil {
		s.LogError(ctx, err, "Downstream promotion failed",
			slog.String("target", req.Target),
			slog.String("control_id", controlID))
		return "", apperrors.NewUnavailableError("downstream "+req.Target+" service failed", err)
	}

	s.LogInfo(ctx, "Gap finding promoted",
		slog.String("target", req.Target),
		slog.String("control_id", controlID),
		slog.String("reference_id", refID))
	return refID, nil
}
