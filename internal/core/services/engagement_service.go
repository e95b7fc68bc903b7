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

// engagementService implements the EngagementSvcFacade interface.
type engagementService struct {
	BaseService
	engagementRepo portsrepo.EngagementRepositoryFacade
	aggregator     portssvc.AggregatorSvcFacade
}

// NewEngagementService creates a new engagement service with the provided
// dependencies.
func NewEngagementService(
	engagementRepo portsrepo.EngagementRepositoryFacade,
	tenantSvc portssvc.TenantSvcFacade,
	aggregator portssvc.AggregatorSvcFacade,
) portssvc.EngagementSvcFacade {
	return &engagementService{
		BaseService:    BaseService{TenantAuthorizer: tenantSvc},
		engagementRepo: engagementRepo,
		aggregator:     aggregator,
	}
}

var _ portssvc.EngagementSvcFacade = (*engagementService)(nil)

// CreateEngagement creates an engagement in stage planned with progress 0.
func (s *engagementService) CreateEngagement(ctx context.Context, tenantID string, req dto.CreateEngagementRequest, creatorUserID string) (*domain.Engagement, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, tenantID, domain.TenantRoleOperator); err != nil {
		return nil, err
	}

	now := time.Now()
	engagement := domain.Engagement{
		EngagementID: uuid.NewString(),
		TenantID:     tenantID,
		Name:         req.Name,
		Framework:    req.Framework,
		Stage:        domain.StagePlanned,
		Progress:     0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.engagementRepo.SaveEngagement(ctx, engagement); err != nil {
		s.LogError(ctx, err, "Failed to save engagement", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.aggregator.InvalidateTenant(ctx, tenantID)
	s.LogInfo(ctx, "Engagement created",
		slog.String("engagement_id", engagement.EngagementID),
		slog.String("tenant_id", tenantID))
	return &engagement, nil
}

// GetEngagement retrieves an engagement within a tenant.
func (s *engagementService) GetEngagement(ctx context.Context, tenantID, engagementID, userID string) (*domain.Engagement, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	engagement, err := s.engagementRepo.FindEngagementByID(ctx, tenantID, engagementID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find engagement",
				slog.String("engagement_id", engagementID))
		}
		return nil, err
	}
	return engagement, nil
}

// ListEngagements retrieves all engagements of a tenant.
func (s *engagementService) ListEngagements(ctx context.Context, tenantID, userID string) ([]domain.Engagement, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	engagements, err := s.engagementRepo.ListEngagements(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list engagements", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if engagements == nil {
		return []domain.Engagement{}, nil
	}
	return engagements, nil
}

// UpdateEngagement advances the stage and/or sets the progress value. Stages
// only move forward.
func (s *engagementService) UpdateEngagement(ctx context.Context, tenantID, engagementID string, req dto.UpdateEngagementRequest, userID string) (*domain.Engagement, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleOperator); err != nil {
		return nil, err
	}
	if req.Stage == nil && req.Progress == nil {
		return nil, apperrors.NewValidationFailedError("nothing to update")
	}

	engagement, err := s.engagementRepo.FindEngagementByID(ctx, tenantID, engagementID)
	if err != nil {
		return nil, err
	}

	if req.Stage != nil {
		if !req.Stage.Valid() {
			return nil, apperrors.NewValidationFailedError("unknown stage: " + string(*req.Stage))
		}
		if !engagement.Stage.CanAdvanceTo(*req.Stage) {
			return nil, apperrors.NewInvalidTransitionError(
				"cannot move engagement from " + string(engagement.Stage) + " to " + string(*req.Stage))
		}
		engagement.Stage = *req.Stage
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, apperrors.NewValidationFailedError("progress must be between 0 and 100")
		}
		engagement.Progress = *req.Progress
	}
	engagement.LastUpdatedAt = time.Now()
	engagement.LastUpdatedBy = userID

	if err := s.engagementRepo.UpdateEngagement(ctx, *engagement); err != nil {
		s.LogError(ctx, err, "Failed to update engagement",
			slog.String("engagement_id", engagementID))
		return nil, err
	}

	s.aggregator.InvalidateTenant(ctx, tenantID)
	s.LogInfo(ctx, "Engagement updated",
		slog.String("engagement_id", engagementID),
		slog.String("stage", string(engagement.Stage)),
		slog.Int("progress", engagement.Progress))
	return engagement, nil
}
