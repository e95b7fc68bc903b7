package services

import (
	"context"

	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/complianceos/cos_backend/internal/dto"
)

// EngagementSvcFacade exposes compliance engagement operations.
type EngagementSvcFacade interface {
	// CreateEngagement creates an engagement in stage planned, progress 0.
	CreateEngagement(ctx context.Context, tenantID string, req dto.CreateEngagementRequest, creatorUserID string) (*domain.Engagement, error)

	// GetEngagement retrieves an engagement within a tenant.
	GetEngagement(ctx context.Context, tenantID, engagementID, userID string) (*domain.Engagement, error)

	// ListEngagements retrieves all engagements of a tenant.
	ListEngagements(ctx context.Context, tenantID, userID string) ([]domain.Engagement, error)

	// UpdateEngagement advances the stage (forward only) and/or sets the
	// 0-100 progress value.
	UpdateEngagement(ctx context.Context, tenantID, engagementID string, req dto.UpdateEngagementRequest, userID string) (*domain.Engagement, error)
}
