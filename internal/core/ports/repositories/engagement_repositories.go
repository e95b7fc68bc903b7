package repositories

import (
	"context"

	"github.com/complianceos/cos_backend/internal/core/domain"
)

// EngagementReader defines read operations for engagement data.
type EngagementReader interface {
	// FindEngagementByID retrieves an engagement within a tenant.
	FindEngagementByID(ctx context.Context, tenantID, engagementID string) (*domain.Engagement, error)

	// ListEngagements retrieves all engagements of a tenant.
	ListEngagements(ctx context.Context, tenantID string) ([]domain.Engagement, error)
}

// EngagementWriter defines write operations for engagement data.
type EngagementWriter interface {
	// SaveEngagement persists a new engagement.
	SaveEngagement(ctx context.Context, engagement domain.Engagement) error

	// UpdateEngagement writes the engagement's stage and progress.
	UpdateEngagement(ctx context.Context, engagement domain.Engagement) error
}

// EngagementRepositoryFacade combines all engagement repository interfaces.
type EngagementRepositoryFacade interface {
	EngagementReader
	EngagementWriter
}
