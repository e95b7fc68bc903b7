package repositories

import (
	"context"

	"github.com/complianceos/cos_backend/internal/core/domain"
)

// GapResponseReader defines read operations for gap analysis responses.
type GapResponseReader interface {
	// FindGapResponse retrieves one control's response under an assessment.
	FindGapResponse(ctx context.Context, tenantID, assessmentID, controlID string) (*domain.GapResponse, error)

	// ListGapResponses retrieves every response of an assessment.
	ListGapResponses(ctx context.Context, tenantID, assessmentID string) ([]domain.GapResponse, error)

	// ListOpenGapResponses retrieves responses still representing
	// outstanding work (not_implemented or in_progress).
	ListOpenGapResponses(ctx context.Context, tenantID, assessmentID string) ([]domain.GapResponse, error)
}

// GapResponseWriter defines write operations for gap analysis responses.
type GapResponseWriter interface {
	// UpsertGapResponse inserts or updates the response for the
	// (assessment, control) pair and returns the row as stored: on the
	// update path the original response ID and creation audit fields
	// survive, not the candidate's. The flag is true when a new row was
	// created, which triggers the implicit review work item.
	UpsertGapResponse(ctx context.Context, response domain.GapResponse) (*domain.GapResponse, bool, error)
}

// GapRepositoryFacade combines all gap-analysis repository interfaces.
type GapRepositoryFacade interface {
	GapResponseReader
	GapResponseWriter
}
