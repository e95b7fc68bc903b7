package services

import (
	"context"

	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/complianceos/cos_backend/internal/dto"
)

// GapSvcFacade exposes gap-analysis operations.
type GapSvcFacade interface {
	// UpsertGapResponse records the status of one control under an
	// assessment. The first insert for a control implicitly creates a
	// review work item linked to the response.
	UpsertGapResponse(ctx context.Context, tenantID, assessmentID string, req dto.UpsertGapResponseRequest, userID string) (*domain.GapResponse, error)

	// ListGapResponses retrieves every response of an assessment.
	ListGapResponses(ctx context.Context, tenantID, assessmentID, userID string) ([]domain.GapResponse, error)

	// PromoteGapResponse promotes an open gap finding into a tracked risk or
	// a remediation task through the external creation services. Returns the
	// reference ID reported by the downstream service.
	PromoteGapResponse(ctx context.Context, tenantID, assessmentID, controlID string, req dto.PromoteGapRequest, userID string) (string, error)
}
