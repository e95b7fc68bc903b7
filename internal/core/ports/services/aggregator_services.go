package services

import (
	"context"
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AggregatorSvcFacade computes derived, read-only views over the work item
// store. It never mutates.
type AggregatorSvcFacade interface {
	// ComputeStats returns counts by status, overdue, upcoming (due within
	// the horizon) and escalated counts for the tenant.
	ComputeStats(ctx context.Context, tenantID string, horizon time.Duration) (*domain.WorkItemStats, error)

	// ComputeCoverage returns assigned/total counts and the percentage for
	// one item kind. 0% when the kind has no items.
	ComputeCoverage(ctx context.Context, tenantID string, kind domain.ItemKind) (*domain.Coverage, error)

	// ComputeComplianceScore returns the mean engagement progress for the
	// tenant, 0 when no engagements exist.
	ComputeComplianceScore(ctx context.Context, tenantID string) (decimal.Decimal, error)

	// Prioritize ranks the assessment's open gap responses by the pluggable
	// scoring function, highest score first. Equal scores break by control
	// identifier ascending, so the ordering is deterministic.
	Prioritize(ctx context.Context, tenantID, assessmentID string) ([]domain.RankedGapResponse, error)

	// InvalidateTenant drops the tenant's cached aggregate snapshots; called
	// by mutating services after every successful write.
	InvalidateTenant(ctx context.Context, tenantID string)
}

// ReportSvcFacade is the membership-guarded read surface over the
// aggregator, plus the combined payload for downstream document generation.
type ReportSvcFacade interface {
	// GetStats returns the tenant's status rollup.
	GetStats(ctx context.Context, tenantID, userID string, horizon time.Duration) (*domain.WorkItemStats, error)

	// GetCalendarStats returns the status rollup over the wider calendar
	// window instead of the workbench horizon.
	GetCalendarStats(ctx context.Context, tenantID, userID string) (*domain.WorkItemStats, error)

	// GetCoverage returns assignment coverage for every coverage kind.
	GetCoverage(ctx context.Context, tenantID, userID string) ([]domain.Coverage, error)

	// GetComplianceScore returns the tenant's mean engagement progress.
	GetComplianceScore(ctx context.Context, tenantID, userID string) (decimal.Decimal, error)

	// GetPrioritizedGaps returns the assessment's ranked remediation queue.
	GetPrioritizedGaps(ctx context.Context, tenantID, assessmentID, userID string) ([]domain.RankedGapResponse, error)

	// ExportCoverageReport combines stats, coverage for every coverage kind
	// and the compliance score in a single payload.
	ExportCoverageReport(ctx context.Context, tenantID, userID string) (*domain.CoverageReport, error)
}
