package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportService is the membership-guarded read surface over the aggregator.
type reportService struct {
	BaseService
	aggregator      portssvc.AggregatorSvcFacade
	defaultHorizon  time.Duration
	calendarHorizon time.Duration
}

// NewReportService creates a new report service. defaultHorizon is the
// "upcoming" window applied when the caller supplies none; calendarHorizon
// is the wider window behind the calendar view.
func NewReportService(
	aggregator portssvc.AggregatorSvcFacade,
	tenantSvc portssvc.TenantSvcFacade,
	defaultHorizon time.Duration,
	calendarHorizon time.Duration,
) portssvc.ReportSvcFacade {
	if defaultHorizon <= 0 {
		defaultHorizon = 7 * 24 * time.Hour
	}
	if calendarHorizon <= 0 {
		calendarHorizon = 30 * 24 * time.Hour
	}
	return &reportService{
		BaseService:     BaseService{TenantAuthorizer: tenantSvc},
		aggregator:      aggregator,
		defaultHorizon:  defaultHorizon,
		calendarHorizon: calendarHorizon,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// GetStats returns the tenant's status rollup.
func (s *reportService) GetStats(ctx context.Context, tenantID, userID string, horizon time.Duration) (*domain.WorkItemStats, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	if horizon <= 0 {
		horizon = s.defaultHorizon
	}
	return s.aggregator.ComputeStats(ctx, tenantID, horizon)
}

// GetCalendarStats returns the status rollup over the calendar window.
func (s *reportService) GetCalendarStats(ctx context.Context, tenantID, userID string) (*domain.WorkItemStats, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	return s.aggregator.ComputeStats(ctx, tenantID, s.calendarHorizon)
}

// GetCoverage returns assignment coverage for every coverage kind.
func (s *reportService) GetCoverage(ctx context.Context, tenantID, userID string) ([]domain.Coverage, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	return s.coverageByKind(ctx, tenantID)
}

// GetComplianceScore returns the tenant's mean engagement progress.
func (s *reportService) GetComplianceScore(ctx context.Context, tenantID, userID string) (decimal.Decimal, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return decimal.Zero, err
	}
	return s.aggregator.ComputeComplianceScore(ctx, tenantID)
}

// GetPrioritizedGaps returns the assessment's ranked remediation queue.
func (s *reportService) GetPrioritizedGaps(ctx context.Context, tenantID, assessmentID, userID string) ([]domain.RankedGapResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}
	return s.aggregator.Prioritize(ctx, tenantID, assessmentID)
}

// ExportCoverageReport combines stats, per-kind coverage and the compliance
// score in a single payload for downstream document generation.
func (s *reportService) ExportCoverageReport(ctx context.Context, tenantID, userID string) (*domain.CoverageReport, error) {
	if err := s.AuthorizeUser(ctx, userID, tenantID, domain.TenantRoleViewer); err != nil {
		return nil, err
	}

	stats, err := s.aggregator.ComputeStats(ctx, tenantID, s.defaultHorizon)
	if err != nil {
		return nil, err
	}
	coverage, err := s.coverageByKind(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	score, err := s.aggregator.ComputeComplianceScore(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Coverage report exported", slog.String("tenant_id", tenantID))
	return &domain.CoverageReport{
		TenantID:        tenantID,
		Stats:           *stats,
		Coverage:        coverage,
		ComplianceScore: score,
	}, nil
}

func (s *reportService) coverageByKind(ctx context.Context, tenantID string) ([]domain.Coverage, error) {
	coverage := make([]domain.Coverage, 0, len(domain.CoverageKinds))
	for _, kind := range domain.CoverageKinds {
		cov, err := s.aggregator.ComputeCoverage(ctx, tenantID, kind)
		if err != nil {
			return nil, err
		}
		coverage = append(coverage, *cov)
	}
	return coverage, nil
}
