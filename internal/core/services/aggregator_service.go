package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
	portsrepo "github.com/complianceos/cos_backend/internal/core/ports/repositories"
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// aggregateCacheTTL bounds snapshot staleness between the write-path
// invalidation and a racing read.
const aggregateCacheTTL = 60 * time.Second

// aggregatorService computes derived, read-only views over the work item
// store. Results are cached per tenant when a cache is configured; every
// mutating service invalidates the tenant's snapshots after a write.
type aggregatorService struct {
	BaseService
	workItemRepo   portsrepo.WorkItemReader
	assignmentRepo portsrepo.AssignmentRepositoryFacade
	engagementRepo portsrepo.EngagementReader
	gapRepo        portsrepo.GapResponseReader
	scorer         portssvc.GapScorer
	cache          portssvc.AggregateCache
	metrics        *metrics.Metrics
}

// NewAggregatorService creates a new aggregator with the provided
// dependencies. cache may be nil, which disables snapshot caching.
func NewAggregatorService(
	workItemRepo portsrepo.WorkItemReader,
	assignmentRepo portsrepo.AssignmentRepositoryFacade,
	engagementRepo portsrepo.EngagementReader,
	gapRepo portsrepo.GapResponseReader,
	scorer portssvc.GapScorer,
	cache portssvc.AggregateCache,
	m *metrics.Metrics,
) portssvc.AggregatorSvcFacade {
	return &aggregatorService{
		workItemRepo:   workItemRepo,
		assignmentRepo: assignmentRepo,
		engagementRepo: engagementRepo,
		gapRepo:        gapRepo,
		scorer:         scorer,
		cache:          cache,
		metrics:        m,
	}
}

var _ portssvc.AggregatorSvcFacade = (*aggregatorService)(nil)

// ComputeStats returns counts by status, overdue, upcoming and escalated
// counts for the tenant.
func (s *aggregatorService) ComputeStats(ctx context.Context, tenantID string, horizon time.Duration) (*domain.WorkItemStats, error) {
	key := "agg:" + tenantID + ":stats:" + horizon.String()
	var cached domain.WorkItemStats
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	byStatus, err := s.workItemRepo.CountWorkItemsByStatus(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count work items by status", slog.String("tenant_id", tenantID))
		return nil, err
	}

	stats := domain.WorkItemStats{ByStatus: byStatus}
	for _, n := range byStatus {
		stats.Total += n
	}
	stats.Escalated = byStatus[domain.StatusEscalated]

	// Due-date bucketing happens here rather than in SQL so the overdue and
	// upcoming windows share one clock reading.
	open, err := s.workItemRepo.ListOpenWorkItems(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open work items", slog.String("tenant_id", tenantID))
		return nil, err
	}
	now := time.Now()
	for _, item := range open {
		if item.IsOverdue(now) {
			stats.Overdue++
		} else if item.IsDueWithin(now, horizon) {
			stats.Upcoming++
		}
	}

	s.cacheSet(ctx, key, stats)
	return &stats, nil
}

// ComputeCoverage returns assigned/total counts and the percentage for one
// item kind.
func (s *aggregatorService) ComputeCoverage(ctx context.Context, tenantID string, kind domain.ItemKind) (*domain.Coverage, error) {
	key := "agg:" + tenantID + ":coverage:" + string(kind)
	var cached domain.Coverage
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	total, err := s.assignmentRepo.CountGovernanceItems(ctx, tenantID, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to count governance items",
			slog.String("tenant_id", tenantID),
			slog.String("kind", string(kind)))
		return nil, err
	}
	assigned, err := s.assignmentRepo.CountItemsWithOwningAssignment(ctx, tenantID, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to count items with owning assignment",
			slog.String("tenant_id", tenantID),
			slog.String("kind", string(kind)))
		return nil, err
	}

	cov := domain.NewCoverage(kind, assigned, total)
	s.cacheSet(ctx, key, cov)
	return &cov, nil
}

// ComputeComplianceScore returns the mean engagement progress for the tenant.
func (s *aggregatorService) ComputeComplianceScore(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	key := "agg:" + tenantID + ":score"
	var cached decimal.Decimal
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	engagements, err := s.engagementRepo.ListEngagements(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list engagements for score", slog.String("tenant_id", tenantID))
		return decimal.Zero, err
	}
	if len(engagements) == 0 {
		return decimal.Zero, nil
	}

	sum := decimal.Zero
	for _, e := range engagements {
		sum = sum.Add(decimal.NewFromInt(int64(e.Progress)))
	}
	score := sum.Div(decimal.NewFromInt(int64(len(engagements)))).Round(2)

	s.cacheSet(ctx, key, score)
	return score, nil
}

// Prioritize ranks the assessment's open gap responses highest score first.
// Equal scores break by control identifier ascending.
func (s *aggregatorService) Prioritize(ctx context.Context, tenantID, assessmentID string) ([]domain.RankedGapResponse, error) {
	responses, err := s.gapRepo.ListOpenGapResponses(ctx, tenantID, assessmentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open gap responses",
			slog.String("assessment_id", assessmentID))
		return nil, err
	}

	ranked := make([]domain.RankedGapResponse, len(responses))
	for i, r := range responses {
		ranked[i] = domain.RankedGapResponse{
			Response: r,
			Score:    s.scorer.Score(r.Criticality, r.Exposure, r.Effort),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		cmp := ranked[i].Score.Cmp(ranked[j].Score)
		if cmp != 0 {
			return cmp > 0
		}
		return ranked[i].Response.ControlID < ranked[j].Response.ControlID
	})
	return ranked, nil
}

// InvalidateTenant drops the tenant's cached aggregate snapshots.
func (s *aggregatorService) InvalidateTenant(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteTenant(ctx, tenantID); err != nil {
		s.LogWarn(ctx, "Failed to invalidate aggregate cache",
			slog.String("tenant_id", tenantID),
			slog.String("error", err.Error()))
	}
}

// cacheGet reads and decodes a cached snapshot. A nil cache, a miss or an
// undecodable entry all report false and force a recompute.
func (s *aggregatorService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.LogWarn(ctx, "Aggregate cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	if !ok {
		s.metrics.IncCacheMiss()
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.LogWarn(ctx, "Aggregate cache entry undecodable", slog.String("key", key))
		return false
	}
	s.metrics.IncCacheHit()
	return true
}

// cacheSet encodes and stores a snapshot. Failures are logged and ignored.
func (s *aggregatorService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, aggregateCacheTTL); err != nil {
		s.LogWarn(ctx, "Aggregate cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
