package services

import (
	"time"

	portsrepo "github.com/complianceos/cos_backend/internal/core/ports/repositories"
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/platform/metrics"
)

// ContainerDeps carries the cross-cutting collaborators the services share.
type ContainerDeps struct {
	Notifier    portssvc.Notifier
	RiskCreator portssvc.RiskCreator
	TaskCreator portssvc.TaskCreator
	Scorer      portssvc.GapScorer
	Cache       portssvc.AggregateCache
	Metrics     *metrics.Metrics
	// Horizon is the default "upcoming" window for stats and reports.
	Horizon time.Duration
	// CalendarHorizon is the wider window behind the calendar view.
	CalendarHorizon time.Duration
}

// NewServiceContainer wires every service with its repositories and shared
// collaborators.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, deps ContainerDeps) *portssvc.ServiceContainer {
	tenantSvc := NewTenantService(repos.TenantRepo, repos.UserRepo)
	aggregator := NewAggregatorService(
		repos.WorkItemRepo,
		repos.AssignmentRepo,
		repos.EngagementRepo,
		repos.GapRepo,
		deps.Scorer,
		deps.Cache,
		deps.Metrics,
	)

	return &portssvc.ServiceContainer{
		Tenant:     tenantSvc,
		User:       NewUserService(repos.UserRepo),
		WorkItem:   NewWorkItemService(repos.WorkItemRepo, tenantSvc, aggregator, deps.Notifier, deps.Metrics),
		Assignment: NewAssignmentService(repos.AssignmentRepo, tenantSvc, aggregator),
		Engagement: NewEngagementService(repos.EngagementRepo, tenantSvc, aggregator),
		Gap:        NewGapService(repos.GapRepo, repos.WorkItemRepo, tenantSvc, deps.RiskCreator, deps.TaskCreator, aggregator),
		Aggregator: aggregator,
		Report:     NewReportService(aggregator, tenantSvc, deps.Horizon, deps.CalendarHorizon),
	}
}
