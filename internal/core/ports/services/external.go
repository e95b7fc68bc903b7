package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Notifier is the fire-and-forget notification dispatcher. Dispatch failures
// are logged by callers and never abort the primary mutation.
type Notifier interface {
	Notify(ctx context.Context, event string, recipient string, payload map[string]any) error
}

// RiskCreator creates a tracked risk in the external risk register when a
// gap finding is promoted. This subsystem supplies pre-filled input but does
// not own the risk lifecycle.
type RiskCreator interface {
	CreateRisk(ctx context.Context, input RiskInput) (string, error)
}

// RiskInput is the pre-filled payload for risk creation.
type RiskInput struct {
	TenantID     string
	AssessmentID string
	ControlID    string
	Criticality  int
	Exposure     int
	Notes        string
}

// TaskCreator creates a remediation task in the external task tracker when a
// gap finding is promoted.
type TaskCreator interface {
	CreateTask(ctx context.Context, input TaskInput) (string, error)
}

// TaskInput is the pre-filled payload for remediation task creation.
type TaskInput struct {
	TenantID     string
	AssessmentID string
	ControlID    string
	Effort       int
	Notes        string
}

// GapScorer ranks gap remediation work. The exact weighting is pluggable;
// implementations take control criticality, exposure and effort and return a
// comparable score.
type GapScorer interface {
	Score(criticality, exposure, effort int) decimal.Decimal
}

// AggregateCache caches computed aggregate snapshots per tenant. A nil cache
// disables caching; mutations invalidate, reads recompute on miss.
type AggregateCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteTenant(ctx context.Context, tenantID string) error
}
