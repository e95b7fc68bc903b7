package notify

import (
	"context"
	"log/slog"

	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/google/uuid"
)

// LogNotifier writes notifications to the structured log. It stands in for a
// real channel (email, chat webhook) in environments without one.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier. A nil logger uses the
// process default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

// Notify logs the notification payload.
func (n *LogNotifier) Notify(ctx context.Context, event, recipient string, payload map[string]any) error {
	n.logger.InfoContext(ctx, "Notification dispatched",
		slog.String("event", event),
		slog.String("recipient", recipient),
		slog.Any("payload", payload))
	return nil
}

// LogRiskCreator records promoted risks in the log and mints a reference ID.
// The real risk register integration replaces this in deployments that have
// one.
type LogRiskCreator struct {
	logger *slog.Logger
}

// NewLogRiskCreator creates a log-backed risk creator.
func NewLogRiskCreator(logger *slog.Logger) *LogRiskCreator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRiskCreator{logger: logger}
}

var _ portssvc.RiskCreator = (*LogRiskCreator)(nil)

// CreateRisk logs the risk input and returns a generated reference ID.
func (c *LogRiskCreator) CreateRisk(ctx context.Context, input portssvc.RiskInput) (string, error) {
	refID := "risk-" + uuid.NewString()
	c.logger.InfoContext(ctx, "Risk created from gap finding",
		slog.String("reference_id", refID),
		slog.String("tenant_id", input.TenantID),
		slog.String("assessment_id", input.AssessmentID),
		slog.String("control_id", input.ControlID),
		slog.Int("criticality", input.Criticality),
		slog.Int("exposure", input.Exposure))
	return refID, nil
}

// LogTaskCreator records promoted remediation tasks in the log and mints a
// reference ID.
type LogTaskCreator struct {
	logger *slog.Logger
}

// NewLogTaskCreator creates a log-backed task creator.
func NewLogTaskCreator(logger *slog.Logger) *LogTaskCreator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTaskCreator{logger: logger}
}

var _ portssvc.TaskCreator = (*LogTaskCreator)(nil)

// CreateTask logs the task input and returns a generated reference ID.
func (c *LogTaskCreator) CreateTask(ctx context.Context, input portssvc.TaskInput) (string, error) {
	refID := "task-" + uuid.NewString()
	c.logger.InfoContext(ctx, "Remediation task created from gap finding",
		slog.String("reference_id", refID),
		slog.String("tenant_id", input.TenantID),
		slog.String("assessment_id", input.AssessmentID),
		slog.String("control_id", input.ControlID),
		slog.Int("effort", input.Effort))
	return refID, nil
}
