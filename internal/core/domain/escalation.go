package domain

import "time"

// EscalationAction enumerates the responses available on an escalated item.
type EscalationAction string

const (
	EscalationAcknowledge EscalationAction = "acknowledge"
	EscalationResolve     EscalationAction = "resolve"
)

// Valid reports whether the action is a member of the closed enum.
func (a EscalationAction) Valid() bool {
	return a == EscalationAcknowledge || a == EscalationResolve
}

// EscalationEvent records one escalation episode of a work item. A single row
// carries the acknowledgment and resolution timestamps for the episode.
type EscalationEvent struct {
	EscalationID   string     `json:"escalationID" db:"escalation_id"`
	TenantID       string     `json:"tenantID" db:"tenant_id"`
	WorkItemID     string     `json:"workItemID" db:"work_item_id"`
	ActorID        string     `json:"actorID" db:"actor_id"`
	Reason         string     `json:"reason" db:"reason"`
	EscalatedAt    time.Time  `json:"escalatedAt" db:"escalated_at"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty" db:"acknowledged_at"`
	AcknowledgedBy *string    `json:"acknowledgedBy,omitempty" db:"acknowledged_by"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty" db:"resolved_at"`
	ResolvedBy     *string    `json:"resolvedBy,omitempty" db:"resolved_by"`
}

// Acknowledged reports whether the episode has been acknowledged.
func (e EscalationEvent) Acknowledged() bool {
	return e.AcknowledgedAt != nil
}

// Resolved reports whether the episode has been resolved.
func (e EscalationEvent) Resolved() bool {
	return e.ResolvedAt != nil
}
