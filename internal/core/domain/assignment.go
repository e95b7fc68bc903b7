package domain

// RACIRole enumerates responsibility-assignment roles.
type RACIRole string

const (
	RACIResponsible RACIRole = "responsible"
	RACIAccountable RACIRole = "accountable"
	RACIConsulted   RACIRole = "consulted"
	RACIInformed    RACIRole = "informed"
)

// Valid reports whether the role is a member of the closed enum.
func (r RACIRole) Valid() bool {
	switch r {
	case RACIResponsible, RACIAccountable, RACIConsulted, RACIInformed:
		return true
	}
	return false
}

// Owning reports whether the role counts an item as "covered" for coverage
// percentages. Only Responsible and Accountable are owning roles.
func (r RACIRole) Owning() bool {
	return r == RACIResponsible || r == RACIAccountable
}

// ItemKind enumerates the kinds of governed items an assignment can target.
type ItemKind string

const (
	ItemKindControl  ItemKind = "control"
	ItemKindPolicy   ItemKind = "policy"
	ItemKindEvidence ItemKind = "evidence"
	ItemKindTask     ItemKind = "task"
)

// Valid reports whether the kind is a member of the closed enum.
func (k ItemKind) Valid() bool {
	switch k {
	case ItemKindControl, ItemKindPolicy, ItemKindEvidence, ItemKindTask:
		return true
	}
	return false
}

// CoverageKinds are the item kinds that participate in coverage reporting.
var CoverageKinds = []ItemKind{ItemKindControl, ItemKindPolicy, ItemKindEvidence}

// GovernanceItem is an entry in a tenant's catalog of governed items
// (controls, policies, evidence, tasks) that assignments attach to.
type GovernanceItem struct {
	ItemID   string   `json:"itemID" db:"item_id"`
	TenantID string   `json:"tenantID" db:"tenant_id"`
	Kind     ItemKind `json:"kind" db:"kind"`
	Name     string   `json:"name" db:"name"`
	AuditFields
}

// Assignment is the ternary relation between a person, a governed item and a
// RACI role. An item may have at most one Accountable assignee; any number of
// Responsible, Consulted and Informed assignees are allowed.
type Assignment struct {
	AssignmentID string   `json:"assignmentID" db:"assignment_id"`
	TenantID     string   `json:"tenantID" db:"tenant_id"`
	UserID       string   `json:"userID" db:"user_id"`
	ItemKind     ItemKind `json:"itemKind" db:"item_kind"`
	ItemID       string   `json:"itemID" db:"item_id"`
	Role         RACIRole `json:"role" db:"role"`
	AuditFields
}
