package domain_test

import (
	"testing"
	"time"

	"github.com/complianceos/cos_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestWorkItemStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from    domain.WorkItemStatus
		to      domain.WorkItemStatus
		allowed bool
	}{
		{domain.StatusPending, domain.StatusInProgress, true},
		{domain.StatusPending, domain.StatusCancelled, true},
		{domain.StatusPending, domain.StatusEscalated, true},
		{domain.StatusPending, domain.StatusCompleted, false},
		{domain.StatusInProgress, domain.StatusCompleted, true},
		{domain.StatusInProgress, domain.StatusCancelled, true},
		{domain.StatusInProgress, domain.StatusEscalated, true},
		{domain.StatusInProgress, domain.StatusPending, false},
		{domain.StatusEscalated, domain.StatusCompleted, false},
		{domain.StatusEscalated, domain.StatusCancelled, false},
		{domain.StatusEscalated, domain.StatusInProgress, false},
		{domain.StatusCompleted, domain.StatusInProgress, false},
		{domain.StatusCompleted, domain.StatusEscalated, false},
		{domain.StatusCancelled, domain.StatusPending, false},
		{domain.StatusCancelled, domain.StatusEscalated, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestWorkItemStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.StatusCompleted.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.False(t, domain.StatusInProgress.IsTerminal())
	assert.False(t, domain.StatusEscalated.IsTerminal())
}

func TestWorkItemType_Module(t *testing.T) {
	assert.Equal(t, domain.ModuleGovernance, domain.WorkItemReview.Module())
	assert.Equal(t, domain.ModuleAudit, domain.WorkItemEvidenceCollection.Module())
	assert.Equal(t, domain.ModuleTPRM, domain.WorkItemVendorAssessment.Module())
	assert.Equal(t, domain.ModuleBCP, domain.WorkItemBCPApproval.Module())
	assert.False(t, domain.WorkItemType("bogus").Valid())
}

func TestWorkItem_IsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	overdue := domain.WorkItem{Status: domain.StatusPending, DueDate: &past}
	assert.True(t, overdue.IsOverdue(now))

	// Terminal items are never overdue.
	done := domain.WorkItem{Status: domain.StatusCompleted, DueDate: &past}
	assert.False(t, done.IsOverdue(now))

	notYet := domain.WorkItem{Status: domain.StatusPending, DueDate: &future}
	assert.False(t, notYet.IsOverdue(now))

	noDue := domain.WorkItem{Status: domain.StatusPending}
	assert.False(t, noDue.IsOverdue(now))
}

func TestWorkItem_IsDueWithin(t *testing.T) {
	now := time.Now()
	horizon := 7 * 24 * time.Hour

	inWindow := now.Add(3 * 24 * time.Hour)
	item := domain.WorkItem{Status: domain.StatusInProgress, DueDate: &inWindow}
	assert.True(t, item.IsDueWithin(now, horizon))

	beyond := now.Add(10 * 24 * time.Hour)
	item.DueDate = &beyond
	assert.False(t, item.IsDueWithin(now, horizon))

	// Overdue items belong to the overdue bucket, not the upcoming one.
	past := now.Add(-time.Hour)
	item.DueDate = &past
	assert.False(t, item.IsDueWithin(now, horizon))

	item.DueDate = &inWindow
	item.Status = domain.StatusCancelled
	assert.False(t, item.IsDueWithin(now, horizon))
}
