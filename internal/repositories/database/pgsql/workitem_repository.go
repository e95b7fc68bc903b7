package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/complianceos/cos_backend/internal/apperrors"
	"github.com/complianceos/cos_backend/internal/core/domain"
	portsrepo "github.com/complianceos/cos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWorkItemRepository struct {
	BaseRepository
}

// newPgxWorkItemRepository creates a new repository for work item data.
func newPgxWorkItemRepository(pool *pgxpool.Pool) portsrepo.WorkItemRepositoryFacade {
	return &PgxWorkItemRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.WorkItemRepositoryFacade = (*PgxWorkItemRepository)(nil)

var FULL_WORK_ITEM_SELECT_QUERY = `
SELECT
	w.work_item_id, w.tenant_id, w.item_type, w.title, w.status, w.priority,
	w.due_date, w.assignee_id, w.linked_entity_kind, w.linked_entity_id,
	w.escalated, w.escalated_at, w.version,
	w.created_at, w.created_by, w.last_updated_at, w.last_updated_by
FROM work_items w
`

func (r *PgxWorkItemRepository) getWorkItems(ctx context.Context, filterQuery string, args ...any) ([]domain.WorkItem, error) {
	query := FULL_WORK_ITEM_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query work items", err)
	}
	defer rows.Close()
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.WorkItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.WorkItem{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect work item rows", err)
	}
	return items, nil
}

// buildFilterClause renders the list filters as a WHERE fragment. $1 is
// always the tenant ID; further placeholders are appended per filter.
func buildFilterClause(filters portsrepo.WorkItemFilters) (string, []any) {
	clauses := []string{"w.tenant_id = $1"}
	args := []any{}
	next := 2

	if len(filters.Statuses) > 0 {
		statuses := make([]string, len(filters.Statuses))
		for i, s := range filters.Statuses {
			statuses[i] = string(s)
		}
		clauses = append(clauses, fmt.Sprintf("w.status = ANY($%d)", next))
		args = append(args, statuses)
		next++
	}
	if len(filters.Types) > 0 {
		types := make([]string, len(filters.Types))
		for i, t := range filters.Types {
			types[i] = string(t)
		}
		clauses = append(clauses, fmt.Sprintf("w.item_type = ANY($%d)", next))
		args = append(args, types)
		next++
	}
	if len(filters.Priorities) > 0 {
		priorities := make([]string, len(filters.Priorities))
		for i, p := range filters.Priorities {
			priorities[i] = string(p)
		}
		clauses = append(clauses, fmt.Sprintf("w.priority = ANY($%d)", next))
		args = append(args, priorities)
		next++
	}
	if filters.AssigneeID != nil {
		clauses = append(clauses, fmt.Sprintf("w.assignee_id = $%d", next))
		args = append(args, *filters.AssigneeID)
		next++
	}
	if filters.DueAfter != nil {
		clauses = append(clauses, fmt.Sprintf("w.due_date >= $%d", next))
		args = append(args, *filters.DueAfter)
		next++
	}
	if filters.DueBefore != nil {
		clauses = append(clauses, fmt.Sprintf("w.due_date <= $%d", next))
		args = append(args, *filters.DueBefore)
		next++
	}
	if filters.Escalated != nil {
		clauses = append(clauses, fmt.Sprintf("w.escalated = $%d", next))
		args = append(args, *filters.Escalated)
		next++
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *PgxWorkItemRepository) SaveWorkItem(ctx context.Context, item domain.WorkItem) error {
	query := `
		INSERT INTO work_items (
			work_item_id, tenant_id, item_type, title, status, priority,
			due_date, assignee_id, linked_entity_kind, linked_entity_id,
			escalated, escalated_at, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		item.WorkItemID,
		item.TenantID,
		item.Type,
		item.Title,
		item.Status,
		item.Priority,
		item.DueDate,
		item.AssigneeID,
		item.LinkedEntityKind,
		item.LinkedEntityID,
		item.Escalated,
		item.EscalatedAt,
		item.Version,
		item.CreatedAt,
		item.CreatedBy,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewDuplicateError("work item ID " + item.WorkItemID + " already exists")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("tenant or assignee does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save work item "+item.WorkItemID, err)
	}
	return nil
}

func (r *PgxWorkItemRepository) FindWorkItemByID(ctx context.Context, tenantID, workItemID string) (*domain.WorkItem, error) {
	query := `WHERE w.tenant_id = $1 AND w.work_item_id = $2`
	items, err := r.getWorkItems(ctx, query, tenantID, workItemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &items[0], nil
}

func (r *PgxWorkItemRepository) ListWorkItems(ctx context.Context, tenantID string, filters portsrepo.WorkItemFilters, limit, offset int) ([]domain.WorkItem, int64, error) {
	whereClause, filterArgs := buildFilterClause(filters)
	args := append([]any{tenantID}, filterArgs...)

	countQuery := `SELECT COUNT(*) FROM work_items w ` + whereClause
	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count work items", err)
	}

	pageClause := fmt.Sprintf(" ORDER BY w.created_at DESC, w.work_item_id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	pageArgs := append(args, limit, offset)
	items, err := r.getWorkItems(ctx, whereClause+pageClause, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PgxWorkItemRepository) ListOpenWorkItems(ctx context.Context, tenantID string) ([]domain.WorkItem, error) {
	query := `WHERE w.tenant_id = $1 AND w.status NOT IN ('completed', 'cancelled')`
	return r.getWorkItems(ctx, query, tenantID)
}

func (r *PgxWorkItemRepository) CountWorkItemsByStatus(ctx context.Context, tenantID string) (map[domain.WorkItemStatus]int64, error) {
	query := `
		SELECT status, COUNT(*) FROM work_items
		WHERE tenant_id = $1
		GROUP BY status;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to count work items by status", err)
	}
	defer rows.Close()

	counts := make(map[domain.WorkItemStatus]int64)
	for rows.Next() {
		var status domain.WorkItemStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan status count row", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating status count rows", err)
	}
	return counts, nil
}

func (r *PgxWorkItemRepository) ListWorkItemEvents(ctx context.Context, tenantID, workItemID string, before *portsrepo.EventCursor, limit int) ([]domain.WorkItemEvent, error) {
	query := `
		SELECT event_id, tenant_id, work_item_id, from_status, to_status, actor_id, note, occurred_at
		FROM work_item_events
		WHERE tenant_id = $1 AND work_item_id = $2
	`
	args := []any{tenantID, workItemID}
	if before != nil {
		// Row comparison keeps the keyset stable when several events share
		// an occurred_at instant.
		query += ` AND (occurred_at, event_id) < ($3, $4)`
		args = append(args, before.OccurredAt, before.EventID)
	}
	query += fmt.Sprintf(` ORDER BY occurred_at DESC, event_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query work item events", err)
	}
	defer rows.Close()
	events, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.WorkItemEvent])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.WorkItemEvent{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect work item event rows", err)
	}
	return events, nil
}

// updateWorkItemTx writes the item's mutable fields with a version check.
// A stale version affects zero rows and surfaces as ErrConflict.
func (r *PgxWorkItemRepository) updateWorkItemTx(ctx context.Context, tx pgx.Tx, item domain.WorkItem) error {
	query := `
		UPDATE work_items
		SET status = $1, priority = $2, due_date = $3, assignee_id = $4,
			escalated = $5, escalated_at = $6,
			last_updated_at = $7, last_updated_by = $8, version = version + 1
		WHERE tenant_id = $9 AND work_item_id = $10 AND version = $11;
	`
	result, err := tx.Exec(ctx, query,
		item.Status,
		item.Priority,
		item.DueDate,
		item.AssigneeID,
		item.Escalated,
		item.EscalatedAt,
		item.LastUpdatedAt,
		item.LastUpdatedBy,
		item.TenantID,
		item.WorkItemID,
		item.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update work item "+item.WorkItemID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewConflictError("work item " + item.WorkItemID + " was modified concurrently")
	}
	return nil
}

func (r *PgxWorkItemRepository) insertEventTx(ctx context.Context, tx pgx.Tx, event domain.WorkItemEvent) error {
	query := `
		INSERT INTO work_item_events (
			event_id, tenant_id, work_item_id, from_status, to_status, actor_id, note, occurred_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		event.EventID,
		event.TenantID,
		event.WorkItemID,
		event.FromStatus,
		event.ToStatus,
		event.ActorID,
		event.Note,
		event.OccurredAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert work item event "+event.EventID, err)
	}
	return nil
}

func (r *PgxWorkItemRepository) UpdateWorkItem(ctx context.Context, item domain.WorkItem, event domain.WorkItemEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.updateWorkItemTx(ctx, tx, item); err != nil {
		return err
	}
	if err := r.insertEventTx(ctx, tx, event); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxWorkItemRepository) EscalateWorkItem(ctx context.Context, item domain.WorkItem, event domain.WorkItemEvent, episode domain.EscalationEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.updateWorkItemTx(ctx, tx, item); err != nil {
		return err
	}
	if err := r.insertEventTx(ctx, tx, event); err != nil {
		return err
	}

	query := `
		INSERT INTO escalation_events (
			escalation_id, tenant_id, work_item_id, actor_id, reason, escalated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, query,
		episode.EscalationID,
		episode.TenantID,
		episode.WorkItemID,
		episode.ActorID,
		episode.Reason,
		episode.EscalatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert escalation episode "+episode.EscalationID, err)
	}
	return r.Commit(ctx, tx)
}

func (r *PgxWorkItemRepository) FindOpenEscalation(ctx context.Context, tenantID, workItemID string) (*domain.EscalationEvent, error) {
	query := `
		SELECT escalation_id, tenant_id, work_item_id, actor_id, reason, escalated_at,
			acknowledged_at, acknowledged_by, resolved_at, resolved_by
		FROM escalation_events
		WHERE tenant_id = $1 AND work_item_id = $2 AND resolved_at IS NULL
		ORDER BY escalated_at DESC
		LIMIT 1;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, workItemID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query open escalation", err)
	}
	defer rows.Close()
	episodes, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.EscalationEvent])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect escalation rows", err)
	}
	if len(episodes) == 0 {
		return nil, apperrors.NewNotFoundError("no open escalation for work item " + workItemID)
	}
	return &episodes[0], nil
}

func (r *PgxWorkItemRepository) AcknowledgeEscalation(ctx context.Context, tenantID, escalationID, acknowledgedBy string, at time.Time) error {
	query := `
		UPDATE escalation_events
		SET acknowledged_at = $1, acknowledged_by = $2
		WHERE tenant_id = $3 AND escalation_id = $4 AND acknowledged_at IS NULL;
	`
	result, err := r.Pool.Exec(ctx, query, at, acknowledgedBy, tenantID, escalationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to acknowledge escalation "+escalationID, err)
	}
	if result.RowsAffected() == 0 {
		// Already acknowledged, which callers treat as success.
		return nil
	}
	return nil
}

func (r *PgxWorkItemRepository) ResolveEscalation(ctx context.Context, item domain.WorkItem, event domain.WorkItemEvent, escalationID, resolvedBy string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.updateWorkItemTx(ctx, tx, item); err != nil {
		return err
	}
	if err := r.insertEventTx(ctx, tx, event); err != nil {
		return err
	}

	query := `
		UPDATE escalation_events
		SET resolved_at = $1, resolved_by = $2
		WHERE tenant_id = $3 AND escalation_id = $4 AND resolved_at IS NULL;
	`
	result, err := tx.Exec(ctx, query, at, resolvedBy, item.TenantID, escalationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to resolve escalation "+escalationID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewConflictError("escalation " + escalationID + " already resolved")
	}
	return r.Commit(ctx, tx)
}

func (r *PgxWorkItemRepository) ListEscalations(ctx context.Context, tenantID, workItemID string) ([]domain.EscalationEvent, error) {
	query := `
		SELECT escalation_id, tenant_id, work_item_id, actor_id, reason, escalated_at,
			acknowledged_at, acknowledged_by, resolved_at, resolved_by
		FROM escalation_events
		WHERE tenant_id = $1 AND work_item_id = $2
		ORDER BY escalated_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, workItemID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query escalations", err)
	}
	defer rows.Close()
	episodes, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.EscalationEvent])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.EscalationEvent{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect escalation rows", err)
	}
	return episodes, nil
}
