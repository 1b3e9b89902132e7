package repository

import (
	"context"
	"fmt"

	"github.com/dardiyafa/booking-engine/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RelatedRepository reads the sub-objects other modules attach to an
// event (quotes, payment milestones, staff assignments, prep tasks).
// This engine never writes them.
type RelatedRepository struct {
	db *pgxpool.Pool
}

// NewRelatedRepository constructs a RelatedRepository.
func NewRelatedRepository(db *pgxpool.Pool) *RelatedRepository {
	return &RelatedRepository{db: db}
}

// Load fetches all four related collections for one event. Missing
// collections come back as empty slices, never nil, so the JSON detail
// view always renders arrays.
func (r *RelatedRepository) Load(ctx context.Context, eventID string) (model.Related, error) {
	rel := model.Related{
		Quotes:            []model.Quote{},
		PaymentMilestones: []model.PaymentMilestone{},
		StaffAssignments:  []model.StaffAssignment{},
		PrepTasks:         []model.PrepTask{},
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, description, amount, status, created_at
		 FROM quotes WHERE event_id = $1 ORDER BY created_at ASC`, eventID)
	if err != nil {
		return rel, fmt.Errorf("load quotes: %w", err)
	}
	for rows.Next() {
		var q model.Quote
		if err := rows.Scan(&q.ID, &q.EventID, &q.Description, &q.Amount, &q.Status, &q.CreatedAt); err != nil {
			rows.Close()
			return rel, fmt.Errorf("scan quote: %w", err)
		}
		rel.Quotes = append(rel.Quotes, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return rel, err
	}

	rows, err = r.db.Query(ctx,
		`SELECT id, event_id, label, amount, due_date, paid_at
		 FROM payment_milestones WHERE event_id = $1 ORDER BY due_date ASC`, eventID)
	if err != nil {
		return rel, fmt.Errorf("load payment milestones: %w", err)
	}
	for rows.Next() {
		var m model.PaymentMilestone
		if err := rows.Scan(&m.ID, &m.EventID, &m.Label, &m.Amount, &m.DueDate, &m.PaidAt); err != nil {
			rows.Close()
			return rel, fmt.Errorf("scan payment milestone: %w", err)
		}
		rel.PaymentMilestones = append(rel.PaymentMilestones, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return rel, err
	}

	rows, err = r.db.Query(ctx,
		`SELECT id, event_id, staff_name, role, shift_start, shift_end
		 FROM staff_assignments WHERE event_id = $1 ORDER BY shift_start ASC`, eventID)
	if err != nil {
		return rel, fmt.Errorf("load staff assignments: %w", err)
	}
	for rows.Next() {
		var a model.StaffAssignment
		if err := rows.Scan(&a.ID, &a.EventID, &a.StaffName, &a.Role, &a.ShiftStart, &a.ShiftEnd); err != nil {
			rows.Close()
			return rel, fmt.Errorf("scan staff assignment: %w", err)
		}
		rel.StaffAssignments = append(rel.StaffAssignments, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return rel, err
	}

	rows, err = r.db.Query(ctx,
		`SELECT id, event_id, title, done, due_at
		 FROM prep_tasks WHERE event_id = $1 ORDER BY due_at ASC NULLS LAST`, eventID)
	if err != nil {
		return rel, fmt.Errorf("load prep tasks: %w", err)
	}
	for rows.Next() {
		var t model.PrepTask
		if err := rows.Scan(&t.ID, &t.EventID, &t.Title, &t.Done, &t.DueAt); err != nil {
			rows.Close()
			return rel, fmt.Errorf("scan prep task: %w", err)
		}
		rel.PrepTasks = append(rel.PrepTasks, t)
	}
	rows.Close()
	return rel, rows.Err()
}
