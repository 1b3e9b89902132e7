// Package repository implements all database queries for the booking
// engine. It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dardiyafa/booking-engine/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested resource does not exist, or
// does not belong to the caller's organization. The two cases are
// deliberately indistinguishable so a caller cannot probe another
// tenant's ids.
var ErrNotFound = errors.New("not found")

// eventColumns is the canonical column list; every SELECT and the
// scanEvent helper must stay in sync with it.
const eventColumns = `id, org_id, title, event_type, status, event_date, event_end_date,
	start_time, end_time, venue_name, venue_address, venue_city, latitude, longitude,
	guest_count, confirmed_guest_count, total_amount, deposit_amount, balance_due,
	customer_name, customer_phone, customer_email, special_requests, notes,
	internal_notes, dietary_requirements, created_at, last_activity_at`

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.OrgID, &e.Title, &e.Type, &e.Status, &e.EventDate, &e.EventEndDate,
		&e.StartTime, &e.EndTime, &e.VenueName, &e.VenueAddress, &e.VenueCity,
		&e.Latitude, &e.Longitude,
		&e.GuestCount, &e.ConfirmedGuestCount,
		&e.TotalAmount, &e.DepositAmount, &e.BalanceDue,
		&e.CustomerName, &e.CustomerPhone, &e.CustomerEmail,
		&e.SpecialRequests, &e.Notes, &e.InternalNotes, &e.DietaryRequirements,
		&e.CreatedAt, &e.LastActivityAt,
	)
	if err != nil {
		return nil, err
	}
	if e.DietaryRequirements == nil {
		e.DietaryRequirements = []string{}
	}
	return &e, nil
}

// Create inserts a new event row.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		         $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`,
		e.ID, e.OrgID, e.Title, e.Type, e.Status, e.EventDate, e.EventEndDate,
		e.StartTime, e.EndTime, e.VenueName, e.VenueAddress, e.VenueCity,
		e.Latitude, e.Longitude,
		e.GuestCount, e.ConfirmedGuestCount,
		e.TotalAmount, e.DepositAmount, e.BalanceDue,
		e.CustomerName, e.CustomerPhone, e.CustomerEmail,
		e.SpecialRequests, e.Notes, e.InternalNotes, e.DietaryRequirements,
		e.CreatedAt, e.LastActivityAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID returns a single event scoped to one organization, or
// ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, orgID, id string) (*model.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1 AND org_id = $2`,
		id, orgID,
	)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// GetByIDAny returns a single event without a tenant filter. Used only
// by the public client read-back, where the phone check is the
// authorization mechanism.
func (r *EventRepository) GetByIDAny(ctx context.Context, id string) (*model.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`,
		id,
	)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Update writes every mutable column of the event back in one
// statement. Single-statement writes keep each operation atomic at the
// record level.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events SET
			title = $3, event_type = $4, status = $5, event_date = $6, event_end_date = $7,
			start_time = $8, end_time = $9, venue_name = $10, venue_address = $11,
			venue_city = $12, latitude = $13, longitude = $14,
			guest_count = $15, confirmed_guest_count = $16,
			total_amount = $17, deposit_amount = $18, balance_due = $19,
			customer_name = $20, customer_phone = $21, customer_email = $22,
			special_requests = $23, notes = $24, internal_notes = $25,
			dietary_requirements = $26, last_activity_at = $27
		 WHERE id = $1 AND org_id = $2`,
		e.ID, e.OrgID,
		e.Title, e.Type, e.Status, e.EventDate, e.EventEndDate,
		e.StartTime, e.EndTime, e.VenueName, e.VenueAddress,
		e.VenueCity, e.Latitude, e.Longitude,
		e.GuestCount, e.ConfirmedGuestCount,
		e.TotalAmount, e.DepositAmount, e.BalanceDue,
		e.CustomerName, e.CustomerPhone, e.CustomerEmail,
		e.SpecialRequests, e.Notes, e.InternalNotes,
		e.DietaryRequirements, e.LastActivityAt,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// sortClauses whitelists the list sort keys.
var sortClauses = map[string]string{
	"date_asc":     "event_date ASC, created_at DESC",
	"date_desc":    "event_date DESC, created_at DESC",
	"created_desc": "created_at DESC",
}

// List returns one page of event summaries matching the filter.
func (r *EventRepository) List(ctx context.Context, orgID string, f model.ListFilter) ([]model.Summary, error) {
	conds := []string{"org_id = $1"}
	args := []any{orgID}

	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		conds = append(conds, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conds = append(conds, fmt.Sprintf("event_date >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conds = append(conds, fmt.Sprintf("event_date <= $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR customer_name ILIKE $%d)", len(args), len(args)))
	}

	orderBy, ok := sortClauses[f.Sort]
	if !ok {
		orderBy = sortClauses["created_desc"]
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT id, title, event_type, status, event_date, start_time, venue_name,
		        venue_city, guest_count, total_amount, customer_name, customer_phone
		 FROM events WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		strings.Join(conds, " AND "), orderBy, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []model.Summary
	for rows.Next() {
		var s model.Summary
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Type, &s.Status, &s.EventDate, &s.StartTime,
			&s.VenueName, &s.VenueCity, &s.GuestCount, &s.TotalAmount,
			&s.CustomerName, &s.CustomerPhone,
		); err != nil {
			return nil, fmt.Errorf("scan event summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByDateRange returns the org's events with event_date in
// [start, end] inclusive, date ascending. Status filtering is the
// caller's concern: calendar, upcoming and availability each exclude a
// different set.
func (r *EventRepository) ListByDateRange(ctx context.Context, orgID string, start, end time.Time) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE org_id = $1 AND event_date >= $2 AND event_date <= $3
		 ORDER BY event_date ASC, created_at ASC`,
		orgID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("list events by date: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// CountByOrg returns the org's total number of events.
func (r *EventRepository) CountByOrg(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE org_id = $1`, orgID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// CountByStatus returns how many of the org's events are in any of the
// given statuses.
func (r *EventRepository) CountByStatus(ctx context.Context, orgID string, statuses []model.Status) (int, error) {
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE org_id = $1 AND status = ANY($2)`,
		orgID, ss,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events by status: %w", err)
	}
	return n, nil
}

// CountByEventDate returns how many of the org's events have
// event_date in the half-open interval [start, end).
func (r *EventRepository) CountByEventDate(ctx context.Context, orgID string, start, end time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM events WHERE org_id = $1 AND event_date >= $2 AND event_date < $3`,
		orgID, start, end,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events by date: %w", err)
	}
	return n, nil
}
