// Package service implements the booking engine's business rules:
// the lifecycle transition guard, the balance invariant, validation,
// and orchestration between HTTP handlers and the record store.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dardiyafa/booking-engine/internal/model"
	"github.com/dardiyafa/booking-engine/internal/tenant"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventStore is the record store the engine runs against. Per-record
// writes are atomic; nothing here requires cross-record transactions.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, orgID, id string) (*model.Event, error)
	GetByIDAny(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, e *model.Event) error
	List(ctx context.Context, orgID string, f model.ListFilter) ([]model.Summary, error)
	ListByDateRange(ctx context.Context, orgID string, start, end time.Time) ([]model.Event, error)
	CountByOrg(ctx context.Context, orgID string) (int, error)
	CountByStatus(ctx context.Context, orgID string, statuses []model.Status) (int, error)
	CountByEventDate(ctx context.Context, orgID string, start, end time.Time) (int, error)
}

// RelatedStore reads the external sub-objects included on getById.
type RelatedStore interface {
	Load(ctx context.Context, eventID string) (model.Related, error)
}

// activeStatuses are the statuses counted as "active work" in stats.
var activeStatuses = []model.Status{
	model.StatusConfirmed, model.StatusPrep, model.StatusSetup,
	model.StatusExecution, model.StatusDepositPaid,
}

const (
	defaultListLimit = 20
	maxListLimit     = 50
	upcomingWindow   = 7 * 24 * time.Hour
	upcomingCap      = 10
)

// EventService orchestrates the authenticated booking operations.
type EventService struct {
	events   EventStore
	related  RelatedStore
	validate *validator.Validate
	log      *zap.Logger
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(events EventStore, related RelatedStore, log *zap.Logger) *EventService {
	return &EventService{
		events:   events,
		related:  related,
		validate: validator.New(),
		log:      log,
	}
}

// checkStruct runs validator tags and converts failures into a single
// readable ValidationError.
func checkStruct(v *validator.Validate, data any) error {
	err := v.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, len(verrs))
		for i, fe := range verrs {
			parts[i] = fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
		}
		return validationErrorf("invalid request: %s", strings.Join(parts, "; "))
	}
	return err
}

// newInquiryEvent builds a fresh event in the initial lifecycle state.
// Status is forced to inquiry and all three money fields to zero — both
// creation paths (authenticated create, public intake) go through here
// so neither can smuggle in amounts or a status.
func newInquiryEvent(orgID, title string, eventType model.EventType, eventDate time.Time) *model.Event {
	now := time.Now().UTC()
	return &model.Event{
		ID:                  uuid.New().String(),
		OrgID:               orgID,
		Title:               title,
		Type:                eventType,
		Status:              model.StatusInquiry,
		EventDate:           eventDate,
		TotalAmount:         0,
		DepositAmount:       0,
		BalanceDue:          model.ComputeBalanceDue(0, 0),
		DietaryRequirements: []string{},
		CreatedAt:           now,
		LastActivityAt:      now,
	}
}

// Create validates the request and stores a new event in the inquiry
// state. Manager role required.
func (s *EventService) Create(ctx context.Context, tc tenant.Context, req model.CreateEventRequest) (*model.Event, error) {
	if !tc.IsManager() {
		return nil, ErrForbidden
	}

	req.Title = strings.TrimSpace(req.Title)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	if err := checkStruct(s.validate, req); err != nil {
		return nil, err
	}

	eventDate, err := model.ParseDate(req.EventDate)
	if err != nil {
		return nil, validationErrorf("eventDate: %v", err)
	}

	e := newInquiryEvent(tc.OrgID, req.Title, req.Type, eventDate)
	e.StartTime = req.StartTime
	e.EndTime = req.EndTime
	e.VenueName = req.VenueName
	e.VenueAddress = req.VenueAddress
	e.VenueCity = req.VenueCity
	e.Latitude = req.Latitude
	e.Longitude = req.Longitude
	e.GuestCount = req.GuestCount
	e.CustomerName = req.CustomerName
	e.CustomerPhone = req.CustomerPhone
	e.CustomerEmail = req.CustomerEmail
	e.SpecialRequests = req.SpecialRequests
	e.Notes = req.Notes
	if req.DietaryRequirements != nil {
		e.DietaryRequirements = req.DietaryRequirements
	}
	if req.EventEndDate != "" {
		end, err := model.ParseDate(req.EventEndDate)
		if err != nil {
			return nil, validationErrorf("eventEndDate: %v", err)
		}
		e.EventEndDate = &end
	}

	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("event created",
		zap.String("eventId", e.ID),
		zap.String("orgId", e.OrgID),
		zap.String("eventType", string(e.Type)),
	)
	return e, nil
}

// Update applies a partial field patch. Status is untouchable here —
// status changes are exclusively routed through UpdateStatus — and
// balanceDue is re-derived from the effective amounts on every call,
// even one that touches neither amount, so the stored value can never
// drift from the invariant.
func (s *EventService) Update(ctx context.Context, tc tenant.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	if !tc.IsManager() {
		return nil, ErrForbidden
	}
	if err := checkStruct(s.validate, req); err != nil {
		return nil, err
	}

	e, err := s.events.GetByID(ctx, tc.OrgID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.EventDate != nil {
		d, err := model.ParseDate(*req.EventDate)
		if err != nil {
			return nil, validationErrorf("eventDate: %v", err)
		}
		e.EventDate = d
	}
	if req.EventEndDate != nil {
		d, err := model.ParseDate(*req.EventEndDate)
		if err != nil {
			return nil, validationErrorf("eventEndDate: %v", err)
		}
		e.EventEndDate = &d
	}
	if req.StartTime != nil {
		e.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		e.EndTime = *req.EndTime
	}
	if req.VenueName != nil {
		e.VenueName = *req.VenueName
	}
	if req.VenueAddress != nil {
		e.VenueAddress = *req.VenueAddress
	}
	if req.VenueCity != nil {
		e.VenueCity = *req.VenueCity
	}
	if req.Latitude != nil {
		e.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		e.Longitude = req.Longitude
	}
	if req.GuestCount != nil {
		e.GuestCount = *req.GuestCount
	}
	if req.ConfirmedGuestCount != nil {
		e.ConfirmedGuestCount = req.ConfirmedGuestCount
	}
	if req.TotalAmount != nil {
		e.TotalAmount = *req.TotalAmount
	}
	if req.DepositAmount != nil {
		e.DepositAmount = *req.DepositAmount
	}
	if req.CustomerName != nil {
		e.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerPhone != nil {
		e.CustomerPhone = strings.TrimSpace(*req.CustomerPhone)
	}
	if req.CustomerEmail != nil {
		e.CustomerEmail = *req.CustomerEmail
	}
	if req.SpecialRequests != nil {
		e.SpecialRequests = *req.SpecialRequests
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}
	if req.InternalNotes != nil {
		e.InternalNotes = *req.InternalNotes
	}
	if req.DietaryRequirements != nil {
		// Wholesale replacement, never a merge.
		e.DietaryRequirements = *req.DietaryRequirements
	}

	// Re-assert the financial invariant unconditionally.
	e.BalanceDue = model.ComputeBalanceDue(e.TotalAmount, e.DepositAmount)

	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateStatus performs one lifecycle transition, guarded by the
// transition table. Cancellation requires a reason, which is appended
// to the internal notes as an audit line.
func (s *EventService) UpdateStatus(ctx context.Context, tc tenant.Context, id string, req model.UpdateStatusRequest) (*model.Event, error) {
	if !tc.IsManager() {
		return nil, ErrForbidden
	}
	if !req.Status.Valid() {
		return nil, validationErrorf("unknown status %q", req.Status)
	}

	e, err := s.events.GetByID(ctx, tc.OrgID, id)
	if err != nil {
		return nil, err
	}

	if !e.Status.CanTransitionTo(req.Status) {
		return nil, &TransitionError{From: e.Status, To: req.Status}
	}

	reason := strings.TrimSpace(req.Reason)
	if req.Status == model.StatusCancelled && reason == "" {
		return nil, validationErrorf("cancellation requires a reason")
	}

	now := time.Now().UTC()
	prev := e.Status
	e.Status = req.Status
	e.LastActivityAt = now
	if req.Status == model.StatusCancelled && reason != "" {
		e.InternalNotes = model.AppendCancellationNote(e.InternalNotes, reason, now)
	}

	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info("event status changed",
		zap.String("eventId", e.ID),
		zap.String("orgId", e.OrgID),
		zap.String("from", string(prev)),
		zap.String("to", string(e.Status)),
	)
	return e, nil
}

// GetByID returns the full event with its read-only related
// sub-objects. The id must be a well-formed UUID.
func (s *EventService) GetByID(ctx context.Context, tc tenant.Context, id string) (*model.Detail, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, validationErrorf("malformed event id %q", id)
	}

	e, err := s.events.GetByID(ctx, tc.OrgID, id)
	if err != nil {
		return nil, err
	}
	rel, err := s.related.Load(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	return &model.Detail{Event: *e, Related: rel}, nil
}

// List returns one page of event summaries.
func (s *EventService) List(ctx context.Context, tc tenant.Context, q model.ListQuery) (*model.Page, error) {
	for _, st := range q.Statuses {
		if !st.Valid() {
			return nil, validationErrorf("unknown status %q", st)
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	offset := 0
	if q.Cursor != "" {
		var err error
		offset, err = decodeCursor(q.Cursor)
		if err != nil {
			return nil, validationErrorf("malformed cursor")
		}
	}

	summaries, err := s.events.List(ctx, tc.OrgID, model.ListFilter{
		Statuses: q.Statuses,
		Type:     q.Type,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
		Search:   q.Search,
		Sort:     q.Sort,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	page := &model.Page{Events: summaries}
	if page.Events == nil {
		page.Events = []model.Summary{}
	}
	if len(summaries) == limit {
		page.NextCursor = encodeCursor(offset + limit)
	}
	return page, nil
}

// Calendar returns the org's events with eventDate in [start, end]
// inclusive, date ascending, excluding cancelled and settled bookings.
func (s *EventService) Calendar(ctx context.Context, tc tenant.Context, start, end time.Time) ([]model.Summary, error) {
	events, err := s.events.ListByDateRange(ctx, tc.OrgID, start, end)
	if err != nil {
		return nil, err
	}
	out := []model.Summary{}
	for i := range events {
		switch events[i].Status {
		case model.StatusCancelled, model.StatusSettled:
			continue
		}
		out = append(out, events[i].Summarize())
	}
	return out, nil
}

// Upcoming returns at most 10 events in the next 7 days, date
// ascending. Unlike Calendar it also excludes inquiries: an unconfirmed
// inquiry is not upcoming work.
func (s *EventService) Upcoming(ctx context.Context, tc tenant.Context) ([]model.Summary, error) {
	today := startOfDay(time.Now().UTC())
	events, err := s.events.ListByDateRange(ctx, tc.OrgID, today, today.Add(upcomingWindow))
	if err != nil {
		return nil, err
	}
	out := []model.Summary{}
	for i := range events {
		switch events[i].Status {
		case model.StatusCancelled, model.StatusSettled, model.StatusInquiry:
			continue
		}
		out = append(out, events[i].Summarize())
		if len(out) == upcomingCap {
			break
		}
	}
	return out, nil
}

// CheckAvailability counts the org's bookings on exactly one date.
// Advisory only: it does not reserve or lock the date, so two callers
// checking before either books will both see it as available.
func (s *EventService) CheckAvailability(ctx context.Context, tc tenant.Context, date time.Time) (*model.Availability, error) {
	day := startOfDay(date)
	events, err := s.events.ListByDateRange(ctx, tc.OrgID, day, day)
	if err != nil {
		return nil, err
	}
	matches := []model.Summary{}
	for i := range events {
		switch events[i].Status {
		case model.StatusCancelled, model.StatusSettled, model.StatusInquiry:
			continue
		}
		matches = append(matches, events[i].Summarize())
	}
	return &model.Availability{
		Date:        day.Format(model.DateLayout),
		EventCount:  len(matches),
		Events:      matches,
		IsAvailable: len(matches) == 0,
	}, nil
}

// Stats computes the dashboard counters. No caching: recomputed per call.
func (s *EventService) Stats(ctx context.Context, tc tenant.Context) (*model.Stats, error) {
	total, err := s.events.CountByOrg(ctx, tc.OrgID)
	if err != nil {
		return nil, err
	}
	active, err := s.events.CountByStatus(ctx, tc.OrgID, activeStatuses)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	firstOfNext := firstOfMonth.AddDate(0, 1, 0)
	thisMonth, err := s.events.CountByEventDate(ctx, tc.OrgID, firstOfMonth, firstOfNext)
	if err != nil {
		return nil, err
	}

	pending, err := s.events.CountByStatus(ctx, tc.OrgID, []model.Status{model.StatusInquiry})
	if err != nil {
		return nil, err
	}

	return &model.Stats{
		TotalEvents:      total,
		ActiveEvents:     active,
		ThisMonthEvents:  thisMonth,
		PendingInquiries: pending,
	}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func encodeCursor(offset int) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func decodeCursor(cursor string) (int, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad cursor offset")
	}
	return n, nil
}
