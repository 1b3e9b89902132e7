package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/dardiyafa/booking-engine/internal/model"
	"github.com/dardiyafa/booking-engine/internal/ratelimit"
	"github.com/dardiyafa/booking-engine/internal/repository"
	"github.com/dardiyafa/booking-engine/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ─── In-memory collaborators ──────────────────────────────────────────────────

type memStore struct {
	events  map[string]*model.Event
	created int
}

func newMemStore() *memStore { return &memStore{events: map[string]*model.Event{}} }

func (m *memStore) seed(e model.Event) *model.Event {
	cp := e
	m.events[e.ID] = &cp
	return &cp
}

func (m *memStore) Create(ctx context.Context, e *model.Event) error {
	cp := *e
	m.events[e.ID] = &cp
	m.created++
	return nil
}

func (m *memStore) GetByID(ctx context.Context, orgID, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok || e.OrgID != orgID {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) GetByIDAny(ctx context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) Update(ctx context.Context, e *model.Event) error {
	existing, ok := m.events[e.ID]
	if !ok || existing.OrgID != e.OrgID {
		return repository.ErrNotFound
	}
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *memStore) List(ctx context.Context, orgID string, f model.ListFilter) ([]model.Summary, error) {
	var all []*model.Event
	for _, e := range m.events {
		if e.OrgID == orgID {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	var out []model.Summary
	for i := f.Offset; i < len(all) && len(out) < f.Limit; i++ {
		out = append(out, all[i].Summarize())
	}
	return out, nil
}

func (m *memStore) ListByDateRange(ctx context.Context, orgID string, start, end time.Time) ([]model.Event, error) {
	var out []model.Event
	for _, e := range m.events {
		if e.OrgID == orgID && !e.EventDate.Before(start) && !e.EventDate.After(end) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memStore) CountByOrg(ctx context.Context, orgID string) (int, error) {
	n := 0
	for _, e := range m.events {
		if e.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountByStatus(ctx context.Context, orgID string, statuses []model.Status) (int, error) {
	n := 0
	for _, e := range m.events {
		if e.OrgID != orgID {
			continue
		}
		for _, s := range statuses {
			if e.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

func (m *memStore) CountByEventDate(ctx context.Context, orgID string, start, end time.Time) (int, error) {
	n := 0
	for _, e := range m.events {
		if e.OrgID == orgID && !e.EventDate.Before(start) && e.EventDate.Before(end) {
			n++
		}
	}
	return n, nil
}

type memRelated struct{}

func (memRelated) Load(ctx context.Context, eventID string) (model.Related, error) {
	return model.Related{
		Quotes:            []model.Quote{},
		PaymentMilestones: []model.PaymentMilestone{},
		StaffAssignments:  []model.StaffAssignment{},
		PrepTasks:         []model.PrepTask{},
	}, nil
}

type memOrgs struct{ orgs map[string]*model.Organization }

func (m *memOrgs) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	o, ok := m.orgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

type memLimiter struct {
	limit int
	calls map[string]int
}

func (m *memLimiter) Allow(ctx context.Context, key string) error {
	m.calls[key]++
	if m.calls[key] > m.limit {
		return ratelimit.ErrLimitExceeded
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) InquiryReceived(ctx context.Context, e *model.Event) {}

// ─── Router fixture ───────────────────────────────────────────────────────────

func newTestRouter(store *memStore) chi.Router {
	log := zap.NewNop()
	orgs := &memOrgs{orgs: map[string]*model.Organization{
		"org-1": {ID: "org-1", Name: "Dar Diyafa", Active: true},
		"org-9": {ID: "org-9", Name: "Retired Caterer", Active: false},
	}}
	eventSvc := service.NewEventService(store, memRelated{}, log)
	publicSvc := service.NewPublicService(store, orgs, &memLimiter{limit: 5, calls: map[string]int{}}, noopNotifier{}, log)

	r := chi.NewRouter()
	r.Route("/events", func(r chi.Router) {
		r.Use(TenantContext)
		NewEventHandler(eventSvc).Routes(r)
	})
	r.Route("/public", NewPublicHandler(publicSvc).Routes)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

var managerHeaders = map[string]string{"X-Org-ID": "org-1", "X-Org-Role": "manager"}
var staffHeaders = map[string]string{"X-Org-ID": "org-1", "X-Org-Role": "staff"}

func seedInquiry(store *memStore) *model.Event {
	return store.seed(model.Event{
		ID:             uuid.New().String(),
		OrgID:          "org-1",
		Title:          "Wedding Reception",
		Type:           model.EventTypeWedding,
		Status:         model.StatusInquiry,
		EventDate:      time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		GuestCount:     150,
		CustomerName:   "Ahmed Tazi",
		CustomerPhone:  "+212612345678",
		CreatedAt:      time.Now().UTC(),
		LastActivityAt: time.Now().UTC(),
	})
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestMissingTenantHeadersIsUnauthorized(t *testing.T) {
	r := newTestRouter(newMemStore())
	rec := doJSON(t, r, http.MethodGet, "/events/stats", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateEndToEnd(t *testing.T) {
	r := newTestRouter(newMemStore())
	rec := doJSON(t, r, http.MethodPost, "/events", map[string]any{
		"title":         "Wedding Reception",
		"eventType":     "wedding",
		"eventDate":     "2026-09-12",
		"guestCount":    150,
		"customerName":  "Ahmed Tazi",
		"customerPhone": "+212612345678",
	}, managerHeaders)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var e model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, model.StatusInquiry, e.Status)
	assert.Zero(t, e.BalanceDue)
}

func TestCreateForbiddenForStaff(t *testing.T) {
	r := newTestRouter(newMemStore())
	rec := doJSON(t, r, http.MethodPost, "/events", map[string]any{
		"title": "Eid Lunch", "eventType": "eid", "eventDate": "2026-06-01",
		"guestCount": 30, "customerName": "Driss A", "customerPhone": "+212612345678",
	}, staffHeaders)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateStatusIllegalTransitionHTTP(t *testing.T) {
	store := newMemStore()
	e := seedInquiry(store)
	r := newTestRouter(store)

	rec := doJSON(t, r, http.MethodPatch, "/events/"+e.ID+"/status",
		map[string]any{"status": "confirmed"}, managerHeaders)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "legal next states")
	assert.Contains(t, rec.Body.String(), "reviewed, cancelled")
}

func TestUpdateStatusCancellationHTTP(t *testing.T) {
	store := newMemStore()
	e := seedInquiry(store)
	r := newTestRouter(store)

	// Missing reason is a 400.
	rec := doJSON(t, r, http.MethodPatch, "/events/"+e.ID+"/status",
		map[string]any{"status": "cancelled"}, managerHeaders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, "/events/"+e.ID+"/status",
		map[string]any{"status": "cancelled", "reason": "Client changed mind"}, managerHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, model.StatusCancelled, updated.Status)
	assert.Contains(t, updated.InternalNotes, "CANCELLED: Client changed mind")
}

func TestGetByIDErrors(t *testing.T) {
	r := newTestRouter(newMemStore())

	rec := doJSON(t, r, http.MethodGet, "/events/"+uuid.New().String(), nil, managerHeaders)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/events/not-a-uuid", nil, managerHeaders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWrongTenantSeesNotFound(t *testing.T) {
	store := newMemStore()
	e := seedInquiry(store)
	r := newTestRouter(store)

	rec := doJSON(t, r, http.MethodGet, "/events/"+e.ID, nil,
		map[string]string{"X-Org-ID": "org-2", "X-Org-Role": "manager"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicInquiryRateLimitHTTP(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)

	body := map[string]any{
		"orgId": "org-1", "eventType": "corporate", "eventDate": "2026-07-15",
		"guestCount": 40, "customerName": "Nadia F", "customerPhone": "+212644556677",
	}
	for i := 0; i < 5; i++ {
		rec := doJSON(t, r, http.MethodPost, "/public/inquiries", body, nil)
		require.Equalf(t, http.StatusCreated, rec.Code, "call %d: %s", i+1, rec.Body.String())
	}

	rec := doJSON(t, r, http.MethodPost, "/public/inquiries", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 5, store.created)
}

func TestPublicInquiryOrgFailures(t *testing.T) {
	r := newTestRouter(newMemStore())

	for _, orgID := range []string{"org-missing", "org-9"} {
		rec := doJSON(t, r, http.MethodPost, "/public/inquiries", map[string]any{
			"orgId": orgID, "eventType": "birthday", "eventDate": "2026-07-15",
			"guestCount": 20, "customerName": "Hind Z", "customerPhone": "+212644556677",
		}, nil)
		assert.Equalf(t, http.StatusNotFound, rec.Code, "org %s", orgID)
		assert.Contains(t, rec.Body.String(), "Caterer not found")
	}
}

func TestClientEventHTTP(t *testing.T) {
	store := newMemStore()
	e := seedInquiry(store)
	r := newTestRouter(store)

	rec := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/public/events/%s?phone=%s", e.ID, "%2B212612345678"), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view model.ClientView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, e.ID, view.ID)

	rec = doJSON(t, r, http.MethodGet,
		"/public/events/"+e.ID+"?phone=%2B212600000000", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsHTTP(t *testing.T) {
	store := newMemStore()
	seedInquiry(store)
	r := newTestRouter(store)

	rec := doJSON(t, r, http.MethodGet, "/events/stats", nil, managerHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats model.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalEvents)
	assert.Equal(t, 1, stats.PendingInquiries)
}
