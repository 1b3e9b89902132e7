// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dardiyafa/booking-engine/internal/model"
	"github.com/dardiyafa/booking-engine/internal/repository"
	"github.com/dardiyafa/booking-engine/internal/service"
	"github.com/dardiyafa/booking-engine/internal/tenant"
	"github.com/go-chi/chi/v5"
)

// EventHandler holds the HTTP handlers for the authenticated booking API.
type EventHandler struct {
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// Routes mounts the authenticated booking endpoints.
func (h *EventHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/calendar", h.Calendar)
	r.Get("/upcoming", h.Upcoming)
	r.Get("/availability", h.CheckAvailability)
	r.Get("/stats", h.Stats)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps the engine's error taxonomy onto HTTP status
// codes. Every failure path is intentional and distinguishable; there
// is no generic catch-all beyond the 500 for genuine store failures.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	var te *service.TransitionError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "event not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &te):
		writeError(w, http.StatusBadRequest, te.Error())
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func tenantFrom(r *http.Request) (tenant.Context, bool) {
	return tenant.FromContext(r.Context())
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Create handles POST /events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization context")
		return
	}

	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Create(r.Context(), tc, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// List handles GET /events with filters, sort and cursor pagination.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization context")
		return
	}

	q := r.URL.Query()
	query := model.ListQuery{
		Type:   model.EventType(q.Get("eventType")),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Cursor: q.Get("cursor"),
	}
	for _, s := range q["status"] {
		query.Statuses = append(query.Statuses, model.Status(s))
	}
	if v := q.Get("dateFrom"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "dateFrom: expected YYYY-MM-DD")
			return
		}
		query.DateFrom = &d
	}
	if v := q.Get("dateTo"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "dateTo: expected YYYY-MM-DD")
			return
		}
		query.DateTo = &d
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		query.Limit = n
	}

	page, err := h.svc.List(r.Context(), tc, query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization context")
		return
	}

	detail, err := h.svc.GetByID(r.Context(), tc, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Update handles PATCH /events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization context")
		return
	}

	var req model.UpdateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Update(r.Context(), tc, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateStatus handles PATCH /events/{id}/status
func (h *EventHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization context")
		return
	}

	var req model.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.UpdateStatus(r.Context(), tc, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Calendar handles GET /events/calendar?startDate=...&endDate=...
func (h *EventHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization context")
		return
	}

	start, err := model.ParseDate(r.URL.Query().Get("startDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "startDate: expected YYYY-MM-DD")
		return
	}
	end, err := model.ParseDate(r.URL.Query().Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "endDate: expected YYYY-MM-DD")
		return
	}

	events, err := h.svc.Calendar(r.Context(), tc, start, end)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Upcoming handles GET /events/upcoming
func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization context")
		return
	}

	events, err := h.svc.Upcoming(r.Context(), tc)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// CheckAvailability handles GET /events/availability?date=...
func (h *EventHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization context")
		return
	}

	date, err := model.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date: expected YYYY-MM-DD")
		return
	}

	avail, err := h.svc.CheckAvailability(r.Context(), tc, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

// Stats handles GET /events/stats
func (h *EventHandler) Stats(w http.ResponseWriter, r *http.Request) {
	tc, ok := tenantFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing organization context")
		return
	}

	stats, err := h.svc.Stats(r.Context(), tc)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
