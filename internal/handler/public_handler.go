package handler

import (
	"errors"
	"net/http"

	"github.com/dardiyafa/booking-engine/internal/model"
	"github.com/dardiyafa/booking-engine/internal/ratelimit"
	"github.com/dardiyafa/booking-engine/internal/repository"
	"github.com/dardiyafa/booking-engine/internal/service"
	"github.com/go-chi/chi/v5"
)

// PublicHandler serves the unauthenticated endpoints: inquiry intake
// and client self-service tracking.
type PublicHandler struct {
	svc *service.PublicService
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(svc *service.PublicService) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// Routes mounts the public endpoints.
func (h *PublicHandler) Routes(r chi.Router) {
	r.Post("/inquiries", h.SubmitInquiry)
	r.Get("/events/{id}", h.ClientEvent)
}

// SubmitInquiry handles POST /public/inquiries
func (h *PublicHandler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitInquiryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	receipt, err := h.svc.SubmitInquiry(r.Context(), req)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.Is(err, ratelimit.ErrLimitExceeded):
			writeError(w, http.StatusTooManyRequests, "too many inquiries, please try again later")
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "Caterer not found")
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, ve.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// ClientEvent handles GET /public/events/{id}?phone=...
// The phone query parameter is the sole credential for this lookup.
func (h *PublicHandler) ClientEvent(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.ClientEvent(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("phone"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
