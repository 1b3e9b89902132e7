package service

import (
	"context"
	"strings"

	"github.com/dardiyafa/booking-engine/internal/model"
	"github.com/dardiyafa/booking-engine/internal/ratelimit"
	"github.com/dardiyafa/booking-engine/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// OrgStore resolves the target organization on the public intake path.
type OrgStore interface {
	GetByID(ctx context.Context, id string) (*model.Organization, error)
}

// Notifier is the hook for the queued customer notification (email,
// WhatsApp). Dispatch is an external collaborator consumed
// asynchronously; this engine only hands the event over.
type Notifier interface {
	InquiryReceived(ctx context.Context, e *model.Event)
}

// PublicService serves the two unauthenticated operations: inquiry
// intake and client read-back. Unlike the authenticated surface it has
// no pre-resolved tenant context, so it must verify the target
// organization itself and rate-limit the caller.
type PublicService struct {
	events   EventStore
	orgs     OrgStore
	limiter  ratelimit.Limiter
	notifier Notifier
	validate *validator.Validate
	log      *zap.Logger
}

// NewPublicService constructs a PublicService.
func NewPublicService(events EventStore, orgs OrgStore, limiter ratelimit.Limiter, notifier Notifier, log *zap.Logger) *PublicService {
	return &PublicService{
		events:   events,
		orgs:     orgs,
		limiter:  limiter,
		notifier: notifier,
		validate: validator.New(),
		log:      log,
	}
}

// SubmitInquiry creates a new booking in the inquiry state on behalf of
// an anonymous customer. Rate limit first, then the org liveness check,
// then the write: an over-limit call does no further work, and the two
// failure modes stay distinguishable for the caller.
func (p *PublicService) SubmitInquiry(ctx context.Context, req model.SubmitInquiryRequest) (*model.InquiryReceipt, error) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	if err := checkStruct(p.validate, req); err != nil {
		return nil, err
	}

	if err := p.limiter.Allow(ctx, "inquiry:"+req.CustomerPhone); err != nil {
		return nil, err
	}

	org, err := p.orgs.GetByID(ctx, req.OrgID)
	if err != nil {
		return nil, err
	}
	if !org.Active {
		return nil, repository.ErrNotFound
	}

	eventDate, err := model.ParseDate(req.EventDate)
	if err != nil {
		return nil, validationErrorf("eventDate: %v", err)
	}

	title := strings.ReplaceAll(string(req.Type), "_", " ") + " - " + req.CustomerName
	e := newInquiryEvent(org.ID, title, req.Type, eventDate)
	e.GuestCount = req.GuestCount
	e.CustomerName = req.CustomerName
	e.CustomerPhone = req.CustomerPhone
	e.CustomerEmail = req.CustomerEmail
	e.VenueCity = req.VenueCity
	e.SpecialRequests = req.SpecialRequests
	if req.DietaryRequirements != nil {
		e.DietaryRequirements = req.DietaryRequirements
	}

	if err := p.events.Create(ctx, e); err != nil {
		return nil, err
	}

	p.log.Info("public inquiry received",
		zap.String("eventId", e.ID),
		zap.String("orgId", org.ID),
		zap.String("eventType", string(e.Type)),
	)
	p.notifier.InquiryReceived(ctx, e)

	return &model.InquiryReceipt{
		EventID: e.ID,
		Message: "Inquiry received. The caterer will contact you shortly.",
	}, nil
}

// ClientEvent is the self-service tracking lookup. The stored customer
// phone must exactly equal the supplied string — no normalization, no
// session, no OTP. Exact equality is the whole authorization mechanism
// here, a deliberately low-assurance trade-off; a phone typed
// differently at inquiry time will legitimately get not-found.
func (p *PublicService) ClientEvent(ctx context.Context, eventID, phone string) (*model.ClientView, error) {
	if eventID == "" || phone == "" {
		return nil, repository.ErrNotFound
	}

	e, err := p.events.GetByIDAny(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.CustomerPhone != phone {
		return nil, repository.ErrNotFound
	}

	view := e.ClientProjection()
	return &view, nil
}
