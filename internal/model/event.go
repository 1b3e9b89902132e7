// Package model defines the core domain types for the catering booking
// engine: the Event entity, its lifecycle status machine, and the pure
// helpers (balance calculator, audit note appender) that keep its
// derived fields honest.
package model

import (
	"fmt"
	"time"
)

// EventType classifies a booking. Closed enumeration.
type EventType string

const (
	EventTypeWedding      EventType = "wedding"
	EventTypeCorporate    EventType = "corporate"
	EventTypeRamadanIftar EventType = "ramadan_iftar"
	EventTypeEid          EventType = "eid"
	EventTypeBirthday     EventType = "birthday"
	EventTypeConference   EventType = "conference"
	EventTypeFuneral      EventType = "funeral"
	EventTypeEngagement   EventType = "engagement"
	EventTypeHenna        EventType = "henna"
	EventTypeGraduation   EventType = "graduation"
	EventTypeDiffa        EventType = "diffa"
	EventTypeOther        EventType = "other"
)

// Event is one catering booking, owned by exactly one organization.
//
// Money fields are opaque integer minor-unit amounts. BalanceDue is
// derived: every mutating write recomputes it from TotalAmount and
// DepositAmount; it is never accepted from a caller. Nothing enforces
// DepositAmount <= TotalAmount, so BalanceDue may legally go negative
// (over-paid).
type Event struct {
	ID     string    `json:"id"`
	OrgID  string    `json:"orgId"`
	Title  string    `json:"title"`
	Type   EventType `json:"eventType"`
	Status Status    `json:"status"`

	EventDate    time.Time  `json:"eventDate"`
	EventEndDate *time.Time `json:"eventEndDate,omitempty"`
	StartTime    string     `json:"startTime,omitempty"` // wall-clock "HH:MM", not timezone-validated
	EndTime      string     `json:"endTime,omitempty"`
	VenueName    string     `json:"venueName,omitempty"`
	VenueAddress string     `json:"venueAddress,omitempty"`
	VenueCity    string     `json:"venueCity,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`

	GuestCount          int  `json:"guestCount"`
	ConfirmedGuestCount *int `json:"confirmedGuestCount,omitempty"`

	TotalAmount   int64 `json:"totalAmount"`
	DepositAmount int64 `json:"depositAmount"`
	BalanceDue    int64 `json:"balanceDue"`

	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail,omitempty"`

	SpecialRequests     string   `json:"specialRequests,omitempty"`
	Notes               string   `json:"notes,omitempty"`
	InternalNotes       string   `json:"internalNotes,omitempty"`
	DietaryRequirements []string `json:"dietaryRequirements"`

	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// ComputeBalanceDue is the balance calculator: the one way BalanceDue is
// ever produced. Callers re-assert it on every write rather than only
// when an amount changed, so the stored value can never drift.
func ComputeBalanceDue(totalAmount, depositAmount int64) int64 {
	return totalAmount - depositAmount
}

// AppendCancellationNote appends an audit line to the free-text internal
// notes, separating it from prior content with a blank line. The format
// ("[<minute timestamp>] CANCELLED: <reason>") is append-only log output,
// never parsed back into structure.
func AppendCancellationNote(existing, reason string, at time.Time) string {
	line := fmt.Sprintf("[%s] CANCELLED: %s", at.Format("2006-01-02 15:04"), reason)
	if existing == "" {
		return line
	}
	return existing + "\n\n" + line
}

// Summary is the list/calendar projection of an Event: enough to render
// a row, no financial internals beyond the total.
type Summary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Type          EventType `json:"eventType"`
	Status        Status    `json:"status"`
	EventDate     time.Time `json:"eventDate"`
	StartTime     string    `json:"startTime,omitempty"`
	VenueName     string    `json:"venueName,omitempty"`
	VenueCity     string    `json:"venueCity,omitempty"`
	GuestCount    int       `json:"guestCount"`
	TotalAmount   int64     `json:"totalAmount"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
}

// Summarize projects an Event into its Summary.
func (e *Event) Summarize() Summary {
	return Summary{
		ID:            e.ID,
		Title:         e.Title,
		Type:          e.Type,
		Status:        e.Status,
		EventDate:     e.EventDate,
		StartTime:     e.StartTime,
		VenueName:     e.VenueName,
		VenueCity:     e.VenueCity,
		GuestCount:    e.GuestCount,
		TotalAmount:   e.TotalAmount,
		CustomerName:  e.CustomerName,
		CustomerPhone: e.CustomerPhone,
	}
}

// ClientView is the narrow public read-back projection. Staff-only
// fields (internal notes) are never included.
type ClientView struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Type            EventType `json:"eventType"`
	Status          Status    `json:"status"`
	EventDate       time.Time `json:"eventDate"`
	StartTime       string    `json:"startTime,omitempty"`
	EndTime         string    `json:"endTime,omitempty"`
	VenueName       string    `json:"venueName,omitempty"`
	VenueAddress    string    `json:"venueAddress,omitempty"`
	VenueCity       string    `json:"venueCity,omitempty"`
	GuestCount      int       `json:"guestCount"`
	TotalAmount     int64     `json:"totalAmount"`
	DepositAmount   int64     `json:"depositAmount"`
	BalanceDue      int64     `json:"balanceDue"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// ClientProjection builds the public view of an Event.
func (e *Event) ClientProjection() ClientView {
	return ClientView{
		ID:              e.ID,
		Title:           e.Title,
		Type:            e.Type,
		Status:          e.Status,
		EventDate:       e.EventDate,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		VenueName:       e.VenueName,
		VenueAddress:    e.VenueAddress,
		VenueCity:       e.VenueCity,
		GuestCount:      e.GuestCount,
		TotalAmount:     e.TotalAmount,
		DepositAmount:   e.DepositAmount,
		BalanceDue:      e.BalanceDue,
		SpecialRequests: e.SpecialRequests,
		Notes:           e.Notes,
	}
}

// Organization is the tenant that owns events. Only the fields the
// public intake path needs are modelled here; full organization CRUD
// lives outside this engine.
type Organization struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ─── Related sub-objects (read-only on getById) ──────────────────────────────
//
// Quotes, payment milestones, staff assignments and prep tasks are owned
// by other modules; this engine only reads them to assemble the detail view.

// Quote is a priced proposal attached to an event.
type Quote struct {
	ID          string    `json:"id"`
	EventID     string    `json:"eventId"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PaymentMilestone is a scheduled payment against an event.
type PaymentMilestone struct {
	ID      string     `json:"id"`
	EventID string     `json:"eventId"`
	Label   string     `json:"label"`
	Amount  int64      `json:"amount"`
	DueDate time.Time  `json:"dueDate"`
	PaidAt  *time.Time `json:"paidAt,omitempty"`
}

// StaffAssignment is a staff member scheduled onto an event.
type StaffAssignment struct {
	ID         string    `json:"id"`
	EventID    string    `json:"eventId"`
	StaffName  string    `json:"staffName"`
	Role       string    `json:"role"`
	ShiftStart time.Time `json:"shiftStart"`
	ShiftEnd   time.Time `json:"shiftEnd"`
}

// PrepTask is a kitchen/logistics task attached to an event.
type PrepTask struct {
	ID      string     `json:"id"`
	EventID string     `json:"eventId"`
	Title   string     `json:"title"`
	Done    bool       `json:"done"`
	DueAt   *time.Time `json:"dueAt,omitempty"`
}

// Related bundles the read-only sub-objects other modules attach to an
// event.
type Related struct {
	Quotes            []Quote            `json:"quotes"`
	PaymentMilestones []PaymentMilestone `json:"paymentMilestones"`
	StaffAssignments  []StaffAssignment  `json:"staffAssignments"`
	PrepTasks         []PrepTask         `json:"prepTasks"`
}

// Detail is the full getById payload: the event plus its read-only
// related sub-objects.
type Detail struct {
	Event
	Related
}
