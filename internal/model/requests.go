package model

import "time"

// DateLayout is the wire format for all calendar dates in this API.
const DateLayout = "2006-01-02"

// ParseDate parses a wire-format date into a UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// CreateEventRequest is the payload for the authenticated create path.
// Status and the three money fields are deliberately absent: creation
// always forces status=inquiry and zeroes all amounts.
type CreateEventRequest struct {
	Title        string    `json:"title" validate:"required,min=2"`
	Type         EventType `json:"eventType" validate:"required,oneof=wedding corporate ramadan_iftar eid birthday conference funeral engagement henna graduation diffa other"`
	EventDate    string    `json:"eventDate" validate:"required,datetime=2006-01-02"`
	EventEndDate string    `json:"eventEndDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime    string    `json:"startTime,omitempty"`
	EndTime      string    `json:"endTime,omitempty"`
	VenueName    string    `json:"venueName,omitempty"`
	VenueAddress string    `json:"venueAddress,omitempty"`
	VenueCity    string    `json:"venueCity,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`

	GuestCount int `json:"guestCount" validate:"required,gt=0"`

	CustomerName  string `json:"customerName" validate:"required,min=2"`
	CustomerPhone string `json:"customerPhone" validate:"required,min=8"`
	CustomerEmail string `json:"customerEmail,omitempty" validate:"omitempty,email"`

	SpecialRequests     string   `json:"specialRequests,omitempty"`
	Notes               string   `json:"notes,omitempty"`
	DietaryRequirements []string `json:"dietaryRequirements,omitempty"`
}

// UpdateEventRequest is a partial field patch: nil means "leave as is".
// There is intentionally no Status field (status changes go through
// updateStatus only) and no BalanceDue field (it is derived, never
// caller-supplied). A non-nil DietaryRequirements replaces the stored
// list wholesale.
type UpdateEventRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=2"`
	Type         *EventType `json:"eventType,omitempty" validate:"omitempty,oneof=wedding corporate ramadan_iftar eid birthday conference funeral engagement henna graduation diffa other"`
	EventDate    *string    `json:"eventDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EventEndDate *string    `json:"eventEndDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime    *string    `json:"startTime,omitempty"`
	EndTime      *string    `json:"endTime,omitempty"`
	VenueName    *string    `json:"venueName,omitempty"`
	VenueAddress *string    `json:"venueAddress,omitempty"`
	VenueCity    *string    `json:"venueCity,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`

	GuestCount          *int `json:"guestCount,omitempty" validate:"omitempty,gt=0"`
	ConfirmedGuestCount *int `json:"confirmedGuestCount,omitempty" validate:"omitempty,gte=0"`

	TotalAmount   *int64 `json:"totalAmount,omitempty" validate:"omitempty,gte=0"`
	DepositAmount *int64 `json:"depositAmount,omitempty" validate:"omitempty,gte=0"`

	CustomerName  *string `json:"customerName,omitempty" validate:"omitempty,min=2"`
	CustomerPhone *string `json:"customerPhone,omitempty" validate:"omitempty,min=8"`
	CustomerEmail *string `json:"customerEmail,omitempty" validate:"omitempty,email"`

	SpecialRequests     *string   `json:"specialRequests,omitempty"`
	Notes               *string   `json:"notes,omitempty"`
	InternalNotes       *string   `json:"internalNotes,omitempty"`
	DietaryRequirements *[]string `json:"dietaryRequirements,omitempty"`
}

// UpdateStatusRequest asks for one lifecycle transition. Reason is
// required when the target status is cancelled.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required"`
	Reason string `json:"reason,omitempty"`
}

// SubmitInquiryRequest is the unauthenticated public intake payload.
type SubmitInquiryRequest struct {
	OrgID         string    `json:"orgId" validate:"required"`
	Type          EventType `json:"eventType" validate:"required,oneof=wedding corporate ramadan_iftar eid birthday conference funeral engagement henna graduation diffa other"`
	EventDate     string    `json:"eventDate" validate:"required,datetime=2006-01-02"`
	GuestCount    int       `json:"guestCount" validate:"required,gt=0"`
	CustomerName  string    `json:"customerName" validate:"required,min=2"`
	CustomerPhone string    `json:"customerPhone" validate:"required,min=8"`
	CustomerEmail string    `json:"customerEmail,omitempty" validate:"omitempty,email"`

	VenueCity           string   `json:"venueCity,omitempty"`
	SpecialRequests     string   `json:"specialRequests,omitempty"`
	DietaryRequirements []string `json:"dietaryRequirements,omitempty"`
}

// InquiryReceipt is the public intake response.
type InquiryReceipt struct {
	EventID string `json:"eventId"`
	Message string `json:"message"`
}

// ListQuery carries the list filters, sort and cursor pagination.
type ListQuery struct {
	Statuses []Status
	Type     EventType
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Sort     string // date_asc | date_desc | created_desc (default)
	Cursor   string
	Limit    int // 1-50, default 20
}

// ListFilter is the resolved store-level filter (cursor decoded).
type ListFilter struct {
	Statuses []Status
	Type     EventType
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Sort     string
	Offset   int
	Limit    int
}

// Page is one page of event summaries plus the cursor for the next one.
// NextCursor is empty on the last page.
type Page struct {
	Events     []Summary `json:"events"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// Availability is the advisory same-day conflict check result. It does
// not reserve or lock the date.
type Availability struct {
	Date        string    `json:"date"`
	EventCount  int       `json:"eventCount"`
	Events      []Summary `json:"events"`
	IsAvailable bool      `json:"isAvailable"`
}

// Stats is the per-organization dashboard aggregate.
type Stats struct {
	TotalEvents      int `json:"totalEvents"`
	ActiveEvents     int `json:"activeEvents"`
	ThisMonthEvents  int `json:"thisMonthEvents"`
	PendingInquiries int `json:"pendingInquiries"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
