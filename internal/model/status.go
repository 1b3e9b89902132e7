package model

import "strings"

// Status is the lifecycle state of a booking. Bookings only ever move
// forward along the edges in statusTransitions; there is no operation
// anywhere in the engine that writes an arbitrary status.
type Status string

const (
	StatusInquiry     Status = "inquiry"
	StatusReviewed    Status = "reviewed"
	StatusQuoted      Status = "quoted"
	StatusAccepted    Status = "accepted"
	StatusDeclined    Status = "declined"
	StatusDepositPaid Status = "deposit_paid"
	StatusConfirmed   Status = "confirmed"
	StatusPrep        Status = "prep"
	StatusSetup       Status = "setup"
	StatusExecution   Status = "execution"
	StatusCompleted   Status = "completed"
	StatusSettled     Status = "settled"
	StatusCancelled   Status = "cancelled"
)

// statusTransitions is the single source of truth for the lifecycle.
// Keeping it as data (rather than a chain of conditionals) means the
// legality check, the "legal next states" error message, and any future
// state addition all live in one place.
//
// Cancellation is reachable from every non-terminal state except
// execution and completed: once the team is physically on site, or the
// event has been delivered, the booking can no longer be retroactively
// cancelled — it can only proceed to completion and settlement.
// declined, settled and cancelled are absorbing.
var statusTransitions = map[Status][]Status{
	StatusInquiry:     {StatusReviewed, StatusCancelled},
	StatusReviewed:    {StatusQuoted, StatusDeclined, StatusCancelled},
	StatusQuoted:      {StatusAccepted, StatusDeclined, StatusCancelled},
	StatusAccepted:    {StatusDepositPaid, StatusCancelled},
	StatusDeclined:    {},
	StatusDepositPaid: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:   {StatusPrep, StatusCancelled},
	StatusPrep:        {StatusSetup, StatusCancelled},
	StatusSetup:       {StatusExecution, StatusCancelled},
	StatusExecution:   {StatusCompleted},
	StatusCompleted:   {StatusSettled},
	StatusSettled:     {},
	StatusCancelled:   {},
}

// Valid reports whether s is one of the thirteen known statuses.
func (s Status) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the move s → target is a legal edge.
// Self-loops are not in any edge list, so a same-state "transition" is
// rejected rather than treated as a no-op.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// LegalTargets returns the statuses reachable from s in one step.
// Terminal states return an empty slice.
func (s Status) LegalTargets() []Status {
	targets := statusTransitions[s]
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// IsTerminal reports whether s has no outgoing edges.
func (s Status) IsTerminal() bool {
	return s.Valid() && len(statusTransitions[s]) == 0
}

// AllStatuses lists every status, in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusInquiry, StatusReviewed, StatusQuoted, StatusAccepted,
		StatusDeclined, StatusDepositPaid, StatusConfirmed, StatusPrep,
		StatusSetup, StatusExecution, StatusCompleted, StatusSettled,
		StatusCancelled,
	}
}

// FormatStatusList renders statuses as a comma-separated string for
// error messages, e.g. "reviewed, cancelled".
func FormatStatusList(statuses []Status) string {
	if len(statuses) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
