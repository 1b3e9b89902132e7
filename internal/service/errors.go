package service

import (
	"errors"
	"fmt"

	"github.com/dardiyafa/booking-engine/internal/model"
)

// ErrForbidden is returned when the caller's role does not permit the
// operation. Distinct from not-found so a UI can show "insufficient
// permission" rather than "doesn't exist".
var ErrForbidden = errors.New("insufficient permission")

// ValidationError is a client-input error: a schema constraint or a
// business rule was violated. Never retried, never recovered server-side.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// TransitionError reports an illegal lifecycle transition. The message
// enumerates the legal next states: it is the caller's only feedback
// channel, so the wording is part of the contract.
type TransitionError struct {
	From model.Status
	To   model.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf(
		"cannot transition from %q to %q; legal next states: %s",
		e.From, e.To, model.FormatStatusList(e.From.LegalTargets()),
	)
}
