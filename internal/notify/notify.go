// Package notify holds the inquiry notification hook. The real
// dispatch (email, WhatsApp) runs in a separate worker off a queue;
// here we only record that an inquiry needs notifying.
package notify

import (
	"context"

	"github.com/dardiyafa/booking-engine/internal/model"
	"go.uber.org/zap"
)

// LogNotifier writes the notification intent to the structured log.
// It stands in for the queue producer in deployments without one.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// InquiryReceived records that a new inquiry awaits customer follow-up.
func (n *LogNotifier) InquiryReceived(ctx context.Context, e *model.Event) {
	n.log.Info("inquiry notification queued",
		zap.String("eventId", e.ID),
		zap.String("orgId", e.OrgID),
		zap.String("customerName", e.CustomerName),
	)
}
