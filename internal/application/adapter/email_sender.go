package adapter

import (
	"context"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// OutgoingEmail is a rendered message ready for the provider.
type OutgoingEmail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// EmailSender delivers one email through an external provider. Failures are
// *domainerror.EmailError so callers can tell permanent from temporary.
type EmailSender interface {
	// Send returns the provider's message id.
	Send(ctx context.Context, email OutgoingEmail) (string, error)
}

// AlertNotifier queues over-budget alerts for delivery.
type AlertNotifier interface {
	// QueueBudgetAlert is a no-op when the alert was already queued.
	QueueBudgetAlert(ctx context.Context, recipient string, alert entity.BudgetAlert) error
}
