// Package email queues budget alerts and delivers them through Resend.
package email

import (
	"context"
	"log/slog"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// Notifier writes budget alerts to the outbox for the worker to send.
type Notifier struct {
	outbox adapter.AlertOutbox
	clock  adapter.Clock
}

func NewNotifier(outbox adapter.AlertOutbox, clock adapter.Clock) *Notifier {
	return &Notifier{outbox: outbox, clock: clock}
}

// QueueBudgetAlert queues alert unless it was queued before. The outbox keeps
// sent and failed alerts, so a category alerts once per month even after a
// cache flush.
func (n *Notifier) QueueBudgetAlert(ctx context.Context, recipient string, alert entity.BudgetAlert) error {
	reference := alert.Reference()

	exists, err := n.outbox.ExistsByReference(ctx, reference)
	if err != nil {
		return domainerror.NewEmailError(domainerror.ErrCodeEmailQueueFailed, "failed to check alert history", err)
	}
	if exists {
		slog.Debug("Budget alert already queued", "reference", reference)
		return nil
	}

	return n.outbox.Enqueue(ctx, entity.NewAlertEmail(recipient, alert, n.clock.Now()))
}

var _ adapter.AlertNotifier = (*Notifier)(nil)
