package email

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/email/templates"
)

// Worker drains the alert outbox.
type Worker struct {
	outbox        adapter.AlertOutbox
	sender        adapter.EmailSender
	renderer      *templates.Renderer
	clock         adapter.Clock
	pollInterval  time.Duration
	batchSize     int
	retentionDays int
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval  time.Duration
	BatchSize     int
	RetentionDays int // Sent alerts older than this are purged; zero keeps them
}

func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval:  5 * time.Second,
		BatchSize:     10,
		RetentionDays: 400,
	}
}

func NewWorker(outbox adapter.AlertOutbox, sender adapter.EmailSender, renderer *templates.Renderer, clock adapter.Clock, config WorkerConfig) *Worker {
	defaults := DefaultWorkerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	return &Worker{
		outbox:        outbox,
		sender:        sender,
		renderer:      renderer,
		clock:         clock,
		pollInterval:  config.PollInterval,
		batchSize:     config.BatchSize,
		retentionDays: config.RetentionDays,
	}
}

// Start runs the worker loop until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Email worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.purgeSent(ctx)
	w.deliverDue(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Email worker shutting down")
			return
		case <-ticker.C:
			w.deliverDue(ctx)
		}
	}
}

// ProcessNow delivers one batch of due alerts synchronously.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.deliverDue(ctx)
}

func (w *Worker) deliverDue(ctx context.Context) {
	due, err := w.outbox.Due(ctx, w.clock.Now(), w.batchSize)
	if err != nil {
		slog.Error("Failed to load due alerts", "error", err)
		return
	}
	if len(due) > 0 {
		slog.Debug("Delivering budget alerts", "count", len(due))
	}

	for _, email := range due {
		if ctx.Err() != nil {
			return
		}
		w.deliver(ctx, email)
	}
}

func (w *Worker) deliver(ctx context.Context, email *entity.AlertEmail) {
	logger := slog.With("alert_id", email.ID, "reference", email.Reference())

	email.MarkSending()
	if err := w.outbox.Save(ctx, email); err != nil {
		logger.Error("Failed to claim alert", "error", err)
		return
	}

	message, err := w.renderer.RenderBudgetAlert(email.Alert)
	if err != nil {
		w.fail(ctx, logger, email, domainerror.NewEmailError(domainerror.ErrCodeAlertRenderFailed, "failed to render budget alert", err))
		return
	}

	providerID, err := w.sender.Send(ctx, adapter.OutgoingEmail{
		To:      email.Recipient,
		Subject: email.Alert.Subject(),
		HTML:    message.HTML,
		Text:    message.Text,
	})
	if err != nil {
		w.fail(ctx, logger, email, err)
		return
	}

	email.MarkSent(providerID, w.clock.Now())
	if err := w.outbox.Save(ctx, email); err != nil {
		logger.Error("Failed to mark alert sent", "error", err)
		return
	}
	logger.Info("Budget alert sent", "provider_id", providerID)
}

func (w *Worker) fail(ctx context.Context, logger *slog.Logger, email *entity.AlertEmail, err error) {
	var emailErr *domainerror.EmailError
	permanent := errors.As(err, &emailErr) && emailErr.IsPermanent()

	email.MarkFailed(err, permanent, w.clock.Now())
	if saveErr := w.outbox.Save(ctx, email); saveErr != nil {
		logger.Error("Failed to record alert failure", "error", saveErr)
	}

	if email.Status == entity.AlertFailed {
		logger.Warn("Budget alert abandoned", "attempts", email.Attempts, "error", err)
		return
	}
	logger.Info("Budget alert will be retried", "attempts", email.Attempts, "next_attempt_at", email.NextAttemptAt, "error", err)
}

func (w *Worker) purgeSent(ctx context.Context) {
	if w.retentionDays <= 0 {
		return
	}
	cutoff := w.clock.Now().AddDate(0, 0, -w.retentionDays)
	purged, err := w.outbox.PurgeSent(ctx, cutoff)
	if err != nil {
		slog.Warn("Failed to purge sent alerts", "error", err)
		return
	}
	if purged > 0 {
		slog.Info("Purged sent alerts", "count", purged)
	}
}
