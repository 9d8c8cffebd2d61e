package adapter

import (
	"context"
	"time"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// AlertOutbox persists budget alert emails until the worker delivers them.
type AlertOutbox interface {
	Enqueue(ctx context.Context, email *entity.AlertEmail) error

	// Due returns pending alerts whose next attempt is at or before now,
	// oldest first.
	Due(ctx context.Context, now time.Time, limit int) ([]*entity.AlertEmail, error)

	Save(ctx context.Context, email *entity.AlertEmail) error

	// ExistsByReference reports whether the alert was ever queued, whatever
	// became of it.
	ExistsByReference(ctx context.Context, reference string) (bool, error)

	// PurgeSent deletes sent alerts closed before the cutoff.
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
}
