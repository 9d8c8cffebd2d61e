package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

type alertOutboxRepository struct {
	db *gorm.DB
}

// NewAlertOutboxRepository creates the gorm-backed alert outbox.
func NewAlertOutboxRepository(db *gorm.DB) adapter.AlertOutbox {
	return &alertOutboxRepository{db: db}
}

// Enqueue stores a new alert. A second alert with the same reference is
// rejected by the unique index and reported as a queue failure.
func (r *alertOutboxRepository) Enqueue(ctx context.Context, email *entity.AlertEmail) error {
	if err := r.db.WithContext(ctx).Create(model.AlertEmailFromEntity(email)).Error; err != nil {
		message := "failed to queue budget alert"
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			message = "budget alert already queued"
		}
		return domainerror.NewEmailError(domainerror.ErrCodeEmailQueueFailed, message, err)
	}
	return nil
}

func (r *alertOutboxRepository) Due(ctx context.Context, now time.Time, limit int) ([]*entity.AlertEmail, error) {
	var models []model.AlertEmailModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", string(entity.AlertPending), now.UTC()).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	emails := make([]*entity.AlertEmail, len(models))
	for i := range models {
		emails[i] = models[i].ToEntity()
	}
	return emails, nil
}

func (r *alertOutboxRepository) Save(ctx context.Context, email *entity.AlertEmail) error {
	return r.db.WithContext(ctx).Save(model.AlertEmailFromEntity(email)).Error
}

func (r *alertOutboxRepository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AlertEmailModel{}).
		Where("reference = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *alertOutboxRepository) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND closed_at < ?", string(entity.AlertSent), before.UTC()).
		Delete(&model.AlertEmailModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
