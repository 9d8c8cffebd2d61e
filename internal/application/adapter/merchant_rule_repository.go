package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// MerchantRuleRepository defines the interface for merchant rule persistence operations.
type MerchantRuleRepository interface {
	Create(ctx context.Context, rule *entity.MerchantRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MerchantRule, error)
	// FindAll retrieves rules by descending priority.
	FindAll(ctx context.Context, activeOnly bool) ([]*entity.MerchantRule, error)
	ExistsByPattern(ctx context.Context, pattern string) (bool, error)
	// MaxPriority returns the highest priority in use, or zero when there are no rules.
	MaxPriority(ctx context.Context) (int, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
