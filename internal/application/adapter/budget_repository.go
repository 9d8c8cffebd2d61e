package adapter

import (
	"context"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// BudgetRepository defines the interface for monthly budget persistence operations.
type BudgetRepository interface {
	// Upsert creates or replaces the limit for (category, year, month).
	Upsert(ctx context.Context, budget *entity.MonthlyBudget) error

	// FindByMonth retrieves every limit set for the month.
	FindByMonth(ctx context.Context, month valueobject.Month) ([]*entity.MonthlyBudget, error)
}
