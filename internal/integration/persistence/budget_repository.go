package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// Upsert creates the month's limit for the category or replaces the existing one.
func (r *budgetRepository) Upsert(ctx context.Context, budget *entity.MonthlyBudget) error {
	budgetModel := model.MonthlyBudgetFromEntity(budget)
	budgetModel.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category_id"}, {Name: "year"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{"monthly_limit", "updated_at"}),
		}).
		Create(budgetModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByMonth retrieves all limits set for the month.
func (r *budgetRepository) FindByMonth(ctx context.Context, month valueobject.Month) ([]*entity.MonthlyBudget, error) {
	var budgetModels []model.MonthlyBudgetModel
	result := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", month.Year, int(month.Month)).
		Find(&budgetModels)
	if result.Error != nil {
		return nil, result.Error
	}

	budgets := make([]*entity.MonthlyBudget, len(budgetModels))
	for i := range budgetModels {
		budgets[i] = budgetModels[i].ToEntity()
	}
	return budgets, nil
}
