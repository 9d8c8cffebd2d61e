package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// SetCategoryBudgetInput represents the input for setting a monthly limit.
// A zero Month means the current month.
type SetCategoryBudgetInput struct {
	CategoryID   uuid.UUID
	Month        valueobject.Month
	MonthlyLimit decimal.Decimal
}

// SetCategoryBudgetOutput represents the output of setting a monthly limit.
type SetCategoryBudgetOutput struct {
	Budget *entity.MonthlyBudget
}

// SetCategoryBudgetUseCase handles setting a category's limit for one month.
type SetCategoryBudgetUseCase struct {
	categoryRepo adapter.CategoryRepository
	budgetRepo   adapter.BudgetRepository
	cache        adapter.SummaryCache
	clock        adapter.Clock
}

// NewSetCategoryBudgetUseCase creates a new SetCategoryBudgetUseCase instance.
func NewSetCategoryBudgetUseCase(
	categoryRepo adapter.CategoryRepository,
	budgetRepo adapter.BudgetRepository,
	cache adapter.SummaryCache,
	clock adapter.Clock,
) *SetCategoryBudgetUseCase {
	return &SetCategoryBudgetUseCase{
		categoryRepo: categoryRepo,
		budgetRepo:   budgetRepo,
		cache:        cache,
		clock:        clock,
	}
}

// Execute upserts the limit. Other months are never touched.
func (uc *SetCategoryBudgetUseCase) Execute(ctx context.Context, input SetCategoryBudgetInput) (*SetCategoryBudgetOutput, error) {
	if input.MonthlyLimit.IsNegative() {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeNegativeLimit,
			"monthly limit must be non-negative",
			domainerror.ErrNegativeLimit,
		)
	}

	month := input.Month
	if month.IsZero() {
		month = valueobject.MonthOf(uc.clock.Now())
	} else if _, err := valueobject.NewMonth(month.Year, int(month.Month)); err != nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeInvalidBudgetMonth,
			"invalid budget month",
			domainerror.ErrInvalidBudgetMonth,
		)
	}

	if _, err := uc.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetCategoryNotFound,
				"category not found",
				domainerror.ErrBudgetCategoryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	budget := entity.NewMonthlyBudget(input.CategoryID, month, valueobject.ToCurrency(input.MonthlyLimit))
	if err := uc.budgetRepo.Upsert(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, month); err != nil {
			slog.Warn("Summary cache invalidation failed", "month", month.String(), "error", err)
		}
	}

	return &SetCategoryBudgetOutput{Budget: budget}, nil
}
