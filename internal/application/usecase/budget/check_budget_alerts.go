package budget

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// CheckBudgetAlertsInput represents the months to check after a mutation.
type CheckBudgetAlertsInput struct {
	Months []valueobject.Month
}

// CheckBudgetAlertsOutput reports which categories were alerted.
type CheckBudgetAlertsOutput struct {
	Alerted []string
}

// CheckBudgetAlertsUseCase queues one email per category per month the first
// time the category goes over budget.
type CheckBudgetAlertsUseCase struct {
	summaryUseCase *GetMonthSummaryUseCase
	notifier       adapter.AlertNotifier
	cache          adapter.SummaryCache
	recipient      string
}

// NewCheckBudgetAlertsUseCase creates a new CheckBudgetAlertsUseCase instance.
// An empty recipient disables alerts.
func NewCheckBudgetAlertsUseCase(
	summaryUseCase *GetMonthSummaryUseCase,
	notifier adapter.AlertNotifier,
	cache adapter.SummaryCache,
	recipient string,
) *CheckBudgetAlertsUseCase {
	return &CheckBudgetAlertsUseCase{
		summaryUseCase: summaryUseCase,
		notifier:       notifier,
		cache:          cache,
		recipient:      recipient,
	}
}

// Execute checks each month and queues alerts for newly over-budget categories.
func (uc *CheckBudgetAlertsUseCase) Execute(ctx context.Context, input CheckBudgetAlertsInput) (*CheckBudgetAlertsOutput, error) {
	output := &CheckBudgetAlertsOutput{}
	if uc.recipient == "" || uc.notifier == nil {
		return output, nil
	}

	for _, month := range input.Months {
		result, err := uc.summaryUseCase.Execute(ctx, GetMonthSummaryInput{Month: month})
		if err != nil {
			return output, fmt.Errorf("failed to load summary for %s: %w", month, err)
		}

		for _, row := range result.Summary.ByCategory {
			// Unbudgeted categories never alert.
			if !valueobject.IsPositive(row.MonthlyLimit) || !row.IsOverBudget() {
				continue
			}

			alert := entity.NewBudgetAlert(month, row)
			if uc.cache != nil {
				first, err := uc.cache.MarkAlerted(ctx, alert.Reference())
				if err != nil {
					slog.Warn("Alert dedup check failed", "key", alert.Reference(), "error", err)
				} else if !first {
					continue
				}
			}

			if err := uc.notifier.QueueBudgetAlert(ctx, uc.recipient, alert); err != nil {
				return output, fmt.Errorf("failed to queue budget alert: %w", err)
			}

			slog.Info("Budget alert queued", "category", alert.CategorySlug, "month", month.String())
			output.Alerted = append(output.Alerted, alert.CategorySlug)
		}
	}

	return output, nil
}
