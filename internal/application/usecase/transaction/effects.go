// Package transaction contains receipt and transaction use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/budget"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// AlertChecker runs budget alert checks for months touched by a mutation.
type AlertChecker interface {
	Execute(ctx context.Context, input budget.CheckBudgetAlertsInput) (*budget.CheckBudgetAlertsOutput, error)
}

// mutationEffects invalidates cached summaries and checks budget alerts after a
// transaction is written. Failures are logged; the write already succeeded.
type mutationEffects struct {
	cache  adapter.SummaryCache
	alerts AlertChecker
}

func (e mutationEffects) apply(ctx context.Context, checkAlerts bool, txns ...*entity.Transaction) {
	months := affectedMonths(txns...)
	if len(months) == 0 {
		return
	}

	if e.cache != nil {
		if err := e.cache.Invalidate(ctx, months...); err != nil {
			slog.Warn("Summary cache invalidation failed", "error", err)
		}
	}

	if checkAlerts && e.alerts != nil {
		if _, err := e.alerts.Execute(ctx, budget.CheckBudgetAlertsInput{Months: months}); err != nil {
			slog.Warn("Budget alert check failed", "error", err)
		}
	}
}

func affectedMonths(txns ...*entity.Transaction) []valueobject.Month {
	seen := make(map[valueobject.Month]bool)
	var months []valueobject.Month
	for _, txn := range txns {
		if txn == nil || txn.TransactionDate == nil {
			continue
		}
		m := valueobject.MonthOf(*txn.TransactionDate)
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	return months
}

func findTransaction(ctx context.Context, repo adapter.TransactionRepository, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return txn, nil
}

// ensureCategory checks that the category exists. Inactive categories are accepted.
func ensureCategory(ctx context.Context, repo adapter.CategoryRepository, id uuid.UUID) error {
	if _, err := repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return domainerror.NewTransactionError(
				domainerror.ErrCodeTxnCategoryNotFound,
				"category not found",
				domainerror.ErrCategoryNotFoundForTransaction,
			)
		}
		return fmt.Errorf("failed to find category: %w", err)
	}
	return nil
}
