package budget

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// GetMonthSummaryInput represents the input for loading a month summary.
type GetMonthSummaryInput struct {
	Month valueobject.Month
}

// GetMonthSummaryOutput represents the output of loading a month summary.
type GetMonthSummaryOutput struct {
	Summary *entity.MonthSummary
	Cached  bool
}

// GetMonthSummaryUseCase loads a snapshot of categories, limits and transactions
// and aggregates it. Results are cached until a mutation invalidates them.
type GetMonthSummaryUseCase struct {
	categoryRepo    adapter.CategoryRepository
	budgetRepo      adapter.BudgetRepository
	transactionRepo adapter.TransactionRepository
	cache           adapter.SummaryCache
}

// NewGetMonthSummaryUseCase creates a new GetMonthSummaryUseCase instance.
// cache may be nil.
func NewGetMonthSummaryUseCase(
	categoryRepo adapter.CategoryRepository,
	budgetRepo adapter.BudgetRepository,
	transactionRepo adapter.TransactionRepository,
	cache adapter.SummaryCache,
) *GetMonthSummaryUseCase {
	return &GetMonthSummaryUseCase{
		categoryRepo:    categoryRepo,
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		cache:           cache,
	}
}

// Execute returns the summary for the month.
func (uc *GetMonthSummaryUseCase) Execute(ctx context.Context, input GetMonthSummaryInput) (*GetMonthSummaryOutput, error) {
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, input.Month)
		if err != nil {
			slog.Warn("Summary cache read failed", "month", input.Month.String(), "error", err)
		} else if cached != nil {
			return &GetMonthSummaryOutput{Summary: cached, Cached: true}, nil
		}
	}

	// The version is read before the snapshot so that a mutation landing
	// during the load keeps this summary out of the cache.
	cacheable := uc.cache != nil
	var version int64
	if cacheable {
		var err error
		version, err = uc.cache.Version(ctx, input.Month)
		if err != nil {
			slog.Warn("Summary cache version read failed", "month", input.Month.String(), "error", err)
			cacheable = false
		}
	}

	var (
		categories   []*entity.Category
		limits       []*entity.MonthlyBudget
		transactions []*entity.Transaction
	)

	start, end := input.Month.Bounds()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = uc.categoryRepo.FindAll(gctx, false)
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		limits, err = uc.budgetRepo.FindByMonth(gctx, input.Month)
		if err != nil {
			return fmt.Errorf("failed to load budgets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, err = uc.transactionRepo.FindByDateRange(gctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := ComputeMonthSummary(input.Month, transactions, categories, limits)

	if cacheable {
		stored, err := uc.cache.Set(ctx, summary, version)
		if err != nil {
			slog.Warn("Summary cache write failed", "month", input.Month.String(), "error", err)
		} else if !stored {
			slog.Debug("Summary invalidated while loading, not cached", "month", input.Month.String())
		}
	}

	return &GetMonthSummaryOutput{Summary: summary}, nil
}
