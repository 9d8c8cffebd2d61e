package adapter

import (
	"context"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// SummaryCache stores computed month summaries between mutations.
type SummaryCache interface {
	// Get returns the cached summary, or nil when there is none.
	Get(ctx context.Context, month valueobject.Month) (*entity.MonthSummary, error)

	// Version returns the month's invalidation counter. Read it before loading
	// the data a summary is computed from.
	Version(ctx context.Context, month valueobject.Month) (int64, error)

	// Set stores summary only if the month's version still equals version,
	// and reports whether it did.
	Set(ctx context.Context, summary *entity.MonthSummary, version int64) (bool, error)

	// Invalidate bumps the versions of the given months and drops their summaries.
	Invalidate(ctx context.Context, months ...valueobject.Month) error

	// InvalidateAll bumps every version and drops every cached summary.
	InvalidateAll(ctx context.Context) error

	// MarkAlerted records that an alert was sent for key and reports whether
	// this call was the first to do so.
	MarkAlerted(ctx context.Context, key string) (bool, error)
}
