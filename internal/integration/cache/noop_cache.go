package cache

import (
	"context"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// noopSummaryCache is used when no Redis URL is configured.
// Every read misses and every alert is reported as first.
type noopSummaryCache struct{}

// NewNoopSummaryCache creates a cache that stores nothing.
func NewNoopSummaryCache() adapter.SummaryCache {
	return noopSummaryCache{}
}

func (noopSummaryCache) Get(context.Context, valueobject.Month) (*entity.MonthSummary, error) {
	return nil, nil
}

func (noopSummaryCache) Version(context.Context, valueobject.Month) (int64, error) { return 0, nil }

func (noopSummaryCache) Set(context.Context, *entity.MonthSummary, int64) (bool, error) {
	return false, nil
}

func (noopSummaryCache) Invalidate(context.Context, ...valueobject.Month) error { return nil }

func (noopSummaryCache) InvalidateAll(context.Context) error { return nil }

func (noopSummaryCache) MarkAlerted(context.Context, string) (bool, error) { return true, nil }
