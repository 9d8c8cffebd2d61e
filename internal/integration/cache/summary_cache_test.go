package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *redisSummaryCache) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return server, NewRedisSummaryCache(client, time.Minute).(*redisSummaryCache)
}

func testSummary(year, month int, spent string) *entity.MonthSummary {
	m, _ := valueobject.NewMonth(year, month)
	category := entity.NewCategory("Dining", nil, 1)
	return &entity.MonthSummary{
		Month:      m,
		TotalSpent: decimal.RequireFromString(spent),
		ByCategory: []entity.CategorySummary{{
			Category:       category,
			MonthlyLimit:   decimal.NewFromInt(100),
			SpentThisMonth: decimal.RequireFromString(spent),
			Tier:           valueobject.TierWarning,
		}},
	}
}

func TestRedisSummaryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	server, cache := newTestCache(t)
	summary := testSummary(2024, 3, "75.25")

	got, err := cache.Get(ctx, summary.Month)
	if err != nil || got != nil {
		t.Fatalf("expected miss, got %v %v", got, err)
	}

	if stored, err := cache.Set(ctx, summary, 0); err != nil || !stored {
		t.Fatalf("expected summary stored, got %v %v", stored, err)
	}
	if ttl := server.TTL("summary:2024-03"); ttl != time.Minute {
		t.Errorf("expected ttl %v, got %v", time.Minute, ttl)
	}

	got, err = cache.Get(ctx, summary.Month)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Month != summary.Month {
		t.Fatalf("expected cached summary for %s", summary.Month)
	}
	if !got.TotalSpent.Equal(decimal.RequireFromString("75.25")) {
		t.Errorf("expected 75.25, got %s", got.TotalSpent)
	}
	if len(got.ByCategory) != 1 || got.ByCategory[0].Category.Slug != "dining" || got.ByCategory[0].Tier != valueobject.TierWarning {
		t.Errorf("expected category rows preserved, got %+v", got.ByCategory)
	}
}

func TestRedisSummaryCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	server, cache := newTestCache(t)
	march := testSummary(2024, 3, "10")
	april := testSummary(2024, 4, "20")
	may := testSummary(2024, 5, "30")
	for _, s := range []*entity.MonthSummary{march, april, may} {
		if _, err := cache.Set(ctx, s, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := cache.MarkAlerted(ctx, "budget_alert:dining:2024-03"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := cache.Invalidate(ctx, march.Month, april.Month); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.Exists("summary:2024-03") || server.Exists("summary:2024-04") {
		t.Error("expected March and April dropped")
	}
	if !server.Exists("summary:2024-05") {
		t.Error("expected May kept")
	}

	if err := cache.InvalidateAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.Exists("summary:2024-05") {
		t.Error("expected all summaries dropped")
	}
	if !server.Exists("alerted:budget_alert:dining:2024-03") {
		t.Error("expected alert marker kept")
	}
}

func TestRedisSummaryCache_SetAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	may := testSummary(2024, 5, "40")
	june := testSummary(2024, 6, "15")

	tests := []struct {
		name       string
		invalidate func(c *redisSummaryCache) error
		month      *entity.MonthSummary
		wantStored bool
	}{
		{
			name:       "no invalidation",
			invalidate: func(c *redisSummaryCache) error { return nil },
			month:      may,
			wantStored: true,
		},
		{
			name:       "same month invalidated",
			invalidate: func(c *redisSummaryCache) error { return c.Invalidate(ctx, may.Month) },
			month:      may,
			wantStored: false,
		},
		{
			name:       "other month invalidated",
			invalidate: func(c *redisSummaryCache) error { return c.Invalidate(ctx, june.Month) },
			month:      may,
			wantStored: true,
		},
		{
			name:       "everything invalidated",
			invalidate: func(c *redisSummaryCache) error { return c.InvalidateAll(ctx) },
			month:      may,
			wantStored: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, cache := newTestCache(t)

			version, err := cache.Version(ctx, tt.month.Month)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := tt.invalidate(cache); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			stored, err := cache.Set(ctx, tt.month, version)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored != tt.wantStored {
				t.Errorf("expected stored %v, got %v", tt.wantStored, stored)
			}
			if server.Exists("summary:2024-05") != tt.wantStored {
				t.Errorf("expected key present %v", tt.wantStored)
			}

			// A version read after the invalidation is current again.
			fresh, err := cache.Version(ctx, tt.month.Month)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stored, _ := cache.Set(ctx, tt.month, fresh); !stored {
				t.Error("expected a write at the current version to be stored")
			}
		})
	}
}

func TestRedisSummaryCache_MarkAlerted(t *testing.T) {
	ctx := context.Background()
	_, cache := newTestCache(t)

	first, err := cache.MarkAlerted(ctx, "budget_alert:dining:2024-03")
	if err != nil || !first {
		t.Fatalf("expected first mark, got %v %v", first, err)
	}
	again, err := cache.MarkAlerted(ctx, "budget_alert:dining:2024-03")
	if err != nil || again {
		t.Errorf("expected second mark to report false, got %v %v", again, err)
	}
	other, _ := cache.MarkAlerted(ctx, "budget_alert:dining:2024-04")
	if !other {
		t.Error("expected a different month to be first")
	}
}
