package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))

	groceries := entity.NewCategory("Groceries", nil, 2)
	coffee := entity.NewCategory("Coffee", nil, 1)
	retired := entity.NewCategory("Hobbies", nil, 0)
	retired.Deactivate()

	for _, c := range []*entity.Category{groceries, coffee, retired} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("failed to create %s: %v", c.Name, err)
		}
	}

	t.Run("duplicate slug is a conflict", func(t *testing.T) {
		err := repo.Create(ctx, entity.NewCategory("groceries", nil, 9))
		if !errors.Is(err, domainerror.ErrCategorySlugExists) {
			t.Errorf("expected ErrCategorySlugExists, got %v", err)
		}
	})

	t.Run("active listing is ordered and excludes inactive", func(t *testing.T) {
		all, err := repo.FindAll(ctx, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(all) != 2 || all[0].Slug != "coffee" || all[1].Slug != "groceries" {
			t.Errorf("expected [coffee groceries], got %v", slugs(all))
		}
	})

	t.Run("inactive slug still exists", func(t *testing.T) {
		exists, err := repo.ExistsBySlug(ctx, "hobbies")
		if err != nil || !exists {
			t.Errorf("expected hobbies to exist, got %v %v", exists, err)
		}
	})

	t.Run("missing id maps to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		if !errors.Is(err, domainerror.ErrCategoryNotFound) {
			t.Errorf("expected ErrCategoryNotFound, got %v", err)
		}
	})
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(newTestDB(t))
	categoryID := uuid.New()

	inMarch := entity.NewManualTransaction("Diner", decimal.RequireFromString("12.50"), categoryID,
		time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC), entity.ExpenseTypePersonal)
	inApril := entity.NewManualTransaction("Bakery", decimal.RequireFromString("4.00"), categoryID,
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), entity.ExpenseTypeHousehold)
	undated := entity.NewScannedTransaction("/uploads/x.jpg")
	undated.LineItems = []entity.LineItem{{Description: "Bread", Quantity: decimal.NewFromInt(1), TotalPrice: decimal.RequireFromString("3.25")}}

	for _, txn := range []*entity.Transaction{inMarch, inApril, undated} {
		if err := repo.Create(ctx, txn); err != nil {
			t.Fatalf("failed to create: %v", err)
		}
	}

	t.Run("date range excludes undated and other months", func(t *testing.T) {
		march, _ := valueobject.NewMonth(2024, 3)
		start, end := march.Bounds()
		got, err := repo.FindByDateRange(ctx, start, end)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].ID != inMarch.ID {
			t.Errorf("expected only the March transaction, got %d", len(got))
		}
	})

	t.Run("round trip keeps nullable fields and line items", func(t *testing.T) {
		got, err := repo.FindByID(ctx, undated.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.GrandTotal != nil || got.TransactionDate != nil || got.CategoryID != nil {
			t.Error("expected absent fields to stay absent")
		}
		if len(got.LineItems) != 1 || got.LineItems[0].Description != "Bread" {
			t.Errorf("expected line items preserved, got %v", got.LineItems)
		}

		manual, err := repo.FindByID(ctx, inMarch.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !manual.GrandTotal.Equal(decimal.RequireFromString("12.50")) {
			t.Errorf("expected 12.50, got %s", manual.GrandTotal)
		}
	})

	t.Run("list filters by category", func(t *testing.T) {
		got, err := repo.List(ctx, entity.TransactionFilter{CategoryID: &categoryID, Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0].ID != inApril.ID {
			t.Errorf("expected April first of 2, got %d", len(got))
		}
	})

	t.Run("delete is permanent", func(t *testing.T) {
		if err := repo.Delete(ctx, inApril.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := repo.FindByID(ctx, inApril.ID); !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Errorf("expected not found after delete, got %v", err)
		}
		if err := repo.Delete(ctx, inApril.ID); !errors.Is(err, domainerror.ErrTransactionNotFound) {
			t.Errorf("expected not found on second delete, got %v", err)
		}
	})
}

func TestBudgetRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewBudgetRepository(db)
	categoryID := uuid.New()
	march, _ := valueobject.NewMonth(2024, 3)

	if err := repo.Upsert(ctx, entity.NewMonthlyBudget(categoryID, march, decimal.NewFromInt(100))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Upsert(ctx, entity.NewMonthlyBudget(categoryID, march, decimal.NewFromInt(250))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	budgets, err := repo.FindByMonth(ctx, march)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected 1 budget row, got %d", len(budgets))
	}
	if !budgets[0].MonthlyLimit.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected 250, got %s", budgets[0].MonthlyLimit)
	}

	other, _ := repo.FindByMonth(ctx, march.Next())
	if len(other) != 0 {
		t.Errorf("expected no April budgets, got %d", len(other))
	}
}

func TestMerchantRuleRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMerchantRuleRepository(newTestDB(t))

	priority, err := repo.MaxPriority(ctx)
	if err != nil || priority != 0 {
		t.Fatalf("expected 0 on empty table, got %d %v", priority, err)
	}

	low := entity.NewMerchantRule("taco", "dining", 0.9, 1)
	high := entity.NewMerchantRule("taco bell", "fast-food", 0.95, 7)
	for _, r := range []*entity.MerchantRule{low, high} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := repo.Create(ctx, entity.NewMerchantRule("TACO", "dining", 0.5, 2)); !errors.Is(err, domainerror.ErrMerchantRuleExists) {
		t.Errorf("expected ErrMerchantRuleExists, got %v", err)
	}

	rules, err := repo.FindAll(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 2 || rules[0].ID != high.ID {
		t.Errorf("expected highest priority first")
	}

	priority, _ = repo.MaxPriority(ctx)
	if priority != 7 {
		t.Errorf("expected max priority 7, got %d", priority)
	}
}

func TestAlertOutboxRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertOutboxRepository(newTestDB(t))

	march, _ := valueobject.NewMonth(2024, 3)
	queuedAt := time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	alert := entity.BudgetAlert{
		CategoryName: "Dining",
		CategorySlug: "dining",
		Month:        march,
		MonthlyLimit: decimal.NewFromInt(200),
		Spent:        decimal.RequireFromString("212.40"),
	}
	email := entity.NewAlertEmail("me@example.com", alert, queuedAt)
	if err := repo.Enqueue(ctx, email); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("reference is unique", func(t *testing.T) {
		err := repo.Enqueue(ctx, entity.NewAlertEmail("me@example.com", alert, queuedAt))
		var emailErr *domainerror.EmailError
		if !errors.As(err, &emailErr) || emailErr.Code != domainerror.ErrCodeEmailQueueFailed {
			t.Errorf("expected queue failure, got %v", err)
		}
	})

	tests := []struct {
		reference string
		expected  bool
	}{
		{"budget_alert:dining:2024-03", true},
		{"budget_alert:dining:2024-04", false},
	}
	for _, tt := range tests {
		t.Run(tt.reference, func(t *testing.T) {
			exists, err := repo.ExistsByReference(ctx, tt.reference)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exists != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, exists)
			}
		})
	}

	t.Run("due respects the next attempt time", func(t *testing.T) {
		due, err := repo.Due(ctx, queuedAt.Add(-time.Minute), 10)
		if err != nil || len(due) != 0 {
			t.Fatalf("expected nothing due yet, got %d %v", len(due), err)
		}

		due, err = repo.Due(ctx, queuedAt, 10)
		if err != nil || len(due) != 1 {
			t.Fatalf("expected 1 due alert, got %d %v", len(due), err)
		}
		got := due[0].Alert
		if got.Month != march || !got.Spent.Equal(alert.Spent) || got.CategoryName != "Dining" {
			t.Errorf("expected alert to round-trip, got %+v", got)
		}
	})

	t.Run("sent alerts are purged after the cutoff", func(t *testing.T) {
		email.MarkSent("re_123", queuedAt.Add(time.Minute))
		if err := repo.Save(ctx, email); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		due, _ := repo.Due(ctx, queuedAt.Add(time.Hour), 10)
		if len(due) != 0 {
			t.Errorf("expected sent alert not to be due, got %d", len(due))
		}

		purged, err := repo.PurgeSent(ctx, queuedAt)
		if err != nil || purged != 0 {
			t.Errorf("expected nothing purged before close, got %d %v", purged, err)
		}
		purged, err = repo.PurgeSent(ctx, queuedAt.AddDate(0, 0, 1))
		if err != nil || purged != 1 {
			t.Errorf("expected 1 purged, got %d %v", purged, err)
		}
	})
}

func slugs(categories []*entity.Category) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Slug
	}
	return out
}
