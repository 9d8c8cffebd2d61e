package budget

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

func TestCheckBudgetAlertsUseCase_Execute(t *testing.T) {
	food := newCategory("Food", 1)
	fun := newCategory("Fun", 2)
	misc := newCategory("Misc", 3)

	categoryRepo := &mockCategoryRepo{categories: []*entity.Category{food, fun, misc}}
	budgetRepo := &mockBudgetRepo{budgets: []*entity.MonthlyBudget{
		limitFor(food, may2024, "100"),
		limitFor(fun, may2024, "100"),
	}}
	transactionRepo := &mockTransactionRepo{transactions: []*entity.Transaction{
		newTxn(food, "120", day(2024, time.May, 10)),
		newTxn(fun, "20", day(2024, time.May, 11)),
		newTxn(misc, "5", day(2024, time.May, 12)),
	}}
	cache := newMockCache()
	emails := &mockNotifier{}

	summaryUC := NewGetMonthSummaryUseCase(categoryRepo, budgetRepo, transactionRepo, nil)
	uc := NewCheckBudgetAlertsUseCase(summaryUC, emails, cache, "me@example.com")

	output, err := uc.Execute(context.Background(), CheckBudgetAlertsInput{Months: []valueobject.Month{may2024}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Alerted) != 1 || output.Alerted[0] != "food" {
		t.Fatalf("expected only food to alert, got %v", output.Alerted)
	}
	alert := emails.queued[0]
	if !alert.Spent.Equal(decimal.NewFromInt(120)) || !alert.Remaining().Equal(decimal.NewFromInt(-20)) {
		t.Errorf("unexpected alert payload %+v", alert)
	}
	if alert.Reference() != "budget_alert:food:2024-05" {
		t.Errorf("expected reference budget_alert:food:2024-05, got %s", alert.Reference())
	}
	if emails.recipients[0] != "me@example.com" {
		t.Errorf("expected recipient me@example.com, got %s", emails.recipients[0])
	}

	output, err = uc.Execute(context.Background(), CheckBudgetAlertsInput{Months: []valueobject.Month{may2024}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Alerted) != 0 || len(emails.queued) != 1 {
		t.Errorf("expected alert to be sent once, got %d emails", len(emails.queued))
	}
}

func TestCheckBudgetAlertsUseCase_DisabledWithoutRecipient(t *testing.T) {
	emails := &mockNotifier{}
	uc := NewCheckBudgetAlertsUseCase(nil, emails, nil, "")

	output, err := uc.Execute(context.Background(), CheckBudgetAlertsInput{Months: []valueobject.Month{may2024}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Alerted) != 0 || len(emails.queued) != 0 {
		t.Error("expected no alerts without a recipient")
	}
}
