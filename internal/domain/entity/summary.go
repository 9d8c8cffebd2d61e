package entity

import (
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// CategorySummary is spend against limit for one category in one month. Derived, never stored.
type CategorySummary struct {
	Category       *Category
	MonthlyLimit   decimal.Decimal
	SpentThisMonth decimal.Decimal
	Remaining      decimal.Decimal // Negative when over budget
	PercentUsed    decimal.Decimal // Unclamped
	Tier           valueobject.Tier
}

// IsOverBudget reports whether the category has spent past its limit.
// A category with no limit is over as soon as anything is spent.
func (s CategorySummary) IsOverBudget() bool {
	return valueobject.IsOverBudget(s.MonthlyLimit, s.SpentThisMonth)
}

// MonthSummary aggregates a whole month. Derived, never stored.
type MonthSummary struct {
	Month              valueobject.Month
	TotalBudget        decimal.Decimal
	TotalSpent         decimal.Decimal
	TotalRemaining     decimal.Decimal
	ByCategory         []CategorySummary
	RecentTransactions []*Transaction
}

// FindCategory returns the summary row for a category, if present.
func (s *MonthSummary) FindCategory(slug string) (CategorySummary, bool) {
	for _, row := range s.ByCategory {
		if row.Category != nil && row.Category.Slug == slug {
			return row, true
		}
	}
	return CategorySummary{}, false
}
