// Package budget contains budget aggregation use cases.
package budget

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// RecentTransactionsLimit is how many recent transactions a month summary carries.
const RecentTransactionsLimit = 10

// ComputeMonthSummary aggregates spend against limits for one month.
//
// Only transactions dated inside the month count; undated ones are skipped.
// Every active category gets a row, inactive categories only when they have
// spend. A category without a limit contributes its spend to TotalSpent but
// nothing to TotalBudget. TotalSpent also includes transactions with no
// category or an unknown one.
//
// The function is pure: inputs are not modified and nothing is cached.
func ComputeMonthSummary(
	month valueobject.Month,
	transactions []*entity.Transaction,
	categories []*entity.Category,
	limits []*entity.MonthlyBudget,
) *entity.MonthSummary {
	limitByCategory := make(map[uuid.UUID]decimal.Decimal, len(limits))
	for _, l := range limits {
		if l.Year == month.Year && l.Month == month.Month {
			limitByCategory[l.CategoryID] = l.MonthlyLimit
		}
	}

	spentByCategory := make(map[uuid.UUID]decimal.Decimal)
	inMonth := make([]*entity.Transaction, 0, len(transactions))
	totalSpent := decimal.Zero

	for _, txn := range transactions {
		if txn.TransactionDate == nil || !month.Contains(*txn.TransactionDate) {
			continue
		}
		inMonth = append(inMonth, txn)
		totalSpent = totalSpent.Add(txn.Amount())
		if txn.CategoryID != nil {
			spentByCategory[*txn.CategoryID] = spentByCategory[*txn.CategoryID].Add(txn.Amount())
		}
	}

	ordered := make([]*entity.Category, len(categories))
	copy(ordered, categories)
	entity.SortCategories(ordered)

	rows := make([]entity.CategorySummary, 0, len(ordered))
	totalBudget := decimal.Zero

	for _, category := range ordered {
		spent, hasSpend := spentByCategory[category.ID]
		if !category.IsActive && !hasSpend {
			continue
		}
		limit := limitByCategory[category.ID]
		if limit.IsPositive() {
			totalBudget = totalBudget.Add(limit)
		}
		rows = append(rows, summarizeCategory(category, limit, spent))
	}

	return &entity.MonthSummary{
		Month:              month,
		TotalBudget:        totalBudget,
		TotalSpent:         totalSpent,
		TotalRemaining:     totalBudget.Sub(totalSpent),
		ByCategory:         rows,
		RecentTransactions: recentTransactions(inMonth, RecentTransactionsLimit),
	}
}

func summarizeCategory(category *entity.Category, limit, spent decimal.Decimal) entity.CategorySummary {
	pct := valueobject.PercentUsed(spent, limit)
	tier := valueobject.ProgressTier(pct)
	// Unbudgeted spend reports 0% but is still displayed as over.
	if valueobject.IsOverBudget(limit, spent) {
		tier = valueobject.TierOver
	}
	return entity.CategorySummary{
		Category:       category,
		MonthlyLimit:   limit,
		SpentThisMonth: spent,
		Remaining:      limit.Sub(spent),
		PercentUsed:    pct,
		Tier:           tier,
	}
}

func recentTransactions(transactions []*entity.Transaction, limit int) []*entity.Transaction {
	recent := make([]*entity.Transaction, len(transactions))
	copy(recent, transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].EffectiveDate().After(recent[j].EffectiveDate())
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}
