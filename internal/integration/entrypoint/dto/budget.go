package dto

import (
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// SetBudgetRequest represents the request body for setting a category's monthly limit.
// Year and Month default to the current month.
type SetBudgetRequest struct {
	CategoryID   string           `json:"category_id" binding:"required"`
	Year         *int             `json:"year,omitempty"`
	Month        *int             `json:"month,omitempty"`
	MonthlyLimit *decimal.Decimal `json:"monthly_limit"`
}

// BudgetResponse represents a stored monthly limit.
type BudgetResponse struct {
	ID           string `json:"id"`
	CategoryID   string `json:"category_id"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	MonthlyLimit string `json:"monthly_limit"`
}

// CategorySummaryResponse is one row of the month dashboard.
type CategorySummaryResponse struct {
	Category       CategoryResponse `json:"category"`
	MonthlyLimit   string           `json:"monthly_limit"`
	SpentThisMonth string           `json:"spent_this_month"`
	Remaining      string           `json:"remaining"`
	PercentUsed    string           `json:"percent_used"`
	Tier           string           `json:"tier"`
	IsOverBudget   bool             `json:"is_over_budget"`
}

// MonthSummaryResponse represents the month dashboard.
type MonthSummaryResponse struct {
	Month              string                    `json:"month"`
	TotalBudget        string                    `json:"total_budget"`
	TotalSpent         string                    `json:"total_spent"`
	TotalRemaining     string                    `json:"total_remaining"`
	ByCategory         []CategorySummaryResponse `json:"by_category"`
	RecentTransactions []TransactionResponse     `json:"recent_transactions"`
}

// ToBudgetResponse converts a MonthlyBudget entity.
func ToBudgetResponse(b *entity.MonthlyBudget) BudgetResponse {
	return BudgetResponse{
		ID:           b.ID.String(),
		CategoryID:   b.CategoryID.String(),
		Year:         b.Year,
		Month:        int(b.Month),
		MonthlyLimit: money(b.MonthlyLimit),
	}
}

// ToMonthSummaryResponse converts a computed MonthSummary.
func ToMonthSummaryResponse(s *entity.MonthSummary) MonthSummaryResponse {
	rows := make([]CategorySummaryResponse, 0, len(s.ByCategory))
	for _, row := range s.ByCategory {
		rows = append(rows, CategorySummaryResponse{
			Category:       ToCategoryResponse(row.Category),
			MonthlyLimit:   money(row.MonthlyLimit),
			SpentThisMonth: money(row.SpentThisMonth),
			Remaining:      money(row.Remaining),
			PercentUsed:    valueobject.ToFixed(row.PercentUsed, 1).StringFixed(1),
			Tier:           string(row.Tier),
			IsOverBudget:   row.IsOverBudget(),
		})
	}

	return MonthSummaryResponse{
		Month:              s.Month.String(),
		TotalBudget:        money(s.TotalBudget),
		TotalSpent:         money(s.TotalSpent),
		TotalRemaining:     money(s.TotalRemaining),
		ByCategory:         rows,
		RecentTransactions: ToTransactionResponses(s.RecentTransactions),
	}
}

func money(d decimal.Decimal) string {
	return valueobject.ToCurrency(d).StringFixed(valueobject.CurrencyPlaces)
}
