package persistence

import "github.com/budget-tracker/backend/internal/integration/persistence/model"

// Models lists every table, in migration order.
func Models() []any {
	return []any{
		&model.CategoryModel{},
		&model.TransactionModel{},
		&model.MonthlyBudgetModel{},
		&model.MerchantRuleModel{},
		&model.AlertEmailModel{},
	}
}
