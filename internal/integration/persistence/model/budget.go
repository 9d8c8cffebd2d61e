package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// MonthlyBudgetModel represents the monthly_budgets table in the database.
// There is at most one row per category and month.
type MonthlyBudgetModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_scope"`
	Year         int             `gorm:"not null;uniqueIndex:idx_budget_scope"`
	Month        int             `gorm:"not null;uniqueIndex:idx_budget_scope"`
	MonthlyLimit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the MonthlyBudgetModel.
func (MonthlyBudgetModel) TableName() string {
	return "monthly_budgets"
}

// ToEntity converts a MonthlyBudgetModel to a domain MonthlyBudget entity.
func (m *MonthlyBudgetModel) ToEntity() *entity.MonthlyBudget {
	return &entity.MonthlyBudget{
		ID:           m.ID,
		CategoryID:   m.CategoryID,
		Year:         m.Year,
		Month:        time.Month(m.Month),
		MonthlyLimit: m.MonthlyLimit,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// MonthlyBudgetFromEntity creates a MonthlyBudgetModel from a domain MonthlyBudget entity.
func MonthlyBudgetFromEntity(budget *entity.MonthlyBudget) *MonthlyBudgetModel {
	return &MonthlyBudgetModel{
		ID:           budget.ID,
		CategoryID:   budget.CategoryID,
		Year:         budget.Year,
		Month:        int(budget.Month),
		MonthlyLimit: budget.MonthlyLimit,
		CreatedAt:    budget.CreatedAt,
		UpdatedAt:    budget.UpdatedAt,
	}
}
