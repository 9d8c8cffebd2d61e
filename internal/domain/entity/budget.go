package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// MonthlyBudget is the spending limit of one category for one calendar month.
// There is at most one per (CategoryID, Year, Month).
type MonthlyBudget struct {
	ID           uuid.UUID
	CategoryID   uuid.UUID
	Year         int
	Month        time.Month
	MonthlyLimit decimal.Decimal // Zero means no budget set
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewMonthlyBudget creates a new MonthlyBudget entity.
func NewMonthlyBudget(categoryID uuid.UUID, month valueobject.Month, limit decimal.Decimal) *MonthlyBudget {
	now := time.Now().UTC()

	return &MonthlyBudget{
		ID:           uuid.New(),
		CategoryID:   categoryID,
		Year:         month.Year,
		Month:        month.Month,
		MonthlyLimit: limit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Scope returns the month this budget applies to.
func (b *MonthlyBudget) Scope() valueobject.Month {
	return valueobject.Month{Year: b.Year, Month: b.Month}
}
