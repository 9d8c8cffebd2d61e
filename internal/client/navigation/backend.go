package navigation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// ManualFields is the manual entry form as submitted.
type ManualFields struct {
	MerchantName    string
	GrandTotal      *decimal.Decimal
	CategoryID      *uuid.UUID
	TransactionDate *time.Time
	ExpenseType     entity.ExpenseType
}

// CategoryPatch is a sparse category update. Nil fields are left unchanged.
type CategoryPatch struct {
	Name      *string
	Icon      *string
	SortOrder *int
}

// Backend is everything the screens need from the server.
// Errors carry a domainerror.Kind; anything else is treated as internal.
type Backend interface {
	FetchCategories(ctx context.Context, includeInactive bool) ([]*entity.Category, error)
	FetchMonthSummary(ctx context.Context, month valueobject.Month) (*entity.MonthSummary, error)
	FetchTransactionsByCategory(ctx context.Context, categoryID uuid.UUID, month *valueobject.Month, limit int) ([]*entity.Transaction, error)
	CreateTransactionFromUpload(ctx context.Context, filename, contentType string, data []byte) (*entity.Transaction, error)
	CreateManualTransaction(ctx context.Context, fields ManualFields) (*entity.Transaction, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, patch entity.TransactionPatch) (*entity.Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
	CreateCategory(ctx context.Context, name, slug string, sortOrder int) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, patch CategoryPatch) (*entity.Category, error)
	DeactivateCategory(ctx context.Context, id uuid.UUID) error
	SetCategoryBudget(ctx context.Context, categoryID uuid.UUID, month valueobject.Month, limit decimal.Decimal) error
}
