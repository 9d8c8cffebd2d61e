package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// MaxMerchantNameLength is the maximum allowed length for merchant names.
const MaxMerchantNameLength = 255

// CreateManualTransactionInput represents a manual-entry form.
// Pointer fields are required but may arrive missing from the client.
type CreateManualTransactionInput struct {
	MerchantName    string
	GrandTotal      *decimal.Decimal
	CategoryID      *uuid.UUID
	TransactionDate *time.Time // Defaults to today
	ExpenseType     entity.ExpenseType
}

// CreateManualTransactionOutput represents the output of manual entry.
type CreateManualTransactionOutput struct {
	Transaction *entity.Transaction
}

// CreateManualTransactionUseCase handles manual entry.
type CreateManualTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	clock           adapter.Clock
	effects         mutationEffects
}

// NewCreateManualTransactionUseCase creates a new CreateManualTransactionUseCase instance.
func NewCreateManualTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	cache adapter.SummaryCache,
	alerts AlertChecker,
	clock adapter.Clock,
) *CreateManualTransactionUseCase {
	return &CreateManualTransactionUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		clock:           clock,
		effects:         mutationEffects{cache: cache, alerts: alerts},
	}
}

// Execute validates every required field before anything is written.
func (uc *CreateManualTransactionUseCase) Execute(ctx context.Context, input CreateManualTransactionInput) (*CreateManualTransactionOutput, error) {
	merchant := strings.TrimSpace(input.MerchantName)
	if merchant == "" {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMerchantNameRequired,
			"merchant name is required",
			domainerror.ErrMerchantNameRequired,
		)
	}
	if utf8.RuneCountInString(merchant) > MaxMerchantNameLength {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeMerchantNameTooLong,
			fmt.Sprintf("merchant name must not exceed %d characters", MaxMerchantNameLength),
			domainerror.ErrMerchantNameTooLong,
		)
	}
	if input.GrandTotal == nil || input.GrandTotal.IsNegative() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidGrandTotal,
			"grand total must be present and non-negative",
			domainerror.ErrInvalidGrandTotal,
		)
	}
	if input.CategoryID == nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeCategoryRequired,
			"category is required",
			domainerror.ErrCategoryRequired,
		)
	}
	expenseType := input.ExpenseType
	if expenseType == "" {
		expenseType = entity.ExpenseTypePersonal
	}
	if !expenseType.IsValid() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidExpenseType,
			"expense type must be personal or household",
			domainerror.ErrInvalidExpenseType,
		)
	}

	if err := ensureCategory(ctx, uc.categoryRepo, *input.CategoryID); err != nil {
		return nil, err
	}

	date := uc.clock.Now()
	if input.TransactionDate != nil {
		date = *input.TransactionDate
	}

	txn := entity.NewManualTransaction(
		merchant,
		valueobject.ToCurrency(*input.GrandTotal),
		*input.CategoryID,
		date,
		expenseType,
	)

	if err := uc.transactionRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	uc.effects.apply(ctx, true, txn)

	return &CreateManualTransactionOutput{Transaction: txn}, nil
}
