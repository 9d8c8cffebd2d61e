package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// UpdateTransactionInput represents a sparse update of a transaction.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	Patch         entity.TransactionPatch
}

// UpdateTransactionOutput represents the output of transaction update.
type UpdateTransactionOutput struct {
	Transaction *entity.Transaction
}

// UpdateTransactionUseCase handles review confirmation and edits.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	clock           adapter.Clock
	effects         mutationEffects
	threshold       float64
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	cache adapter.SummaryCache,
	alerts AlertChecker,
	clock adapter.Clock,
	threshold float64,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		clock:           clock,
		effects:         mutationEffects{cache: cache, alerts: alerts},
		threshold:       threshold,
	}
}

// Execute applies the patch. Fields absent from the patch are never written.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	txn, err := findTransaction(ctx, uc.transactionRepo, input.TransactionID)
	if err != nil {
		return nil, err
	}
	if input.Patch.IsEmpty() {
		return &UpdateTransactionOutput{Transaction: txn}, nil
	}

	if input.Patch.CategoryID != nil {
		if err := ensureCategory(ctx, uc.categoryRepo, *input.Patch.CategoryID); err != nil {
			return nil, err
		}
	}

	patch := input.Patch
	if patch.GrandTotal != nil {
		total := valueobject.ToCurrency(*patch.GrandTotal)
		patch.GrandTotal = &total
	}

	before := *txn
	if err := txn.ApplyPatch(patch, uc.threshold, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	uc.effects.apply(ctx, true, &before, txn)

	return &UpdateTransactionOutput{Transaction: txn}, nil
}
