package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// DeleteTransactionInput represents the input for transaction deletion.
type DeleteTransactionInput struct {
	TransactionID uuid.UUID
	Confirmed     bool
}

// DeleteTransactionOutput represents the output of transaction deletion.
type DeleteTransactionOutput struct {
	Success bool
}

// DeleteTransactionUseCase permanently removes a transaction.
type DeleteTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	imageStore      adapter.ImageStore
	effects         mutationEffects
}

// NewDeleteTransactionUseCase creates a new DeleteTransactionUseCase instance.
func NewDeleteTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	imageStore adapter.ImageStore,
	cache adapter.SummaryCache,
) *DeleteTransactionUseCase {
	return &DeleteTransactionUseCase{
		transactionRepo: transactionRepo,
		imageStore:      imageStore,
		effects:         mutationEffects{cache: cache},
	}
}

// Execute performs the deletion. There is no recovery.
func (uc *DeleteTransactionUseCase) Execute(ctx context.Context, input DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	if !input.Confirmed {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeDeleteNotConfirmed,
			"deleting a receipt cannot be undone and requires confirmation",
			domainerror.ErrDeleteNotConfirmed,
		)
	}

	txn, err := findTransaction(ctx, uc.transactionRepo, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Delete(ctx, txn.ID); err != nil {
		return nil, fmt.Errorf("failed to delete transaction: %w", err)
	}
	txn.State = entity.StateDeleted

	if txn.ImageURL != nil && uc.imageStore != nil {
		if err := uc.imageStore.Delete(ctx, *txn.ImageURL); err != nil {
			slog.Warn("Failed to remove receipt image", "image", *txn.ImageURL, "error", err)
		}
	}

	uc.effects.apply(ctx, false, txn)

	return &DeleteTransactionOutput{Success: true}, nil
}
