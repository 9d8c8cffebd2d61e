package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

const (
	// DefaultListLimit is the page size when none is given.
	DefaultListLimit = 50
	// MaxListLimit caps the page size.
	MaxListLimit = 100
)

// ListTransactionsInput represents the filters for listing transactions.
type ListTransactionsInput struct {
	CategoryID *uuid.UUID
	Month      *valueobject.Month
	Limit      int
	Offset     int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*entity.Transaction
	Limit        int
	Offset       int
}

// ListTransactionsUseCase lists transactions most recent first.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{transactionRepo: transactionRepo}
}

// Execute performs the listing.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	} else if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	filter := entity.TransactionFilter{
		CategoryID: input.CategoryID,
		Limit:      limit,
		Offset:     offset,
	}
	if input.Month != nil {
		start, end := input.Month.Bounds()
		filter.Start = &start
		filter.End = &end
	}

	transactions, err := uc.transactionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &ListTransactionsOutput{
		Transactions: transactions,
		Limit:        limit,
		Offset:       offset,
	}, nil
}
