// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create persists a new transaction.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByDateRange retrieves transactions dated within [start, end], inclusive.
	// Transactions with no date are never returned.
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Transaction, error)

	// List retrieves transactions matching the filter, most recent first.
	List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error)

	// Update saves changes to an existing transaction.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete permanently removes a transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}
