package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

func TestDeleteTransactionUseCase_Execute(t *testing.T) {
	tests := []struct {
		name          string
		confirmed     bool
		missing       bool
		expectedErr   error
		expectDeleted bool
	}{
		{
			name:          "confirmed delete",
			confirmed:     true,
			expectDeleted: true,
		},
		{
			name:        "unconfirmed delete is rejected",
			confirmed:   false,
			expectedErr: domainerror.ErrDeleteNotConfirmed,
		},
		{
			name:        "unknown transaction",
			confirmed:   true,
			missing:     true,
			expectedErr: domainerror.ErrTransactionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categoryID := uuid.New()
			txn := reviewTransaction(categoryID)
			txnRepo := newMockTransactionRepo(txn)
			images := newMockImageStore()
			cache := &mockCache{}
			uc := NewDeleteTransactionUseCase(txnRepo, images, cache)

			id := txn.ID
			if tt.missing {
				id = uuid.New()
			}

			out, err := uc.Execute(context.Background(), DeleteTransactionInput{TransactionID: id, Confirmed: tt.confirmed})

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				if len(txnRepo.deleted) != 0 {
					t.Error("expected nothing deleted")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !out.Success {
				t.Error("expected success")
			}
			if len(txnRepo.deleted) != 1 || txnRepo.deleted[0] != txn.ID {
				t.Errorf("expected %s deleted, got %v", txn.ID, txnRepo.deleted)
			}
			if len(images.deleted) != 1 || images.deleted[0] != "/uploads/r.jpg" {
				t.Errorf("expected image removed, got %v", images.deleted)
			}
			if len(cache.invalidated) != 1 {
				t.Errorf("expected month invalidated, got %v", cache.invalidated)
			}
		})
	}
}

func TestDeleteTransactionUseCase_ManualEntryHasNoImage(t *testing.T) {
	txn := entity.NewManualTransaction("Diner", decimalFromString("12.00"), uuid.New(), testNow, entity.ExpenseTypePersonal)
	images := newMockImageStore()
	uc := NewDeleteTransactionUseCase(newMockTransactionRepo(txn), images, &mockCache{})

	if _, err := uc.Execute(context.Background(), DeleteTransactionInput{TransactionID: txn.ID, Confirmed: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(images.deleted) != 0 {
		t.Errorf("expected no image deletion, got %v", images.deleted)
	}
}
