package transaction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

func TestCreateManualTransactionUseCase_Execute(t *testing.T) {
	categories := activeCategories("Dining")
	dining := categories[0].ID
	unknown := uuid.New()
	total := decimal.RequireFromString("18.456")
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name         string
		input        CreateManualTransactionInput
		expectedErr  error
		expectedKind domainerror.Kind
	}{
		{
			name:  "valid entry",
			input: CreateManualTransactionInput{MerchantName: " Taqueria ", GrandTotal: &total, CategoryID: &dining},
		},
		{
			name:         "missing merchant",
			input:        CreateManualTransactionInput{MerchantName: "  ", GrandTotal: &total, CategoryID: &dining},
			expectedErr:  domainerror.ErrMerchantNameRequired,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "merchant too long",
			input:        CreateManualTransactionInput{MerchantName: strings.Repeat("m", 256), GrandTotal: &total, CategoryID: &dining},
			expectedErr:  domainerror.ErrMerchantNameTooLong,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "missing total",
			input:        CreateManualTransactionInput{MerchantName: "Taqueria", CategoryID: &dining},
			expectedErr:  domainerror.ErrInvalidGrandTotal,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "negative total",
			input:        CreateManualTransactionInput{MerchantName: "Taqueria", GrandTotal: &negative, CategoryID: &dining},
			expectedErr:  domainerror.ErrInvalidGrandTotal,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "missing category",
			input:        CreateManualTransactionInput{MerchantName: "Taqueria", GrandTotal: &total},
			expectedErr:  domainerror.ErrCategoryRequired,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "invalid expense type",
			input:        CreateManualTransactionInput{MerchantName: "Taqueria", GrandTotal: &total, CategoryID: &dining, ExpenseType: "business"},
			expectedErr:  domainerror.ErrInvalidExpenseType,
			expectedKind: domainerror.KindValidation,
		},
		{
			name:         "unknown category",
			input:        CreateManualTransactionInput{MerchantName: "Taqueria", GrandTotal: &total, CategoryID: &unknown},
			expectedErr:  domainerror.ErrCategoryNotFoundForTransaction,
			expectedKind: domainerror.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txnRepo := newMockTransactionRepo()
			cache := &mockCache{}
			alerts := &mockAlertChecker{}
			uc := NewCreateManualTransactionUseCase(txnRepo, &mockCategoryRepo{categories: categories}, cache, alerts, fixedClock{now: testNow})

			out, err := uc.Execute(context.Background(), tt.input)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
				if domainerror.KindOf(err) != tt.expectedKind {
					t.Errorf("expected kind %v, got %v", tt.expectedKind, domainerror.KindOf(err))
				}
				if txnRepo.created != 0 {
					t.Errorf("expected nothing created, got %d", txnRepo.created)
				}
				if len(cache.invalidated) != 0 || len(alerts.months) != 0 {
					t.Error("expected no side effects")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			txn := out.Transaction
			if *txn.MerchantName != "Taqueria" {
				t.Errorf("expected trimmed merchant, got %q", *txn.MerchantName)
			}
			if !txn.GrandTotal.Equal(decimal.RequireFromString("18.46")) {
				t.Errorf("expected 18.46, got %s", txn.GrandTotal)
			}
			if txn.Source != entity.SourceManual || txn.State != entity.StateCategorized {
				t.Errorf("expected manual categorized, got %s %s", txn.Source, txn.State)
			}
			if txn.ExpenseType != entity.ExpenseTypePersonal {
				t.Errorf("expected personal, got %s", txn.ExpenseType)
			}
			if !txn.TransactionDate.Equal(testNow) {
				t.Errorf("expected date %v, got %v", testNow, txn.TransactionDate)
			}
			if len(cache.invalidated) != 1 || len(alerts.months) != 1 {
				t.Error("expected cache invalidation and alert check")
			}
		})
	}
}

func TestCreateManualTransactionUseCase_AlertFailureIsNotFatal(t *testing.T) {
	categories := activeCategories("Dining")
	total := decimal.NewFromInt(10)
	txnRepo := newMockTransactionRepo()
	alerts := &mockAlertChecker{err: errStorage}
	uc := NewCreateManualTransactionUseCase(txnRepo, &mockCategoryRepo{categories: categories}, &mockCache{}, alerts, fixedClock{now: testNow})

	_, err := uc.Execute(context.Background(), CreateManualTransactionInput{
		MerchantName: "Diner",
		GrandTotal:   &total,
		CategoryID:   &categories[0].ID,
	})
	if err != nil {
		t.Fatalf("expected success despite alert failure, got %v", err)
	}
	if txnRepo.created != 1 {
		t.Errorf("expected 1 created, got %d", txnRepo.created)
	}
}
