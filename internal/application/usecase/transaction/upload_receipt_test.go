package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

var (
	jpegBytes = []byte("\xFF\xD8\xFF\xE0\x00\x10JFIF\x00receipt")
	pngBytes  = []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")
)

type uploadFixture struct {
	txnRepo   *mockTransactionRepo
	images    *mockImageStore
	extractor *mockExtractor
	cache     *mockCache
	alerts    *mockAlertChecker
	useCase   *UploadReceiptUseCase
}

func newUploadFixture(extractor *mockExtractor, rules []*entity.MerchantRule, maxBytes int) *uploadFixture {
	f := &uploadFixture{
		txnRepo:   newMockTransactionRepo(),
		images:    newMockImageStore(),
		extractor: extractor,
		cache:     &mockCache{},
		alerts:    &mockAlertChecker{},
	}
	categoryRepo := &mockCategoryRepo{categories: activeCategories("Coffee", "Groceries", "Other")}
	categorizer := NewCategorizer(&mockRuleRepo{rules: rules}, categoryRepo, extractor)
	f.useCase = NewUploadReceiptUseCase(
		f.txnRepo, f.images, extractor, categorizer, f.cache, f.alerts,
		fixedClock{now: testNow}, entity.DefaultConfidenceThreshold, maxBytes,
	)
	return f
}

func TestUploadReceiptUseCase_Validation(t *testing.T) {
	tests := []struct {
		name         string
		input        UploadReceiptInput
		expectedErr  error
		expectedCode domainerror.TransactionErrorCode
	}{
		{
			name:         "empty file",
			input:        UploadReceiptInput{ContentType: "image/jpeg"},
			expectedErr:  domainerror.ErrEmptyUpload,
			expectedCode: domainerror.ErrCodeEmptyUpload,
		},
		{
			name:         "too large",
			input:        UploadReceiptInput{ContentType: "image/jpeg", Data: make([]byte, 2048)},
			expectedErr:  domainerror.ErrImageTooLarge,
			expectedCode: domainerror.ErrCodeImageTooLarge,
		},
		{
			name:         "pdf rejected",
			input:        UploadReceiptInput{ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
			expectedErr:  domainerror.ErrUnsupportedImageType,
			expectedCode: domainerror.ErrCodeUnsupportedImageType,
		},
		{
			name:         "sniffed text rejected",
			input:        UploadReceiptInput{Data: []byte("just some text")},
			expectedErr:  domainerror.ErrUnsupportedImageType,
			expectedCode: domainerror.ErrCodeUnsupportedImageType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUploadFixture(&mockExtractor{}, nil, 1024)

			_, err := f.useCase.Execute(context.Background(), tt.input)
			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
			}
			var txnErr *domainerror.TransactionError
			if !errors.As(err, &txnErr) || txnErr.Code != tt.expectedCode {
				t.Errorf("expected code %s, got %v", tt.expectedCode, err)
			}
			if domainerror.KindOf(err) != domainerror.KindValidation {
				t.Errorf("expected validation kind, got %v", domainerror.KindOf(err))
			}
			if len(f.images.saved) != 0 || f.txnRepo.created != 0 {
				t.Error("expected nothing to be stored")
			}
		})
	}
}

func TestUploadReceiptUseCase_Execute(t *testing.T) {
	total := decimal.RequireFromString("4.85")
	rules := []*entity.MerchantRule{entity.NewMerchantRule("starbucks", "coffee", 0.95, 10)}

	t.Run("confident rule match is categorized", func(t *testing.T) {
		extractor := &mockExtractor{
			available: true,
			receipt: &adapter.ExtractedReceipt{
				MerchantName:    strPtr("Starbucks"),
				GrandTotal:      &total,
				TransactionDate: datePtr(2024, 3, 14),
			},
		}
		f := newUploadFixture(extractor, rules, 0)

		out, err := f.useCase.Execute(context.Background(), UploadReceiptInput{Data: jpegBytes})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		txn := out.Transaction
		if txn.State != entity.StateCategorized {
			t.Errorf("expected state categorized, got %s", txn.State)
		}
		if txn.NeedsReview {
			t.Error("expected no review needed")
		}
		if txn.Source != entity.SourceScanned || txn.ImageURL == nil {
			t.Error("expected scanned transaction with image")
		}
		if out.Match.Slug != "coffee" {
			t.Errorf("expected coffee, got %s", out.Match.Slug)
		}
		march := valueobject.MonthOf(testNow)
		if len(f.cache.invalidated) != 1 || f.cache.invalidated[0] != march {
			t.Errorf("expected %s invalidated, got %v", march, f.cache.invalidated)
		}
		if len(f.alerts.months) != 1 {
			t.Errorf("expected alert check for one month, got %v", f.alerts.months)
		}
	})

	t.Run("low confidence needs review and missing date is flagged", func(t *testing.T) {
		extractor := &mockExtractor{
			available:  true,
			receipt:    &adapter.ExtractedReceipt{MerchantName: strPtr("Corner Store"), GrandTotal: &total},
			suggestion: &adapter.CategorySuggestion{Slug: "groceries", Confidence: 0.4},
		}
		f := newUploadFixture(extractor, rules, 0)

		out, err := f.useCase.Execute(context.Background(), UploadReceiptInput{ContentType: "image/png", Data: pngBytes})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		txn := out.Transaction
		if txn.State != entity.StateNeedsReview || !txn.NeedsReview {
			t.Errorf("expected needs_review, got %s", txn.State)
		}
		if !txn.DateNeedsConfirmation || txn.TransactionDate == nil {
			t.Error("expected defaulted date flagged for confirmation")
		}
	})

	t.Run("extractor unavailable keeps captured receipt", func(t *testing.T) {
		f := newUploadFixture(&mockExtractor{available: false}, rules, 0)

		out, err := f.useCase.Execute(context.Background(), UploadReceiptInput{Data: jpegBytes})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Transaction.State != entity.StateCaptured {
			t.Errorf("expected captured, got %s", out.Transaction.State)
		}
		if out.Transaction.MerchantName != nil || out.Match != nil {
			t.Error("expected no extracted fields")
		}
		if f.txnRepo.created != 1 {
			t.Errorf("expected 1 created, got %d", f.txnRepo.created)
		}
	})

	t.Run("extraction failure removes image", func(t *testing.T) {
		f := newUploadFixture(&mockExtractor{available: true, extractErr: errors.New("timeout")}, rules, 0)

		_, err := f.useCase.Execute(context.Background(), UploadReceiptInput{Data: jpegBytes})
		if !errors.Is(err, domainerror.ErrReceiptExtractionFailed) {
			t.Fatalf("expected extraction failure, got %v", err)
		}
		if domainerror.KindOf(err) != domainerror.KindTransport {
			t.Errorf("expected transport kind, got %v", domainerror.KindOf(err))
		}
		if len(f.images.saved) != 0 || len(f.images.deleted) != 1 {
			t.Error("expected stored image to be removed")
		}
		if f.txnRepo.created != 0 {
			t.Error("expected no transaction created")
		}
	})

	t.Run("create failure removes image", func(t *testing.T) {
		f := newUploadFixture(&mockExtractor{available: false}, nil, 0)
		f.txnRepo.createErr = errStorage

		_, err := f.useCase.Execute(context.Background(), UploadReceiptInput{Data: jpegBytes})
		if !errors.Is(err, errStorage) {
			t.Fatalf("expected storage error, got %v", err)
		}
		if len(f.images.deleted) != 1 {
			t.Error("expected stored image to be removed")
		}
	})
}
