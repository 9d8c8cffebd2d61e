package adapter

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// ExtractedReceipt is the structured data read from a receipt image.
// Every field is optional: extraction may only partially succeed.
type ExtractedReceipt struct {
	MerchantName    *string
	TransactionDate *time.Time
	Subtotal        *decimal.Decimal
	Tax             *decimal.Decimal
	Tip             *decimal.Decimal
	GrandTotal      *decimal.Decimal
	PaymentMethod   *string
	LineItems       []entity.LineItem
}

// CategorySuggestion is a category slug with the extractor's confidence in it.
type CategorySuggestion struct {
	Slug       string
	Confidence float64
}

// ReceiptExtractor reads receipts and suggests categories.
type ReceiptExtractor interface {
	// Extract reads structured fields from a receipt image.
	Extract(ctx context.Context, image []byte, mediaType string) (*ExtractedReceipt, error)

	// SuggestCategory picks one of availableSlugs for the receipt.
	SuggestCategory(ctx context.Context, receipt *ExtractedReceipt, availableSlugs []string) (*CategorySuggestion, error)

	// IsAvailable checks if the extractor is properly configured.
	IsAvailable() bool
}
