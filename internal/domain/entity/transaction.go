// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// ExpenseType says who an expense belongs to.
type ExpenseType string

const (
	ExpenseTypePersonal  ExpenseType = "personal"
	ExpenseTypeHousehold ExpenseType = "household"
)

// IsValid reports whether t is a known expense type.
func (t ExpenseType) IsValid() bool {
	return t == ExpenseTypePersonal || t == ExpenseTypeHousehold
}

// TransactionSource records how a transaction was captured.
type TransactionSource string

const (
	SourceScanned TransactionSource = "scanned"
	SourceManual  TransactionSource = "manual"
)

// LifecycleState is the stage a captured expense has reached.
type LifecycleState string

const (
	StateCaptured    LifecycleState = "captured"
	StateNeedsReview LifecycleState = "needs_review"
	StateCategorized LifecycleState = "categorized"
	StateEdited      LifecycleState = "edited"
	StateDeleted     LifecycleState = "deleted"
)

// DefaultConfidenceThreshold is the category confidence below which a receipt needs review.
const DefaultConfidenceThreshold = 0.7

// LineItem is a single line extracted from a receipt.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// Transaction is a single recorded expense (a receipt), scanned or entered by hand.
type Transaction struct {
	ID                    uuid.UUID
	MerchantName          *string
	TransactionDate       *time.Time
	Subtotal              *decimal.Decimal
	Tax                   *decimal.Decimal
	Tip                   *decimal.Decimal
	GrandTotal            *decimal.Decimal // Absent until extraction or the user supplies it
	PaymentMethod         *string
	LineItems             []LineItem
	CategoryID            *uuid.UUID
	CategoryConfidence    float64
	CategoryOverridden    bool
	ExpenseType           ExpenseType
	NeedsReview           bool
	DateNeedsConfirmation bool
	ImageURL              *string // Present only for scanned receipts
	Source                TransactionSource
	State                 LifecycleState
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewManualTransaction creates a transaction from a fully filled manual-entry form.
// Manual entries skip review: the user picked the category.
func NewManualTransaction(
	merchantName string,
	grandTotal decimal.Decimal,
	categoryID uuid.UUID,
	date time.Time,
	expenseType ExpenseType,
) *Transaction {
	now := time.Now().UTC()
	if !expenseType.IsValid() {
		expenseType = ExpenseTypePersonal
	}

	return &Transaction{
		ID:                 uuid.New(),
		MerchantName:       &merchantName,
		TransactionDate:    &date,
		GrandTotal:         &grandTotal,
		CategoryID:         &categoryID,
		CategoryConfidence: 1.0,
		CategoryOverridden: true,
		ExpenseType:        expenseType,
		Source:             SourceManual,
		State:              StateCategorized,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// NewScannedTransaction creates a transaction in the captured state for an uploaded image.
// Fields are filled from extraction before ResolveCaptured is called.
func NewScannedTransaction(imageURL string) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.New(),
		ImageURL:    &imageURL,
		ExpenseType: ExpenseTypePersonal,
		Source:      SourceScanned,
		State:       StateCaptured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Amount returns the grand total, or zero when it is absent.
func (t *Transaction) Amount() decimal.Decimal {
	if t.GrandTotal == nil {
		return decimal.Zero
	}
	return *t.GrandTotal
}

// EffectiveDate is the transaction date, falling back to when it was recorded.
func (t *Transaction) EffectiveDate() time.Time {
	if t.TransactionDate != nil {
		return *t.TransactionDate
	}
	return t.CreatedAt
}

// IsComplete reports whether the transaction has what it needs to leave review.
func (t *Transaction) IsComplete() bool {
	return t.GrandTotal != nil && !t.GrandTotal.IsNegative() && t.CategoryID != nil
}

// ResolveCaptured moves a freshly extracted receipt out of the captured state.
// Missing dates default to now but stay flagged until the user confirms them.
func (t *Transaction) ResolveCaptured(threshold float64, now time.Time) {
	if t.TransactionDate == nil {
		today := now.UTC().Truncate(24 * time.Hour)
		t.TransactionDate = &today
		t.DateNeedsConfirmation = true
	}
	t.refreshReviewFlag(threshold)

	switch {
	case !t.IsComplete():
		t.State = StateCaptured
	case t.NeedsReview:
		t.State = StateNeedsReview
	default:
		t.State = StateCategorized
	}
}

// ApplyPatch applies a sparse patch and advances the lifecycle.
// Omitted fields are never touched. On error the transaction is unchanged.
func (t *Transaction) ApplyPatch(p TransactionPatch, threshold float64, now time.Time) error {
	if t.State == StateDeleted {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransition,
			"transaction has been deleted",
			domainerror.ErrInvalidLifecycleTransition,
		)
	}
	if p.IsEmpty() {
		return nil
	}
	if p.GrandTotal != nil && p.GrandTotal.IsNegative() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidGrandTotal,
			"grand total must be non-negative",
			domainerror.ErrInvalidGrandTotal,
		)
	}
	if p.ExpenseType != nil && !p.ExpenseType.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidExpenseType,
			"expense type must be personal or household",
			domainerror.ErrInvalidExpenseType,
		)
	}

	next := *t
	p.applyTo(&next)

	switch t.State {
	case StateCategorized, StateEdited:
		if err := next.validateEdit(); err != nil {
			return err
		}
		next.State = StateEdited
	default:
		if !next.ExpenseType.IsValid() {
			next.ExpenseType = ExpenseTypePersonal
		}
		next.refreshReviewFlag(threshold)
		switch {
		case !next.IsComplete():
			next.State = StateCaptured
		case next.NeedsReview:
			next.State = StateNeedsReview
		default:
			next.State = StateCategorized
		}
	}

	next.refreshReviewFlag(threshold)
	next.UpdatedAt = now.UTC()
	*t = next
	return nil
}

func (t *Transaction) validateEdit() error {
	if t.GrandTotal == nil || t.GrandTotal.IsNegative() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidGrandTotal,
			"grand total must be present and non-negative",
			domainerror.ErrInvalidGrandTotal,
		)
	}
	if t.CategoryID == nil {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeCategoryRequired,
			"category is required",
			domainerror.ErrCategoryRequired,
		)
	}
	return nil
}

func (t *Transaction) refreshReviewFlag(threshold float64) {
	t.NeedsReview = !t.CategoryOverridden && t.CategoryConfidence < threshold
}

// TransactionFilter narrows a transaction listing.
type TransactionFilter struct {
	CategoryID *uuid.UUID
	Start      *time.Time
	End        *time.Time
	Limit      int
	Offset     int
}
