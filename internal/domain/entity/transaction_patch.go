package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionPatch is a sparse update. A nil field means "leave as is".
type TransactionPatch struct {
	MerchantName    *string
	GrandTotal      *decimal.Decimal
	CategoryID      *uuid.UUID
	TransactionDate *time.Time
	ExpenseType     *ExpenseType
}

// IsEmpty reports whether the patch changes nothing.
func (p TransactionPatch) IsEmpty() bool {
	return p.MerchantName == nil &&
		p.GrandTotal == nil &&
		p.CategoryID == nil &&
		p.TransactionDate == nil &&
		p.ExpenseType == nil
}

func (p TransactionPatch) applyTo(t *Transaction) {
	if p.MerchantName != nil {
		name := strings.TrimSpace(*p.MerchantName)
		if name == "" {
			t.MerchantName = nil
		} else {
			t.MerchantName = &name
		}
	}
	if p.GrandTotal != nil {
		total := *p.GrandTotal
		t.GrandTotal = &total
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		t.CategoryID = &id
		t.CategoryOverridden = true
		t.CategoryConfidence = 1.0
	}
	if p.TransactionDate != nil {
		date := *p.TransactionDate
		t.TransactionDate = &date
		t.DateNeedsConfirmation = false
	}
	if p.ExpenseType != nil {
		t.ExpenseType = *p.ExpenseType
	}
}

// DiffTransaction returns the minimal patch that turns original into edited.
// Only user-editable fields are compared, so server-derived fields such as
// NeedsReview are never sent back.
func DiffTransaction(original, edited *Transaction) TransactionPatch {
	var p TransactionPatch

	if stringValue(original.MerchantName) != stringValue(edited.MerchantName) {
		name := stringValue(edited.MerchantName)
		p.MerchantName = &name
	}
	if !decimalPtrEqual(original.GrandTotal, edited.GrandTotal) && edited.GrandTotal != nil {
		total := *edited.GrandTotal
		p.GrandTotal = &total
	}
	if !uuidPtrEqual(original.CategoryID, edited.CategoryID) && edited.CategoryID != nil {
		id := *edited.CategoryID
		p.CategoryID = &id
	}
	if !datePtrEqual(original.TransactionDate, edited.TransactionDate) && edited.TransactionDate != nil {
		date := *edited.TransactionDate
		p.TransactionDate = &date
	}
	if original.ExpenseType != edited.ExpenseType {
		et := edited.ExpenseType
		p.ExpenseType = &et
	}

	return p
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func datePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
