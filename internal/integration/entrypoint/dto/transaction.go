package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/usecase/transaction"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// ManualTransactionRequest represents the request body for manual receipt entry.
type ManualTransactionRequest struct {
	MerchantName    string           `json:"merchant_name"`
	GrandTotal      *decimal.Decimal `json:"grand_total"`
	CategoryID      *string          `json:"category_id"`
	TransactionDate *string          `json:"transaction_date,omitempty"`
	ExpenseType     string           `json:"expense_type,omitempty"`
}

// UpdateTransactionRequest is a sparse patch: absent fields are left unchanged.
type UpdateTransactionRequest struct {
	MerchantName    *string          `json:"merchant_name,omitempty"`
	GrandTotal      *decimal.Decimal `json:"grand_total,omitempty"`
	CategoryID      *string          `json:"category_id,omitempty"`
	TransactionDate *string          `json:"transaction_date,omitempty"`
	ExpenseType     *string          `json:"expense_type,omitempty"`
}

// LineItemResponse represents one extracted receipt line.
type LineItemResponse struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	TotalPrice  string `json:"total_price"`
}

// TransactionResponse represents a single receipt in API responses.
type TransactionResponse struct {
	ID                    string             `json:"id"`
	MerchantName          *string            `json:"merchant_name"`
	TransactionDate       *string            `json:"transaction_date"`
	Subtotal              *string            `json:"subtotal,omitempty"`
	Tax                   *string            `json:"tax,omitempty"`
	Tip                   *string            `json:"tip,omitempty"`
	GrandTotal            *string            `json:"grand_total"`
	PaymentMethod         *string            `json:"payment_method,omitempty"`
	LineItems             []LineItemResponse `json:"line_items"`
	CategoryID            *string            `json:"category_id"`
	CategoryConfidence    float64            `json:"category_confidence"`
	CategoryOverridden    bool               `json:"category_overridden"`
	ExpenseType           string             `json:"expense_type"`
	NeedsReview           bool               `json:"needs_review"`
	DateNeedsConfirmation bool               `json:"date_needs_confirmation"`
	ImageURL              *string            `json:"image_url,omitempty"`
	Source                string             `json:"source"`
	State                 string             `json:"state"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// CategoryMatchResponse describes how an uploaded receipt was categorized.
type CategoryMatchResponse struct {
	Slug       string  `json:"slug"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// UploadReceiptResponse represents the response of a receipt upload.
type UploadReceiptResponse struct {
	Transaction TransactionResponse    `json:"transaction"`
	Match       *CategoryMatchResponse `json:"match,omitempty"`
}

// TransactionListResponse represents the response for listing receipts.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// ToInput converts the request into use case input.
func (r ManualTransactionRequest) ToInput() (transaction.CreateManualTransactionInput, error) {
	input := transaction.CreateManualTransactionInput{
		MerchantName: r.MerchantName,
		GrandTotal:   r.GrandTotal,
		ExpenseType:  entity.ExpenseType(r.ExpenseType),
	}
	if r.CategoryID != nil && *r.CategoryID != "" {
		id, err := uuid.Parse(*r.CategoryID)
		if err != nil {
			return input, fmt.Errorf("invalid category_id: %w", err)
		}
		input.CategoryID = &id
	}
	if r.TransactionDate != nil && *r.TransactionDate != "" {
		date, err := ParseDate(*r.TransactionDate)
		if err != nil {
			return input, err
		}
		input.TransactionDate = &date
	}
	return input, nil
}

// ToPatch converts the request into a domain patch.
func (r UpdateTransactionRequest) ToPatch() (entity.TransactionPatch, error) {
	patch := entity.TransactionPatch{
		MerchantName: r.MerchantName,
		GrandTotal:   r.GrandTotal,
	}
	if r.CategoryID != nil {
		id, err := uuid.Parse(*r.CategoryID)
		if err != nil {
			return patch, fmt.Errorf("invalid category_id: %w", err)
		}
		patch.CategoryID = &id
	}
	if r.TransactionDate != nil {
		date, err := ParseDate(*r.TransactionDate)
		if err != nil {
			return patch, err
		}
		patch.TransactionDate = &date
	}
	if r.ExpenseType != nil {
		et := entity.ExpenseType(*r.ExpenseType)
		patch.ExpenseType = &et
	}
	return patch, nil
}

// FromPatch builds the wire form of a domain patch.
func FromPatch(p entity.TransactionPatch) UpdateTransactionRequest {
	req := UpdateTransactionRequest{
		MerchantName: p.MerchantName,
		GrandTotal:   p.GrandTotal,
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		req.CategoryID = &id
	}
	if p.TransactionDate != nil {
		date := p.TransactionDate.Format(DateLayout)
		req.TransactionDate = &date
	}
	if p.ExpenseType != nil {
		et := string(*p.ExpenseType)
		req.ExpenseType = &et
	}
	return req
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return date, nil
}

// ToTransactionResponse converts a domain Transaction to a TransactionResponse DTO.
func ToTransactionResponse(txn *entity.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                    txn.ID.String(),
		MerchantName:          txn.MerchantName,
		Subtotal:              formatAmount(txn.Subtotal),
		Tax:                   formatAmount(txn.Tax),
		Tip:                   formatAmount(txn.Tip),
		GrandTotal:            formatAmount(txn.GrandTotal),
		PaymentMethod:         txn.PaymentMethod,
		LineItems:             make([]LineItemResponse, 0, len(txn.LineItems)),
		CategoryConfidence:    txn.CategoryConfidence,
		CategoryOverridden:    txn.CategoryOverridden,
		ExpenseType:           string(txn.ExpenseType),
		NeedsReview:           txn.NeedsReview,
		DateNeedsConfirmation: txn.DateNeedsConfirmation,
		ImageURL:              txn.ImageURL,
		Source:                string(txn.Source),
		State:                 string(txn.State),
		CreatedAt:             txn.CreatedAt,
		UpdatedAt:             txn.UpdatedAt,
	}
	if txn.TransactionDate != nil {
		date := txn.TransactionDate.Format(DateLayout)
		resp.TransactionDate = &date
	}
	if txn.CategoryID != nil {
		id := txn.CategoryID.String()
		resp.CategoryID = &id
	}
	for _, item := range txn.LineItems {
		resp.LineItems = append(resp.LineItems, LineItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			TotalPrice:  valueobject.ToCurrency(item.TotalPrice).StringFixed(valueobject.CurrencyPlaces),
		})
	}
	return resp
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []*entity.Transaction) []TransactionResponse {
	items := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		items = append(items, ToTransactionResponse(txn))
	}
	return items
}

// ToUploadReceiptResponse converts the upload output.
func ToUploadReceiptResponse(output *transaction.UploadReceiptOutput) UploadReceiptResponse {
	resp := UploadReceiptResponse{Transaction: ToTransactionResponse(output.Transaction)}
	if output.Match != nil {
		resp.Match = &CategoryMatchResponse{
			Slug:       output.Match.Slug,
			Confidence: output.Match.Confidence,
			Source:     output.Match.Source,
		}
	}
	return resp
}

// ToTransactionListResponse converts the list output.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	return TransactionListResponse{
		Transactions: ToTransactionResponses(output.Transactions),
		Limit:        output.Limit,
		Offset:       output.Offset,
	}
}

func formatAmount(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := valueobject.ToCurrency(*d).StringFixed(valueobject.CurrencyPlaces)
	return &s
}
