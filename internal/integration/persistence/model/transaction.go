package model

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID                    uuid.UUID        `gorm:"type:uuid;primaryKey"`
	MerchantName          *string          `gorm:"type:varchar(255)"`
	TransactionDate       *time.Time       `gorm:"index"`
	Subtotal              *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Tax                   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Tip                   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	GrandTotal            *decimal.Decimal `gorm:"type:decimal(12,2)"`
	PaymentMethod         *string          `gorm:"type:varchar(50)"`
	LineItems             string           `gorm:"type:text;not null;default:'[]'"`
	CategoryID            *uuid.UUID       `gorm:"type:uuid;index"`
	CategoryConfidence    float64          `gorm:"not null"`
	CategoryOverridden    bool             `gorm:"not null"`
	ExpenseType           string           `gorm:"type:varchar(20);not null"`
	NeedsReview           bool             `gorm:"not null;index"`
	DateNeedsConfirmation bool             `gorm:"not null"`
	ImageURL              *string          `gorm:"type:varchar(500)"`
	Source                string           `gorm:"type:varchar(10);not null"`
	State                 string           `gorm:"type:varchar(20);not null"`
	CreatedAt             time.Time        `gorm:"not null"`
	UpdatedAt             time.Time        `gorm:"not null"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var items []entity.LineItem
	if m.LineItems != "" {
		if err := json.Unmarshal([]byte(m.LineItems), &items); err != nil {
			slog.Warn("Failed to unmarshal line items", "error", err, "id", m.ID)
		}
	}

	// Drivers may hand timestamps back in the host's zone.
	var date *time.Time
	if m.TransactionDate != nil {
		utc := m.TransactionDate.UTC()
		date = &utc
	}

	return &entity.Transaction{
		ID:                    m.ID,
		MerchantName:          m.MerchantName,
		TransactionDate:       date,
		Subtotal:              m.Subtotal,
		Tax:                   m.Tax,
		Tip:                   m.Tip,
		GrandTotal:            m.GrandTotal,
		PaymentMethod:         m.PaymentMethod,
		LineItems:             items,
		CategoryID:            m.CategoryID,
		CategoryConfidence:    m.CategoryConfidence,
		CategoryOverridden:    m.CategoryOverridden,
		ExpenseType:           entity.ExpenseType(m.ExpenseType),
		NeedsReview:           m.NeedsReview,
		DateNeedsConfirmation: m.DateNeedsConfirmation,
		ImageURL:              m.ImageURL,
		Source:                entity.TransactionSource(m.Source),
		State:                 entity.LifecycleState(m.State),
		CreatedAt:             m.CreatedAt.UTC(),
		UpdatedAt:             m.UpdatedAt.UTC(),
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
// Dates are stored in UTC so range queries compare consistently across drivers.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	itemsJSON := []byte("[]")
	if len(transaction.LineItems) > 0 {
		encoded, err := json.Marshal(transaction.LineItems)
		if err != nil {
			slog.Error("Failed to marshal line items", "error", err, "id", transaction.ID)
		} else {
			itemsJSON = encoded
		}
	}

	var date *time.Time
	if transaction.TransactionDate != nil {
		utc := transaction.TransactionDate.UTC()
		date = &utc
	}

	return &TransactionModel{
		ID:                    transaction.ID,
		MerchantName:          transaction.MerchantName,
		TransactionDate:       date,
		Subtotal:              transaction.Subtotal,
		Tax:                   transaction.Tax,
		Tip:                   transaction.Tip,
		GrandTotal:            transaction.GrandTotal,
		PaymentMethod:         transaction.PaymentMethod,
		LineItems:             string(itemsJSON),
		CategoryID:            transaction.CategoryID,
		CategoryConfidence:    transaction.CategoryConfidence,
		CategoryOverridden:    transaction.CategoryOverridden,
		ExpenseType:           string(transaction.ExpenseType),
		NeedsReview:           transaction.NeedsReview,
		DateNeedsConfirmation: transaction.DateNeedsConfirmation,
		ImageURL:              transaction.ImageURL,
		Source:                string(transaction.Source),
		State:                 string(transaction.State),
		CreatedAt:             transaction.CreatedAt,
		UpdatedAt:             transaction.UpdatedAt,
	}
}
