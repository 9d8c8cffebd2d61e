package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// MerchantRuleModel represents the merchant_rules table in the database.
type MerchantRuleModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Pattern      string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CategorySlug string    `gorm:"type:varchar(60);not null"`
	Confidence   float64   `gorm:"not null"`
	Priority     int       `gorm:"not null;index"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the MerchantRuleModel.
func (MerchantRuleModel) TableName() string {
	return "merchant_rules"
}

// ToEntity converts a MerchantRuleModel to a domain MerchantRule entity.
func (m *MerchantRuleModel) ToEntity() *entity.MerchantRule {
	return &entity.MerchantRule{
		ID:           m.ID,
		Pattern:      m.Pattern,
		CategorySlug: m.CategorySlug,
		Confidence:   m.Confidence,
		Priority:     m.Priority,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// MerchantRuleFromEntity creates a MerchantRuleModel from a domain MerchantRule entity.
func MerchantRuleFromEntity(rule *entity.MerchantRule) *MerchantRuleModel {
	return &MerchantRuleModel{
		ID:           rule.ID,
		Pattern:      rule.Pattern,
		CategorySlug: rule.CategorySlug,
		Confidence:   rule.Confidence,
		Priority:     rule.Priority,
		IsActive:     rule.IsActive,
		CreatedAt:    rule.CreatedAt,
		UpdatedAt:    rule.UpdatedAt,
	}
}
