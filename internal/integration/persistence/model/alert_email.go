package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// AlertEmailModel represents the alert_emails table. The alert is stored in
// columns so the outbox can be queried without decoding payloads.
type AlertEmailModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Reference     string          `gorm:"type:varchar(150);not null;uniqueIndex"`
	Recipient     string          `gorm:"type:varchar(255);not null"`
	CategoryName  string          `gorm:"type:varchar(50);not null"`
	CategorySlug  string          `gorm:"type:varchar(60);not null"`
	Year          int             `gorm:"not null"`
	Month         int             `gorm:"not null"`
	MonthlyLimit  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Spent         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index:idx_alert_due"`
	Attempts      int             `gorm:"not null;default:0"`
	LastError     string          `gorm:"type:text"`
	ProviderID    string          `gorm:"type:varchar(100)"`
	QueuedAt      time.Time       `gorm:"not null"`
	NextAttemptAt time.Time       `gorm:"not null;index:idx_alert_due"`
	ClosedAt      sql.NullTime
}

func (AlertEmailModel) TableName() string {
	return "alert_emails"
}

func (m *AlertEmailModel) ToEntity() *entity.AlertEmail {
	email := &entity.AlertEmail{
		ID:        m.ID,
		Recipient: m.Recipient,
		Alert: entity.BudgetAlert{
			CategoryName: m.CategoryName,
			CategorySlug: m.CategorySlug,
			Month:        valueobject.Month{Year: m.Year, Month: time.Month(m.Month)},
			MonthlyLimit: m.MonthlyLimit,
			Spent:        m.Spent,
		},
		Status:        entity.AlertStatus(m.Status),
		Attempts:      m.Attempts,
		LastError:     m.LastError,
		ProviderID:    m.ProviderID,
		QueuedAt:      m.QueuedAt.UTC(),
		NextAttemptAt: m.NextAttemptAt.UTC(),
	}
	if m.ClosedAt.Valid {
		closed := m.ClosedAt.Time.UTC()
		email.ClosedAt = &closed
	}
	return email
}

func AlertEmailFromEntity(e *entity.AlertEmail) *AlertEmailModel {
	m := &AlertEmailModel{
		ID:            e.ID,
		Reference:     e.Reference(),
		Recipient:     e.Recipient,
		CategoryName:  e.Alert.CategoryName,
		CategorySlug:  e.Alert.CategorySlug,
		Year:          e.Alert.Month.Year,
		Month:         int(e.Alert.Month.Month),
		MonthlyLimit:  e.Alert.MonthlyLimit,
		Spent:         e.Alert.Spent,
		Status:        string(e.Status),
		Attempts:      e.Attempts,
		LastError:     e.LastError,
		ProviderID:    e.ProviderID,
		QueuedAt:      e.QueuedAt,
		NextAttemptAt: e.NextAttemptAt,
	}
	if e.ClosedAt != nil {
		m.ClosedAt = sql.NullTime{Time: *e.ClosedAt, Valid: true}
	}
	return m
}
