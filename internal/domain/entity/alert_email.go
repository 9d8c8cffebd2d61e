package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// AlertStatus is where a queued alert email is in delivery.
type AlertStatus string

const (
	AlertPending AlertStatus = "pending"
	AlertSending AlertStatus = "sending"
	AlertSent    AlertStatus = "sent"
	AlertFailed  AlertStatus = "failed"
)

// MaxAlertAttempts bounds delivery attempts before an alert is given up.
const MaxAlertAttempts = 3

// retryBackoff[i] is the wait after the (i+1)th failed attempt.
var retryBackoff = []time.Duration{time.Minute, 5 * time.Minute}

// BudgetAlert is the notice that a category went over its limit in a month.
type BudgetAlert struct {
	CategoryName string
	CategorySlug string
	Month        valueobject.Month
	MonthlyLimit decimal.Decimal
	Spent        decimal.Decimal
}

// NewBudgetAlert builds the alert for a month summary row.
func NewBudgetAlert(month valueobject.Month, row CategorySummary) BudgetAlert {
	alert := BudgetAlert{
		Month:        month,
		MonthlyLimit: row.MonthlyLimit,
		Spent:        row.SpentThisMonth,
	}
	if row.Category != nil {
		alert.CategoryName = row.Category.Name
		alert.CategorySlug = row.Category.Slug
	}
	return alert
}

func (a BudgetAlert) Remaining() decimal.Decimal {
	return a.MonthlyLimit.Sub(a.Spent)
}

func (a BudgetAlert) PercentUsed() decimal.Decimal {
	return valueobject.PercentUsed(a.Spent, a.MonthlyLimit)
}

// Reference identifies the alert. A category alerts at most once a month.
func (a BudgetAlert) Reference() string {
	return fmt.Sprintf("budget_alert:%s:%s", a.CategorySlug, a.Month)
}

func (a BudgetAlert) Subject() string {
	return fmt.Sprintf("%s is over budget for %s", a.CategoryName, a.Month)
}

// AlertEmail is a budget alert waiting in the outbox for one recipient.
type AlertEmail struct {
	ID            uuid.UUID
	Recipient     string
	Alert         BudgetAlert
	Status        AlertStatus
	Attempts      int
	LastError     string
	ProviderID    string
	QueuedAt      time.Time
	NextAttemptAt time.Time
	ClosedAt      *time.Time // Set once the alert is sent or given up
}

// NewAlertEmail queues alert for recipient, deliverable immediately.
func NewAlertEmail(recipient string, alert BudgetAlert, now time.Time) *AlertEmail {
	now = now.UTC()
	return &AlertEmail{
		ID:            uuid.New(),
		Recipient:     recipient,
		Alert:         alert,
		Status:        AlertPending,
		QueuedAt:      now,
		NextAttemptAt: now,
	}
}

func (e *AlertEmail) Reference() string {
	return e.Alert.Reference()
}

// Due reports whether the worker should attempt delivery at now.
func (e *AlertEmail) Due(now time.Time) bool {
	return e.Status == AlertPending && !e.NextAttemptAt.After(now)
}

func (e *AlertEmail) MarkSending() {
	e.Status = AlertSending
}

func (e *AlertEmail) MarkSent(providerID string, now time.Time) {
	closed := now.UTC()
	e.Status = AlertSent
	e.ProviderID = providerID
	e.ClosedAt = &closed
}

// MarkFailed records a failed attempt. A permanent failure or the last
// allowed attempt closes the alert; otherwise it is pending again after a
// backoff.
func (e *AlertEmail) MarkFailed(err error, permanent bool, now time.Time) {
	now = now.UTC()
	e.Attempts++
	e.LastError = err.Error()

	if permanent || e.Attempts >= MaxAlertAttempts {
		e.Status = AlertFailed
		e.ClosedAt = &now
		return
	}

	delay := retryBackoff[len(retryBackoff)-1]
	if e.Attempts <= len(retryBackoff) {
		delay = retryBackoff[e.Attempts-1]
	}
	e.Status = AlertPending
	e.NextAttemptAt = now.Add(delay)
}
