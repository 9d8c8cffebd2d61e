// Package templates renders the budget alert email.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

//go:embed budget_alert.html budget_alert.txt
var templateFS embed.FS

// Message is a rendered email body in both formats.
type Message struct {
	HTML string
	Text string
}

// Renderer holds the parsed alert templates.
type Renderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func NewRenderer() (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "budget_alert.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse alert HTML template: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "budget_alert.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse alert text template: %w", err)
	}
	return &Renderer{html: html, text: text}, nil
}

// alertView is what the templates see: every amount already formatted.
type alertView struct {
	CategoryName string
	Month        string
	MonthlyLimit string
	Spent        string
	Over         string
	PercentUsed  string
}

func newAlertView(alert entity.BudgetAlert) alertView {
	return alertView{
		CategoryName: alert.CategoryName,
		Month:        alert.Month.String(),
		MonthlyLimit: valueobject.ToCurrency(alert.MonthlyLimit).StringFixed(2),
		Spent:        valueobject.ToCurrency(alert.Spent).StringFixed(2),
		Over:         valueobject.ToCurrency(alert.Remaining().Neg()).StringFixed(2),
		PercentUsed:  valueobject.ToFixed(alert.PercentUsed(), 0).String(),
	}
}

// RenderBudgetAlert renders the over-budget email for alert.
func (r *Renderer) RenderBudgetAlert(alert entity.BudgetAlert) (Message, error) {
	view := newAlertView(alert)

	var html, text bytes.Buffer
	if err := r.html.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("failed to render alert HTML: %w", err)
	}
	if err := r.text.Execute(&text, view); err != nil {
		return Message{}, fmt.Errorf("failed to render alert text: %w", err)
	}
	return Message{HTML: html.String(), Text: text.String()}, nil
}
