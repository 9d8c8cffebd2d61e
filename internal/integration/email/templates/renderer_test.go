package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

func TestRenderer_RenderBudgetAlert(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	message, err := r.RenderBudgetAlert(entity.BudgetAlert{
		CategoryName: "Dining <Out>",
		CategorySlug: "dining-out",
		Month:        valueobject.Month{Year: 2024, Month: time.March},
		MonthlyLimit: decimal.NewFromInt(200),
		Spent:        decimal.RequireFromString("250.004"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"html escapes the name", message.HTML, "Dining &lt;Out&gt; is over budget"},
		{"text keeps the raw name", message.Text, "Dining <Out> is over budget for 2024-03"},
		{"spent is rounded to cents", message.Text, "$250.00"},
		{"overage is positive", message.Text, "Over:   $50.00"},
		{"percent is whole", message.Text, "That is 125% of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.body, tt.contains) {
				t.Errorf("expected %q in %q", tt.contains, tt.body)
			}
		})
	}
}
