package adapters

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

func TestParseExtraction(t *testing.T) {
	t.Run("full receipt in code fence", func(t *testing.T) {
		text := "```json\n" + `{
			"merchant_name": " Safeway #42 ",
			"transaction_date": "2024-03-14",
			"subtotal": 20.00,
			"tax": 1.5,
			"tip": null,
			"grand_total": 21.50,
			"payment_method": "",
			"line_items": [
				{"description": "Milk", "quantity": 2, "total_price": 8.98},
				{"description": "  ", "quantity": 1, "total_price": 0},
				{"description": "Bread", "total_price": 3.49}
			]
		}` + "\n```"

		receipt, err := parseExtraction(text)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if receipt.MerchantName == nil || *receipt.MerchantName != "Safeway #42" {
			t.Errorf("expected trimmed merchant, got %v", receipt.MerchantName)
		}
		expectedDate := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
		if receipt.TransactionDate == nil || !receipt.TransactionDate.Equal(expectedDate) {
			t.Errorf("expected %v, got %v", expectedDate, receipt.TransactionDate)
		}
		if receipt.GrandTotal == nil || !receipt.GrandTotal.Equal(decimal.RequireFromString("21.5")) {
			t.Errorf("expected 21.50, got %v", receipt.GrandTotal)
		}
		if receipt.Tip != nil {
			t.Errorf("expected nil tip, got %v", receipt.Tip)
		}
		if receipt.PaymentMethod != nil {
			t.Errorf("expected empty payment method dropped, got %v", *receipt.PaymentMethod)
		}
		if len(receipt.LineItems) != 2 {
			t.Fatalf("expected 2 line items, got %d", len(receipt.LineItems))
		}
		if !receipt.LineItems[1].Quantity.Equal(decimal.NewFromInt(1)) {
			t.Errorf("expected default quantity 1, got %s", receipt.LineItems[1].Quantity)
		}
	})

	t.Run("bad date is dropped", func(t *testing.T) {
		receipt, err := parseExtraction(`{"transaction_date": "March 14", "grand_total": 5}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if receipt.TransactionDate != nil {
			t.Errorf("expected nil date, got %v", receipt.TransactionDate)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := parseExtraction("I could not read this receipt"); err == nil {
			t.Error("expected error for non-JSON response")
		}
	})
}

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name               string
		text               string
		expectErr          bool
		expectedSlug       string
		expectedConfidence float64
	}{
		{name: "plain", text: `{"category": "groceries", "confidence": 0.82}`, expectedSlug: "groceries", expectedConfidence: 0.82},
		{name: "normalizes slug", text: "```\n{\"category\": \" Dining \", \"confidence\": 0.6}\n```", expectedSlug: "dining", expectedConfidence: 0.6},
		{name: "clamps confidence", text: `{"category": "coffee", "confidence": 7}`, expectedSlug: "coffee", expectedConfidence: 1},
		{name: "missing category", text: `{"confidence": 0.5}`, expectErr: true},
		{name: "garbage", text: `category: coffee`, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuggestion(tt.text)
			if tt.expectErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Slug != tt.expectedSlug || got.Confidence != tt.expectedConfidence {
				t.Errorf("expected %s/%v, got %s/%v", tt.expectedSlug, tt.expectedConfidence, got.Slug, got.Confidence)
			}
		})
	}
}

func TestBuildSuggestionPrompt(t *testing.T) {
	merchant := "Corner Store"
	receipt := &adapter.ExtractedReceipt{
		MerchantName: &merchant,
		LineItems: []entity.LineItem{
			{Description: "Apples"}, {Description: "Eggs"},
		},
	}

	prompt := buildSuggestionPrompt(receipt, []string{"groceries", "other"})

	for _, want := range []string{"groceries, other", "Merchant: Corner Store", "Items: Apples, Eggs"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}

	if !strings.Contains(buildSuggestionPrompt(nil, nil), "Merchant: Unknown") {
		t.Error("expected unknown merchant placeholder")
	}
}

func TestGeminiExtractor_IsAvailable(t *testing.T) {
	if NewGeminiExtractor("", "").IsAvailable() {
		t.Error("expected unavailable without key")
	}
	if !NewGeminiExtractor("key", "").IsAvailable() {
		t.Error("expected available with key")
	}
}
