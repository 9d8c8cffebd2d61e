package entity

import "testing"

func TestMatchMerchant(t *testing.T) {
	rules := []*MerchantRule{
		NewMerchantRule("taco", "dining", 0.90, 10),
		NewMerchantRule("Taco Bell Express", "fast-food", 0.99, 20),
		NewMerchantRule("starbucks", "coffee", 0.95, 5),
	}
	inactive := NewMerchantRule("shell", "transportation", 0.9, 50)
	inactive.IsActive = false
	rules = append(rules, inactive)

	tests := []struct {
		merchant     string
		expectedSlug string
		expectMatch  bool
	}{
		{"STARBUCKS #1234", "coffee", true},
		{"Taco Bell Express", "fast-food", true},
		{"Taco Town", "dining", true},
		{"Shell Gas", "", false},
		{"", "", false},
		{"Unknown Merchant", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.merchant, func(t *testing.T) {
			rule, ok := MatchMerchant(rules, tt.merchant)
			if ok != tt.expectMatch {
				t.Fatalf("expected match %v, got %v", tt.expectMatch, ok)
			}
			if ok && rule.CategorySlug != tt.expectedSlug {
				t.Errorf("expected %s, got %s", tt.expectedSlug, rule.CategorySlug)
			}
		})
	}
}
