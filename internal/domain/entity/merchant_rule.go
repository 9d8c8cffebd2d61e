package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MerchantRule maps merchant names containing Pattern to a category slug.
// Rules are checked in descending priority, first match wins.
type MerchantRule struct {
	ID           uuid.UUID
	Pattern      string // Lowercase substring matched against the merchant name
	CategorySlug string
	Confidence   float64
	Priority     int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewMerchantRule creates a new active MerchantRule.
func NewMerchantRule(pattern, categorySlug string, confidence float64, priority int) *MerchantRule {
	now := time.Now().UTC()

	return &MerchantRule{
		ID:           uuid.New(),
		Pattern:      strings.ToLower(strings.TrimSpace(pattern)),
		CategorySlug: categorySlug,
		Confidence:   confidence,
		Priority:     priority,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Matches reports whether the rule applies to merchantName.
func (r *MerchantRule) Matches(merchantName string) bool {
	if !r.IsActive || r.Pattern == "" {
		return false
	}
	return strings.Contains(strings.ToLower(merchantName), r.Pattern)
}

// MatchMerchant returns the first matching rule by priority, then insertion order.
func MatchMerchant(rules []*MerchantRule, merchantName string) (*MerchantRule, bool) {
	if strings.TrimSpace(merchantName) == "" {
		return nil, false
	}
	ordered := make([]*MerchantRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})
	for _, rule := range ordered {
		if rule.Matches(merchantName) {
			return rule, true
		}
	}
	return nil, false
}

// DefaultMerchantRules seeds the rule table. Earlier entries get higher priority.
var DefaultMerchantRules = []struct {
	Pattern      string
	CategorySlug string
	Confidence   float64
}{
	{"starbucks", "coffee", 0.95},
	{"tim hortons", "coffee", 0.95},
	{"dunkin", "coffee", 0.95},
	{"mcdonalds", "dining", 0.95},
	{"burger king", "dining", 0.95},
	{"subway", "dining", 0.95},
	{"burrito", "dining", 0.90},
	{"taco", "dining", 0.90},
	{"pizza", "dining", 0.90},
	{"safeway", "groceries", 0.95},
	{"walmart", "shopping", 0.80},
	{"costco", "groceries", 0.85},
	{"save-on", "groceries", 0.95},
	{"whole foods", "groceries", 0.95},
	{"uber", "transportation", 0.90},
	{"lyft", "transportation", 0.95},
	{"shell", "transportation", 0.90},
	{"chevron", "transportation", 0.90},
	{"amazon", "shopping", 0.75},
}
