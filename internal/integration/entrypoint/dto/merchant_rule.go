package dto

import (
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CreateMerchantRuleRequest represents the request body for rule creation.
type CreateMerchantRuleRequest struct {
	Pattern      string  `json:"pattern" binding:"required"`
	CategorySlug string  `json:"category_slug" binding:"required"`
	Confidence   float64 `json:"confidence"`
	Priority     *int    `json:"priority,omitempty"`
}

// MerchantRuleResponse represents a merchant rule in API responses.
type MerchantRuleResponse struct {
	ID           string  `json:"id"`
	Pattern      string  `json:"pattern"`
	CategorySlug string  `json:"category_slug"`
	Confidence   float64 `json:"confidence"`
	Priority     int     `json:"priority"`
	IsActive     bool    `json:"is_active"`
}

// MerchantRuleListResponse represents the response for listing rules.
type MerchantRuleListResponse struct {
	Rules []MerchantRuleResponse `json:"rules"`
}

// MerchantRuleMatchResponse reports the rule that matches a merchant name.
type MerchantRuleMatchResponse struct {
	Matched bool                  `json:"matched"`
	Rule    *MerchantRuleResponse `json:"rule,omitempty"`
}

// ToMerchantRuleResponse converts a MerchantRule entity.
func ToMerchantRuleResponse(r *entity.MerchantRule) MerchantRuleResponse {
	return MerchantRuleResponse{
		ID:           r.ID.String(),
		Pattern:      r.Pattern,
		CategorySlug: r.CategorySlug,
		Confidence:   r.Confidence,
		Priority:     r.Priority,
		IsActive:     r.IsActive,
	}
}

// ToMerchantRuleListResponse converts a list of rules.
func ToMerchantRuleListResponse(rules []*entity.MerchantRule) MerchantRuleListResponse {
	items := make([]MerchantRuleResponse, 0, len(rules))
	for _, r := range rules {
		items = append(items, ToMerchantRuleResponse(r))
	}
	return MerchantRuleListResponse{Rules: items}
}
