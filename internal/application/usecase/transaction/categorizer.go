package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CategoryMatch is the outcome of categorizing a receipt.
type CategoryMatch struct {
	CategoryID *uuid.UUID
	Slug       string
	Confidence float64
	Source     string // "rule", "extractor" or "fallback"
}

// Categorizer assigns a category to an extracted receipt: merchant rules
// first, then the extractor's suggestion, then the "other" category.
type Categorizer struct {
	ruleRepo     adapter.MerchantRuleRepository
	categoryRepo adapter.CategoryRepository
	extractor    adapter.ReceiptExtractor
}

// NewCategorizer creates a new Categorizer. extractor may be nil.
func NewCategorizer(
	ruleRepo adapter.MerchantRuleRepository,
	categoryRepo adapter.CategoryRepository,
	extractor adapter.ReceiptExtractor,
) *Categorizer {
	return &Categorizer{
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
		extractor:    extractor,
	}
}

// Categorize picks a category for the receipt among active categories.
func (c *Categorizer) Categorize(ctx context.Context, receipt *adapter.ExtractedReceipt) (*CategoryMatch, error) {
	categories, err := c.categoryRepo.FindAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	bySlug := make(map[string]*entity.Category, len(categories))
	slugs := make([]string, 0, len(categories))
	for _, category := range categories {
		bySlug[category.Slug] = category
		slugs = append(slugs, category.Slug)
	}

	match := func(slug string, confidence float64, source string) *CategoryMatch {
		if category, ok := bySlug[slug]; ok {
			id := category.ID
			return &CategoryMatch{CategoryID: &id, Slug: slug, Confidence: confidence, Source: source}
		}
		// Unknown slugs land in "other" with no confidence.
		if other, ok := bySlug[entity.OtherCategorySlug]; ok {
			id := other.ID
			return &CategoryMatch{CategoryID: &id, Slug: entity.OtherCategorySlug, Confidence: 0, Source: source}
		}
		return &CategoryMatch{Confidence: 0, Source: source}
	}

	if receipt != nil && receipt.MerchantName != nil {
		rules, err := c.ruleRepo.FindAll(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("failed to load merchant rules: %w", err)
		}
		if rule, ok := entity.MatchMerchant(rules, *receipt.MerchantName); ok {
			if _, known := bySlug[rule.CategorySlug]; known {
				return match(rule.CategorySlug, rule.Confidence, "rule"), nil
			}
		}
	}

	if c.extractor != nil && c.extractor.IsAvailable() && receipt != nil {
		suggestion, err := c.extractor.SuggestCategory(ctx, receipt, slugs)
		if err != nil {
			slog.Warn("Category suggestion failed, using fallback", "error", err)
		} else if suggestion != nil {
			return match(suggestion.Slug, suggestion.Confidence, "extractor"), nil
		}
	}

	// Zero confidence sends the receipt to review.
	return match(entity.OtherCategorySlug, 0, "fallback"), nil
}
