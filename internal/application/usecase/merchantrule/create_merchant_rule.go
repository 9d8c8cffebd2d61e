// Package merchantrule contains merchant rule use cases.
package merchantrule

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// MaxPatternLength is the maximum allowed length for merchant patterns.
const MaxPatternLength = 255

// CreateMerchantRuleInput represents the input for merchant rule creation.
type CreateMerchantRuleInput struct {
	Pattern      string
	CategorySlug string
	Confidence   float64
	Priority     *int // Optional, defaults to max priority + 1
}

// CreateMerchantRuleOutput represents the output of merchant rule creation.
type CreateMerchantRuleOutput struct {
	Rule *entity.MerchantRule
}

// CreateMerchantRuleUseCase handles merchant rule creation logic.
type CreateMerchantRuleUseCase struct {
	ruleRepo     adapter.MerchantRuleRepository
	categoryRepo adapter.CategoryRepository
}

// NewCreateMerchantRuleUseCase creates a new CreateMerchantRuleUseCase instance.
func NewCreateMerchantRuleUseCase(
	ruleRepo adapter.MerchantRuleRepository,
	categoryRepo adapter.CategoryRepository,
) *CreateMerchantRuleUseCase {
	return &CreateMerchantRuleUseCase{
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute performs the merchant rule creation.
func (uc *CreateMerchantRuleUseCase) Execute(ctx context.Context, input CreateMerchantRuleInput) (*CreateMerchantRuleOutput, error) {
	pattern := strings.ToLower(strings.TrimSpace(input.Pattern))
	if pattern == "" {
		return nil, domainerror.NewMerchantRuleError(
			domainerror.ErrCodeMerchantRulePatternEmpty,
			"pattern is required",
			domainerror.ErrMerchantRulePatternEmpty,
		)
	}
	if utf8.RuneCountInString(pattern) > MaxPatternLength {
		return nil, domainerror.NewMerchantRuleError(
			domainerror.ErrCodeMerchantRulePatternEmpty,
			fmt.Sprintf("pattern must not exceed %d characters", MaxPatternLength),
			domainerror.ErrMerchantRulePatternEmpty,
		)
	}

	if input.Confidence < 0 || input.Confidence > 1 {
		return nil, domainerror.NewMerchantRuleError(
			domainerror.ErrCodeInvalidConfidence,
			"confidence must be between 0 and 1",
			domainerror.ErrInvalidConfidence,
		)
	}

	// Rules reference categories by slug, active or not
	exists, err := uc.categoryRepo.ExistsBySlug(ctx, input.CategorySlug)
	if err != nil {
		return nil, fmt.Errorf("failed to check category slug: %w", err)
	}
	if !exists {
		return nil, domainerror.NewMerchantRuleError(
			domainerror.ErrCodeInvalidCategorySlug,
			"no category uses slug "+input.CategorySlug,
			domainerror.ErrInvalidCategorySlug,
		)
	}

	taken, err := uc.ruleRepo.ExistsByPattern(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to check pattern existence: %w", err)
	}
	if taken {
		return nil, domainerror.NewMerchantRuleError(
			domainerror.ErrCodeMerchantRuleExists,
			"a rule with this pattern already exists",
			domainerror.ErrMerchantRuleExists,
		)
	}

	priority := 0
	if input.Priority != nil {
		priority = *input.Priority
	} else {
		maxPriority, err := uc.ruleRepo.MaxPriority(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get max priority: %w", err)
		}
		priority = maxPriority + 1
	}

	rule := entity.NewMerchantRule(pattern, input.CategorySlug, input.Confidence, priority)
	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create merchant rule: %w", err)
	}

	return &CreateMerchantRuleOutput{Rule: rule}, nil
}
