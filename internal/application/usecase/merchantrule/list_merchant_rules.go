package merchantrule

import (
	"context"
	"fmt"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// ListMerchantRulesOutput represents the output of listing merchant rules.
type ListMerchantRulesOutput struct {
	Rules []*entity.MerchantRule
}

// ListMerchantRulesUseCase lists rules by descending priority.
type ListMerchantRulesUseCase struct {
	ruleRepo adapter.MerchantRuleRepository
}

// NewListMerchantRulesUseCase creates a new ListMerchantRulesUseCase instance.
func NewListMerchantRulesUseCase(ruleRepo adapter.MerchantRuleRepository) *ListMerchantRulesUseCase {
	return &ListMerchantRulesUseCase{ruleRepo: ruleRepo}
}

// Execute performs the listing.
func (uc *ListMerchantRulesUseCase) Execute(ctx context.Context) (*ListMerchantRulesOutput, error) {
	rules, err := uc.ruleRepo.FindAll(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchant rules: %w", err)
	}
	return &ListMerchantRulesOutput{Rules: rules}, nil
}
