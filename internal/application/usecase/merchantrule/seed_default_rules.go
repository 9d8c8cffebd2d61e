package merchantrule

import (
	"context"
	"fmt"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// SeedDefaultRulesOutput reports how many rules were created.
type SeedDefaultRulesOutput struct {
	Created int
}

// SeedDefaultRulesUseCase installs the built-in merchant rules into an empty table.
type SeedDefaultRulesUseCase struct {
	ruleRepo adapter.MerchantRuleRepository
}

// NewSeedDefaultRulesUseCase creates a new SeedDefaultRulesUseCase instance.
func NewSeedDefaultRulesUseCase(ruleRepo adapter.MerchantRuleRepository) *SeedDefaultRulesUseCase {
	return &SeedDefaultRulesUseCase{ruleRepo: ruleRepo}
}

// Execute seeds the defaults. It does nothing when any rule exists.
func (uc *SeedDefaultRulesUseCase) Execute(ctx context.Context) (*SeedDefaultRulesOutput, error) {
	count, err := uc.ruleRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count merchant rules: %w", err)
	}
	if count > 0 {
		return &SeedDefaultRulesOutput{}, nil
	}

	total := len(entity.DefaultMerchantRules)
	for i, def := range entity.DefaultMerchantRules {
		rule := entity.NewMerchantRule(def.Pattern, def.CategorySlug, def.Confidence, total-i)
		if err := uc.ruleRepo.Create(ctx, rule); err != nil {
			return nil, fmt.Errorf("failed to seed merchant rule %q: %w", def.Pattern, err)
		}
	}

	return &SeedDefaultRulesOutput{Created: total}, nil
}
