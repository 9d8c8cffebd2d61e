package merchantrule

import (
	"context"
	"fmt"
	"strings"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// MatchMerchantInput represents a merchant name to try against the rules.
type MatchMerchantInput struct {
	MerchantName string
}

// MatchMerchantOutput holds the winning rule, or nil when nothing matched.
type MatchMerchantOutput struct {
	Rule *entity.MerchantRule
}

// MatchMerchantUseCase previews which rule a merchant name would hit.
type MatchMerchantUseCase struct {
	ruleRepo adapter.MerchantRuleRepository
}

// NewMatchMerchantUseCase creates a new MatchMerchantUseCase instance.
func NewMatchMerchantUseCase(ruleRepo adapter.MerchantRuleRepository) *MatchMerchantUseCase {
	return &MatchMerchantUseCase{ruleRepo: ruleRepo}
}

// Execute performs the match against active rules.
func (uc *MatchMerchantUseCase) Execute(ctx context.Context, input MatchMerchantInput) (*MatchMerchantOutput, error) {
	if strings.TrimSpace(input.MerchantName) == "" {
		return nil, domainerror.NewMerchantRuleError(
			domainerror.ErrCodeMerchantRulePatternEmpty,
			"merchant name is required",
			domainerror.ErrMerchantRulePatternEmpty,
		)
	}

	rules, err := uc.ruleRepo.FindAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load merchant rules: %w", err)
	}

	rule, _ := entity.MatchMerchant(rules, input.MerchantName)
	return &MatchMerchantOutput{Rule: rule}, nil
}
