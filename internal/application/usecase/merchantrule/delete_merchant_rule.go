package merchantrule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// DeleteMerchantRuleInput represents the input for merchant rule deletion.
type DeleteMerchantRuleInput struct {
	RuleID uuid.UUID
}

// DeleteMerchantRuleOutput represents the output of merchant rule deletion.
type DeleteMerchantRuleOutput struct {
	Success bool
}

// DeleteMerchantRuleUseCase handles merchant rule deletion logic.
type DeleteMerchantRuleUseCase struct {
	ruleRepo adapter.MerchantRuleRepository
}

// NewDeleteMerchantRuleUseCase creates a new DeleteMerchantRuleUseCase instance.
func NewDeleteMerchantRuleUseCase(ruleRepo adapter.MerchantRuleRepository) *DeleteMerchantRuleUseCase {
	return &DeleteMerchantRuleUseCase{ruleRepo: ruleRepo}
}

// Execute performs the merchant rule deletion.
func (uc *DeleteMerchantRuleUseCase) Execute(ctx context.Context, input DeleteMerchantRuleInput) (*DeleteMerchantRuleOutput, error) {
	if _, err := uc.ruleRepo.FindByID(ctx, input.RuleID); err != nil {
		if errors.Is(err, domainerror.ErrMerchantRuleNotFound) {
			return nil, domainerror.NewMerchantRuleError(
				domainerror.ErrCodeMerchantRuleNotFound,
				"merchant rule not found",
				domainerror.ErrMerchantRuleNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find merchant rule: %w", err)
	}

	if err := uc.ruleRepo.Delete(ctx, input.RuleID); err != nil {
		return nil, fmt.Errorf("failed to delete merchant rule: %w", err)
	}

	return &DeleteMerchantRuleOutput{Success: true}, nil
}
