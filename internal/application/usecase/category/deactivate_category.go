// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
)

// DeactivateCategoryInput represents the input for category deactivation.
type DeactivateCategoryInput struct {
	CategoryID uuid.UUID
}

// DeactivateCategoryOutput represents the output of category deactivation.
type DeactivateCategoryOutput struct {
	Changed bool
}

// DeactivateCategoryUseCase soft-deletes a category. Transactions keep
// referencing it and past summaries still attribute spend to it.
type DeactivateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	cache        adapter.SummaryCache
}

// NewDeactivateCategoryUseCase creates a new DeactivateCategoryUseCase instance.
func NewDeactivateCategoryUseCase(categoryRepo adapter.CategoryRepository, cache adapter.SummaryCache) *DeactivateCategoryUseCase {
	return &DeactivateCategoryUseCase{
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// Execute deactivates the category. Deactivating twice succeeds.
func (uc *DeactivateCategoryUseCase) Execute(ctx context.Context, input DeactivateCategoryInput) (*DeactivateCategoryOutput, error) {
	category, err := findCategory(ctx, uc.categoryRepo, input.CategoryID)
	if err != nil {
		return nil, err
	}

	if !category.Deactivate() {
		return &DeactivateCategoryOutput{Changed: false}, nil
	}

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to deactivate category: %w", err)
	}

	invalidateAll(ctx, uc.cache)

	return &DeactivateCategoryOutput{Changed: true}, nil
}
