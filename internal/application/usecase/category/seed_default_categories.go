package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// SeedDefaultCategoriesOutput represents the output of seeding.
type SeedDefaultCategoriesOutput struct {
	Created int
}

// SeedDefaultCategoriesUseCase fills an empty registry with the default categories.
type SeedDefaultCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewSeedDefaultCategoriesUseCase creates a new SeedDefaultCategoriesUseCase instance.
func NewSeedDefaultCategoriesUseCase(categoryRepo adapter.CategoryRepository) *SeedDefaultCategoriesUseCase {
	return &SeedDefaultCategoriesUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute seeds defaults only when no category exists yet.
func (uc *SeedDefaultCategoriesUseCase) Execute(ctx context.Context) (*SeedDefaultCategoriesOutput, error) {
	count, err := uc.categoryRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return &SeedDefaultCategoriesOutput{}, nil
	}

	output := &SeedDefaultCategoriesOutput{}
	for _, def := range entity.DefaultCategories {
		icon := def.Icon
		category := entity.NewCategory(def.Name, &icon, def.SortOrder)
		if err := uc.categoryRepo.Create(ctx, category); err != nil {
			return output, fmt.Errorf("failed to seed category %s: %w", def.Name, err)
		}
		output.Created++
	}

	slog.Info("Seeded default categories", "count", output.Created)
	return output, nil
}
