// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

const (
	// MaxCategoryNameLength is the maximum allowed length for category names.
	MaxCategoryNameLength = 50
	// MaxIconLength is the maximum allowed length for icons.
	MaxIconLength = 50
)

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	Name      string
	Slug      string // Optional; when set it must equal the slug derived from Name
	Icon      *string
	SortOrder int
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	cache        adapter.SummaryCache
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository, cache adapter.SummaryCache) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateIcon(input.Icon); err != nil {
		return nil, err
	}

	category := entity.NewCategory(input.Name, input.Icon, input.SortOrder)
	if category.Slug == "" {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategorySlugEmpty,
			"category name must contain at least one letter or digit",
			domainerror.ErrCategorySlugEmpty,
		)
	}
	if input.Slug != "" && input.Slug != category.Slug {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategorySlugMismatch,
			fmt.Sprintf("slug %q does not match name, expected %q", input.Slug, category.Slug),
			domainerror.ErrCategorySlugMismatch,
		)
	}

	// Inactive categories keep their slug reserved.
	exists, err := uc.categoryRepo.ExistsBySlug(ctx, category.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check category slug existence: %w", err)
	}
	if exists {
		return nil, slugConflict(category.Slug)
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, domainerror.ErrCategorySlugExists) {
			return nil, slugConflict(category.Slug)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	invalidateAll(ctx, uc.cache)

	return &CreateCategoryOutput{
		Category: category,
	}, nil
}

func slugConflict(slug string) error {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeCategorySlugExists,
		fmt.Sprintf("a category with slug %q already exists", slug),
		domainerror.ErrCategorySlugExists,
	)
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameRequired,
			"category name is required",
			domainerror.ErrCategoryNameRequired,
		)
	}
	if utf8.RuneCountInString(trimmed) > MaxCategoryNameLength {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameTooLong,
			fmt.Sprintf("category name must not exceed %d characters", MaxCategoryNameLength),
			domainerror.ErrCategoryNameTooLong,
		)
	}
	return nil
}

func validateIcon(icon *string) error {
	if icon != nil && utf8.RuneCountInString(*icon) > MaxIconLength {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeMissingCategoryFields,
			fmt.Sprintf("icon must not exceed %d characters", MaxIconLength),
			nil,
		)
	}
	return nil
}

// invalidateAll drops cached summaries; category changes affect every month.
func invalidateAll(ctx context.Context, cache adapter.SummaryCache) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateAll(ctx); err != nil {
		slog.Warn("Summary cache invalidation failed", "error", err)
	}
}
