// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID, active or not.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindBySlug retrieves a category by slug, active or not.
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)

	// FindAll retrieves categories ordered by sort order then name.
	FindAll(ctx context.Context, activeOnly bool) ([]*entity.Category, error)

	// ExistsBySlug checks whether any category, active or inactive, uses the slug.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Count returns the number of categories, active or not.
	Count(ctx context.Context) (int64, error)

	// Update saves changes to an existing category.
	Update(ctx context.Context, category *entity.Category) error
}
