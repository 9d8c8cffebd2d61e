// Package entity defines the core business entities for the domain layer.
package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// OtherCategorySlug is the fallback category for receipts that match nothing else.
const OtherCategorySlug = "other"

// Category represents a spending bucket. Categories are never deleted;
// deactivation hides them while keeping every historical reference valid.
type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string // Derived from Name once, at creation
	Icon      *string
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory creates a new active Category and derives its slug from name.
func NewCategory(name string, icon *string, sortOrder int) *Category {
	now := time.Now().UTC()
	name = strings.TrimSpace(name)

	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      valueobject.Slugify(name),
		Icon:      icon,
		SortOrder: sortOrder,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename changes the display name. The slug is left untouched.
func (c *Category) Rename(name string) {
	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now().UTC()
}

// Deactivate marks the category inactive. It reports whether anything changed.
func (c *Category) Deactivate() bool {
	if !c.IsActive {
		return false
	}
	c.IsActive = false
	c.UpdatedAt = time.Now().UTC()
	return true
}

// CategoryLess orders categories by sort order, then name.
func CategoryLess(a, b *Category) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	return a.Name < b.Name
}

// SortCategories sorts categories in display order in place.
func SortCategories(categories []*Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return CategoryLess(categories[i], categories[j])
	})
}

// DefaultCategory describes a category seeded on first start.
type DefaultCategory struct {
	Name      string
	Icon      string
	SortOrder int
}

// DefaultCategories is the seed set for an empty registry.
var DefaultCategories = []DefaultCategory{
	{Name: "Groceries", Icon: "🛒", SortOrder: 1},
	{Name: "Dining", Icon: "🍽️", SortOrder: 2},
	{Name: "Coffee", Icon: "☕", SortOrder: 3},
	{Name: "Transportation", Icon: "🚗", SortOrder: 4},
	{Name: "Entertainment", Icon: "🎬", SortOrder: 5},
	{Name: "Shopping", Icon: "🛍️", SortOrder: 6},
	{Name: "Utilities", Icon: "💡", SortOrder: 7},
	{Name: "Healthcare", Icon: "🏥", SortOrder: 8},
	{Name: "Home", Icon: "🏠", SortOrder: 9},
	{Name: "Mortgage/Rent", Icon: "🏦", SortOrder: 10},
	{Name: "Insurance", Icon: "🛡️", SortOrder: 11},
	{Name: "Subscriptions", Icon: "📱", SortOrder: 12},
	{Name: "Personal Care", Icon: "💇", SortOrder: 13},
	{Name: "Daycare", Icon: "👶", SortOrder: 14},
	{Name: "Kids/Family", Icon: "👨‍👩‍👧", SortOrder: 15},
	{Name: "Pets", Icon: "🐕", SortOrder: 16},
	{Name: "Travel", Icon: "✈️", SortOrder: 17},
	{Name: "Gifts", Icon: "🎁", SortOrder: 18},
	{Name: "Other", Icon: "📦", SortOrder: 99},
}
