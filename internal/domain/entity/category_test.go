package entity

import "testing"

func TestNewCategory_DerivesSlug(t *testing.T) {
	c := NewCategory("  Eating Out!! ", nil, 3)

	if c.Name != "Eating Out!!" {
		t.Errorf("expected trimmed name, got %q", c.Name)
	}
	if c.Slug != "eating-out" {
		t.Errorf("expected slug eating-out, got %q", c.Slug)
	}
	if !c.IsActive {
		t.Error("expected new category to be active")
	}
}

func TestCategory_RenameKeepsSlug(t *testing.T) {
	c := NewCategory("Coffee", nil, 1)
	c.Rename("Coffee & Tea")

	if c.Name != "Coffee & Tea" {
		t.Errorf("expected renamed category, got %q", c.Name)
	}
	if c.Slug != "coffee" {
		t.Errorf("expected slug to stay coffee, got %q", c.Slug)
	}
}

func TestCategory_DeactivateIsIdempotent(t *testing.T) {
	c := NewCategory("Pets", nil, 16)

	if changed := c.Deactivate(); !changed {
		t.Error("expected first deactivation to change state")
	}
	if changed := c.Deactivate(); changed {
		t.Error("expected second deactivation to be a no-op")
	}
	if c.IsActive {
		t.Error("expected category to be inactive")
	}
}

func TestSortCategories(t *testing.T) {
	categories := []*Category{
		{Name: "Other", SortOrder: 99},
		{Name: "Dining", SortOrder: 2},
		{Name: "Bakery", SortOrder: 2},
		{Name: "Groceries", SortOrder: 1},
	}

	SortCategories(categories)

	expected := []string{"Groceries", "Bakery", "Dining", "Other"}
	for i, name := range expected {
		if categories[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, categories[i].Name)
		}
	}
}

func TestDefaultCategories_SlugsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range DefaultCategories {
		c := NewCategory(def.Name, nil, def.SortOrder)
		if seen[c.Slug] {
			t.Errorf("duplicate default slug %q", c.Slug)
		}
		seen[c.Slug] = true
	}
	if !seen[OtherCategorySlug] {
		t.Errorf("expected defaults to contain %q", OtherCategorySlug)
	}
}
