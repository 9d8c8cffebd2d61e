package merchantrule

import (
	"context"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

type mockRuleRepo struct {
	rules []*entity.MerchantRule
}

func (m *mockRuleRepo) Create(ctx context.Context, r *entity.MerchantRule) error {
	m.rules = append(m.rules, r)
	return nil
}

func (m *mockRuleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.MerchantRule, error) {
	for _, r := range m.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domainerror.ErrMerchantRuleNotFound
}

func (m *mockRuleRepo) FindAll(ctx context.Context, activeOnly bool) ([]*entity.MerchantRule, error) {
	var out []*entity.MerchantRule
	for _, r := range m.rules {
		if !activeOnly || r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRuleRepo) ExistsByPattern(ctx context.Context, pattern string) (bool, error) {
	for _, r := range m.rules {
		if r.Pattern == pattern {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRuleRepo) MaxPriority(ctx context.Context) (int, error) {
	highest := 0
	for _, r := range m.rules {
		if r.Priority > highest {
			highest = r.Priority
		}
	}
	return highest, nil
}

func (m *mockRuleRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.rules)), nil
}

func (m *mockRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, r := range m.rules {
		if r.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return domainerror.ErrMerchantRuleNotFound
}

type mockCategoryRepo struct {
	slugs map[string]bool
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *entity.Category) error { return nil }

func (m *mockCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	return nil, domainerror.ErrCategoryNotFound
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return nil, domainerror.ErrCategoryNotFound
}

func (m *mockCategoryRepo) FindAll(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	return nil, nil
}

func (m *mockCategoryRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return m.slugs[slug], nil
}

func (m *mockCategoryRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

func (m *mockCategoryRepo) Update(ctx context.Context, c *entity.Category) error { return nil }

