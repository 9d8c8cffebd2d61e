package category

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

type mockCategoryRepo struct {
	categories map[uuid.UUID]*entity.Category
	updates    int
	createErr  error
}

func newMockCategoryRepo(categories ...*entity.Category) *mockCategoryRepo {
	m := &mockCategoryRepo{categories: make(map[uuid.UUID]*entity.Category)}
	for _, c := range categories {
		m.categories[c.ID] = c
	}
	return m
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, domainerror.ErrCategoryNotFound
}

func (m *mockCategoryRepo) FindAll(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range m.categories {
		if !activeOnly || c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCategoryRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	_, err := m.FindBySlug(ctx, slug)
	if errors.Is(err, domainerror.ErrCategoryNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *mockCategoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.categories)), nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	m.updates++
	m.categories[c.ID] = c
	return nil
}

type mockCache struct {
	invalidateAllCalls int
}

func (m *mockCache) Get(ctx context.Context, month valueobject.Month) (*entity.MonthSummary, error) {
	return nil, nil
}

func (m *mockCache) Version(ctx context.Context, month valueobject.Month) (int64, error) {
	return 0, nil
}

func (m *mockCache) Set(ctx context.Context, s *entity.MonthSummary, version int64) (bool, error) {
	return true, nil
}

func (m *mockCache) Invalidate(ctx context.Context, months ...valueobject.Month) error {
	return nil
}

func (m *mockCache) InvalidateAll(ctx context.Context) error {
	m.invalidateAllCalls++
	return nil
}

func (m *mockCache) MarkAlerted(ctx context.Context, key string) (bool, error) {
	return true, nil
}
