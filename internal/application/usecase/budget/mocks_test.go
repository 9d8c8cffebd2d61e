package budget

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

type mockCategoryRepo struct {
	categories []*entity.Category
	err        error
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	m.categories = append(m.categories, c)
	return nil
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domainerror.ErrCategoryNotFound
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
	if m.err != nil {
		return nil, m.err
	}
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
	return err == nil, nil
}

func (m *mockCategoryRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.categories)), nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	return nil
}

type mockBudgetRepo struct {
	budgets []*entity.MonthlyBudget
	calls   int
}

func (m *mockBudgetRepo) Upsert(ctx context.Context, b *entity.MonthlyBudget) error {
	for i, existing := range m.budgets {
		if existing.CategoryID == b.CategoryID && existing.Year == b.Year && existing.Month == b.Month {
			m.budgets[i] = b
			return nil
		}
	}
	m.budgets = append(m.budgets, b)
	return nil
}

func (m *mockBudgetRepo) FindByMonth(ctx context.Context, month valueobject.Month) ([]*entity.MonthlyBudget, error) {
	m.calls++
	var out []*entity.MonthlyBudget
	for _, b := range m.budgets {
		if b.Year == month.Year && b.Month == month.Month {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockTransactionRepo struct {
	transactions   []*entity.Transaction
	// afterRangeRead runs once the range query has taken its snapshot.
	afterRangeRead func()
}

func (m *mockTransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	m.transactions = append(m.transactions, t)
	return nil
}

func (m *mockTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return nil, domainerror.ErrTransactionNotFound
}

func (m *mockTransactionRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, t := range m.transactions {
		if t.TransactionDate != nil && !t.TransactionDate.Before(start) && !t.TransactionDate.After(end) {
			out = append(out, t)
		}
	}
	if m.afterRangeRead != nil {
		m.afterRangeRead()
	}
	return out, nil
}

func (m *mockTransactionRepo) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	return m.transactions, nil
}

func (m *mockTransactionRepo) Update(ctx context.Context, t *entity.Transaction) error {
	return nil
}

func (m *mockTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type mockCache struct {
	mu          sync.Mutex
	summaries   map[string]*entity.MonthSummary
	alerted     map[string]bool
	versions    map[string]int64
	invalidated []valueobject.Month
	getErr      error
}

func newMockCache() *mockCache {
	return &mockCache{
		summaries: make(map[string]*entity.MonthSummary),
		versions:  make(map[string]int64),
		alerted:   make(map[string]bool),
	}
}

func (m *mockCache) Get(ctx context.Context, month valueobject.Month) (*entity.MonthSummary, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.summaries[month.String()], nil
}

func (m *mockCache) Version(ctx context.Context, month valueobject.Month) (int64, error) {
	return m.versions[month.String()], nil
}

func (m *mockCache) Set(ctx context.Context, s *entity.MonthSummary, version int64) (bool, error) {
	if m.versions[s.Month.String()] != version {
		return false, nil
	}
	m.summaries[s.Month.String()] = s
	return true, nil
}

func (m *mockCache) Invalidate(ctx context.Context, months ...valueobject.Month) error {
	for _, month := range months {
		m.versions[month.String()]++
		delete(m.summaries, month.String())
		m.invalidated = append(m.invalidated, month)
	}
	return nil
}

func (m *mockCache) InvalidateAll(ctx context.Context) error {
	for month := range m.summaries {
		m.versions[month]++
	}
	m.summaries = make(map[string]*entity.MonthSummary)
	return nil
}

func (m *mockCache) MarkAlerted(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.alerted[key] {
		return false, nil
	}
	m.alerted[key] = true
	return true, nil
}

type mockNotifier struct {
	recipients []string
	queued     []entity.BudgetAlert
}

func (m *mockNotifier) QueueBudgetAlert(ctx context.Context, recipient string, alert entity.BudgetAlert) error {
	m.recipients = append(m.recipients, recipient)
	m.queued = append(m.queued, alert)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var errStorage = errors.New("storage unavailable")
