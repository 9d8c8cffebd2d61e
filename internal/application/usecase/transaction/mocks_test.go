package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/budget"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

type mockTransactionRepo struct {
	transactions map[uuid.UUID]*entity.Transaction
	created      int
	updated      int
	deleted      []uuid.UUID
	lastFilter   entity.TransactionFilter
	createErr    error
}

func newMockTransactionRepo(txns ...*entity.Transaction) *mockTransactionRepo {
	m := &mockTransactionRepo{transactions: make(map[uuid.UUID]*entity.Transaction)}
	for _, t := range txns {
		m.transactions[t.ID] = t
	}
	return m
}

func (m *mockTransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created++
	m.transactions[t.ID] = t
	return nil
}

func (m *mockTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	t, ok := m.transactions[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockTransactionRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Transaction, error) {
	return nil, nil
}

func (m *mockTransactionRepo) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	m.lastFilter = filter
	return nil, nil
}

func (m *mockTransactionRepo) Update(ctx context.Context, t *entity.Transaction) error {
	m.updated++
	m.transactions[t.ID] = t
	return nil
}

func (m *mockTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	delete(m.transactions, id)
	return nil
}

type mockCategoryRepo struct {
	categories []*entity.Category
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

type mockRuleRepo struct {
	rules []*entity.MerchantRule
}

func (m *mockRuleRepo) Create(ctx context.Context, r *entity.MerchantRule) error {
	m.rules = append(m.rules, r)
	return nil
}

func (m *mockRuleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.MerchantRule, error) {
	return nil, domainerror.ErrMerchantRuleNotFound
}

func (m *mockRuleRepo) FindAll(ctx context.Context, activeOnly bool) ([]*entity.MerchantRule, error) {
	return m.rules, nil
}

func (m *mockRuleRepo) ExistsByPattern(ctx context.Context, pattern string) (bool, error) {
	return false, nil
}

func (m *mockRuleRepo) MaxPriority(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *mockRuleRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.rules)), nil
}

func (m *mockRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type mockExtractor struct {
	available     bool
	receipt       *adapter.ExtractedReceipt
	extractErr    error
	suggestion    *adapter.CategorySuggestion
	suggestErr    error
	suggestCalled bool
}

func (m *mockExtractor) Extract(ctx context.Context, image []byte, mediaType string) (*adapter.ExtractedReceipt, error) {
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.receipt, nil
}

func (m *mockExtractor) SuggestCategory(ctx context.Context, receipt *adapter.ExtractedReceipt, slugs []string) (*adapter.CategorySuggestion, error) {
	m.suggestCalled = true
	if m.suggestErr != nil {
		return nil, m.suggestErr
	}
	return m.suggestion, nil
}

func (m *mockExtractor) IsAvailable() bool {
	return m.available
}

type mockImageStore struct {
	saved   map[string][]byte
	deleted []string
}

func newMockImageStore() *mockImageStore {
	return &mockImageStore{saved: make(map[string][]byte)}
}

func (m *mockImageStore) Save(ctx context.Context, data []byte, mediaType string) (string, error) {
	url := "/uploads/" + uuid.NewString()
	m.saved[url] = data
	return url, nil
}

func (m *mockImageStore) Delete(ctx context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	delete(m.saved, url)
	return nil
}

type mockCache struct {
	invalidated []valueobject.Month
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
	m.invalidated = append(m.invalidated, months...)
	return nil
}

func (m *mockCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func (m *mockCache) MarkAlerted(ctx context.Context, key string) (bool, error) {
	return true, nil
}

type mockAlertChecker struct {
	months []valueobject.Month
	err    error
}

func (m *mockAlertChecker) Execute(ctx context.Context, input budget.CheckBudgetAlertsInput) (*budget.CheckBudgetAlertsOutput, error) {
	m.months = append(m.months, input.Months...)
	if m.err != nil {
		return nil, m.err
	}
	return &budget.CheckBudgetAlertsOutput{}, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

var errStorage = errors.New("storage unavailable")

func strPtr(s string) *string {
	return &s
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func activeCategories(names ...string) []*entity.Category {
	var out []*entity.Category
	for i, name := range names {
		out = append(out, entity.NewCategory(name, nil, i))
	}
	return out
}
