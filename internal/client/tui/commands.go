package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/client/navigation"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// detailLimit caps the receipts shown on a category detail screen.
const detailLimit = 50

func (m Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

func (m Model) fetchSummary(token navigation.RequestToken, month valueobject.Month) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		summary, err := m.backend.FetchMonthSummary(ctx, month)
		return summaryLoadedMsg{token: token, summary: summary, err: err}
	}
}

func (m Model) fetchCategories(token navigation.RequestToken, includeInactive bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		categories, err := m.backend.FetchCategories(ctx, includeInactive)
		return categoriesLoadedMsg{token: token, categories: categories, err: err}
	}
}

func (m Model) fetchTransactions(token navigation.RequestToken, categoryID uuid.UUID, month valueobject.Month) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		txns, err := m.backend.FetchTransactionsByCategory(ctx, categoryID, &month, detailLimit)
		return transactionsLoadedMsg{token: token, transactions: txns, err: err}
	}
}

func (m Model) upload(token navigation.RequestToken, filename, contentType string, data []byte) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		txn, err := m.backend.CreateTransactionFromUpload(ctx, filename, contentType, data)
		return uploadedMsg{token: token, transaction: txn, err: err}
	}
}

// mutate runs a save whose result only matters as success or failure.
func (m Model) mutate(token navigation.RequestToken, op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		return savedMsg{token: token, err: op(ctx)}
	}
}

func (m Model) createManual(token navigation.RequestToken, fields navigation.ManualFields) tea.Cmd {
	return m.mutate(token, func(ctx context.Context) error {
		_, err := m.backend.CreateManualTransaction(ctx, fields)
		return err
	})
}

func (m Model) updateTransaction(token navigation.RequestToken, id uuid.UUID, patch entity.TransactionPatch) tea.Cmd {
	return m.mutate(token, func(ctx context.Context) error {
		_, err := m.backend.UpdateTransaction(ctx, id, patch)
		return err
	})
}

func (m Model) deleteTransaction(token navigation.RequestToken, id uuid.UUID) tea.Cmd {
	return m.mutate(token, func(ctx context.Context) error {
		return m.backend.DeleteTransaction(ctx, id)
	})
}

func (m Model) createCategory(token navigation.RequestToken, name string, sortOrder int) tea.Cmd {
	return m.mutate(token, func(ctx context.Context) error {
		_, err := m.backend.CreateCategory(ctx, name, valueobject.Slugify(name), sortOrder)
		return err
	})
}

func (m Model) updateCategory(token navigation.RequestToken, id uuid.UUID, patch navigation.CategoryPatch) tea.Cmd {
	return m.mutate(token, func(ctx context.Context) error {
		_, err := m.backend.UpdateCategory(ctx, id, patch)
		return err
	})
}

func (m Model) deactivateCategory(token navigation.RequestToken, id uuid.UUID) tea.Cmd {
	return m.mutate(token, func(ctx context.Context) error {
		return m.backend.DeactivateCategory(ctx, id)
	})
}

func (m Model) setBudget(token navigation.RequestToken, categoryID uuid.UUID, month valueobject.Month, limit decimal.Decimal) tea.Cmd {
	return m.mutate(token, func(ctx context.Context) error {
		return m.backend.SetCategoryBudget(ctx, categoryID, month, limit)
	})
}
