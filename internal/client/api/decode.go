package api

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

func toCategory(resp dto.CategoryResponse) (*entity.Category, error) {
	id, err := uuid.Parse(resp.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid category id %q: %w", resp.ID, err)
	}
	return &entity.Category{
		ID:        id,
		Name:      resp.Name,
		Slug:      resp.Slug,
		Icon:      resp.Icon,
		SortOrder: resp.SortOrder,
		IsActive:  resp.IsActive,
		CreatedAt: resp.CreatedAt,
		UpdatedAt: resp.UpdatedAt,
	}, nil
}

func toTransaction(resp dto.TransactionResponse) (*entity.Transaction, error) {
	id, err := uuid.Parse(resp.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid receipt id %q: %w", resp.ID, err)
	}

	txn := &entity.Transaction{
		ID:                    id,
		MerchantName:          resp.MerchantName,
		PaymentMethod:         resp.PaymentMethod,
		CategoryConfidence:    resp.CategoryConfidence,
		CategoryOverridden:    resp.CategoryOverridden,
		ExpenseType:           entity.ExpenseType(resp.ExpenseType),
		NeedsReview:           resp.NeedsReview,
		DateNeedsConfirmation: resp.DateNeedsConfirmation,
		ImageURL:              resp.ImageURL,
		Source:                entity.TransactionSource(resp.Source),
		State:                 entity.LifecycleState(resp.State),
		CreatedAt:             resp.CreatedAt,
		UpdatedAt:             resp.UpdatedAt,
	}

	amounts := []struct {
		raw *string
		dst **decimal.Decimal
	}{
		{resp.Subtotal, &txn.Subtotal},
		{resp.Tax, &txn.Tax},
		{resp.Tip, &txn.Tip},
		{resp.GrandTotal, &txn.GrandTotal},
	}
	for _, a := range amounts {
		if a.raw == nil {
			continue
		}
		d, err := decimal.NewFromString(*a.raw)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", *a.raw, err)
		}
		*a.dst = &d
	}

	if resp.TransactionDate != nil {
		date, err := dto.ParseDate(*resp.TransactionDate)
		if err != nil {
			return nil, err
		}
		txn.TransactionDate = &date
	}
	if resp.CategoryID != nil {
		categoryID, err := uuid.Parse(*resp.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id %q: %w", *resp.CategoryID, err)
		}
		txn.CategoryID = &categoryID
	}

	for _, item := range resp.LineItems {
		qty, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q: %w", item.Quantity, err)
		}
		total, err := decimal.NewFromString(item.TotalPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid line total %q: %w", item.TotalPrice, err)
		}
		txn.LineItems = append(txn.LineItems, entity.LineItem{
			Description: item.Description,
			Quantity:    qty,
			TotalPrice:  total,
		})
	}

	return txn, nil
}

func toTransactions(items []dto.TransactionResponse) ([]*entity.Transaction, error) {
	txns := make([]*entity.Transaction, 0, len(items))
	for _, item := range items {
		txn, err := toTransaction(item)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func toMonthSummary(resp dto.MonthSummaryResponse) (*entity.MonthSummary, error) {
	month, err := valueobject.ParseMonth(resp.Month)
	if err != nil {
		return nil, err
	}

	summary := &entity.MonthSummary{Month: month}
	if err := parseAmounts(
		amount{resp.TotalBudget, &summary.TotalBudget},
		amount{resp.TotalSpent, &summary.TotalSpent},
		amount{resp.TotalRemaining, &summary.TotalRemaining},
	); err != nil {
		return nil, err
	}

	for _, row := range resp.ByCategory {
		cat, err := toCategory(row.Category)
		if err != nil {
			return nil, err
		}
		item := entity.CategorySummary{Category: cat, Tier: valueobject.Tier(row.Tier)}
		if err := parseAmounts(
			amount{row.MonthlyLimit, &item.MonthlyLimit},
			amount{row.SpentThisMonth, &item.SpentThisMonth},
			amount{row.Remaining, &item.Remaining},
			amount{row.PercentUsed, &item.PercentUsed},
		); err != nil {
			return nil, err
		}
		summary.ByCategory = append(summary.ByCategory, item)
	}

	summary.RecentTransactions, err = toTransactions(resp.RecentTransactions)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

type amount struct {
	raw string
	dst *decimal.Decimal
}

func parseAmounts(fields ...amount) error {
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", f.raw, err)
		}
		*f.dst = d
	}
	return nil
}
