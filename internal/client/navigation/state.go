// Package navigation is the screen state machine of the budget client.
// It owns which screen is active, the context each screen was opened with,
// and when the dashboard must fetch fresh numbers. It performs no I/O.
package navigation

import (
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// Screen names a workflow screen.
type Screen string

const (
	ScreenUpload         Screen = "upload"
	ScreenManualEntry    Screen = "manual_entry"
	ScreenReview         Screen = "review"
	ScreenDashboard      Screen = "dashboard"
	ScreenBudgetSettings Screen = "budget_settings"
	ScreenCategoryDetail Screen = "category_detail"
	ScreenCategoryManage Screen = "category_manage"
	ScreenCategoryEdit   Screen = "category_edit"
	ScreenReceiptEdit    Screen = "receipt_edit"
)

// ReviewContext is the payload of the Review screen.
type ReviewContext struct {
	Transaction *entity.Transaction
}

// BudgetSettingsContext is the payload of the BudgetSettings screen.
type BudgetSettingsContext struct {
	Month valueobject.Month
}

// CategoryDetailContext is the payload of the CategoryDetail screen.
type CategoryDetailContext struct {
	Category *entity.Category
	Budget   entity.CategorySummary
	Month    valueobject.Month
}

// CategoryEditContext is the payload of the CategoryEdit screen.
// A nil Category means a new one is being created.
type CategoryEditContext struct {
	Category *entity.Category
}

// ReceiptEditContext is the payload of the ReceiptEdit screen.
// Original is kept untouched so the save can send only what changed,
// and Detail is where the screen returns to.
type ReceiptEditContext struct {
	Transaction *entity.Transaction
	Original    *entity.Transaction
	Detail      CategoryDetailContext
}

// State is the active screen plus the one payload that screen takes.
// Build it with the per-screen constructors.
type State struct {
	screen         Screen
	review         *ReviewContext
	budgetSettings *BudgetSettingsContext
	categoryDetail *CategoryDetailContext
	categoryEdit   *CategoryEditContext
	receiptEdit    *ReceiptEditContext
}

func DashboardState() State { return State{screen: ScreenDashboard} }
func UploadState() State { return State{screen: ScreenUpload} }
func ManualEntryState() State { return State{screen: ScreenManualEntry} }
func CategoryManageState() State { return State{screen: ScreenCategoryManage} }

func ReviewState(txn *entity.Transaction) State {
	return State{screen: ScreenReview, review: &ReviewContext{Transaction: txn}}
}

func BudgetSettingsState(month valueobject.Month) State {
	return State{screen: ScreenBudgetSettings, budgetSettings: &BudgetSettingsContext{Month: month}}
}

func CategoryDetailState(summary entity.CategorySummary, month valueobject.Month) State {
	return State{screen: ScreenCategoryDetail, categoryDetail: &CategoryDetailContext{
		Category: summary.Category,
		Budget:   summary,
		Month:    month,
	}}
}

func CategoryEditState(cat *entity.Category) State {
	return State{screen: ScreenCategoryEdit, categoryEdit: &CategoryEditContext{Category: cat}}
}

// ReceiptEditState opens a receipt from a category detail view. The edited
// copy starts equal to the original.
func ReceiptEditState(txn *entity.Transaction, from CategoryDetailContext) State {
	edited := *txn
	original := *txn
	return State{screen: ScreenReceiptEdit, receiptEdit: &ReceiptEditContext{
		Transaction: &edited,
		Original:    &original,
		Detail:      from,
	}}
}

// Screen returns the active screen.
func (s State) Screen() Screen {
	if s.screen == "" {
		return ScreenDashboard
	}
	return s.screen
}

func (s State) Review() (ReviewContext, bool) {
	if s.review == nil {
		return ReviewContext{}, false
	}
	return *s.review, true
}

func (s State) BudgetSettings() (BudgetSettingsContext, bool) {
	if s.budgetSettings == nil {
		return BudgetSettingsContext{}, false
	}
	return *s.budgetSettings, true
}

func (s State) CategoryDetail() (CategoryDetailContext, bool) {
	if s.categoryDetail == nil {
		return CategoryDetailContext{}, false
	}
	return *s.categoryDetail, true
}

func (s State) CategoryEdit() (CategoryEditContext, bool) {
	if s.categoryEdit == nil {
		return CategoryEditContext{}, false
	}
	return *s.categoryEdit, true
}

func (s State) ReceiptEdit() (ReceiptEditContext, bool) {
	if s.receiptEdit == nil {
		return ReceiptEditContext{}, false
	}
	return *s.receiptEdit, true
}

// BackTarget returns where the back action leads from s. Every screen
// declares its own target; there is no history.
func BackTarget(s State) State {
	switch s.Screen() {
	case ScreenCategoryEdit:
		return CategoryManageState()
	case ScreenReceiptEdit:
		if ctx, ok := s.ReceiptEdit(); ok {
			return State{screen: ScreenCategoryDetail, categoryDetail: &ctx.Detail}
		}
		return DashboardState()
	default:
		return DashboardState()
	}
}

// AfterSave returns where a successful save on s leads. Upload is not
// handled here because its destination carries the new transaction.
// Deactivating from CategoryManage reloads the list in place.
func AfterSave(s State) State {
	switch s.Screen() {
	case ScreenCategoryEdit, ScreenCategoryManage:
		return CategoryManageState()
	case ScreenReceiptEdit:
		return BackTarget(s)
	default:
		return DashboardState()
	}
}
