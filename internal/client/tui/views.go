package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/client/api"
	"github.com/budget-tracker/backend/internal/client/navigation"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

const (
	barWidth    = 20
	nameWidth   = 18
	recentShown = 10
)

var screenTitles = map[navigation.Screen]string{
	navigation.ScreenUpload:         "Upload receipt",
	navigation.ScreenManualEntry:    "Manual entry",
	navigation.ScreenReview:         "Review receipt",
	navigation.ScreenDashboard:      "Budget",
	navigation.ScreenBudgetSettings: "Budget settings",
	navigation.ScreenCategoryDetail: "Category",
	navigation.ScreenCategoryManage: "Categories",
	navigation.ScreenCategoryEdit:   "Edit category",
	navigation.ScreenReceiptEdit:    "Edit receipt",
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title()))
	b.WriteString("\n")

	switch m.nav.Screen() {
	case navigation.ScreenDashboard:
		b.WriteString(m.renderDashboard())
	case navigation.ScreenCategoryDetail:
		b.WriteString(m.renderCategoryDetail())
	case navigation.ScreenCategoryManage:
		b.WriteString(m.renderCategoryManage())
	case navigation.ScreenReview:
		b.WriteString(m.renderReviewHeader())
		b.WriteString(m.form.view(m.styles))
	default:
		if m.form != nil {
			b.WriteString(m.form.view(m.styles))
		}
	}

	b.WriteString("\n")
	if status := m.renderStatus(); status != "" {
		b.WriteString(status + "\n")
	}
	b.WriteString(m.help.View(m.screenHelp()))
	return b.String()
}

func (m Model) title() string {
	title := screenTitles[m.nav.Screen()]
	state := m.nav.State()

	switch m.nav.Screen() {
	case navigation.ScreenDashboard:
		title += " · " + monthLabel(m.nav.Month())
	case navigation.ScreenBudgetSettings:
		if ctx, ok := state.BudgetSettings(); ok {
			title += " · " + monthLabel(ctx.Month)
		}
	case navigation.ScreenCategoryDetail:
		if ctx, ok := state.CategoryDetail(); ok && ctx.Category != nil {
			title = ctx.Category.Name + " · " + monthLabel(ctx.Month)
		}
	case navigation.ScreenCategoryEdit:
		if ctx, ok := state.CategoryEdit(); ok && ctx.Category == nil {
			title = "New category"
		}
	}
	return title
}

func (m Model) renderDashboard() string {
	summary := m.nav.Summary()
	if summary == nil {
		if m.nav.Status() == navigation.StatusUnavailable {
			return m.styles.Warning.Render("Budget data unavailable.") + "\n"
		}
		return m.styles.Muted.Render("Loading…") + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Budget %s   Spent %s   Remaining %s\n\n",
		money(summary.TotalBudget), money(summary.TotalSpent), m.remaining(summary.TotalRemaining))

	if len(summary.ByCategory) == 0 {
		b.WriteString(m.styles.Muted.Render("No categories yet.") + "\n")
	}
	for i, row := range summary.ByCategory {
		b.WriteString(m.renderSummaryRow(row, i == m.cursor) + "\n")
	}

	if len(summary.RecentTransactions) > 0 {
		b.WriteString("\n" + m.styles.Subtitle.Render("Recent") + "\n")
		for i, txn := range summary.RecentTransactions {
			if i == recentShown {
				break
			}
			b.WriteString(m.renderTransactionLine(txn, false) + "\n")
		}
	}
	return b.String()
}

func (m Model) renderSummaryRow(row entity.CategorySummary, selected bool) string {
	name := row.Category.Name
	if row.Category.Icon != nil && *row.Category.Icon != "" {
		name = *row.Category.Icon + " " + name
	}
	name = truncate(name, nameWidth)

	line := fmt.Sprintf("%-*s %s %9s / %-9s %6s%%",
		nameWidth, name,
		m.progressBar(row),
		money(row.SpentThisMonth), money(row.MonthlyLimit),
		valueobject.ToFixed(row.PercentUsed, 1).StringFixed(1))

	if row.IsOverBudget() {
		line += " " + m.styles.Error.Render("over by "+money(row.Remaining.Neg()))
	}

	if selected {
		return m.styles.Selected.Render("> ") + line
	}
	return "  " + line
}

func (m Model) progressBar(row entity.CategorySummary) string {
	pct := valueobject.ClampPercent(row.PercentUsed)
	filled := int(pct.Mul(decimal.NewFromInt(barWidth)).Div(decimal.NewFromInt(100)).IntPart())
	tier := row.Tier
	if row.IsOverBudget() {
		tier = valueobject.TierOver
		filled = barWidth
	}
	return m.styles.bar(tier).Render(strings.Repeat("█", filled)) +
		m.styles.BarEmpty.Render(strings.Repeat("░", barWidth-filled))
}

func (m Model) renderCategoryDetail() string {
	ctx, ok := m.nav.State().CategoryDetail()
	if !ok {
		return ""
	}

	var b strings.Builder
	budget := ctx.Budget
	fmt.Fprintf(&b, "Limit %s   Spent %s   Remaining %s\n\n",
		money(budget.MonthlyLimit), money(budget.SpentThisMonth), m.remaining(budget.Remaining))

	if len(m.transactions) == 0 && m.nav.Status() == navigation.StatusReady {
		b.WriteString(m.styles.Muted.Render("No receipts this month.") + "\n")
	}
	for i, txn := range m.transactions {
		b.WriteString(m.renderTransactionLine(txn, i == m.cursor) + "\n")
	}
	return b.String()
}

func (m Model) renderCategoryManage() string {
	var b strings.Builder
	for i, cat := range m.categories {
		line := fmt.Sprintf("%3d  %-*s %s", cat.SortOrder, nameWidth, truncate(cat.Name, nameWidth), m.styles.Muted.Render(cat.Slug))
		if !cat.IsActive {
			line = m.styles.Muted.Render(line + "  (inactive)")
		}
		if i == m.cursor {
			line = m.styles.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) renderReviewHeader() string {
	ctx, ok := m.nav.State().Review()
	if !ok || ctx.Transaction == nil {
		return ""
	}
	txn := ctx.Transaction

	var notes []string
	if txn.NeedsReview {
		notes = append(notes, m.styles.Warning.Render(fmt.Sprintf("Low confidence category (%.0f%%)", txn.CategoryConfidence*100)))
	}
	if txn.DateNeedsConfirmation {
		notes = append(notes, m.styles.Warning.Render("Date was not found on the receipt"))
	}
	if txn.GrandTotal == nil {
		notes = append(notes, m.styles.Warning.Render("Total could not be read"))
	}
	if len(notes) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, notes...) + "\n\n"
}

func (m Model) renderTransactionLine(txn *entity.Transaction, selected bool) string {
	date := "          "
	if txn.TransactionDate != nil {
		date = txn.TransactionDate.Format(dateLayout)
	}
	merchant := "(unknown merchant)"
	if txn.MerchantName != nil {
		merchant = *txn.MerchantName
	}
	total := "-"
	if txn.GrandTotal != nil {
		total = money(*txn.GrandTotal)
	}

	line := fmt.Sprintf("%s  %-*s %9s", date, nameWidth+6, truncate(merchant, nameWidth+6), total)
	if txn.NeedsReview {
		line += " " + m.styles.Warning.Render("review")
	}
	if selected {
		return m.styles.Selected.Render("> ") + line
	}
	return "  " + line
}

func (m Model) renderStatus() string {
	var parts []string
	switch m.nav.Status() {
	case navigation.StatusLoading:
		parts = append(parts, m.styles.Muted.Render("Loading…"))
	case navigation.StatusSaving:
		parts = append(parts, m.styles.Muted.Render("Saving…"))
	case navigation.StatusUnavailable:
		parts = append(parts, m.styles.Warning.Render("Data unavailable: "+describeError(m.nav.Err())))
	case navigation.StatusError:
		parts = append(parts, m.styles.Error.Render("Not saved: "+describeError(m.nav.Err())))
	}
	if m.flash != "" {
		parts = append(parts, m.styles.Success.Render(m.flash))
	}
	return strings.Join(parts, "  ")
}

func (m Model) screenHelp() screenHelp {
	k := m.keys
	switch m.nav.Screen() {
	case navigation.ScreenDashboard:
		bindings := screenHelp{k.Up, k.Down, k.Open, k.PrevMonth}
		if m.nav.CanGoNext() {
			bindings = append(bindings, k.NextMonth)
		}
		return append(bindings, k.Upload, k.Manual, k.Budgets, k.Categories, k.Refresh, k.Quit)
	case navigation.ScreenCategoryDetail:
		return screenHelp{k.Up, k.Down, k.Open, k.Back}
	case navigation.ScreenCategoryManage:
		return screenHelp{k.Up, k.Down, k.Open, k.New, k.Deactivate, k.Back}
	case navigation.ScreenReceiptEdit:
		return screenHelp{k.NextField, k.Save, k.Delete, k.Back}
	default:
		return screenHelp{k.NextField, k.Save, k.Back}
	}
}

// describeError turns an error into the message a user should see.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}

	switch domainerror.KindOf(err) {
	case domainerror.KindTransport:
		return "could not reach the server, try again"
	case domainerror.KindNotFound:
		return msg + " (it may have been removed, go back to refresh)"
	default:
		return msg
	}
}

func (m Model) remaining(d decimal.Decimal) string {
	if d.IsNegative() {
		return m.styles.Error.Render(money(d))
	}
	return money(d)
}

func money(d decimal.Decimal) string {
	return valueobject.ToCurrency(d).StringFixed(valueobject.CurrencyPlaces)
}

func monthLabel(month valueobject.Month) string {
	start, _ := month.Bounds()
	return start.Format("January 2006")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
