// Package tui is the terminal client of the budget tracker.
package tui

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/client/navigation"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// Config holds what the client needs to run.
type Config struct {
	Backend  navigation.Backend
	Now      func() time.Time
	Timeout  time.Duration
	ReadFile func(path string) ([]byte, error)
}

// Model holds the TUI state. Screen, selection context and freshness live
// in the navigation controller; the model keeps what was fetched for the
// active screen and the form being edited.
type Model struct {
	nav      *navigation.Controller
	backend  navigation.Backend
	keys     KeyMap
	styles   Styles
	help     help.Model
	timeout  time.Duration
	readFile func(path string) ([]byte, error)

	categories    []*entity.Category
	transactions  []*entity.Transaction
	form          *form
	cursor        int
	confirmDelete bool
	flash         string

	width    int
	height   int
	quitting bool
}

// New creates a model on the dashboard.
func New(cfg Config) Model {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ReadFile == nil {
		cfg.ReadFile = os.ReadFile
	}

	return Model{
		nav:      navigation.NewController(cfg.Now),
		backend:  cfg.Backend,
		keys:     DefaultKeyMap(),
		styles:   DefaultStyles(),
		help:     help.New(),
		timeout:  cfg.Timeout,
		readFile: cfg.ReadFile,
	}
}

// Init starts the first dashboard fetch.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case summaryLoadedMsg:
		if msg.err != nil {
			m.nav.LoadFailed(msg.token, msg.err)
			return m, nil
		}
		if m.nav.DashboardLoaded(msg.token, msg.summary) {
			m.clampCursor(len(msg.summary.ByCategory))
		}

	case categoriesLoadedMsg:
		if msg.err != nil {
			m.nav.LoadFailed(msg.token, msg.err)
			return m, nil
		}
		if m.nav.Loaded(msg.token) {
			m.categories = msg.categories
			m.prefillCategory()
		}

	case transactionsLoadedMsg:
		if msg.err != nil {
			m.nav.LoadFailed(msg.token, msg.err)
			return m, nil
		}
		if m.nav.Loaded(msg.token) {
			m.transactions = msg.transactions
			m.clampCursor(len(m.transactions))
		}

	case uploadedMsg:
		if msg.err != nil {
			m.nav.SaveFailed(msg.token, msg.err)
			return m, nil
		}
		if m.nav.Uploaded(msg.token, msg.transaction) {
			m.flash = "Receipt uploaded, please review"
			return m, m.entered()
		}

	case savedMsg:
		if msg.err != nil {
			m.nav.SaveFailed(msg.token, msg.err)
			return m, nil
		}
		if m.nav.Saved(msg.token) {
			m.flash = "Saved"
			return m, m.entered()
		}
	}

	return m, nil
}

// entered resets per-screen state after a transition and starts the new
// screen's fetch.
func (m *Model) entered() tea.Cmd {
	m.cursor = 0
	m.confirmDelete = false
	m.transactions = nil
	m.form = m.buildForm()
	return m.load()
}

// load issues the fetch the active screen needs, if any.
func (m *Model) load() tea.Cmd {
	switch m.nav.Screen() {
	case navigation.ScreenDashboard:
		token, ok := m.nav.BeginDashboardFetch()
		if !ok {
			return nil
		}
		return m.fetchSummary(token, m.nav.Month())

	case navigation.ScreenManualEntry, navigation.ScreenReview,
		navigation.ScreenBudgetSettings, navigation.ScreenReceiptEdit:
		return m.fetchCategories(m.nav.BeginLoad(), false)

	case navigation.ScreenCategoryManage:
		return m.fetchCategories(m.nav.BeginLoad(), true)

	case navigation.ScreenCategoryDetail:
		detail, ok := m.nav.State().CategoryDetail()
		if !ok || detail.Category == nil {
			return nil
		}
		return m.fetchTransactions(m.nav.BeginLoad(), detail.Category.ID, detail.Month)
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Back) {
		if m.nav.Screen() == navigation.ScreenDashboard {
			return m, nil
		}
		if !m.nav.Back() {
			m.flash = "Still saving, please wait"
			return m, nil
		}
		m.flash = ""
		return m, m.entered()
	}

	if m.form != nil {
		return m.handleFormKey(msg)
	}

	switch m.nav.Screen() {
	case navigation.ScreenDashboard:
		return m.handleDashboardKey(msg)
	case navigation.ScreenCategoryDetail:
		return m.handleCategoryDetailKey(msg)
	case navigation.ScreenCategoryManage:
		return m.handleCategoryManageKey(msg)
	}
	return m, nil
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var rows []entity.CategorySummary
	if summary := m.nav.Summary(); summary != nil {
		rows = summary.ByCategory
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, len(rows))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, len(rows))
	case key.Matches(msg, m.keys.PrevMonth):
		m.nav.PrevMonth()
		m.cursor = 0
		return m, m.load()
	case key.Matches(msg, m.keys.NextMonth):
		if m.nav.NextMonth() {
			m.cursor = 0
			return m, m.load()
		}
	case key.Matches(msg, m.keys.Refresh):
		m.nav.Enter(navigation.DashboardState())
		return m, m.entered()
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(rows) && m.nav.OpenCategoryDetail(rows[m.cursor]) {
			return m, m.entered()
		}
	case key.Matches(msg, m.keys.Upload):
		return m.open(navigation.UploadState())
	case key.Matches(msg, m.keys.Manual):
		return m.open(navigation.ManualEntryState())
	case key.Matches(msg, m.keys.Budgets):
		if m.nav.OpenBudgetSettings() {
			return m, m.entered()
		}
	case key.Matches(msg, m.keys.Categories):
		return m.open(navigation.CategoryManageState())
	}
	return m, nil
}

func (m Model) handleCategoryDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, len(m.transactions))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, len(m.transactions))
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(m.transactions) && m.nav.OpenReceiptEdit(m.transactions[m.cursor]) {
			return m, m.entered()
		}
	}
	return m, nil
}

func (m Model) handleCategoryManageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, len(m.categories))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, len(m.categories))
	case key.Matches(msg, m.keys.New):
		return m.open(navigation.CategoryEditState(nil))
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(m.categories) {
			return m.open(navigation.CategoryEditState(m.categories[m.cursor]))
		}
	case key.Matches(msg, m.keys.Deactivate):
		if m.cursor >= len(m.categories) || !m.categories[m.cursor].IsActive {
			return m, nil
		}
		token, ok := m.nav.BeginSave()
		if !ok {
			return m, nil
		}
		return m, m.deactivateCategory(token, m.categories[m.cursor].ID)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m.submit()
	case key.Matches(msg, m.keys.Delete):
		return m.deleteReceipt()
	case key.Matches(msg, m.keys.NextField):
		m.form.move(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.form.move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Open):
		if m.form.onLast() {
			return m.submit()
		}
		m.form.move(1)
		return m, nil
	}

	field, value, cmd := m.form.update(msg)
	if field != "" {
		m.nav.SetDraft(field, value)
	}
	return m, cmd
}

func (m Model) open(s navigation.State) (tea.Model, tea.Cmd) {
	if !m.nav.Open(s) {
		return m, nil
	}
	m.flash = ""
	return m, m.entered()
}

func (m *Model) setField(field, value string) {
	if m.form == nil {
		return
	}
	m.form.set(field, value)
	m.nav.SetDraft(field, value)
}

func (m *Model) moveCursor(delta, n int) {
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = 0
	}
}

// buildForm creates the form of the active screen, seeded from its payload.
func (m Model) buildForm() *form {
	state := m.nav.State()
	switch state.Screen() {
	case navigation.ScreenUpload:
		return newForm(fieldSpec{key: "path", label: "Image file", placeholder: "~/receipts/lunch.jpg"})

	case navigation.ScreenManualEntry:
		return newForm(
			fieldSpec{key: "merchant", label: "Merchant"},
			fieldSpec{key: "total", label: "Total", placeholder: "0.00"},
			fieldSpec{key: "category", label: "Category", placeholder: "slug, e.g. groceries"},
			fieldSpec{key: "date", label: "Date", placeholder: "YYYY-MM-DD, blank for today"},
			fieldSpec{key: "type", label: "Expense type", value: string(entity.ExpenseTypePersonal)},
		)

	case navigation.ScreenReview:
		ctx, _ := state.Review()
		return transactionForm(ctx.Transaction)

	case navigation.ScreenReceiptEdit:
		ctx, _ := state.ReceiptEdit()
		return transactionForm(ctx.Transaction)

	case navigation.ScreenBudgetSettings:
		return newForm(
			fieldSpec{key: "category", label: "Category", placeholder: "slug"},
			fieldSpec{key: "limit", label: "Monthly limit", placeholder: "0.00"},
		)

	case navigation.ScreenCategoryEdit:
		ctx, _ := state.CategoryEdit()
		if ctx.Category == nil {
			return newForm(
				fieldSpec{key: "name", label: "Name"},
				fieldSpec{key: "sort", label: "Sort order", value: "0"},
			)
		}
		return newForm(
			fieldSpec{key: "name", label: "Name", value: ctx.Category.Name},
			fieldSpec{key: "sort", label: "Sort order", value: strconv.Itoa(ctx.Category.SortOrder)},
		)
	}
	return nil
}

func transactionForm(txn *entity.Transaction) *form {
	var merchant, total, date string
	if txn != nil {
		if txn.MerchantName != nil {
			merchant = *txn.MerchantName
		}
		if txn.GrandTotal != nil {
			total = txn.GrandTotal.StringFixed(2)
		}
		if txn.TransactionDate != nil {
			date = txn.TransactionDate.Format(dateLayout)
		}
	}
	expenseType := string(entity.ExpenseTypePersonal)
	if txn != nil && txn.ExpenseType != "" {
		expenseType = string(txn.ExpenseType)
	}

	return newForm(
		fieldSpec{key: "merchant", label: "Merchant", value: merchant},
		fieldSpec{key: "total", label: "Total", value: total, placeholder: "0.00"},
		fieldSpec{key: "category", label: "Category", placeholder: "slug"},
		fieldSpec{key: "date", label: "Date", value: date, placeholder: "YYYY-MM-DD"},
		fieldSpec{key: "type", label: "Expense type", value: expenseType},
	)
}

// prefillCategory shows the current category of the receipt once the
// category list is known. A value the user already typed wins.
func (m *Model) prefillCategory() {
	if m.form == nil || m.form.value("category") != "" || m.nav.Draft("category") != "" {
		return
	}

	var txn *entity.Transaction
	state := m.nav.State()
	if ctx, ok := state.Review(); ok {
		txn = ctx.Transaction
	} else if ctx, ok := state.ReceiptEdit(); ok {
		txn = ctx.Transaction
	}
	if txn == nil || txn.CategoryID == nil {
		return
	}
	for _, cat := range m.categories {
		if cat.ID == *txn.CategoryID {
			m.form.set("category", cat.Slug)
			return
		}
	}
}

func (m Model) categoryBySlug(slug string) (*entity.Category, bool) {
	for _, cat := range m.categories {
		if cat.Slug == slug {
			return cat, true
		}
	}
	return nil, false
}

// submit validates what can be checked locally and starts the save.
// Anything the server rejects comes back through savedMsg with the draft intact.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.nav.Saving() {
		return m, nil
	}
	m.flash = ""
	state := m.nav.State()

	switch state.Screen() {
	case navigation.ScreenUpload:
		path := expandHome(m.form.value("path"))
		if path == "" {
			m.flash = "Enter the path of a receipt image"
			return m, nil
		}
		data, err := m.readFile(path)
		if err != nil {
			m.flash = fmt.Sprintf("Cannot read %s: %v", path, err)
			return m, nil
		}
		contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
		if i := strings.Index(contentType, ";"); i >= 0 {
			contentType = contentType[:i]
		}
		token, ok := m.nav.BeginSave()
		if !ok {
			return m, nil
		}
		return m, m.upload(token, filepath.Base(path), contentType, data)

	case navigation.ScreenManualEntry:
		fields, err := m.manualFields()
		if err != nil {
			m.flash = err.Error()
			return m, nil
		}
		token, ok := m.nav.BeginSave()
		if !ok {
			return m, nil
		}
		return m, m.createManual(token, fields)

	case navigation.ScreenReview:
		ctx, _ := state.Review()
		edited, err := m.editedTransaction(ctx.Transaction)
		if err != nil {
			m.flash = err.Error()
			return m, nil
		}
		patch := entity.DiffTransaction(ctx.Transaction, edited)
		// Confirming the suggested category counts as choosing it.
		if edited.CategoryID != nil {
			id := *edited.CategoryID
			patch.CategoryID = &id
		}
		// So does saving with a date that was flagged for confirmation.
		if ctx.Transaction.DateNeedsConfirmation && edited.TransactionDate != nil && patch.TransactionDate == nil {
			date := *edited.TransactionDate
			patch.TransactionDate = &date
		}
		return m.savePatch(ctx.Transaction.ID, patch)

	case navigation.ScreenReceiptEdit:
		ctx, _ := state.ReceiptEdit()
		edited, err := m.editedTransaction(ctx.Transaction)
		if err != nil {
			m.flash = err.Error()
			return m, nil
		}
		m.nav.UpdateReceiptDraft(func(txn *entity.Transaction) { *txn = *edited })
		return m.savePatch(ctx.Original.ID, entity.DiffTransaction(ctx.Original, edited))

	case navigation.ScreenBudgetSettings:
		ctx, _ := state.BudgetSettings()
		cat, ok := m.categoryBySlug(m.form.value("category"))
		if !ok {
			m.flash = "Unknown category"
			return m, nil
		}
		limit, err := decimal.NewFromString(m.form.value("limit"))
		if err != nil {
			m.flash = "Monthly limit must be a number"
			return m, nil
		}
		token, ok := m.nav.BeginSave()
		if !ok {
			return m, nil
		}
		return m, m.setBudget(token, cat.ID, ctx.Month, limit)

	case navigation.ScreenCategoryEdit:
		ctx, _ := state.CategoryEdit()
		name := m.form.value("name")
		sortOrder, err := strconv.Atoi(m.form.value("sort"))
		if err != nil {
			m.flash = "Sort order must be a whole number"
			return m, nil
		}
		token, ok := m.nav.BeginSave()
		if !ok {
			return m, nil
		}
		if ctx.Category == nil {
			return m, m.createCategory(token, name, sortOrder)
		}
		var patch navigation.CategoryPatch
		if name != ctx.Category.Name {
			patch.Name = &name
		}
		if sortOrder != ctx.Category.SortOrder {
			patch.SortOrder = &sortOrder
		}
		return m, m.updateCategory(token, ctx.Category.ID, patch)
	}
	return m, nil
}

func (m Model) savePatch(id uuid.UUID, patch entity.TransactionPatch) (tea.Model, tea.Cmd) {
	token, ok := m.nav.BeginSave()
	if !ok {
		return m, nil
	}
	if patch.IsEmpty() {
		return m, func() tea.Msg { return savedMsg{token: token} }
	}
	return m, m.updateTransaction(token, id, patch)
}

// deleteReceipt asks once, then deletes on the second press.
func (m Model) deleteReceipt() (tea.Model, tea.Cmd) {
	ctx, ok := m.nav.State().ReceiptEdit()
	if !ok || m.nav.Saving() {
		return m, nil
	}
	if !m.confirmDelete {
		m.confirmDelete = true
		m.flash = "Press ctrl+d again to delete this receipt"
		return m, nil
	}
	token, ok := m.nav.BeginSave()
	if !ok {
		return m, nil
	}
	m.confirmDelete = false
	m.flash = ""
	return m, m.deleteTransaction(token, ctx.Original.ID)
}

func (m Model) manualFields() (navigation.ManualFields, error) {
	fields := navigation.ManualFields{
		MerchantName: m.form.value("merchant"),
		ExpenseType:  entity.ExpenseType(m.form.value("type")),
	}

	if raw := m.form.value("total"); raw != "" {
		total, err := decimal.NewFromString(raw)
		if err != nil {
			return fields, fmt.Errorf("total must be a number")
		}
		fields.GrandTotal = &total
	}
	if slug := m.form.value("category"); slug != "" {
		cat, ok := m.categoryBySlug(slug)
		if !ok {
			return fields, fmt.Errorf("unknown category %q", slug)
		}
		fields.CategoryID = &cat.ID
	}
	if raw := m.form.value("date"); raw != "" {
		date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return fields, fmt.Errorf("date must be YYYY-MM-DD")
		}
		fields.TransactionDate = &date
	}
	return fields, nil
}

// editedTransaction applies the form to a copy of base.
func (m Model) editedTransaction(base *entity.Transaction) (*entity.Transaction, error) {
	edited := *base

	if merchant := m.form.value("merchant"); merchant != "" {
		edited.MerchantName = &merchant
	} else {
		edited.MerchantName = nil
	}
	if raw := m.form.value("total"); raw != "" {
		total, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("total must be a number")
		}
		edited.GrandTotal = &total
	}
	if slug := m.form.value("category"); slug != "" {
		cat, ok := m.categoryBySlug(slug)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", slug)
		}
		id := cat.ID
		edited.CategoryID = &id
	}
	if raw := m.form.value("date"); raw != "" {
		date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("date must be YYYY-MM-DD")
		}
		edited.TransactionDate = &date
	}
	if raw := m.form.value("type"); raw != "" {
		edited.ExpenseType = entity.ExpenseType(raw)
	}
	return &edited, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
