package navigation

import (
	"time"

	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

// Status is what the active screen is doing.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusLoading     Status = "loading"
	StatusSaving      Status = "saving"
	StatusReady       Status = "ready"
	StatusUnavailable Status = "unavailable" // A fetch failed; any data shown is from an earlier fetch
	StatusError       Status = "error"       // A save failed; the draft is intact
)

// RequestToken identifies the screen activation a request was issued from.
type RequestToken struct {
	Screen     Screen
	Activation uint64
	Seq        uint64
}

type fetchKey struct {
	generation uint64
	month      valueobject.Month
}

// Controller holds the single active state of the client.
// It is not safe for concurrent use; results are fed back through the
// methods that take a RequestToken.
type Controller struct {
	now func() time.Time

	state      State
	activation uint64
	seq        uint64
	loadSeq    uint64 // latest load issued in this activation
	saveSeq    uint64 // latest save issued in this activation
	generation uint64

	month   valueobject.Month
	fetched *fetchKey
	summary *entity.MonthSummary

	status  Status
	saving  bool
	lastErr error
	draft   map[string]string
}

// NewController starts on the dashboard for the current month.
// A nil now uses the wall clock.
func NewController(now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	c := &Controller{now: now}
	c.month = c.currentMonth()
	c.Enter(DashboardState())
	return c
}

func (c *Controller) currentMonth() valueobject.Month {
	return valueobject.MonthOf(c.now())
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Screen() Screen { return c.state.Screen() }
func (c *Controller) Status() Status { return c.status }
func (c *Controller) Generation() uint64 { return c.generation }
func (c *Controller) Month() valueobject.Month { return c.month }
func (c *Controller) Summary() *entity.MonthSummary { return c.summary }
func (c *Controller) Saving() bool { return c.saving }
func (c *Controller) Err() error { return c.lastErr }
func (c *Controller) ErrKind() domainerror.Kind { return domainerror.KindOf(c.lastErr) }
func (c *Controller) Draft(field string) string { return c.draft[field] }
func (c *Controller) SetDraft(field, value string) { c.draft[field] = value }
func (c *Controller) HasDraft() bool { return len(c.draft) > 0 }

// Enter makes s the active state. The previous screen's draft is dropped
// and any request it still has in flight becomes stale. Entering the
// dashboard invalidates the month summary.
func (c *Controller) Enter(s State) {
	c.state = s
	c.activation++
	c.seq = 0
	c.loadSeq = 0
	c.saveSeq = 0
	c.status = StatusIdle
	c.saving = false
	c.lastErr = nil
	c.draft = make(map[string]string)

	if s.Screen() == ScreenDashboard {
		c.generation++
	}
}

// Back follows the active screen's declared back target. It refuses while
// a save is in flight so the save's result is never lost.
func (c *Controller) Back() bool {
	if c.saving {
		return false
	}
	c.Enter(BackTarget(c.state))
	return true
}

// Open moves to s from the dashboard or any other screen. Like Back, it
// refuses while saving.
func (c *Controller) Open(s State) bool {
	if c.saving {
		return false
	}
	c.Enter(s)
	return true
}

// OpenBudgetSettings opens budget settings for the dashboard month.
func (c *Controller) OpenBudgetSettings() bool {
	return c.Open(BudgetSettingsState(c.month))
}

// OpenCategoryDetail drills into one dashboard row for the dashboard month.
func (c *Controller) OpenCategoryDetail(summary entity.CategorySummary) bool {
	return c.Open(CategoryDetailState(summary, c.month))
}

// OpenReceiptEdit opens a receipt from the active category detail.
func (c *Controller) OpenReceiptEdit(txn *entity.Transaction) bool {
	detail, ok := c.state.CategoryDetail()
	if !ok || txn == nil {
		return false
	}
	return c.Open(ReceiptEditState(txn, detail))
}

// CanGoNext reports whether the dashboard may advance a month. It never
// moves past the real current month.
func (c *Controller) CanGoNext() bool {
	return c.month.Before(c.currentMonth())
}

// PrevMonth moves the dashboard back one month.
func (c *Controller) PrevMonth() {
	c.month = c.month.Prev()
}

// NextMonth moves the dashboard forward one month if allowed.
func (c *Controller) NextMonth() bool {
	if !c.CanGoNext() {
		return false
	}
	c.month = c.month.Next()
	return true
}

// NeedsDashboardFetch reports whether the dashboard should fetch now.
// It is true once per activation and once per month change.
func (c *Controller) NeedsDashboardFetch() bool {
	if c.Screen() != ScreenDashboard {
		return false
	}
	key := fetchKey{generation: c.generation, month: c.month}
	return c.fetched == nil || *c.fetched != key
}

// BeginDashboardFetch records that the fetch for the current generation and
// month has been issued.
func (c *Controller) BeginDashboardFetch() (RequestToken, bool) {
	if !c.NeedsDashboardFetch() {
		return RequestToken{}, false
	}
	c.fetched = &fetchKey{generation: c.generation, month: c.month}
	return c.BeginLoad(), true
}

// DashboardLoaded stores a fetched summary. Stale or mismatched results
// are dropped and false is returned.
func (c *Controller) DashboardLoaded(token RequestToken, summary *entity.MonthSummary) bool {
	if !c.acceptLoad(token) {
		return false
	}
	if summary != nil && summary.Month != c.month {
		return false
	}
	c.summary = summary
	c.status = StatusReady
	return true
}

// BeginLoad marks the active screen as loading and issues a token. Results
// of any earlier load on the same activation are dropped from now on.
func (c *Controller) BeginLoad() RequestToken {
	c.status = StatusLoading
	token := c.nextToken()
	c.loadSeq = token.Seq
	return token
}

// Loaded marks a screen fetch as done.
func (c *Controller) Loaded(token RequestToken) bool {
	if !c.acceptLoad(token) {
		return false
	}
	c.status = StatusReady
	return true
}

// LoadFailed marks the screen unavailable. Previously loaded data is kept.
func (c *Controller) LoadFailed(token RequestToken, err error) bool {
	if !c.acceptLoad(token) {
		return false
	}
	c.status = StatusUnavailable
	c.lastErr = err
	return true
}

// BeginSave starts a mutation on the active screen. It returns false while
// another save on the same screen is in flight.
func (c *Controller) BeginSave() (RequestToken, bool) {
	if c.saving {
		return RequestToken{}, false
	}
	c.saving = true
	c.status = StatusSaving
	c.lastErr = nil
	token := c.nextToken()
	c.saveSeq = token.Seq
	return token, true
}

// Saved completes a mutation and moves to the screen's after-save target.
func (c *Controller) Saved(token RequestToken) bool {
	if !c.acceptSave(token) {
		return false
	}
	c.saving = false
	c.Enter(AfterSave(c.state))
	return true
}

// Uploaded completes an upload and opens the new transaction for review.
func (c *Controller) Uploaded(token RequestToken, txn *entity.Transaction) bool {
	if !c.acceptSave(token) || c.Screen() != ScreenUpload {
		return false
	}
	c.saving = false
	c.Enter(ReviewState(txn))
	return true
}

// SaveFailed reports a failed mutation. The draft stays so the user can retry.
func (c *Controller) SaveFailed(token RequestToken, err error) bool {
	if !c.acceptSave(token) {
		return false
	}
	c.saving = false
	c.status = StatusError
	c.lastErr = err
	return true
}

// Accept reports whether a result issued under token still belongs to the
// active screen activation.
func (c *Controller) Accept(token RequestToken) bool {
	return token.Screen == c.Screen() && token.Activation == c.activation && token.Seq <= c.seq && token.Seq > 0
}

// acceptLoad only takes the result of the latest load.
func (c *Controller) acceptLoad(token RequestToken) bool {
	return c.Accept(token) && token.Seq == c.loadSeq
}

// acceptSave only takes the result of the latest save.
func (c *Controller) acceptSave(token RequestToken) bool {
	return c.Accept(token) && token.Seq == c.saveSeq
}

// UpdateReceiptDraft replaces the edited copy on the ReceiptEdit screen.
func (c *Controller) UpdateReceiptDraft(edit func(txn *entity.Transaction)) bool {
	if c.state.receiptEdit == nil {
		return false
	}
	edit(c.state.receiptEdit.Transaction)
	return true
}

func (c *Controller) nextToken() RequestToken {
	c.seq++
	return RequestToken{Screen: c.Screen(), Activation: c.activation, Seq: c.seq}
}
