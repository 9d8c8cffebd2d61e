package email

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/email/templates"
)

type memoryOutbox struct {
	mu        sync.Mutex
	emails    []*entity.AlertEmail
	existsErr error
}

func (o *memoryOutbox) Enqueue(ctx context.Context, email *entity.AlertEmail) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.emails = append(o.emails, email)
	return nil
}

func (o *memoryOutbox) Due(ctx context.Context, now time.Time, limit int) ([]*entity.AlertEmail, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var due []*entity.AlertEmail
	for _, e := range o.emails {
		if e.Due(now) && len(due) < limit {
			due = append(due, e)
		}
	}
	return due, nil
}

func (o *memoryOutbox) Save(ctx context.Context, email *entity.AlertEmail) error {
	return nil
}

func (o *memoryOutbox) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	if o.existsErr != nil {
		return false, o.existsErr
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, e := range o.emails {
		if e.Reference() == reference {
			return true, nil
		}
	}
	return false, nil
}

func (o *memoryOutbox) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

var march2024 = valueobject.Month{Year: 2024, Month: time.March}

func groceriesAlert() entity.BudgetAlert {
	return entity.BudgetAlert{
		CategoryName: "Groceries",
		CategorySlug: "groceries",
		Month:        march2024,
		MonthlyLimit: decimal.NewFromInt(400),
		Spent:        decimal.RequireFromString("412.50"),
	}
}

func TestNotifier_QueueBudgetAlert(t *testing.T) {
	clock := &stepClock{now: time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC)}

	t.Run("queues one alert per category and month", func(t *testing.T) {
		outbox := &memoryOutbox{}
		notifier := NewNotifier(outbox, clock)

		for i := 0; i < 3; i++ {
			if err := notifier.QueueBudgetAlert(context.Background(), "me@example.com", groceriesAlert()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if len(outbox.emails) != 1 {
			t.Fatalf("expected 1 queued alert, got %d", len(outbox.emails))
		}
		email := outbox.emails[0]
		if email.Reference() != "budget_alert:groceries:2024-03" {
			t.Errorf("expected reference budget_alert:groceries:2024-03, got %s", email.Reference())
		}
		if !email.QueuedAt.Equal(clock.now) || !email.Due(clock.now) {
			t.Errorf("expected alert queued and due at %v, got %v", clock.now, email.NextAttemptAt)
		}
	})

	t.Run("next month is a new alert", func(t *testing.T) {
		outbox := &memoryOutbox{}
		notifier := NewNotifier(outbox, clock)

		alert := groceriesAlert()
		_ = notifier.QueueBudgetAlert(context.Background(), "me@example.com", alert)
		alert.Month = march2024.Next()
		_ = notifier.QueueBudgetAlert(context.Background(), "me@example.com", alert)

		if len(outbox.emails) != 2 {
			t.Errorf("expected 2 queued alerts, got %d", len(outbox.emails))
		}
	})

	t.Run("lookup failure is returned", func(t *testing.T) {
		outbox := &memoryOutbox{existsErr: errors.New("db down")}
		err := NewNotifier(outbox, clock).QueueBudgetAlert(context.Background(), "me@example.com", groceriesAlert())

		var emailErr *domainerror.EmailError
		if !errors.As(err, &emailErr) || emailErr.Code != domainerror.ErrCodeEmailQueueFailed {
			t.Errorf("expected queue failure, got %v", err)
		}
		if len(outbox.emails) != 0 {
			t.Errorf("expected nothing queued, got %d", len(outbox.emails))
		}
	})
}

func newTestWorker(t *testing.T, outbox *memoryOutbox, sender *MockEmailSender, clock *stepClock) *Worker {
	t.Helper()
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	return NewWorker(outbox, sender, renderer, clock, DefaultWorkerConfig())
}

func queued(t *testing.T, clock *stepClock) *memoryOutbox {
	t.Helper()
	outbox := &memoryOutbox{}
	if err := NewNotifier(outbox, clock).QueueBudgetAlert(context.Background(), "me@example.com", groceriesAlert()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return outbox
}

func TestWorker_ProcessNow(t *testing.T) {
	start := time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC)

	t.Run("sends the rendered alert", func(t *testing.T) {
		clock := &stepClock{now: start}
		outbox := queued(t, clock)
		sender := NewMockEmailSender()

		newTestWorker(t, outbox, sender, clock).ProcessNow(context.Background())

		sent := sender.Sent()
		if len(sent) != 1 {
			t.Fatalf("expected 1 email sent, got %d", len(sent))
		}
		if sent[0].To != "me@example.com" {
			t.Errorf("expected recipient me@example.com, got %s", sent[0].To)
		}
		if sent[0].Subject != "Groceries is over budget for 2024-03" {
			t.Errorf("unexpected subject %q", sent[0].Subject)
		}
		if !strings.Contains(sent[0].Text, "$412.50") || !strings.Contains(sent[0].Text, "$12.50") {
			t.Errorf("expected spent and overage in text body, got %q", sent[0].Text)
		}

		email := outbox.emails[0]
		if email.Status != entity.AlertSent || email.ProviderID != "mock-1" {
			t.Errorf("expected sent with provider id mock-1, got %s %s", email.Status, email.ProviderID)
		}
		if email.ClosedAt == nil || !email.ClosedAt.Equal(start) {
			t.Errorf("expected closed at %v, got %v", start, email.ClosedAt)
		}
	})

	t.Run("temporary failures back off then give up", func(t *testing.T) {
		clock := &stepClock{now: start}
		outbox := queued(t, clock)
		sender := NewMockEmailSender()
		sender.SetFailure(errors.New("timeout"), false)
		worker := newTestWorker(t, outbox, sender, clock)
		email := outbox.emails[0]

		worker.ProcessNow(context.Background())
		if email.Status != entity.AlertPending || email.Attempts != 1 {
			t.Fatalf("expected pending after 1 attempt, got %s %d", email.Status, email.Attempts)
		}
		if !email.NextAttemptAt.Equal(start.Add(time.Minute)) {
			t.Errorf("expected retry in 1m, got %v", email.NextAttemptAt)
		}

		worker.ProcessNow(context.Background())
		if email.Attempts != 1 {
			t.Errorf("expected no attempt before the backoff elapses, got %d", email.Attempts)
		}

		clock.now = start.Add(time.Minute)
		worker.ProcessNow(context.Background())
		if email.Attempts != 2 || !email.NextAttemptAt.Equal(clock.now.Add(5*time.Minute)) {
			t.Errorf("expected second retry in 5m, got %d %v", email.Attempts, email.NextAttemptAt)
		}

		clock.now = clock.now.Add(5 * time.Minute)
		worker.ProcessNow(context.Background())
		if email.Status != entity.AlertFailed || email.Attempts != entity.MaxAlertAttempts {
			t.Errorf("expected failed after %d attempts, got %s %d", entity.MaxAlertAttempts, email.Status, email.Attempts)
		}
	})

	t.Run("permanent failure stops retries", func(t *testing.T) {
		clock := &stepClock{now: start}
		outbox := queued(t, clock)
		sender := NewMockEmailSender()
		sender.SetFailure(errors.New("invalid recipient"), true)

		newTestWorker(t, outbox, sender, clock).ProcessNow(context.Background())

		if outbox.emails[0].Status != entity.AlertFailed {
			t.Errorf("expected status failed, got %s", outbox.emails[0].Status)
		}
	})
}

func TestResendClient_Send(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		expectedID    string
		expectedError domainerror.EmailErrorCode
	}{
		{"delivered", http.StatusOK, `{"id":"re_123"}`, "re_123", ""},
		{"validation is permanent", http.StatusUnprocessableEntity, `{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`, "", domainerror.ErrCodePermanentEmailFailure},
		{"server error is temporary", http.StatusInternalServerError, `{"statusCode":500,"message":"boom"}`, "", domainerror.ErrCodeTemporaryEmailFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewResendClient("re_test", server.URL, "Budget", "alerts@example.com")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			id, err := client.Send(context.Background(), groceriesEmail())
			if gotPath != "/emails" {
				t.Errorf("expected POST /emails, got %s", gotPath)
			}
			if gotAuth != "Bearer re_test" {
				t.Errorf("expected bearer auth, got %q", gotAuth)
			}

			if tt.expectedError == "" {
				if err != nil || id != tt.expectedID {
					t.Errorf("expected id %s, got %s %v", tt.expectedID, id, err)
				}
				return
			}
			var emailErr *domainerror.EmailError
			if !errors.As(err, &emailErr) || emailErr.Code != tt.expectedError {
				t.Errorf("expected %s, got %v", tt.expectedError, err)
			}
		})
	}
}

func groceriesEmail() adapter.OutgoingEmail {
	return adapter.OutgoingEmail{
		To:      "me@example.com",
		Subject: groceriesAlert().Subject(),
		Text:    "over",
	}
}
