package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/budget-tracker/backend/internal/application/adapter"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// MockEmailSender records emails instead of sending them. It stands in for
// Resend when no API key is configured.
type MockEmailSender struct {
	mu        sync.Mutex
	sent      []adapter.OutgoingEmail
	failErr   error
	permanent bool
}

func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

func (m *MockEmailSender) Send(ctx context.Context, email adapter.OutgoingEmail) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		code := domainerror.ErrCodeTemporaryEmailFailure
		if m.permanent {
			code = domainerror.ErrCodePermanentEmailFailure
		}
		return "", domainerror.NewEmailError(code, "mock send failure", m.failErr)
	}

	m.sent = append(m.sent, email)
	return fmt.Sprintf("mock-%d", len(m.sent)), nil
}

// Sent returns a copy of every email sent so far.
func (m *MockEmailSender) Sent() []adapter.OutgoingEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]adapter.OutgoingEmail(nil), m.sent...)
}

// SetFailure makes subsequent sends fail with err. A nil err clears it.
func (m *MockEmailSender) SetFailure(err error, permanent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
	m.permanent = permanent
}

var _ adapter.EmailSender = (*MockEmailSender)(nil)
