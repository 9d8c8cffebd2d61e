package error

import "errors"

var (
	ErrAlertQueueFailed    = errors.New("failed to queue budget alert")
	ErrAlertRenderFailed   = errors.New("failed to render budget alert")
	ErrAlertDeliveryFailed = errors.New("failed to deliver budget alert")
)

// EmailErrorCode identifies alert email failures.
// EMAIL-01 is the outbox, EMAIL-02 delivery, EMAIL-03 rendering.
type EmailErrorCode string

const (
	ErrCodeEmailQueueFailed EmailErrorCode = "EMAIL-010001"

	// A temporary failure is retried with backoff, a permanent one is not.
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-020001"
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-020002"

	ErrCodeAlertRenderFailed EmailErrorCode = "EMAIL-030001"
)

// EmailError is returned by the alert outbox and the email senders.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

func (e *EmailError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *EmailError) Unwrap() error {
	return e.Err
}

// Kind implements Kinded. Delivery failures are the provider's, everything
// else is ours.
func (e *EmailError) Kind() Kind {
	switch e.Code {
	case ErrCodeTemporaryEmailFailure, ErrCodePermanentEmailFailure:
		return KindTransport
	default:
		return KindInternal
	}
}

// IsPermanent reports whether retrying the delivery is pointless.
func (e *EmailError) IsPermanent() bool {
	return e.Code == ErrCodePermanentEmailFailure || e.Code == ErrCodeAlertRenderFailed
}

func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
