package api

import (
	"fmt"
	"net/http"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// Error is a failed API call. ErrorKind tells the screens how to react.
type Error struct {
	ErrorKind domainerror.Kind
	Status    int
	Code      string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Code != "":
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	default:
		return fmt.Sprintf("%s (%d)", e.Message, e.Status)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Kind implements domainerror.Kinded.
func (e *Error) Kind() domainerror.Kind {
	return e.ErrorKind
}

// KindForStatus maps an HTTP status back to an error kind.
func KindForStatus(status int) domainerror.Kind {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
		return domainerror.KindValidation
	case http.StatusNotFound:
		return domainerror.KindNotFound
	case http.StatusConflict:
		return domainerror.KindConflict
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domainerror.KindTransport
	default:
		return domainerror.KindInternal
	}
}

func transportError(op string, err error) *Error {
	return &Error{
		ErrorKind: domainerror.KindTransport,
		Message:   op,
		Err:       err,
	}
}
