// Package error defines domain-specific errors for the Budget Tracker application.
package error

import "errors"

// Kind classifies an error by how the caller should react to it.
type Kind string

const (
	// KindValidation means bad or missing input. Reported inline, never retried.
	KindValidation Kind = "validation"
	// KindConflict means the input collides with existing state.
	KindConflict Kind = "conflict"
	// KindNotFound means a referenced entity no longer exists; the caller should refresh.
	KindNotFound Kind = "not_found"
	// KindTransport means the network or storage failed; the caller may try again.
	KindTransport Kind = "transport"
	// KindInternal covers everything else.
	KindInternal Kind = "internal"
)

// Kinded is implemented by errors that know their Kind.
type Kinded interface {
	error
	Kind() Kind
}

// KindOf returns the Kind of the first error in err's chain that carries one.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// TransportError wraps a network or storage failure.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + ": transport failure"
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Kind implements Kinded.
func (e *TransportError) Kind() Kind {
	return KindTransport
}

// NewTransportError creates a new TransportError for the given operation.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}
