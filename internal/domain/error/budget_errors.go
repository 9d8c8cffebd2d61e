package error

import "errors"

// Budget domain errors.
var (
	// ErrNegativeLimit is returned when a monthly limit is below zero.
	ErrNegativeLimit = errors.New("monthly limit must be non-negative")

	// ErrInvalidBudgetMonth is returned when the year or month is out of range.
	ErrInvalidBudgetMonth = errors.New("invalid budget month")

	// ErrBudgetCategoryNotFound is returned when the budget targets an unknown category.
	ErrBudgetCategoryNotFound = errors.New("category not found")
)

// BudgetErrorCode defines error codes for budget errors.
// Format: BUD-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeNegativeLimit       BudgetErrorCode = "BUD-010001"
	ErrCodeInvalidBudgetMonth  BudgetErrorCode = "BUD-010002"
	ErrCodeMissingBudgetFields BudgetErrorCode = "BUD-010003"

	// Lookup errors (02XXXX)
	ErrCodeBudgetCategoryNotFound BudgetErrorCode = "BUD-020001"
)

// BudgetError represents a budget error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// Kind implements Kinded.
func (e *BudgetError) Kind() Kind {
	if e.Code == ErrCodeBudgetCategoryNotFound {
		return KindNotFound
	}
	return KindValidation
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
