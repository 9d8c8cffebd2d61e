package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found in the system.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategorySlugExists is returned when the derived slug is already taken.
	ErrCategorySlugExists = errors.New("category slug already exists")

	// ErrCategoryNameRequired is returned when the name is empty after trimming.
	ErrCategoryNameRequired = errors.New("category name is required")

	// ErrCategoryNameTooLong is returned when the category name exceeds the maximum length.
	ErrCategoryNameTooLong = errors.New("category name too long")

	// ErrCategorySlugEmpty is returned when a name has no characters usable in a slug.
	ErrCategorySlugEmpty = errors.New("category name produces an empty slug")

	// ErrCategorySlugMismatch is returned when a client-supplied slug disagrees with the derived one.
	ErrCategorySlugMismatch = errors.New("category slug does not match name")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeCategoryNameRequired  CategoryErrorCode = "CAT-010001"
	ErrCodeCategoryNameTooLong   CategoryErrorCode = "CAT-010002"
	ErrCodeCategorySlugEmpty     CategoryErrorCode = "CAT-010003"
	ErrCodeCategorySlugMismatch  CategoryErrorCode = "CAT-010004"
	ErrCodeMissingCategoryFields CategoryErrorCode = "CAT-010005"

	// Lookup errors (02XXXX)
	ErrCodeCategoryNotFound CategoryErrorCode = "CAT-020001"

	// Conflict errors (03XXXX)
	ErrCodeCategorySlugExists CategoryErrorCode = "CAT-030001"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// Kind implements Kinded.
func (e *CategoryError) Kind() Kind {
	switch e.Code {
	case ErrCodeCategoryNotFound:
		return KindNotFound
	case ErrCodeCategorySlugExists:
		return KindConflict
	default:
		return KindValidation
	}
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
