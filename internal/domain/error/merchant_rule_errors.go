package error

import "errors"

// Merchant rule domain errors.
var (
	ErrMerchantRuleNotFound     = errors.New("merchant rule not found")
	ErrMerchantRulePatternEmpty = errors.New("pattern is required")
	ErrMerchantRuleExists       = errors.New("merchant rule pattern already exists")
	ErrInvalidConfidence        = errors.New("confidence must be between 0 and 1")
	ErrInvalidCategorySlug      = errors.New("category slug is not a valid slug")
)

// MerchantRuleErrorCode defines error codes for merchant rule errors.
type MerchantRuleErrorCode string

const (
	ErrCodeMerchantRulePatternEmpty MerchantRuleErrorCode = "RUL-010001"
	ErrCodeInvalidConfidence        MerchantRuleErrorCode = "RUL-010002"
	ErrCodeInvalidCategorySlug      MerchantRuleErrorCode = "RUL-010003"
	ErrCodeMerchantRuleNotFound     MerchantRuleErrorCode = "RUL-020001"
	ErrCodeMerchantRuleExists       MerchantRuleErrorCode = "RUL-030001"
)

// MerchantRuleError represents a merchant rule error with code and message.
type MerchantRuleError struct {
	Code    MerchantRuleErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MerchantRuleError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *MerchantRuleError) Unwrap() error {
	return e.Err
}

// Kind implements Kinded.
func (e *MerchantRuleError) Kind() Kind {
	switch e.Code {
	case ErrCodeMerchantRuleNotFound:
		return KindNotFound
	case ErrCodeMerchantRuleExists:
		return KindConflict
	default:
		return KindValidation
	}
}

// NewMerchantRuleError creates a new MerchantRuleError.
func NewMerchantRuleError(code MerchantRuleErrorCode, message string, err error) *MerchantRuleError {
	return &MerchantRuleError{Code: code, Message: message, Err: err}
}
