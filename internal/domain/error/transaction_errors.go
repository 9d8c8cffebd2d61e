package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidExpenseType is returned when the expense type is not personal or household.
	ErrInvalidExpenseType = errors.New("invalid expense type")

	// ErrInvalidTransactionDate is returned when the transaction date cannot be parsed.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrInvalidGrandTotal is returned when the grand total is absent or negative.
	ErrInvalidGrandTotal = errors.New("grand total must be present and non-negative")

	// ErrCategoryRequired is returned when a transaction would be left without a category.
	ErrCategoryRequired = errors.New("category is required")

	// ErrCategoryNotFoundForTransaction is returned when the referenced category does not exist.
	ErrCategoryNotFoundForTransaction = errors.New("category not found")

	// ErrMerchantNameRequired is returned when a manual entry has no merchant.
	ErrMerchantNameRequired = errors.New("merchant name is required")

	// ErrMerchantNameTooLong is returned when the merchant name exceeds the maximum length.
	ErrMerchantNameTooLong = errors.New("merchant name too long")

	// ErrDeleteNotConfirmed is returned when a delete arrives without explicit confirmation.
	ErrDeleteNotConfirmed = errors.New("delete requires confirmation")

	// ErrUnsupportedImageType is returned when an upload is not a supported image.
	ErrUnsupportedImageType = errors.New("unsupported image type")

	// ErrImageTooLarge is returned when an upload exceeds the size limit.
	ErrImageTooLarge = errors.New("image too large")

	// ErrEmptyUpload is returned when an upload has no content.
	ErrEmptyUpload = errors.New("upload is empty")

	// ErrInvalidLifecycleTransition is returned when a transaction cannot move to the requested state.
	ErrInvalidLifecycleTransition = errors.New("invalid lifecycle transition")

	// ErrReceiptExtractionFailed is returned when the extraction collaborator fails.
	ErrReceiptExtractionFailed = errors.New("receipt extraction failed")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidExpenseType       TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionDate   TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidGrandTotal        TransactionErrorCode = "TXN-010003"
	ErrCodeCategoryRequired         TransactionErrorCode = "TXN-010004"
	ErrCodeMerchantNameRequired     TransactionErrorCode = "TXN-010005"
	ErrCodeMerchantNameTooLong      TransactionErrorCode = "TXN-010006"
	ErrCodeUnsupportedImageType     TransactionErrorCode = "TXN-010007"
	ErrCodeImageTooLarge            TransactionErrorCode = "TXN-010008"
	ErrCodeEmptyUpload              TransactionErrorCode = "TXN-010009"
	ErrCodeDeleteNotConfirmed       TransactionErrorCode = "TXN-010010"
	ErrCodeMissingTransactionFields TransactionErrorCode = "TXN-010011"
	ErrCodeInvalidTransition        TransactionErrorCode = "TXN-010012"

	// Lookup errors (02XXXX)
	ErrCodeTransactionNotFound TransactionErrorCode = "TXN-020001"
	ErrCodeTxnCategoryNotFound TransactionErrorCode = "TXN-020002"

	// Collaborator errors (03XXXX)
	ErrCodeReceiptExtractionFailed TransactionErrorCode = "TXN-030001"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// Kind implements Kinded.
func (e *TransactionError) Kind() Kind {
	switch e.Code {
	case ErrCodeTransactionNotFound, ErrCodeTxnCategoryNotFound:
		return KindNotFound
	case ErrCodeReceiptExtractionFailed:
		return KindTransport
	default:
		return KindValidation
	}
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
