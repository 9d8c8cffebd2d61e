package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// DefaultMaxUploadBytes is the default upload size limit (10 MB).
const DefaultMaxUploadBytes = 10 << 20

// allowedImageTypes lists the media types accepted for receipt uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadReceiptInput represents the input for creating a transaction from an image.
type UploadReceiptInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadReceiptOutput represents the output of a receipt upload.
type UploadReceiptOutput struct {
	Transaction *entity.Transaction
	Match       *CategoryMatch
}

// UploadReceiptUseCase stores an image, extracts it and creates a captured transaction.
type UploadReceiptUseCase struct {
	transactionRepo adapter.TransactionRepository
	imageStore      adapter.ImageStore
	extractor       adapter.ReceiptExtractor
	categorizer     *Categorizer
	clock           adapter.Clock
	effects         mutationEffects
	threshold       float64
	maxBytes        int
}

// NewUploadReceiptUseCase creates a new UploadReceiptUseCase instance.
func NewUploadReceiptUseCase(
	transactionRepo adapter.TransactionRepository,
	imageStore adapter.ImageStore,
	extractor adapter.ReceiptExtractor,
	categorizer *Categorizer,
	cache adapter.SummaryCache,
	alerts AlertChecker,
	clock adapter.Clock,
	threshold float64,
	maxBytes int,
) *UploadReceiptUseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadReceiptUseCase{
		transactionRepo: transactionRepo,
		imageStore:      imageStore,
		extractor:       extractor,
		categorizer:     categorizer,
		clock:           clock,
		effects:         mutationEffects{cache: cache, alerts: alerts},
		threshold:       threshold,
		maxBytes:        maxBytes,
	}
}

// Execute performs the upload. With no extractor configured the receipt is kept
// in the captured state for the user to fill in.
func (uc *UploadReceiptUseCase) Execute(ctx context.Context, input UploadReceiptInput) (*UploadReceiptOutput, error) {
	mediaType, err := uc.validate(input)
	if err != nil {
		return nil, err
	}

	imageURL, err := uc.imageStore.Save(ctx, input.Data, mediaType)
	if err != nil {
		return nil, fmt.Errorf("failed to store receipt image: %w", err)
	}

	txn := entity.NewScannedTransaction(imageURL)
	var match *CategoryMatch

	if uc.extractor != nil && uc.extractor.IsAvailable() {
		extracted, err := uc.extractor.Extract(ctx, input.Data, mediaType)
		if err != nil {
			uc.discardImage(ctx, imageURL)
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeReceiptExtractionFailed,
				"could not read receipt",
				fmt.Errorf("%w: %v", domainerror.ErrReceiptExtractionFailed, err),
			)
		}
		applyExtraction(txn, extracted)

		match, err = uc.categorizer.Categorize(ctx, extracted)
		if err != nil {
			uc.discardImage(ctx, imageURL)
			return nil, err
		}
		txn.CategoryID = match.CategoryID
		txn.CategoryConfidence = match.Confidence
	} else {
		slog.Warn("Receipt extractor unavailable, storing receipt for manual review", "image", imageURL)
	}

	txn.ResolveCaptured(uc.threshold, uc.clock.Now())

	if err := uc.transactionRepo.Create(ctx, txn); err != nil {
		uc.discardImage(ctx, imageURL)
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	uc.effects.apply(ctx, true, txn)

	return &UploadReceiptOutput{Transaction: txn, Match: match}, nil
}

func (uc *UploadReceiptUseCase) validate(input UploadReceiptInput) (string, error) {
	if len(input.Data) == 0 {
		return "", domainerror.NewTransactionError(
			domainerror.ErrCodeEmptyUpload,
			"uploaded file is empty",
			domainerror.ErrEmptyUpload,
		)
	}
	if len(input.Data) > uc.maxBytes {
		return "", domainerror.NewTransactionError(
			domainerror.ErrCodeImageTooLarge,
			fmt.Sprintf("image must not exceed %d MB", uc.maxBytes>>20),
			domainerror.ErrImageTooLarge,
		)
	}

	mediaType := input.ContentType
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = http.DetectContentType(input.Data)
	}
	if !allowedImageTypes[mediaType] {
		return "", domainerror.NewTransactionError(
			domainerror.ErrCodeUnsupportedImageType,
			"file must be a JPEG, PNG or WebP image",
			domainerror.ErrUnsupportedImageType,
		)
	}
	return mediaType, nil
}

func (uc *UploadReceiptUseCase) discardImage(ctx context.Context, url string) {
	if err := uc.imageStore.Delete(ctx, url); err != nil {
		slog.Warn("Failed to remove receipt image", "image", url, "error", err)
	}
}

func applyExtraction(txn *entity.Transaction, extracted *adapter.ExtractedReceipt) {
	if extracted == nil {
		return
	}
	txn.MerchantName = extracted.MerchantName
	txn.TransactionDate = extracted.TransactionDate
	txn.Subtotal = extracted.Subtotal
	txn.Tax = extracted.Tax
	txn.Tip = extracted.Tip
	txn.PaymentMethod = extracted.PaymentMethod
	txn.LineItems = extracted.LineItems
	if extracted.GrandTotal != nil && !extracted.GrandTotal.IsNegative() {
		txn.GrandTotal = extracted.GrandTotal
	}
}
