package controller

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/usecase/transaction"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// TransactionController handles receipt endpoints.
type TransactionController struct {
	uploadUseCase  *transaction.UploadReceiptUseCase
	manualUseCase  *transaction.CreateManualTransactionUseCase
	getUseCase     *transaction.GetTransactionUseCase
	listUseCase    *transaction.ListTransactionsUseCase
	updateUseCase  *transaction.UpdateTransactionUseCase
	deleteUseCase  *transaction.DeleteTransactionUseCase
	maxUploadBytes int64
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	uploadUseCase *transaction.UploadReceiptUseCase,
	manualUseCase *transaction.CreateManualTransactionUseCase,
	getUseCase *transaction.GetTransactionUseCase,
	listUseCase *transaction.ListTransactionsUseCase,
	updateUseCase *transaction.UpdateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
	maxUploadBytes int64,
) *TransactionController {
	if maxUploadBytes <= 0 {
		maxUploadBytes = transaction.DefaultMaxUploadBytes
	}
	return &TransactionController{
		uploadUseCase:  uploadUseCase,
		manualUseCase:  manualUseCase,
		getUseCase:     getUseCase,
		listUseCase:    listUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload handles POST /receipts/upload requests (multipart field "file").
func (c *TransactionController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		badRequest(ctx, "A receipt image is required in the \"file\" field", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequest(ctx, "Could not read uploaded file", err)
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the use case to reject it.
	data, err := io.ReadAll(io.LimitReader(file, c.maxUploadBytes+1))
	if err != nil {
		badRequest(ctx, "Could not read uploaded file", err)
		return
	}

	output, err := c.uploadUseCase.Execute(ctx.Request.Context(), transaction.UploadReceiptInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToUploadReceiptResponse(output))
}

// CreateManual handles POST /receipts/manual requests.
func (c *TransactionController) CreateManual(ctx *gin.Context) {
	var req dto.ManualTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	output, err := c.manualUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(output.Transaction))
}

// List handles GET /receipts requests.
func (c *TransactionController) List(ctx *gin.Context) {
	var input transaction.ListTransactionsInput

	if categoryIDStr := ctx.Query("categoryId"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			badRequest(ctx, "Invalid category ID format", nil)
			return
		}
		input.CategoryID = &categoryID
	}

	if monthStr := ctx.Query("month"); monthStr != "" {
		month, err := valueobject.ParseMonth(monthStr)
		if err != nil {
			badRequest(ctx, "Invalid month, expected YYYY-MM", nil)
			return
		}
		input.Month = &month
	}

	var ok bool
	if input.Limit, ok = queryInt(ctx, "limit"); !ok {
		return
	}
	if input.Offset, ok = queryInt(ctx, "offset"); !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// Get handles GET /receipts/:id requests.
func (c *TransactionController) Get(ctx *gin.Context) {
	transactionID, ok := parseIDParam(ctx, "receipt")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), transaction.GetTransactionInput{
		TransactionID: transactionID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// Update handles PATCH /receipts/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	transactionID, ok := parseIDParam(ctx, "receipt")
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), transaction.UpdateTransactionInput{
		TransactionID: transactionID,
		Patch:         patch,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(output.Transaction))
}

// Delete handles DELETE /receipts/:id?confirm=true requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	transactionID, ok := parseIDParam(ctx, "receipt")
	if !ok {
		return
	}

	confirmed, _ := strconv.ParseBool(ctx.Query("confirm"))

	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), transaction.DeleteTransactionInput{
		TransactionID: transactionID,
		Confirmed:     confirmed,
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func queryInt(ctx *gin.Context, key string) (int, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badRequest(ctx, fmt.Sprintf("Invalid %s, expected a non-negative integer", key), nil)
		return 0, false
	}
	return n, true
}
