// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// handleError writes the error response for a failed use case.
func handleError(ctx *gin.Context, err error) {
	var (
		txnErr    *domainerror.TransactionError
		catErr    *domainerror.CategoryError
		budgetErr *domainerror.BudgetError
		ruleErr   *domainerror.MerchantRuleError
	)

	switch {
	case errors.As(err, &txnErr):
		writeError(ctx, getStatusCodeForKind(txnErr.Kind()), txnErr.Message, string(txnErr.Code))
	case errors.As(err, &catErr):
		writeError(ctx, getStatusCodeForKind(catErr.Kind()), catErr.Message, string(catErr.Code))
	case errors.As(err, &budgetErr):
		writeError(ctx, getStatusCodeForKind(budgetErr.Kind()), budgetErr.Message, string(budgetErr.Code))
	case errors.As(err, &ruleErr):
		writeError(ctx, getStatusCodeForKind(ruleErr.Kind()), ruleErr.Message, string(ruleErr.Code))
	default:
		kind := domainerror.KindOf(err)
		if kind == domainerror.KindInternal {
			slog.Error("Request failed", "method", ctx.Request.Method, "path", ctx.FullPath(), "error", err)
			writeError(ctx, http.StatusInternalServerError, "An internal error occurred", "")
			return
		}
		writeError(ctx, getStatusCodeForKind(kind), err.Error(), "")
	}
}

// getStatusCodeForKind maps error kinds to HTTP status codes.
func getStatusCodeForKind(kind domainerror.Kind) int {
	switch kind {
	case domainerror.KindValidation:
		return http.StatusBadRequest
	case domainerror.KindConflict:
		return http.StatusConflict
	case domainerror.KindNotFound:
		return http.StatusNotFound
	case domainerror.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx *gin.Context, status int, message, code string) {
	ctx.JSON(status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func badRequest(ctx *gin.Context, message string, err error) {
	resp := dto.ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	ctx.JSON(http.StatusBadRequest, resp)
}

func parseIDParam(ctx *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		badRequest(ctx, "Invalid "+what+" ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}
