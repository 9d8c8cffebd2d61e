package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/budget"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// BudgetController handles the dashboard summary and monthly limits.
type BudgetController struct {
	summaryUseCase *budget.GetMonthSummaryUseCase
	setUseCase     *budget.SetCategoryBudgetUseCase
	clock          adapter.Clock
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(
	summaryUseCase *budget.GetMonthSummaryUseCase,
	setUseCase *budget.SetCategoryBudgetUseCase,
	clock adapter.Clock,
) *BudgetController {
	return &BudgetController{
		summaryUseCase: summaryUseCase,
		setUseCase:     setUseCase,
		clock:          clock,
	}
}

// Summary handles GET /budget/summary?month=YYYY-MM requests.
// Without a month the current month is summarized.
func (c *BudgetController) Summary(ctx *gin.Context) {
	month := valueobject.MonthOf(c.clock.Now())
	if monthStr := ctx.Query("month"); monthStr != "" {
		parsed, err := valueobject.ParseMonth(monthStr)
		if err != nil {
			writeError(ctx, http.StatusBadRequest, "Invalid month, expected YYYY-MM", string(domainerror.ErrCodeInvalidBudgetMonth))
			return
		}
		month = parsed
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), budget.GetMonthSummaryInput{Month: month})
	if err != nil {
		handleError(ctx, err)
		return
	}

	if output.Cached {
		ctx.Header("X-Cache", "HIT")
	} else {
		ctx.Header("X-Cache", "MISS")
	}
	ctx.JSON(http.StatusOK, dto.ToMonthSummaryResponse(output.Summary))
}

// Set handles PUT /budget requests.
func (c *BudgetController) Set(ctx *gin.Context) {
	var req dto.SetBudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		writeError(ctx, http.StatusBadRequest, "Invalid request body", string(domainerror.ErrCodeMissingBudgetFields))
		return
	}
	if req.MonthlyLimit == nil {
		writeError(ctx, http.StatusBadRequest, "monthly_limit is required", string(domainerror.ErrCodeMissingBudgetFields))
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		badRequest(ctx, "Invalid category ID format", nil)
		return
	}

	input := budget.SetCategoryBudgetInput{
		CategoryID:   categoryID,
		MonthlyLimit: *req.MonthlyLimit,
	}
	if req.Year != nil || req.Month != nil {
		if req.Year == nil || req.Month == nil {
			writeError(ctx, http.StatusBadRequest, "year and month must be given together", string(domainerror.ErrCodeInvalidBudgetMonth))
			return
		}
		month, err := valueobject.NewMonth(*req.Year, *req.Month)
		if err != nil {
			writeError(ctx, http.StatusBadRequest, "Invalid budget month", string(domainerror.ErrCodeInvalidBudgetMonth))
			return
		}
		input.Month = month
	}

	output, err := c.setUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(output.Budget))
}
