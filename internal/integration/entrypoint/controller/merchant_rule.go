package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/internal/application/usecase/merchantrule"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

// MerchantRuleController handles merchant rule endpoints.
type MerchantRuleController struct {
	listUseCase   *merchantrule.ListMerchantRulesUseCase
	createUseCase *merchantrule.CreateMerchantRuleUseCase
	deleteUseCase *merchantrule.DeleteMerchantRuleUseCase
	matchUseCase  *merchantrule.MatchMerchantUseCase
}

// NewMerchantRuleController creates a new merchant rule controller instance.
func NewMerchantRuleController(
	listUseCase *merchantrule.ListMerchantRulesUseCase,
	createUseCase *merchantrule.CreateMerchantRuleUseCase,
	deleteUseCase *merchantrule.DeleteMerchantRuleUseCase,
	matchUseCase *merchantrule.MatchMerchantUseCase,
) *MerchantRuleController {
	return &MerchantRuleController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		deleteUseCase: deleteUseCase,
		matchUseCase:  matchUseCase,
	}
}

// List handles GET /merchant-rules requests.
func (c *MerchantRuleController) List(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context())
	if err != nil {
		handleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToMerchantRuleListResponse(output.Rules))
}

// Create handles POST /merchant-rules requests.
func (c *MerchantRuleController) Create(ctx *gin.Context) {
	var req dto.CreateMerchantRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", err)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), merchantrule.CreateMerchantRuleInput{
		Pattern:      req.Pattern,
		CategorySlug: req.CategorySlug,
		Confidence:   req.Confidence,
		Priority:     req.Priority,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToMerchantRuleResponse(output.Rule))
}

// Delete handles DELETE /merchant-rules/:id requests.
func (c *MerchantRuleController) Delete(ctx *gin.Context) {
	ruleID, ok := parseIDParam(ctx, "rule")
	if !ok {
		return
	}

	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), merchantrule.DeleteMerchantRuleInput{
		RuleID: ruleID,
	}); err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Match handles GET /merchant-rules/match?merchant= requests.
// It reports which rule, if any, would categorize the merchant.
func (c *MerchantRuleController) Match(ctx *gin.Context) {
	output, err := c.matchUseCase.Execute(ctx.Request.Context(), merchantrule.MatchMerchantInput{
		MerchantName: ctx.Query("merchant"),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	resp := dto.MerchantRuleMatchResponse{Matched: output.Rule != nil}
	if output.Rule != nil {
		rule := dto.ToMerchantRuleResponse(output.Rule)
		resp.Rule = &rule
	}
	ctx.JSON(http.StatusOK, resp)
}
