// Package router sets up the HTTP routing for the application.
package router

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/budget-tracker/backend/internal/integration/storage"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                 *gin.Engine
	healthController       *controller.HealthController
	categoryController     *controller.CategoryController
	transactionController  *controller.TransactionController
	budgetController       *controller.BudgetController
	merchantRuleController *controller.MerchantRuleController
	uploadRateLimiter      *middleware.RateLimiter
	uploadDir              string
}

// NewRouter creates a new router instance with all dependencies.
// uploadRateLimiter may be nil to disable upload throttling.
func NewRouter(
	healthController *controller.HealthController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	budgetController *controller.BudgetController,
	merchantRuleController *controller.MerchantRuleController,
	uploadRateLimiter *middleware.RateLimiter,
	uploadDir string,
) *Router {
	return &Router{
		healthController:       healthController,
		categoryController:     categoryController,
		transactionController:  transactionController,
		budgetController:       budgetController,
		merchantRuleController: merchantRuleController,
		uploadRateLimiter:      uploadRateLimiter,
		uploadDir:              uploadDir,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	switch environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery())
	if environment != "test" {
		r.engine.Use(middleware.RequestLogger())
	}

	r.setupHealthRoutes()
	r.setupStaticRoutes()
	r.setupAPIRoutes()

	return r.engine
}

func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

func (r *Router) setupStaticRoutes() {
	if r.uploadDir != "" {
		r.engine.Static(strings.TrimSuffix(storage.URLPrefix, "/"), r.uploadDir)
	}
}

func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	categories := v1.Group("/categories")
	{
		categories.GET("", r.categoryController.List)
		categories.POST("", r.categoryController.Create)
		categories.PATCH("/:id", r.categoryController.Update)
		categories.DELETE("/:id", r.categoryController.Deactivate)
	}

	receipts := v1.Group("/receipts")
	{
		upload := []gin.HandlerFunc{r.transactionController.Upload}
		if r.uploadRateLimiter != nil {
			upload = append([]gin.HandlerFunc{r.uploadRateLimiter.Middleware()}, upload...)
		}
		receipts.POST("/upload", upload...)
		receipts.POST("/manual", r.transactionController.CreateManual)
		receipts.GET("", r.transactionController.List)
		receipts.GET("/:id", r.transactionController.Get)
		receipts.PATCH("/:id", r.transactionController.Update)
		receipts.DELETE("/:id", r.transactionController.Delete)
	}

	budget := v1.Group("/budget")
	{
		budget.GET("/summary", r.budgetController.Summary)
		budget.PUT("", r.budgetController.Set)
	}

	rules := v1.Group("/merchant-rules")
	{
		rules.GET("", r.merchantRuleController.List)
		rules.GET("/match", r.merchantRuleController.Match)
		rules.POST("", r.merchantRuleController.Create)
		rules.DELETE("/:id", r.merchantRuleController.Delete)
	}
}
