// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/config"
	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/application/usecase/budget"
	"github.com/budget-tracker/backend/internal/application/usecase/category"
	"github.com/budget-tracker/backend/internal/application/usecase/merchantrule"
	"github.com/budget-tracker/backend/internal/application/usecase/transaction"
	"github.com/budget-tracker/backend/internal/infra/server/router"
	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/cache"
	"github.com/budget-tracker/backend/internal/integration/email"
	"github.com/budget-tracker/backend/internal/integration/email/templates"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/budget-tracker/backend/internal/integration/persistence"
	"github.com/budget-tracker/backend/internal/integration/storage"
)

// Overrides replaces external collaborators. Nil fields use the configured defaults.
type Overrides struct {
	Clock       adapter.Clock
	Redis       *redis.Client
	Extractor   adapter.ReceiptExtractor
	EmailSender adapter.EmailSender
	DBHealth    func() bool
}

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Router      *router.Router
	EmailWorker *email.Worker
	RateLimiter *middleware.RateLimiter

	seedCategories *category.SeedDefaultCategoriesUseCase
	seedRules      *merchantrule.SeedDefaultRulesUseCase
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, overrides Overrides) (*Injector, error) {
	clock := overrides.Clock
	if clock == nil {
		clock = adapter.SystemClock{}
	}

	// Repositories
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	budgetRepo := persistence.NewBudgetRepository(db)
	ruleRepo := persistence.NewMerchantRuleRepository(db)
	alertOutbox := persistence.NewAlertOutboxRepository(db)

	// Adapters
	summaryCache := adapter.SummaryCache(cache.NewNoopSummaryCache())
	var cacheHealth func() bool
	if overrides.Redis != nil {
		summaryCache = cache.NewRedisSummaryCache(overrides.Redis, cfg.Redis.SummaryTTL)
		cacheHealth = cache.HealthCheck(overrides.Redis)
	}

	extractor := overrides.Extractor
	if extractor == nil {
		extractor = adapters.NewGeminiExtractor(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	}
	if !extractor.IsAvailable() {
		slog.Warn("Receipt extractor not configured, uploads will need manual review")
	}

	imageStore, err := storage.NewLocalImageStore(cfg.Receipts.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create image store: %w", err)
	}

	sender := overrides.EmailSender
	if sender == nil {
		if cfg.Email.ResendAPIKey != "" {
			resendClient, err := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.ResendBaseURL, cfg.Email.FromName, cfg.Email.FromEmail)
			if err != nil {
				return nil, err
			}
			sender = resendClient
		} else {
			slog.Warn("RESEND_API_KEY not set, alert emails are recorded but not delivered")
			sender = email.NewMockEmailSender()
		}
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	alertNotifier := email.NewNotifier(alertOutbox, clock)
	emailWorker := email.NewWorker(alertOutbox, sender, renderer, clock, email.WorkerConfig{
		PollInterval:  cfg.Email.PollInterval,
		BatchSize:     cfg.Email.BatchSize,
		RetentionDays: cfg.Email.RetentionDays,
	})

	// Budget use cases
	getMonthSummaryUseCase := budget.NewGetMonthSummaryUseCase(categoryRepo, budgetRepo, transactionRepo, summaryCache)
	setCategoryBudgetUseCase := budget.NewSetCategoryBudgetUseCase(categoryRepo, budgetRepo, summaryCache, clock)
	checkBudgetAlertsUseCase := budget.NewCheckBudgetAlertsUseCase(getMonthSummaryUseCase, alertNotifier, summaryCache, cfg.Email.AlertRecipient)

	// Category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo, summaryCache)
	updateCategoryUseCase := category.NewUpdateCategoryUseCase(categoryRepo, summaryCache)
	deactivateCategoryUseCase := category.NewDeactivateCategoryUseCase(categoryRepo, summaryCache)

	// Merchant rule use cases
	listRulesUseCase := merchantrule.NewListMerchantRulesUseCase(ruleRepo)
	createRuleUseCase := merchantrule.NewCreateMerchantRuleUseCase(ruleRepo, categoryRepo)
	deleteRuleUseCase := merchantrule.NewDeleteMerchantRuleUseCase(ruleRepo)
	matchMerchantUseCase := merchantrule.NewMatchMerchantUseCase(ruleRepo)

	// Transaction use cases
	threshold := cfg.Receipts.ConfidenceThreshold
	categorizer := transaction.NewCategorizer(ruleRepo, categoryRepo, extractor)
	uploadUseCase := transaction.NewUploadReceiptUseCase(
		transactionRepo, imageStore, extractor, categorizer,
		summaryCache, checkBudgetAlertsUseCase, clock,
		threshold, int(cfg.Receipts.MaxUploadBytes()),
	)
	manualUseCase := transaction.NewCreateManualTransactionUseCase(transactionRepo, categoryRepo, summaryCache, checkBudgetAlertsUseCase, clock)
	getTransactionUseCase := transaction.NewGetTransactionUseCase(transactionRepo)
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, categoryRepo, summaryCache, checkBudgetAlertsUseCase, clock, threshold)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo, imageStore, summaryCache)

	// Controllers
	dbHealth := overrides.DBHealth
	if dbHealth == nil {
		dbHealth = func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		}
	}
	healthController := controller.NewHealthController(dbHealth, cacheHealth, extractor.IsAvailable)

	categoryController := controller.NewCategoryController(
		listCategoriesUseCase,
		createCategoryUseCase,
		updateCategoryUseCase,
		deactivateCategoryUseCase,
	)

	transactionController := controller.NewTransactionController(
		uploadUseCase,
		manualUseCase,
		getTransactionUseCase,
		listTransactionsUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
		cfg.Receipts.MaxUploadBytes(),
	)

	budgetController := controller.NewBudgetController(getMonthSummaryUseCase, setCategoryBudgetUseCase, clock)

	merchantRuleController := controller.NewMerchantRuleController(
		listRulesUseCase,
		createRuleUseCase,
		deleteRuleUseCase,
		matchMerchantUseCase,
	)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}

	r := router.NewRouter(
		healthController,
		categoryController,
		transactionController,
		budgetController,
		merchantRuleController,
		rateLimiter,
		cfg.Receipts.UploadDir,
	)

	return &Injector{
		Config:         cfg,
		DB:             db,
		Router:         r,
		EmailWorker:    emailWorker,
		RateLimiter:    rateLimiter,
		seedCategories: category.NewSeedDefaultCategoriesUseCase(categoryRepo),
		seedRules:      merchantrule.NewSeedDefaultRulesUseCase(ruleRepo),
	}, nil
}

// Seed inserts the default categories and merchant rules into empty tables.
func (i *Injector) Seed(ctx context.Context) error {
	categories, err := i.seedCategories.Execute(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	rules, err := i.seedRules.Execute(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed merchant rules: %w", err)
	}
	if categories.Created > 0 || rules.Created > 0 {
		slog.Info("Seeded defaults", "categories", categories.Created, "merchant_rules", rules.Created)
	}
	return nil
}
