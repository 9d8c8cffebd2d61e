// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/budget-tracker/backend/config"
	"github.com/budget-tracker/backend/internal/infra/dependency"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
	"github.com/budget-tracker/backend/test/integration/mock"
)

const alertRecipient = "owner@example.com"

var (
	resendOnce sync.Once
	resendAPI  *mock.ApiMock
)

func resendServer() *mock.ApiMock {
	resendOnce.Do(func() {
		resendAPI = mock.NewApiServer()
		resendAPI.Start()
	})
	return resendAPI
}

// testContext holds the state of one scenario.
type testContext struct {
	server    *httptest.Server
	injector  *dependency.Injector
	client    *http.Client
	db        *mock.Db
	clock     *mock.Time
	extractor *mock.Extractor
	resend    *mock.ApiMock
	uploadDir string

	headers  map[string]string
	response *response

	lastTransactionID string
}

type response struct {
	status  int
	headers http.Header
	body    any
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})

	ctx.AfterSuite(func() {
		if resendAPI != nil {
			resendAPI.Close()
		}
	})
}

// InitializeScenario wires a fresh application for each scenario and registers the steps.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client:    &http.Client{Timeout: 10 * time.Second},
		clock:     mock.NewTime(),
		extractor: mock.NewExtractor(),
		resend:    resendServer(),
		db: mock.NewDb(map[string]any{
			"categories":      &model.CategoryModel{},
			"transactions":    &model.TransactionModel{},
			"monthly_budgets": &model.MonthlyBudgetModel{},
			"merchant_rules":  &model.MerchantRuleModel{},
			"alert_emails":    &model.AlertEmailModel{},
		}),
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		test.after()
		return ctx, nil
	})

	registerSetupSteps(ctx, test)
	registerRequestSteps(ctx, test)
	registerResponseSteps(ctx, test)
	registerDatabaseSteps(ctx, test)
	registerSideEffectSteps(ctx, test)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.lastTransactionID = ""
	t.clock.SetCurrentTime(time.Now())
	t.extractor.Reset()
	t.resend.Reset()
	t.resend.SetResponse(http.MethodPost, "/emails", http.StatusOK, map[string]any{"id": "email_test"})

	if err := t.db.ClearDB(); err != nil {
		return err
	}
	redisClient := mock.NewRedis()
	if err := mock.ClearRedis(redisClient); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}

	uploadDir, err := os.MkdirTemp("", "receipts-*")
	if err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}
	t.uploadDir = uploadDir

	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.Receipts.UploadDir = uploadDir
	cfg.Email.ResendAPIKey = "re_test"
	cfg.Email.ResendBaseURL = t.resend.GetUrl()
	cfg.Email.AlertRecipient = alertRecipient
	cfg.RateLimit.Enabled = false

	injector, err := dependency.NewInjector(cfg, t.db.DbConn, dependency.Overrides{
		Clock:     t.clock,
		Redis:     redisClient,
		Extractor: t.extractor,
	})
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}
	t.injector = injector
	t.server = httptest.NewServer(injector.Router.Setup(cfg.Server.Environment))
	return nil
}

func (t *testContext) after() {
	if t.server != nil {
		t.server.Close()
		t.server = nil
	}
	if t.uploadDir != "" {
		_ = os.RemoveAll(t.uploadDir)
		t.uploadDir = ""
	}
}
