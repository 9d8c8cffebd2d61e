package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// A tiny valid PNG header is enough for content sniffing and storage.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func registerSetupSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Given(`^the API server is running$`, t.theAPIServerIsRunning)
	ctx.Given(`^the current date is "([^"]*)"$`, t.theCurrentDateIs)
	ctx.Given(`^the default categories are seeded$`, t.theDefaultCategoriesAreSeeded)
	ctx.Given(`^a category "([^"]*)" exists$`, t.aCategoryExists)
	ctx.Given(`^an inactive category "([^"]*)" exists$`, t.anInactiveCategoryExists)
	ctx.Given(`^the category "([^"]*)" has a monthly limit of "([^"]*)" for "([^"]*)"$`, t.theCategoryHasAMonthlyLimitFor)
	ctx.Given(`^a receipt of "([^"]*)" from "([^"]*)" in "([^"]*)" on "([^"]*)"$`, t.aReceiptExists)
	ctx.Given(`^the receipt extractor reads:$`, t.theReceiptExtractorReads)
	ctx.Given(`^the receipt extractor suggests "([^"]*)" with confidence ([0-9.]+)$`, t.theReceiptExtractorSuggests)
	ctx.Given(`^the receipt extractor is unavailable$`, t.theReceiptExtractorIsUnavailable)
	ctx.Given(`^the receipt extractor fails$`, t.theReceiptExtractorFails)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, t.theHeaderContainsTheKeyWith)
}

func registerRequestSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, t.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, t.iSendARequestToWithBody)
	ctx.When(`^I upload the receipt image "([^"]*)"$`, t.iUploadTheReceiptImage)
}

func registerResponseSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Then(`^the response status should be (\d+)$`, t.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, t.theResponseShouldBeJSON)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, t.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, t.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items?$`, t.theResponseFieldShouldHaveItems)
	ctx.Then(`^the response header "([^"]*)" should be "([^"]*)"$`, t.theResponseHeaderShouldBe)
}

func registerDatabaseSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, t.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, t.theDbShouldContainObjectsInWithTheValues)
}

func registerSideEffectSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.When(`^the email worker runs$`, t.theEmailWorkerRuns)
	ctx.Then(`^(\d+) emails? should have been sent to "([^"]*)"$`, t.emailsShouldHaveBeenSentTo)
	ctx.Then(`^the receipt extractor should have been called (\d+) times?$`, t.theReceiptExtractorShouldHaveBeenCalled)
	ctx.Then(`^the upload directory should contain (\d+) files?$`, t.theUploadDirectoryShouldContainFiles)
}

// Setup

func (t *testContext) theAPIServerIsRunning() error {
	if t.server == nil {
		return errors.New("test server is not running")
	}
	resp, err := t.client.Get(t.server.URL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (t *testContext) theCurrentDateIs(date string) error {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return err
	}
	t.clock.SetCurrentTime(day.Add(12 * time.Hour))
	return nil
}

func (t *testContext) theDefaultCategoriesAreSeeded() error {
	return t.injector.Seed(context.Background())
}

func (t *testContext) aCategoryExists(name string) error {
	return t.createCategory(name, true)
}

func (t *testContext) anInactiveCategoryExists(name string) error {
	return t.createCategory(name, false)
}

func (t *testContext) createCategory(name string, active bool) error {
	var count int64
	if err := t.db.DbConn.Model(&model.CategoryModel{}).Count(&count).Error; err != nil {
		return err
	}
	category := entity.NewCategory(name, nil, int(count)+1)
	category.IsActive = active
	return t.db.DbConn.Create(model.CategoryFromEntity(category)).Error
}

func (t *testContext) categoryBySlug(slug string) (*model.CategoryModel, error) {
	var category model.CategoryModel
	if err := t.db.DbConn.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, fmt.Errorf("category %q: %w", slug, err)
	}
	return &category, nil
}

func (t *testContext) theCategoryHasAMonthlyLimitFor(slug, limit, month string) error {
	category, err := t.categoryBySlug(slug)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(limit)
	if err != nil {
		return err
	}
	m, err := valueobject.ParseMonth(month)
	if err != nil {
		return err
	}
	return t.db.DbConn.Create(model.MonthlyBudgetFromEntity(entity.NewMonthlyBudget(category.ID, m, amount))).Error
}

func (t *testContext) aReceiptExists(total, merchant, slug, date string) error {
	category, err := t.categoryBySlug(slug)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return err
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return err
	}
	txn := entity.NewManualTransaction(merchant, amount, category.ID, day, entity.ExpenseTypePersonal)
	t.lastTransactionID = txn.ID.String()
	return t.db.DbConn.Create(model.TransactionFromEntity(txn)).Error
}

type extractedFields struct {
	MerchantName    *string          `json:"merchant_name"`
	TransactionDate *string          `json:"transaction_date"`
	GrandTotal      *decimal.Decimal `json:"grand_total"`
}

func (t *testContext) theReceiptExtractorReads(content *godog.DocString) error {
	var fields extractedFields
	if err := json.Unmarshal([]byte(content.Content), &fields); err != nil {
		return err
	}
	receipt := &adapter.ExtractedReceipt{
		MerchantName: fields.MerchantName,
		GrandTotal:   fields.GrandTotal,
	}
	if fields.TransactionDate != nil {
		day, err := time.Parse("2006-01-02", *fields.TransactionDate)
		if err != nil {
			return err
		}
		receipt.TransactionDate = &day
	}
	t.extractor.SetReceipt(receipt)
	return nil
}

func (t *testContext) theReceiptExtractorSuggests(slug string, confidence float64) error {
	t.extractor.SetSuggestion(slug, confidence)
	return nil
}

func (t *testContext) theReceiptExtractorIsUnavailable() error {
	t.extractor.SetAvailable(false)
	return nil
}

func (t *testContext) theReceiptExtractorFails() error {
	t.extractor.SetError(errors.New("model overloaded"))
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

// Requests

var categoryPlaceholder = regexp.MustCompile(`\{\{category:([a-z0-9-]+)\}\}`)

func (t *testContext) replacePlaceholders(content string) (string, error) {
	content = strings.ReplaceAll(content, "{{transaction_id}}", t.lastTransactionID)

	var lookupErr error
	content = categoryPlaceholder.ReplaceAllStringFunc(content, func(match string) string {
		slug := categoryPlaceholder.FindStringSubmatch(match)[1]
		category, err := t.categoryBySlug(slug)
		if err != nil {
			lookupErr = err
			return match
		}
		return category.ID.String()
	})
	return content, lookupErr
}

func (t *testContext) iSendARequestTo(method, path string) error {
	path, err := t.replacePlaceholders(path)
	if err != nil {
		return err
	}
	return t.executeRequest(method, path, "application/json", nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	path, err := t.replacePlaceholders(path)
	if err != nil {
		return err
	}
	content, err := t.replacePlaceholders(body.Content)
	if err != nil {
		return err
	}
	return t.executeRequest(method, path, "application/json", []byte(content))
}

func (t *testContext) iUploadTheReceiptImage(filename string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := part.Write(pngBytes); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return t.executeRequest(http.MethodPost, "/api/v1/receipts/upload", writer.FormDataContentType(), buf.Bytes())
}

func (t *testContext) executeRequest(method, path, contentType string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, t.server.URL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode, headers: resp.Header}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.response.body = string(raw)
		return nil
	}
	t.response.body = decoded

	if id := transactionID(decoded); id != "" {
		t.lastTransactionID = id
	}
	return nil
}

// transactionID finds the id of a transaction in a receipt response.
func transactionID(body map[string]any) string {
	if txn, ok := body["transaction"].(map[string]any); ok {
		body = txn
	}
	if _, ok := body["source"]; !ok {
		return ""
	}
	id, _ := body["id"].(string)
	return id
}

// Responses

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) responseField(field string) (any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	value := getFieldValue(body, field)
	if value == nil {
		return nil, fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return value, nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	value, err := t.responseField(field)
	if err != nil {
		return err
	}
	if actual := fmt.Sprintf("%v", value); actual != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actual)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	_, err := t.responseField(field)
	return err
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, count int) error {
	value, err := t.responseField(field)
	if err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, value)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, count, len(items))
	}
	return nil
}

func (t *testContext) theResponseHeaderShouldBe(header, expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if actual := t.response.headers.Get(header); actual != expected {
		return fmt.Errorf("header '%s' expected '%s', got '%s'", header, expected, actual)
	}
	return nil
}

func getFieldValue(object map[string]any, dotSeparatedField string) any {
	var field any = object
	for _, part := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}
		if i, err := strconv.Atoi(part); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}
		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[part]
	}
	return field
}

// Database

func (t *testContext) countRows(table string, criteria map[string]any) (int, error) {
	tableModel, ok := t.db.GetModel(table)
	if !ok {
		return 0, fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(tableModel).Elem()
	rows := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}
	if err := query.Find(rows.Interface()).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	return rows.Elem().Len(), nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	count, err := t.countRows(table, nil)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(content.Content), &criteria); err != nil {
		return err
	}
	count, err := t.countRows(table, criteria)
	if err != nil {
		return err
	}
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

// Side effects

func (t *testContext) theEmailWorkerRuns() error {
	t.injector.EmailWorker.ProcessNow(context.Background())
	return nil
}

func (t *testContext) emailsShouldHaveBeenSentTo(quantity int, recipient string) error {
	sent := 0
	for _, req := range t.resend.Requests(http.MethodPost, "/emails") {
		to, _ := req["to"].([]any)
		for _, addr := range to {
			if addr == recipient {
				sent++
			}
		}
	}
	if sent != quantity {
		return fmt.Errorf("expected %d emails to %s, got %d", quantity, recipient, sent)
	}
	return nil
}

func (t *testContext) theReceiptExtractorShouldHaveBeenCalled(times int) error {
	if calls := t.extractor.Calls(); calls != times {
		return fmt.Errorf("expected %d extractor calls, got %d", times, calls)
	}
	return nil
}

func (t *testContext) theUploadDirectoryShouldContainFiles(quantity int) error {
	entries, err := os.ReadDir(t.uploadDir)
	if err != nil {
		return err
	}
	files := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			files++
		}
	}
	if files != quantity {
		return fmt.Errorf("expected %d files in the upload directory, got %d", quantity, files)
	}
	return nil
}
