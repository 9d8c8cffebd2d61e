// Package api is the HTTP client for the budget tracker server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/client/navigation"
	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/entrypoint/dto"
)

const apiPrefix = "/api/v1"

// Client talks to the server over HTTP. It implements navigation.Backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ navigation.Backend = (*Client)(nil)

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchCategories lists categories, optionally including deactivated ones.
func (c *Client) FetchCategories(ctx context.Context, includeInactive bool) ([]*entity.Category, error) {
	q := url.Values{}
	if includeInactive {
		q.Set("includeInactive", "true")
	}

	var resp dto.CategoryListResponse
	if err := c.do(ctx, http.MethodGet, "/categories", q, nil, &resp); err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, 0, len(resp.Categories))
	for _, item := range resp.Categories {
		cat, err := toCategory(item)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

// FetchMonthSummary fetches the dashboard numbers for a month.
func (c *Client) FetchMonthSummary(ctx context.Context, month valueobject.Month) (*entity.MonthSummary, error) {
	q := url.Values{}
	q.Set("month", month.String())

	var resp dto.MonthSummaryResponse
	if err := c.do(ctx, http.MethodGet, "/budget/summary", q, nil, &resp); err != nil {
		return nil, err
	}
	return toMonthSummary(resp)
}

// FetchTransactionsByCategory lists a category's receipts, newest first.
func (c *Client) FetchTransactionsByCategory(
	ctx context.Context,
	categoryID uuid.UUID,
	month *valueobject.Month,
	limit int,
) ([]*entity.Transaction, error) {
	q := url.Values{}
	q.Set("categoryId", categoryID.String())
	if month != nil {
		q.Set("month", month.String())
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var resp dto.TransactionListResponse
	if err := c.do(ctx, http.MethodGet, "/receipts", q, nil, &resp); err != nil {
		return nil, err
	}
	return toTransactions(resp.Transactions)
}

// CreateTransactionFromUpload uploads a receipt image.
func (c *Client) CreateTransactionFromUpload(
	ctx context.Context,
	filename, contentType string,
	data []byte,
) (*entity.Transaction, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	var resp dto.UploadReceiptResponse
	if err := c.send(ctx, http.MethodPost, "/receipts/upload", nil, &body, writer.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return toTransaction(resp.Transaction)
}

// CreateManualTransaction records a hand-entered receipt.
func (c *Client) CreateManualTransaction(ctx context.Context, fields navigation.ManualFields) (*entity.Transaction, error) {
	req := dto.ManualTransactionRequest{
		MerchantName: fields.MerchantName,
		GrandTotal:   fields.GrandTotal,
		ExpenseType:  string(fields.ExpenseType),
	}
	if fields.CategoryID != nil {
		id := fields.CategoryID.String()
		req.CategoryID = &id
	}
	if fields.TransactionDate != nil {
		date := fields.TransactionDate.Format(dto.DateLayout)
		req.TransactionDate = &date
	}

	var resp dto.TransactionResponse
	if err := c.do(ctx, http.MethodPost, "/receipts/manual", nil, req, &resp); err != nil {
		return nil, err
	}
	return toTransaction(resp)
}

// UpdateTransaction sends a sparse patch.
func (c *Client) UpdateTransaction(ctx context.Context, id uuid.UUID, patch entity.TransactionPatch) (*entity.Transaction, error) {
	var resp dto.TransactionResponse
	if err := c.do(ctx, http.MethodPatch, "/receipts/"+id.String(), nil, dto.FromPatch(patch), &resp); err != nil {
		return nil, err
	}
	return toTransaction(resp)
}

// DeleteTransaction removes a receipt. The caller has already confirmed.
func (c *Client) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	q := url.Values{}
	q.Set("confirm", "true")
	return c.do(ctx, http.MethodDelete, "/receipts/"+id.String(), q, nil, nil)
}

// CreateCategory creates a category. The server derives the slug again and
// rejects a mismatch.
func (c *Client) CreateCategory(ctx context.Context, name, slug string, sortOrder int) (*entity.Category, error) {
	req := dto.CreateCategoryRequest{Name: name, Slug: slug, SortOrder: sortOrder}

	var resp dto.CategoryResponse
	if err := c.do(ctx, http.MethodPost, "/categories", nil, req, &resp); err != nil {
		return nil, err
	}
	return toCategory(resp)
}

// UpdateCategory renames or reorders a category.
func (c *Client) UpdateCategory(ctx context.Context, id uuid.UUID, patch navigation.CategoryPatch) (*entity.Category, error) {
	req := dto.UpdateCategoryRequest{Name: patch.Name, Icon: patch.Icon, SortOrder: patch.SortOrder}

	var resp dto.CategoryResponse
	if err := c.do(ctx, http.MethodPatch, "/categories/"+id.String(), nil, req, &resp); err != nil {
		return nil, err
	}
	return toCategory(resp)
}

// DeactivateCategory hides a category.
func (c *Client) DeactivateCategory(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id.String(), nil, nil, nil)
}

// SetCategoryBudget sets the limit of one category for one month.
func (c *Client) SetCategoryBudget(ctx context.Context, categoryID uuid.UUID, month valueobject.Month, limit decimal.Decimal) error {
	year, m := month.Year, int(month.Month)
	req := dto.SetBudgetRequest{
		CategoryID:   categoryID.String(),
		Year:         &year,
		Month:        &m,
		MonthlyLimit: &limit,
	}
	return c.do(ctx, http.MethodPut, "/budget", nil, req, nil)
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError("health", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, query, body, contentType, out)
}

func (c *Client) send(
	ctx context.Context,
	method, path string,
	query url.Values,
	body io.Reader,
	contentType string,
	out any,
) error {
	target := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(method+" "+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportError("decode "+path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{
		ErrorKind: KindForStatus(resp.StatusCode),
		Status:    resp.StatusCode,
		Message:   http.StatusText(resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		if !errors.Is(err, io.EOF) && len(raw) > 0 {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if body.Error != "" {
		apiErr.Message = body.Error
	}
	apiErr.Code = body.Code
	return apiErr
}
