// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-2.5-flash-lite"

const extractionPrompt = `Extract data from this receipt image. Return ONLY valid JSON with this structure:
{
  "merchant_name": "string or null",
  "transaction_date": "YYYY-MM-DD or null",
  "subtotal": number or null,
  "tax": number or null,
  "tip": number or null,
  "grand_total": number,
  "payment_method": "string or null",
  "line_items": [
    {"description": "string", "quantity": number, "total_price": number}
  ]
}

If a field is unclear, use null. grand_total is required: estimate it from the visible totals if needed.`

// GeminiExtractor implements adapter.ReceiptExtractor using Google Gemini vision.
type GeminiExtractor struct {
	apiKey    string
	modelName string
}

// NewGeminiExtractor creates a new Gemini extractor. An empty apiKey leaves it unavailable.
func NewGeminiExtractor(apiKey, modelName string) *GeminiExtractor {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiExtractor{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the extractor is properly configured.
func (g *GeminiExtractor) IsAvailable() bool {
	return g.apiKey != ""
}

// Extract reads structured receipt fields from an image.
func (g *GeminiExtractor) Extract(ctx context.Context, image []byte, mediaType string) (*adapter.ExtractedReceipt, error) {
	text, err := g.generate(ctx, 0.1,
		genai.ImageData(strings.TrimPrefix(mediaType, "image/"), image),
		genai.Text(extractionPrompt),
	)
	if err != nil {
		return nil, err
	}
	return parseExtraction(text)
}

// SuggestCategory asks Gemini to pick one of the available slugs.
func (g *GeminiExtractor) SuggestCategory(ctx context.Context, receipt *adapter.ExtractedReceipt, availableSlugs []string) (*adapter.CategorySuggestion, error) {
	text, err := g.generate(ctx, 0.2, genai.Text(buildSuggestionPrompt(receipt, availableSlugs)))
	if err != nil {
		return nil, err
	}
	return parseSuggestion(text)
}

func (g *GeminiExtractor) generate(ctx context.Context, temperature float32, parts ...genai.Part) (string, error) {
	if !g.IsAvailable() {
		return "", fmt.Errorf("gemini extractor is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.modelName)
	model.SetTemperature(temperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp)
}

func buildSuggestionPrompt(receipt *adapter.ExtractedReceipt, availableSlugs []string) string {
	merchant := "Unknown"
	var items []string
	if receipt != nil {
		if receipt.MerchantName != nil && *receipt.MerchantName != "" {
			merchant = *receipt.MerchantName
		}
		for i, item := range receipt.LineItems {
			if i == 5 {
				break
			}
			items = append(items, item.Description)
		}
	}
	itemList := strings.Join(items, ", ")
	if itemList == "" {
		itemList = "Unknown"
	}

	var sb strings.Builder
	sb.WriteString("Based on this merchant name and items, assign a spending category.\n")
	sb.WriteString(`Return ONLY valid JSON: {"category": "category_slug", "confidence": 0.0-1.0}`)
	sb.WriteString("\n\nValid category slugs: ")
	sb.WriteString(strings.Join(availableSlugs, ", "))
	sb.WriteString("\n\nMerchant: ")
	sb.WriteString(merchant)
	sb.WriteString("\nItems: ")
	sb.WriteString(itemList)
	return sb.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok && text != "" {
			return string(text), nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}

// stripCodeFence removes a markdown code fence around a JSON payload.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

type geminiLineItem struct {
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	TotalPrice  *decimal.Decimal `json:"total_price"`
}

type geminiReceipt struct {
	MerchantName    *string          `json:"merchant_name"`
	TransactionDate *string          `json:"transaction_date"`
	Subtotal        *decimal.Decimal `json:"subtotal"`
	Tax             *decimal.Decimal `json:"tax"`
	Tip             *decimal.Decimal `json:"tip"`
	GrandTotal      *decimal.Decimal `json:"grand_total"`
	PaymentMethod   *string          `json:"payment_method"`
	LineItems       []geminiLineItem `json:"line_items"`
}

func parseExtraction(text string) (*adapter.ExtractedReceipt, error) {
	var raw geminiReceipt
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	receipt := &adapter.ExtractedReceipt{
		MerchantName:  nonEmpty(raw.MerchantName),
		Subtotal:      raw.Subtotal,
		Tax:           raw.Tax,
		Tip:           raw.Tip,
		GrandTotal:    raw.GrandTotal,
		PaymentMethod: nonEmpty(raw.PaymentMethod),
	}

	// Unparseable dates are dropped; the receipt then asks the user to confirm one.
	if raw.TransactionDate != nil {
		if date, err := time.Parse("2006-01-02", strings.TrimSpace(*raw.TransactionDate)); err == nil {
			receipt.TransactionDate = &date
		}
	}

	for _, item := range raw.LineItems {
		if strings.TrimSpace(item.Description) == "" {
			continue
		}
		line := entity.LineItem{Description: strings.TrimSpace(item.Description), Quantity: decimal.NewFromInt(1)}
		if item.Quantity != nil {
			line.Quantity = *item.Quantity
		}
		if item.TotalPrice != nil {
			line.TotalPrice = *item.TotalPrice
		}
		receipt.LineItems = append(receipt.LineItems, line)
	}

	return receipt, nil
}

type geminiSuggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

func parseSuggestion(text string) (*adapter.CategorySuggestion, error) {
	var raw geminiSuggestion
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion response: %w", err)
	}
	if raw.Category == "" {
		return nil, fmt.Errorf("suggestion response has no category")
	}

	confidence := raw.Confidence
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}
	return &adapter.CategorySuggestion{
		Slug:       strings.ToLower(strings.TrimSpace(raw.Category)),
		Confidence: confidence,
	}, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
