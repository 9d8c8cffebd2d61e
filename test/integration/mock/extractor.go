package mock

import (
	"context"
	"sync"

	"github.com/budget-tracker/backend/internal/application/adapter"
)

// Extractor is a scripted receipt extractor.
type Extractor struct {
	mu         sync.Mutex
	available  bool
	receipt    *adapter.ExtractedReceipt
	suggestion *adapter.CategorySuggestion
	err        error
	calls      int
}

func NewExtractor() *Extractor {
	return &Extractor{available: true}
}

// Reset makes the extractor available with nothing to return.
func (e *Extractor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.available = true
	e.receipt = nil
	e.suggestion = nil
	e.err = nil
	e.calls = 0
}

func (e *Extractor) SetAvailable(available bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.available = available
}

func (e *Extractor) SetReceipt(receipt *adapter.ExtractedReceipt) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.receipt = receipt
}

func (e *Extractor) SetSuggestion(slug string, confidence float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.suggestion = &adapter.CategorySuggestion{Slug: slug, Confidence: confidence}
}

func (e *Extractor) SetError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

func (e *Extractor) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *Extractor) Extract(ctx context.Context, image []byte, mediaType string) (*adapter.ExtractedReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	if e.receipt == nil {
		return &adapter.ExtractedReceipt{}, nil
	}
	receipt := *e.receipt
	return &receipt, nil
}

func (e *Extractor) SuggestCategory(ctx context.Context, receipt *adapter.ExtractedReceipt, availableSlugs []string) (*adapter.CategorySuggestion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.suggestion == nil {
		return nil, nil
	}
	for _, slug := range availableSlugs {
		if slug == e.suggestion.Slug {
			suggestion := *e.suggestion
			return &suggestion, nil
		}
	}
	return nil, nil
}

func (e *Extractor) IsAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

var _ adapter.ReceiptExtractor = (*Extractor)(nil)
