package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/insight"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// ErrStoreUnavailable simulates a persistence failure
var ErrStoreUnavailable = errors.New("store unavailable")

// MockRecordStore is an in-memory implementation of domain.RecordStore.
// The Fail* switches make the next matching write fail, for atomicity tests.
type MockRecordStore struct {
	Splits     []domain.Split
	Categories []domain.Category
	Currency   *domain.Currency

	FailSetSplits     bool
	FailSetCategories bool
	FailSetCurrency   bool

	SetSplitsCalls int
}

// NewMockRecordStore creates an empty MockRecordStore
func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{}
}

// GetSplits returns the stored split ledger
func (m *MockRecordStore) GetSplits(ctx context.Context) ([]domain.Split, error) {
	out := make([]domain.Split, len(m.Splits))
	copy(out, m.Splits)
	return out, nil
}

// SetSplits replaces the stored split ledger
func (m *MockRecordStore) SetSplits(ctx context.Context, splits []domain.Split) error {
	m.SetSplitsCalls++
	if m.FailSetSplits {
		return ErrStoreUnavailable
	}
	m.Splits = make([]domain.Split, len(splits))
	copy(m.Splits, splits)
	return nil
}

// GetCategories returns the stored registry
func (m *MockRecordStore) GetCategories(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, len(m.Categories))
	copy(out, m.Categories)
	return out, nil
}

// SetCategories replaces the stored registry
func (m *MockRecordStore) SetCategories(ctx context.Context, categories []domain.Category) error {
	if m.FailSetCategories {
		return ErrStoreUnavailable
	}
	m.Categories = make([]domain.Category, len(categories))
	copy(m.Categories, categories)
	return nil
}

// GetCurrency returns the stored currency selection, nil when unset
func (m *MockRecordStore) GetCurrency(ctx context.Context) (*domain.Currency, error) {
	if m.Currency == nil {
		return nil, nil
	}
	c := *m.Currency
	return &c, nil
}

// SetCurrency replaces the stored currency selection
func (m *MockRecordStore) SetCurrency(ctx context.Context, currency domain.Currency) error {
	if m.FailSetCurrency {
		return ErrStoreUnavailable
	}
	m.Currency = &currency
	return nil
}

// MockTextParser is a mock implementation of insight.TextParser
type MockTextParser struct {
	ParseFn func(ctx context.Context, text string, allowedCategories []string) (*insight.ParsedExpense, error)
}

// ParseExpense delegates to ParseFn
func (m *MockTextParser) ParseExpense(ctx context.Context, text string, allowedCategories []string) (*insight.ParsedExpense, error) {
	return m.ParseFn(ctx, text, allowedCategories)
}

// MockReportWriter is a mock implementation of insight.ReportWriter
type MockReportWriter struct {
	WriteFn func(ctx context.Context, req insight.ReportRequest) (string, error)
}

// WriteReport delegates to WriteFn
func (m *MockReportWriter) WriteReport(ctx context.Context, req insight.ReportRequest) (string, error) {
	return m.WriteFn(ctx, req)
}

// CapturePublisher records every published event (helper for tests)
type CapturePublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// Publish records the event
func (p *CapturePublisher) Publish(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

// MustDecimal parses a decimal literal, panicking on malformed input (helper for tests)
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
