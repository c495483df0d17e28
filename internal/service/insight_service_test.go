package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/insight"
	"github.com/centavo-app/centavo-backend/internal/testutil"
)

func newTestInsightService(t *testing.T, parser insight.TextParser, reporter insight.ReportWriter) (*InsightService, *LedgerService) {
	t.Helper()
	store := testutil.NewMockRecordStore()
	ledger := newTestLedger(t, store)
	categories := NewCategoryService(store, ledger, nil)
	if err := categories.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	settings := NewSettingsService(store, nil)
	if err := settings.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return NewInsightService(parser, reporter, categories, ledger, settings), ledger
}

func TestParseText_CanonicalizesSuggestedCategory(t *testing.T) {
	parser := &testutil.MockTextParser{
		ParseFn: func(ctx context.Context, text string, allowed []string) (*insight.ParsedExpense, error) {
			return &insight.ParsedExpense{IsExpense: true, Amount: 12.5, Vendor: "Cafe", Category: "fOOd"}, nil
		},
	}
	svc, _ := newTestInsightService(t, parser, nil)

	parsed, err := svc.ParseText(context.Background(), "coffee 12.50 at the cafe")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if parsed.Category != "Food" {
		t.Errorf("Expected canonical 'Food', got %q", parsed.Category)
	}
}

func TestParseText_DiscardsUnknownCategory(t *testing.T) {
	parser := &testutil.MockTextParser{
		ParseFn: func(ctx context.Context, text string, allowed []string) (*insight.ParsedExpense, error) {
			return &insight.ParsedExpense{IsExpense: true, Amount: 30, Vendor: "Vet", Category: "Pets"}, nil
		},
	}
	svc, _ := newTestInsightService(t, parser, nil)

	parsed, err := svc.ParseText(context.Background(), "vet visit 30")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if parsed.Category != "" {
		t.Errorf("Expected unknown suggestion discarded, got %q", parsed.Category)
	}
}

func TestParseText_PassesRegistryNamesToParser(t *testing.T) {
	var gotAllowed []string
	parser := &testutil.MockTextParser{
		ParseFn: func(ctx context.Context, text string, allowed []string) (*insight.ParsedExpense, error) {
			gotAllowed = allowed
			return &insight.ParsedExpense{IsExpense: false}, nil
		},
	}
	svc, _ := newTestInsightService(t, parser, nil)

	if _, err := svc.ParseText(context.Background(), "hello world"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(gotAllowed) != len(domain.DefaultCategories()) {
		t.Errorf("Expected registry names passed through, got %v", gotAllowed)
	}
}

func TestParseText_EmptyTextRejected(t *testing.T) {
	parser := &testutil.MockTextParser{
		ParseFn: func(ctx context.Context, text string, allowed []string) (*insight.ParsedExpense, error) {
			t.Fatal("Parser must not be called for empty text")
			return nil, nil
		},
	}
	svc, _ := newTestInsightService(t, parser, nil)

	_, err := svc.ParseText(context.Background(), "   ")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestParseText_DisabledWithoutParser(t *testing.T) {
	svc, _ := newTestInsightService(t, nil, nil)

	if _, err := svc.ParseText(context.Background(), "coffee 12.50"); !errors.Is(err, ErrInsightDisabled) {
		t.Errorf("Expected ErrInsightDisabled, got %v", err)
	}
}

func TestMonthlyReport_ScopesToRequestedMonth(t *testing.T) {
	var gotReq insight.ReportRequest
	reporter := &testutil.MockReportWriter{
		WriteFn: func(ctx context.Context, req insight.ReportRequest) (string, error) {
			gotReq = req
			return "You spent less this month.\n\nFood was the biggest category.", nil
		},
	}
	svc, ledger := newTestInsightService(t, nil, reporter)
	err := ledger.Insert(context.Background(), []domain.Split{
		{ID: "a", TransactionID: "1", Amount: testutil.MustDecimal("10"), Vendor: "Cafe", Category: "Food", Date: "2024-01-31"},
		{ID: "b", TransactionID: "2", Amount: testutil.MustDecimal("20"), Vendor: "Bus", Category: "Transport", Date: "2024-02-15"},
		{ID: "c", TransactionID: "3", Amount: testutil.MustDecimal("40"), Vendor: "Shop", Category: "Food", Date: "2024-03-01"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	report, err := svc.MonthlyReport(context.Background(), 2024, time.February)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(report, "Food") {
		t.Errorf("Expected report text returned, got %q", report)
	}
	if len(gotReq.Splits) != 1 || gotReq.Splits[0].ID != "b" {
		t.Errorf("Expected only February splits in the request, got %v", gotReq.Splits)
	}
	if gotReq.PeriodLabel != "February 2024" {
		t.Errorf("Expected period label 'February 2024', got %q", gotReq.PeriodLabel)
	}
	if gotReq.CurrencySymbol != "$" {
		t.Errorf("Expected default currency symbol, got %q", gotReq.CurrencySymbol)
	}
}

func TestMonthlyReport_EmptyMonthRejected(t *testing.T) {
	reporter := &testutil.MockReportWriter{
		WriteFn: func(ctx context.Context, req insight.ReportRequest) (string, error) {
			t.Fatal("Reporter must not be called for an empty month")
			return "", nil
		},
	}
	svc, _ := newTestInsightService(t, nil, reporter)

	_, err := svc.MonthlyReport(context.Background(), 2024, time.February)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestParagraphs(t *testing.T) {
	report := "First paragraph.\r\n\r\nSecond paragraph\nwith two lines.\n\n\n\nThird."
	got := Paragraphs(report)
	want := []string{"First paragraph.", "Second paragraph\nwith two lines.", "Third."}
	if len(got) != len(want) {
		t.Fatalf("Expected %d paragraphs, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paragraph %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	if got := Paragraphs("   \n\n  "); got != nil {
		t.Errorf("Expected nil for blank report, got %v", got)
	}
}
