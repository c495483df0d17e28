package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/insight"
	"github.com/rs/zerolog/log"
)

// ErrInsightDisabled is returned when the model-backed services are not configured
var ErrInsightDisabled = errors.New("insight services are not configured")

// InsightService fronts the external text-understanding and report-generation
// calls. Neither call mutates the ledger: a parse produces a candidate the
// caller commits through the normal transaction path, and report generation
// only reads a snapshot. Failures surface as errors the caller reports as
// retryable; there is no retry or background scheduling here.
type InsightService struct {
	parser     insight.TextParser
	reporter   insight.ReportWriter
	categories *CategoryService
	ledger     *LedgerService
	settings   *SettingsService
}

// NewInsightService creates an InsightService. parser and reporter may be nil
// when the model is not configured.
func NewInsightService(parser insight.TextParser, reporter insight.ReportWriter, categories *CategoryService, ledger *LedgerService, settings *SettingsService) *InsightService {
	return &InsightService{
		parser:     parser,
		reporter:   reporter,
		categories: categories,
		ledger:     ledger,
		settings:   settings,
	}
}

// Enabled reports whether the model-backed services are configured
func (s *InsightService) Enabled() bool {
	return s.parser != nil && s.reporter != nil
}

// ParseText extracts a candidate expense from pasted text. A suggested
// category is validated case-insensitively against the current registry and
// discarded when unmatched, so the caller must supply one before commit.
func (s *InsightService) ParseText(ctx context.Context, text string) (*insight.ParsedExpense, error) {
	if s.parser == nil {
		return nil, ErrInsightDisabled
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("text", "text is required")
	}

	parsed, err := s.parser.ParseExpense(ctx, text, s.categories.Names())
	if err != nil {
		log.Warn().Err(err).Msg("Text understanding failed")
		return nil, err
	}

	if !parsed.IsExpense {
		return parsed, nil
	}
	if parsed.Category != "" {
		if canonical, ok := s.categories.Match(parsed.Category); ok {
			parsed.Category = canonical
		} else {
			log.Debug().Str("category", parsed.Category).Msg("Discarding unrecognized category suggestion")
			parsed.Category = ""
		}
	}
	return parsed, nil
}

// MonthlyReport generates a prose spending summary for one calendar month
func (s *InsightService) MonthlyReport(ctx context.Context, year int, month time.Month) (string, error) {
	if s.reporter == nil {
		return "", ErrInsightDisabled
	}

	start, end := domain.MonthWindow(year, month)
	splits := s.ledger.Query(func(sp domain.Split) bool {
		day, err := sp.Day()
		if err != nil {
			return false
		}
		return !day.Before(start) && day.Before(end)
	})
	if len(splits) == 0 {
		return "", domain.NewValidationError("period", "no expenses in the requested month")
	}

	report, err := s.reporter.WriteReport(ctx, insight.ReportRequest{
		Splits:         splits,
		CurrencySymbol: s.settings.Currency().Symbol,
		PeriodLabel:    fmt.Sprintf("%s %d", start.Month(), year),
		Categories:     s.categories.Names(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("Report generation failed")
		return "", err
	}
	return report, nil
}

// Paragraphs splits report prose into its blank-line-separated blocks. No
// other structure of the prose is depended on.
func Paragraphs(report string) []string {
	var out []string
	for _, block := range strings.Split(strings.ReplaceAll(report, "\r\n", "\n"), "\n\n") {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
