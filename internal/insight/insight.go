// Package insight wraps the cloud text-understanding and report-generation
// services. Both are opaque collaborators: they never touch the ledger, and a
// failure surfaces as an error the caller reports as a retryable condition.
package insight

import (
	"context"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// ParsedExpense is the structured result of understanding pasted text.
// IsExpense false means the text does not describe a spend at all. Category
// may be empty when the model suggests none; the caller validates any
// suggestion against the registry before use.
type ParsedExpense struct {
	IsExpense   bool    `json:"isExpense"`
	Amount      float64 `json:"amount,omitempty"`
	Vendor      string  `json:"vendor,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

// ReportRequest carries everything the report writer needs for one period
type ReportRequest struct {
	Splits         []domain.Split
	CurrencySymbol string
	PeriodLabel    string
	Categories     []string
}

// TextParser extracts a candidate expense from raw pasted text
type TextParser interface {
	ParseExpense(ctx context.Context, text string, allowedCategories []string) (*ParsedExpense, error)
}

// ReportWriter produces a natural-language spending summary for a period.
// The output is free-form prose; blank-line-separated blocks are paragraphs.
type ReportWriter interface {
	WriteReport(ctx context.Context, req ReportRequest) (string, error)
}
