package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// InsightHandler handles model-backed text parsing and report requests
type InsightHandler struct {
	insightService *service.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// ParseTextRequest represents the parse-text request body
type ParseTextRequest struct {
	Text string `json:"text"`
}

// ParsedExpenseResponse represents a parsed expense candidate. The candidate
// is not committed; the client submits it through the transaction endpoint.
type ParsedExpenseResponse struct {
	IsExpense   bool    `json:"isExpense"`
	Amount      float64 `json:"amount,omitempty"`
	Vendor      string  `json:"vendor,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

// ReportResponse represents a generated monthly report
type ReportResponse struct {
	Report     string   `json:"report"`
	Paragraphs []string `json:"paragraphs"`
}

// ParseText handles POST /api/v1/insight/parse-text
func (h *InsightHandler) ParseText(c echo.Context) error {
	var req ParseTextRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	parsed, err := h.insightService.ParseText(c.Request().Context(), req.Text)
	if err != nil {
		return h.mapInsightError(c, err, "Text understanding is temporarily unavailable")
	}

	return c.JSON(http.StatusOK, ParsedExpenseResponse{
		IsExpense:   parsed.IsExpense,
		Amount:      parsed.Amount,
		Vendor:      parsed.Vendor,
		Category:    parsed.Category,
		Description: parsed.Description,
	})
}

// MonthlyReport handles GET /api/v1/insight/report/:year/:month
func (h *InsightHandler) MonthlyReport(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 9999 {
		return NewValidationError(c, "Invalid report period", []ValidationError{
			{Field: "year", Message: "must be a four digit year"},
		})
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return NewValidationError(c, "Invalid report period", []ValidationError{
			{Field: "month", Message: "must be between 1 and 12"},
		})
	}

	report, err := h.insightService.MonthlyReport(c.Request().Context(), year, time.Month(month))
	if err != nil {
		return h.mapInsightError(c, err, "Report generation is temporarily unavailable")
	}

	return c.JSON(http.StatusOK, ReportResponse{
		Report:     report,
		Paragraphs: service.Paragraphs(report),
	})
}

// mapInsightError maps service errors to responses. Model call failures are
// reported as retryable upstream errors rather than internal ones.
func (h *InsightHandler) mapInsightError(c echo.Context, err error, upstream string) error {
	if errors.Is(err, service.ErrInsightDisabled) {
		return NewUnavailableError(c, "Insight features are not configured")
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: ve.Field, Message: ve.Message},
		})
	}
	log.Warn().Err(err).Msg(upstream)
	return NewUpstreamError(c, upstream)
}
