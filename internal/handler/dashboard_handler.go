package handler

import (
	"net/http"
	"time"

	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardSummaryResponse represents the dashboard summary in API responses
type DashboardSummaryResponse struct {
	Today         string            `json:"today"`
	ThisMonth     string            `json:"thisMonth"`
	LastMonth     string            `json:"lastMonth"`
	ChangePercent float64           `json:"changePercent"`
	Breakdown     map[string]string `json:"breakdown"`
}

// GetSummary handles GET /api/v1/dashboard/summary.
// An optional "now" query parameter (RFC 3339) pins the reference time.
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	now := time.Now().UTC()
	if raw := c.QueryParam("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return NewValidationError(c, "Invalid now parameter", []ValidationError{
				{Field: "now", Message: "must be an RFC 3339 timestamp"},
			})
		}
		now = parsed.UTC()
	}

	summary := h.dashboardService.GetSummary(now)

	breakdown := make(map[string]string, len(summary.Breakdown))
	for name, amount := range summary.Breakdown {
		breakdown[name] = amount.StringFixed(2)
	}

	return c.JSON(http.StatusOK, DashboardSummaryResponse{
		Today:         summary.Today.StringFixed(2),
		ThisMonth:     summary.ThisMonth.StringFixed(2),
		LastMonth:     summary.LastMonth.StringFixed(2),
		ChangePercent: summary.ChangePercent,
		Breakdown:     breakdown,
	})
}
