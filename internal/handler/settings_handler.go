package handler

import (
	"errors"
	"net/http"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// SettingsHandler handles settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// CurrencyRequest represents the set-currency request body
type CurrencyRequest struct {
	Code string `json:"code"`
}

// CurrencyResponse represents a currency in API responses
type CurrencyResponse struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// GetCurrency handles GET /api/v1/settings/currency
func (h *SettingsHandler) GetCurrency(c echo.Context) error {
	cur := h.settingsService.Currency()
	return c.JSON(http.StatusOK, CurrencyResponse{Code: cur.Code, Symbol: cur.Symbol})
}

// SetCurrency handles PUT /api/v1/settings/currency
func (h *SettingsHandler) SetCurrency(c echo.Context) error {
	var req CurrencyRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	cur, err := h.settingsService.SetCurrency(c.Request().Context(), req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrCurrencyNotFound) {
			return NewValidationError(c, "Unsupported currency code", []ValidationError{
				{Field: "code", Message: "must be one of the supported currency codes"},
			})
		}
		log.Error().Err(err).Str("code", req.Code).Msg("Failed to set currency")
		return NewInternalError(c, "Failed to set currency")
	}

	log.Info().Str("code", cur.Code).Msg("Currency updated")
	return c.JSON(http.StatusOK, CurrencyResponse{Code: cur.Code, Symbol: cur.Symbol})
}

// GetSupportedCurrencies handles GET /api/v1/settings/currencies
func (h *SettingsHandler) GetSupportedCurrencies(c echo.Context) error {
	supported := domain.SupportedCurrencies()
	response := make([]CurrencyResponse, len(supported))
	for i, cur := range supported {
		response[i] = CurrencyResponse{Code: cur.Code, Symbol: cur.Symbol}
	}
	return c.JSON(http.StatusOK, response)
}
