package handler

import (
	"errors"
	"net/http"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// SplitRequest is one split in a transaction request body
type SplitRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

// TransactionRequest represents the create/update transaction request body
type TransactionRequest struct {
	Vendor string          `json:"vendor"`
	Date   string          `json:"date"`
	Notes  string          `json:"notes"`
	Total  decimal.Decimal `json:"total"`
	Splits []SplitRequest  `json:"splits"`
}

// SplitResponse represents a split in API responses
type SplitResponse struct {
	ID       string `json:"id"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	TransactionID string          `json:"transactionId"`
	Vendor        string          `json:"vendor"`
	Date          string          `json:"date"`
	Notes         string          `json:"notes,omitempty"`
	Total         string          `json:"total"`
	IsSplit       bool            `json:"isSplit"`
	Splits        []SplitResponse `json:"splits"`
}

// ValidateResponse represents the validate-intent response
type ValidateResponse struct {
	Valid     bool              `json:"valid"`
	Remaining string            `json:"remaining"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	txn, err := h.transactionService.Create(c.Request().Context(), toTransactionInput(req))
	if err != nil {
		return h.mapTransactionError(c, err, "Failed to create transaction")
	}

	log.Info().
		Str("transaction_id", txn.TransactionID).
		Str("vendor", txn.Vendor).
		Int("splits", len(txn.Splits)).
		Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(txn))
}

// GetTransactions handles GET /api/v1/transactions
// Optional query parameters: month (YYYY-MM) and category.
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	txns := h.transactionService.List(c.QueryParam("month"), c.QueryParam("category"))

	response := make([]TransactionResponse, len(txns))
	for i := range txns {
		response[i] = toTransactionResponse(&txns[i])
	}
	return c.JSON(http.StatusOK, response)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	txn, err := h.transactionService.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("transaction_id", c.Param("id")).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}
	return c.JSON(http.StatusOK, toTransactionResponse(txn))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	txn, err := h.transactionService.Update(c.Request().Context(), c.Param("id"), toTransactionInput(req))
	if err != nil {
		return h.mapTransactionError(c, err, "Failed to update transaction")
	}

	log.Info().
		Str("transaction_id", txn.TransactionID).
		Int("splits", len(txn.Splits)).
		Msg("Transaction updated")

	return c.JSON(http.StatusOK, toTransactionResponse(txn))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	if err := h.transactionService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		log.Error().Err(err).Str("transaction_id", c.Param("id")).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Str("transaction_id", c.Param("id")).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

// ValidateTransaction handles POST /api/v1/transactions/validate.
// Returns the remaining amount for inline feedback even when invalid.
func (h *TransactionHandler) ValidateTransaction(c echo.Context) error {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	result := h.transactionService.Validate(toTransactionInput(req))
	return c.JSON(http.StatusOK, ValidateResponse{
		Valid:     result.Valid,
		Remaining: result.Remaining.StringFixed(2),
		Errors:    toFieldErrors(result.Errors),
	})
}

func (h *TransactionHandler) mapTransactionError(c echo.Context, err error, fallback string) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: ve.Field, Message: ve.Message},
		})
	}
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return NewNotFoundError(c, "Transaction not found")
	}
	log.Error().Err(err).Msg(fallback)
	return NewInternalError(c, fallback)
}

// Helper functions

func toTransactionInput(req TransactionRequest) service.TransactionInput {
	splits := make([]service.SplitInput, len(req.Splits))
	for i, sp := range req.Splits {
		splits[i] = service.SplitInput{Amount: sp.Amount, Category: sp.Category}
	}
	return service.TransactionInput{
		Vendor: req.Vendor,
		Date:   req.Date,
		Notes:  req.Notes,
		Total:  req.Total,
		Splits: splits,
	}
}

func toTransactionResponse(txn *domain.Transaction) TransactionResponse {
	splits := make([]SplitResponse, len(txn.Splits))
	for i, sp := range txn.Splits {
		splits[i] = SplitResponse{
			ID:       sp.ID,
			Amount:   sp.Amount.StringFixed(2),
			Category: sp.Category,
		}
	}
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Vendor:        txn.Vendor,
		Date:          txn.Date,
		Notes:         txn.Notes,
		Total:         txn.Total.StringFixed(2),
		IsSplit:       txn.IsSplit(),
		Splits:        splits,
	}
}

func toFieldErrors(errs []domain.ValidationError) []ValidationError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]ValidationError, len(errs))
	for i, e := range errs {
		out[i] = ValidationError{Field: e.Field, Message: e.Message}
	}
	return out
}
