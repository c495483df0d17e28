package handler

import (
	"errors"
	"net/http"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryRequest represents the create/update category request body
type CategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	IsDefault bool   `json:"isDefault"`
}

// CascadeResponse reports a category mutation and how many splits it touched
type CascadeResponse struct {
	Category *CategoryResponse `json:"category,omitempty"`
	Affected int               `json:"affected"`
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories := h.categoryService.List()
	response := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		response[i] = toCategoryResponse(cat)
	}
	return c.JSON(http.StatusOK, response)
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	cat, err := h.categoryService.Add(c.Request().Context(), req.Name, req.Color)
	if err != nil {
		return h.mapCategoryError(c, err, "Failed to create category")
	}

	log.Info().Str("category", cat.Name).Msg("Category created")
	resp := toCategoryResponse(*cat)
	return c.JSON(http.StatusCreated, resp)
}

// UpdateCategory handles PUT /api/v1/categories/:name.
// Renaming cascades to every split filed under the old name.
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	cat, affected, err := h.categoryService.Rename(c.Request().Context(), c.Param("name"), req.Name, req.Color)
	if err != nil {
		return h.mapCategoryError(c, err, "Failed to update category")
	}

	log.Info().
		Str("old_name", c.Param("name")).
		Str("new_name", cat.Name).
		Int("affected", affected).
		Msg("Category renamed")

	resp := toCategoryResponse(*cat)
	return c.JSON(http.StatusOK, CascadeResponse{Category: &resp, Affected: affected})
}

// DeleteCategory handles DELETE /api/v1/categories/:name.
// Splits filed under the deleted category are reassigned to Other.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	affected, err := h.categoryService.Delete(c.Request().Context(), c.Param("name"))
	if err != nil {
		return h.mapCategoryError(c, err, "Failed to delete category")
	}

	log.Info().
		Str("category", c.Param("name")).
		Int("affected", affected).
		Msg("Category deleted")

	return c.JSON(http.StatusOK, CascadeResponse{Affected: affected})
}

func (h *CategoryHandler) mapCategoryError(c echo.Context, err error, fallback string) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: ve.Field, Message: ve.Message},
		})
	}
	var ie *domain.ImmutableEntryError
	if errors.As(err, &ie) {
		return NewProtectedEntryError(c, ie.Error())
	}
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return NewNotFoundError(c, "Category not found")
	}
	log.Error().Err(err).Msg(fallback)
	return NewInternalError(c, fallback)
}

func toCategoryResponse(cat domain.Category) CategoryResponse {
	return CategoryResponse{Name: cat.Name, Color: cat.Color, IsDefault: cat.IsDefault}
}
