package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

func newTestCategoryHandler(t *testing.T) (*CategoryHandler, *service.CategoryService, *service.LedgerService) {
	t.Helper()
	store := testutil.NewMockRecordStore()
	ledger := service.NewLedgerService(store)
	if err := ledger.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	svc := service.NewCategoryService(store, ledger, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return NewCategoryHandler(svc), svc, ledger
}

func TestGetCategories_ReturnsDefaults(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTestCategoryHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.GetCategories(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []CategoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != len(domain.DefaultCategories()) {
		t.Errorf("Expected %d categories, got %d", len(domain.DefaultCategories()), len(response))
	}
}

func TestCreateCategory_DuplicateReturns400(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTestCategoryHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", strings.NewReader(`{"name": "food", "color": "#ffffff"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestDeleteCategory_OtherReturns403(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTestCategoryHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/Other", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues("Other")

	if err := handler.DeleteCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeProtected {
		t.Errorf("Expected protected-entry problem type, got %s", problem.Type)
	}
}

func TestDeleteCategory_ReportsAffectedCount(t *testing.T) {
	e := echo.New()
	handler, svc, ledger := newTestCategoryHandler(t)

	if _, err := svc.Add(context.Background(), "Groceries", "#22cc88"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	err := ledger.Insert(context.Background(), []domain.Split{
		{ID: "a", TransactionID: "1", Amount: testutil.MustDecimal("10"), Vendor: "Shop", Category: "Groceries", Date: "2024-03-01"},
		{ID: "b", TransactionID: "2", Amount: testutil.MustDecimal("20"), Vendor: "Shop", Category: "Groceries", Date: "2024-03-02"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/categories/Groceries", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues("Groceries")

	if err := handler.DeleteCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response CascadeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Affected != 2 {
		t.Errorf("Expected 2 affected splits, got %d", response.Affected)
	}
}

func TestUpdateCategory_NotFoundReturns404(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTestCategoryHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/categories/Missing", strings.NewReader(`{"name": "Renamed", "color": "#000000"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues("Missing")

	if err := handler.UpdateCategory(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
