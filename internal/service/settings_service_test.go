package service

import (
	"context"
	"errors"
	"testing"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/testutil"
)

func TestSettingsLoad_DefaultsWhenUnset(t *testing.T) {
	store := testutil.NewMockRecordStore()
	svc := NewSettingsService(store, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if svc.Currency().Code != domain.DefaultCurrency().Code {
		t.Errorf("Expected default currency, got %s", svc.Currency().Code)
	}
}

func TestSetCurrency_CaseInsensitiveCode(t *testing.T) {
	store := testutil.NewMockRecordStore()
	svc := NewSettingsService(store, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cur, err := svc.SetCurrency(context.Background(), "eur")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cur.Code != "EUR" {
		t.Errorf("Expected canonical EUR, got %s", cur.Code)
	}
	if store.Currency == nil || store.Currency.Code != "EUR" {
		t.Error("Expected selection persisted")
	}
}

func TestSetCurrency_UnsupportedCode(t *testing.T) {
	store := testutil.NewMockRecordStore()
	svc := NewSettingsService(store, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := svc.SetCurrency(context.Background(), "XXX"); !errors.Is(err, domain.ErrCurrencyNotFound) {
		t.Errorf("Expected ErrCurrencyNotFound, got %v", err)
	}
	if svc.Currency().Code != domain.DefaultCurrency().Code {
		t.Error("Expected selection unchanged after rejected code")
	}
}

func TestSetCurrency_FailedWriteKeepsSelection(t *testing.T) {
	store := testutil.NewMockRecordStore()
	svc := NewSettingsService(store, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	store.FailSetCurrency = true
	if _, err := svc.SetCurrency(context.Background(), "EUR"); err == nil {
		t.Fatal("Expected an error from the failed write")
	}
	if svc.Currency().Code != domain.DefaultCurrency().Code {
		t.Error("Expected in-memory selection unchanged after failed write")
	}
}
