package service

import (
	"context"
	"testing"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/testutil"
)

func newTestLedger(t *testing.T, store *testutil.MockRecordStore) *LedgerService {
	t.Helper()
	ledger := NewLedgerService(store)
	if err := ledger.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error loading ledger, got %v", err)
	}
	return ledger
}

func TestLedgerOrdering_DateDescThenIDDesc(t *testing.T) {
	store := testutil.NewMockRecordStore()
	ledger := newTestLedger(t, store)

	splits := []domain.Split{
		{ID: "a", TransactionID: "100", Amount: testutil.MustDecimal("10"), Vendor: "Cafe", Category: "Food", Date: "2024-03-01"},
		{ID: "b", TransactionID: "200", Amount: testutil.MustDecimal("20"), Vendor: "Cafe", Category: "Food", Date: "2024-03-01"},
		{ID: "c", TransactionID: "50", Amount: testutil.MustDecimal("30"), Vendor: "Cafe", Category: "Food", Date: "2024-03-05"},
	}
	if err := ledger.Insert(context.Background(), splits); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got := ledger.All()
	wantOrder := []string{"c", "b", "a"}
	if len(got) != len(wantOrder) {
		t.Fatalf("Expected %d splits, got %d", len(wantOrder), len(got))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("Position %d: expected split %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestLedgerOrdering_NumericIDNotLexicographic(t *testing.T) {
	store := testutil.NewMockRecordStore()
	ledger := newTestLedger(t, store)

	// Lexicographically "9" > "100"; numerically 100 wins
	splits := []domain.Split{
		{ID: "a", TransactionID: "9", Amount: testutil.MustDecimal("10"), Vendor: "Cafe", Category: "Food", Date: "2024-03-01"},
		{ID: "b", TransactionID: "100", Amount: testutil.MustDecimal("20"), Vendor: "Cafe", Category: "Food", Date: "2024-03-01"},
	}
	if err := ledger.Insert(context.Background(), splits); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got := ledger.All()
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("Expected order [b a], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestLedgerDelete_NonexistentIsNoOp(t *testing.T) {
	store := testutil.NewMockRecordStore()
	ledger := newTestLedger(t, store)

	if err := ledger.Insert(context.Background(), []domain.Split{
		{ID: "a", TransactionID: "1", Amount: testutil.MustDecimal("10"), Vendor: "Cafe", Category: "Food", Date: "2024-03-01"},
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	callsBefore := store.SetSplitsCalls

	removed, err := ledger.DeleteTransaction(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if removed != 0 {
		t.Errorf("Expected 0 removed, got %d", removed)
	}
	if store.SetSplitsCalls != callsBefore {
		t.Error("Expected no store write for a no-op delete")
	}
	if len(ledger.All()) != 1 {
		t.Error("Expected ledger unchanged")
	}
}

func TestLedgerDelete_RemovesAllSplitsOfTransaction(t *testing.T) {
	store := testutil.NewMockRecordStore()
	ledger := newTestLedger(t, store)

	if err := ledger.Insert(context.Background(), []domain.Split{
		{ID: "a", TransactionID: "1", Amount: testutil.MustDecimal("10"), Vendor: "Cafe", Category: "Food", Date: "2024-03-01"},
		{ID: "b", TransactionID: "1", Amount: testutil.MustDecimal("5"), Vendor: "Cafe", Category: "Transport", Date: "2024-03-01"},
		{ID: "c", TransactionID: "2", Amount: testutil.MustDecimal("7"), Vendor: "Shop", Category: "Food", Date: "2024-03-02"},
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	removed, err := ledger.DeleteTransaction(context.Background(), "1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed, got %d", removed)
	}

	got := ledger.All()
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("Expected only split c to remain, got %v", got)
	}
}

func TestLedgerReplaceTransaction_NotFound(t *testing.T) {
	store := testutil.NewMockRecordStore()
	ledger := newTestLedger(t, store)

	err := ledger.ReplaceTransaction(context.Background(), "missing", []domain.Split{
		{ID: "a", TransactionID: "missing", Amount: testutil.MustDecimal("10"), Vendor: "Cafe", Category: "Food", Date: "2024-03-01"},
	})
	if err != domain.ErrTransactionNotFound {
		t.Errorf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestLedgerCommit_FailedWriteLeavesMemoryUntouched(t *testing.T) {
	store := testutil.NewMockRecordStore()
	ledger := newTestLedger(t, store)

	if err := ledger.Insert(context.Background(), []domain.Split{
		{ID: "a", TransactionID: "1", Amount: testutil.MustDecimal("10"), Vendor: "Cafe", Category: "Food", Date: "2024-03-01"},
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	store.FailSetSplits = true
	err := ledger.Insert(context.Background(), []domain.Split{
		{ID: "b", TransactionID: "2", Amount: testutil.MustDecimal("20"), Vendor: "Shop", Category: "Food", Date: "2024-03-02"},
	})
	if err == nil {
		t.Fatal("Expected an error from failed persist")
	}

	got := ledger.All()
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Expected in-memory ledger unchanged after failed write, got %v", got)
	}
	if len(store.Splits) != 1 {
		t.Errorf("Expected store unchanged, got %d splits", len(store.Splits))
	}
}

func TestLedgerReassignCategory_CaseInsensitive(t *testing.T) {
	store := testutil.NewMockRecordStore()
	ledger := newTestLedger(t, store)

	if err := ledger.Insert(context.Background(), []domain.Split{
		{ID: "a", TransactionID: "1", Amount: testutil.MustDecimal("10"), Vendor: "Cafe", Category: "food", Date: "2024-03-01"},
		{ID: "b", TransactionID: "2", Amount: testutil.MustDecimal("20"), Vendor: "Shop", Category: "Food", Date: "2024-03-02"},
		{ID: "c", TransactionID: "3", Amount: testutil.MustDecimal("30"), Vendor: "Bus", Category: "Transport", Date: "2024-03-03"},
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	affected, err := ledger.ReassignCategory(context.Background(), "FOOD", "Dining")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(affected) != 2 {
		t.Fatalf("Expected 2 affected splits, got %d", len(affected))
	}

	for _, sp := range ledger.All() {
		if sp.ID == "c" {
			if sp.Category != "Transport" {
				t.Errorf("Expected split c untouched, got %s", sp.Category)
			}
			continue
		}
		if sp.Category != "Dining" {
			t.Errorf("Expected split %s reassigned to Dining, got %s", sp.ID, sp.Category)
		}
	}
}

func TestLedgerMaxNumericTransactionID(t *testing.T) {
	store := testutil.NewMockRecordStore()
	store.Splits = []domain.Split{
		{ID: "a", TransactionID: "1700000000000", Amount: testutil.MustDecimal("10"), Vendor: "Cafe", Category: "Food", Date: "2024-03-01"},
		{ID: "b", TransactionID: "not-a-number", Amount: testutil.MustDecimal("20"), Vendor: "Shop", Category: "Food", Date: "2024-03-02"},
		{ID: "c", TransactionID: "42", Amount: testutil.MustDecimal("30"), Vendor: "Bus", Category: "Transport", Date: "2024-03-03"},
	}
	ledger := newTestLedger(t, store)

	if got := ledger.MaxNumericTransactionID(); got != 1700000000000 {
		t.Errorf("Expected 1700000000000, got %d", got)
	}
}
