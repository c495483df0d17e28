package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestGroupTransactions(t *testing.T) {
	splits := []Split{
		{ID: "a", TransactionID: "2", Amount: d("30.00"), Vendor: "Cafe", Category: "Food", Date: "2024-03-15", Notes: "lunch"},
		{ID: "b", TransactionID: "2", Amount: d("15.50"), Vendor: "Cafe", Category: "Entertainment", Date: "2024-03-15", Notes: "lunch"},
		{ID: "c", TransactionID: "1", Amount: d("9.00"), Vendor: "Bus", Category: "Transport", Date: "2024-03-14"},
	}

	txns := GroupTransactions(splits)
	if len(txns) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(txns))
	}

	// First-seen order is preserved
	if txns[0].TransactionID != "2" || txns[1].TransactionID != "1" {
		t.Errorf("Expected first-seen order [2 1], got [%s %s]", txns[0].TransactionID, txns[1].TransactionID)
	}

	first := txns[0]
	if !first.Total.Equal(d("45.50")) {
		t.Errorf("Expected total 45.50, got %s", first.Total)
	}
	if len(first.Splits) != 2 || !first.IsSplit() {
		t.Errorf("Expected 2-way split transaction, got %d splits", len(first.Splits))
	}
	if first.Vendor != "Cafe" || first.Date != "2024-03-15" || first.Notes != "lunch" {
		t.Errorf("Expected shared fields carried onto the transaction, got %+v", first)
	}

	second := txns[1]
	if second.IsSplit() {
		t.Error("Expected single-split transaction to not report IsSplit")
	}
	if !second.Total.Equal(d("9.00")) {
		t.Errorf("Expected total 9.00, got %s", second.Total)
	}
}

func TestGroupTransactions_Empty(t *testing.T) {
	if txns := GroupTransactions(nil); len(txns) != 0 {
		t.Errorf("Expected no transactions, got %d", len(txns))
	}
}

func TestCompareTransactionIDs(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"numeric less", "9", "100", -1},
		{"numeric greater", "100", "9", 1},
		{"numeric equal", "42", "42", 0},
		{"string fallback", "abc", "abd", -1},
		{"mixed falls back to string", "100", "abc", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareTransactionIDs(tt.a, tt.b); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSortSplits_TotalOrder(t *testing.T) {
	splits := []Split{
		{ID: "a", TransactionID: "100", Date: "2024-03-01"},
		{ID: "b", TransactionID: "200", Date: "2024-03-01"},
		{ID: "c", TransactionID: "50", Date: "2024-03-05"},
		{ID: "d", TransactionID: "100", Date: "2024-03-01"},
	}

	SortSplits(splits)

	wantOrder := []string{"c", "b", "a", "d"}
	for i, id := range wantOrder {
		if splits[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, splits[i].ID)
		}
	}
}

func TestSumAmounts(t *testing.T) {
	splits := []Split{
		{ID: "a", Amount: d("0.10")},
		{ID: "b", Amount: d("0.20")},
		{ID: "c", Amount: d("0.30")},
	}
	if got := SumAmounts(splits); !got.Equal(d("0.60")) {
		t.Errorf("Expected exact 0.60, got %s", got)
	}
	if got := SumAmounts(nil); !got.IsZero() {
		t.Errorf("Expected zero, got %s", got)
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"exact", "50.00", "50.00", true},
		{"just under", "50.00", "49.995", true},
		{"exactly at tolerance", "50.00", "49.99", false},
		{"over", "50.00", "49.98", false},
		{"symmetric", "49.995", "50.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinTolerance(d(tt.a), d(tt.b)); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSplitDay(t *testing.T) {
	sp := Split{Date: "2024-02-29"}
	day, err := sp.Day()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if day.Year() != 2024 || day.Month() != 2 || day.Day() != 29 {
		t.Errorf("Expected 2024-02-29, got %v", day)
	}
	if day.Location().String() != "UTC" {
		t.Errorf("Expected UTC, got %v", day.Location())
	}

	if _, err := (Split{Date: "29/02/2024"}).Day(); err == nil {
		t.Error("Expected error for malformed date")
	}
}
