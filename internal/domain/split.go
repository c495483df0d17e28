package domain

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// AmountTolerance is the largest accepted absolute difference between a
// transaction's declared total and the sum of its split amounts.
var AmountTolerance = decimal.NewFromFloat(0.01)

// Split is a single stored expense record: one category's share of a
// transaction. All splits sharing a TransactionID carry identical vendor,
// date and notes; their amounts are independent.
type Split struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Vendor        string          `json:"vendor"`
	Category      string          `json:"category"`
	Date          string          `json:"date"` // YYYY-MM-DD, interpreted in UTC
	Notes         string          `json:"notes,omitempty"`
}

// DateFormat is the stored calendar-date layout
const DateFormat = "2006-01-02"

// Day parses the split's date as a UTC calendar day
func (s Split) Day() (time.Time, error) {
	return time.ParseInLocation(DateFormat, s.Date, time.UTC)
}

// Transaction is the derived grouping of all splits sharing a TransactionID.
// It represents one purchase event, possibly divided across categories.
// Transactions are never stored; they are recomputed from the flat split
// collection on demand.
type Transaction struct {
	TransactionID string          `json:"transactionId"`
	Vendor        string          `json:"vendor"`
	Date          string          `json:"date"`
	Notes         string          `json:"notes,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Splits        []Split         `json:"splits"`
}

// IsSplit reports whether the transaction is divided across categories
func (t Transaction) IsSplit() bool {
	return len(t.Splits) > 1
}

// GroupTransactions groups splits into transactions, preserving the order in
// which transaction ids first appear in the input.
func GroupTransactions(splits []Split) []Transaction {
	index := make(map[string]int)
	var out []Transaction
	for _, sp := range splits {
		i, ok := index[sp.TransactionID]
		if !ok {
			index[sp.TransactionID] = len(out)
			out = append(out, Transaction{
				TransactionID: sp.TransactionID,
				Vendor:        sp.Vendor,
				Date:          sp.Date,
				Notes:         sp.Notes,
				Total:         decimal.Zero,
			})
			i = len(out) - 1
		}
		out[i].Splits = append(out[i].Splits, sp)
		out[i].Total = out[i].Total.Add(sp.Amount)
	}
	return out
}

// CompareTransactionIDs orders transaction ids by their numeric value, most
// recent first when used with SortSplits. Ids are minted as decimal strings of
// a strictly increasing sequence; a non-numeric id (possible only in foreign
// documents) falls back to plain string comparison so the order stays total.
func CompareTransactionIDs(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SplitLess is the ledger's total order: date descending, then transaction id
// numerically descending, so the most recently created transaction comes
// first among same-date transactions.
func SplitLess(a, b Split) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	return CompareTransactionIDs(a.TransactionID, b.TransactionID) > 0
}

// SortSplits sorts splits in place per the ledger's total order
func SortSplits(splits []Split) {
	sort.SliceStable(splits, func(i, j int) bool {
		return SplitLess(splits[i], splits[j])
	})
}

// SumAmounts returns the sum of the splits' amounts
func SumAmounts(splits []Split) decimal.Decimal {
	total := decimal.Zero
	for _, sp := range splits {
		total = total.Add(sp.Amount)
	}
	return total
}

// WithinTolerance reports whether |a - b| < AmountTolerance
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(AmountTolerance)
}
