package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService turns user-declared transaction intent into committed or
// rejected sets of splits. A rejected intent never touches the ledger.
type TransactionService struct {
	ledger    *LedgerService
	publisher websocket.EventPublisher

	// Transaction ids must be unique and numerically ordered by creation,
	// because the ledger sort tie-breaks on them. The mint takes its floor
	// from the wall clock, the last minted id and the largest id already in
	// the ledger; wall-clock alone could collide under rapid successive
	// creation, and a restored backup can carry ids ahead of the local clock.
	idMu   sync.Mutex
	lastID int64
}

// NewTransactionService creates a TransactionService over the given ledger
func NewTransactionService(ledger *LedgerService, publisher websocket.EventPublisher) *TransactionService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &TransactionService{
		ledger:    ledger,
		publisher: publisher,
	}
}

// SplitInput is one category's share of a declared transaction
type SplitInput struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

// TransactionInput is the user-declared intent for one transaction
type TransactionInput struct {
	Vendor string          `json:"vendor"`
	Date   string          `json:"date"`
	Notes  string          `json:"notes"`
	Total  decimal.Decimal `json:"total"`
	Splits []SplitInput    `json:"splits"`
}

// ValidateResult carries the outcome of validating a transaction intent.
// Remaining (declared total minus split sum) is computed even when the intent
// is invalid, for inline feedback while the user is still typing.
type ValidateResult struct {
	Valid     bool                     `json:"valid"`
	Remaining decimal.Decimal          `json:"remaining"`
	Errors    []domain.ValidationError `json:"errors,omitempty"`
}

// Validate checks a transaction intent against the commit invariants:
// positive declared total, non-empty vendor, at least one split, every split
// with a positive amount and a category, and |total - sum| < 0.01.
func (s *TransactionService) Validate(input TransactionInput) ValidateResult {
	var errs []domain.ValidationError

	if !input.Total.IsPositive() {
		errs = append(errs, domain.ValidationError{Field: "total", Message: "declared total must be greater than zero"})
	}
	if strings.TrimSpace(input.Vendor) == "" {
		errs = append(errs, domain.ValidationError{Field: "vendor", Message: "vendor is required"})
	}
	if len(strings.TrimSpace(input.Vendor)) > domain.MaxVendorLength {
		errs = append(errs, domain.ValidationError{Field: "vendor", Message: "vendor is too long"})
	}
	if _, err := time.ParseInLocation(domain.DateFormat, input.Date, time.UTC); err != nil {
		errs = append(errs, domain.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}
	if len(input.Notes) > domain.MaxNotesLength {
		errs = append(errs, domain.ValidationError{Field: "notes", Message: "notes are too long"})
	}
	if len(input.Splits) == 0 {
		errs = append(errs, domain.ValidationError{Field: "splits", Message: "at least one split is required"})
	}

	sum := decimal.Zero
	for i, sp := range input.Splits {
		field := "splits[" + strconv.Itoa(i) + "]"
		if !sp.Amount.IsPositive() {
			errs = append(errs, domain.ValidationError{Field: field + ".amount", Message: "amount must be greater than zero"})
		}
		if strings.TrimSpace(sp.Category) == "" {
			errs = append(errs, domain.ValidationError{Field: field + ".category", Message: "category is required"})
		}
		sum = sum.Add(sp.Amount)
	}

	remaining := input.Total.Sub(sum)
	if len(input.Splits) > 0 && !domain.WithinTolerance(input.Total, sum) {
		errs = append(errs, domain.ValidationError{Field: "splits", Message: "split amounts must add up to the declared total"})
	}

	return ValidateResult{
		Valid:     len(errs) == 0,
		Remaining: remaining,
		Errors:    errs,
	}
}

// Create mints a new transaction id, builds one split per input split and
// inserts the batch. Fails with a ValidationError when the intent is invalid.
func (s *TransactionService) Create(ctx context.Context, input TransactionInput) (*domain.Transaction, error) {
	if result := s.Validate(input); !result.Valid {
		return nil, &result.Errors[0]
	}

	transactionID := s.mintTransactionID()
	splits := s.buildSplits(transactionID, input)
	if err := s.ledger.Insert(ctx, splits); err != nil {
		return nil, err
	}

	txn := domain.GroupTransactions(splits)[0]
	s.publisher.Publish(websocket.TransactionCreated(txn))
	return &txn, nil
}

// Update validates the intent and atomically replaces all existing splits of
// the transaction with a freshly built set. New splits get fresh ids; the
// transaction id is retained.
func (s *TransactionService) Update(ctx context.Context, transactionID string, input TransactionInput) (*domain.Transaction, error) {
	if result := s.Validate(input); !result.Valid {
		return nil, &result.Errors[0]
	}

	splits := s.buildSplits(transactionID, input)
	if err := s.ledger.ReplaceTransaction(ctx, transactionID, splits); err != nil {
		return nil, err
	}

	txn := domain.GroupTransactions(splits)[0]
	s.publisher.Publish(websocket.TransactionUpdated(txn))
	return &txn, nil
}

// Delete removes every split of the transaction. Deleting a transaction that
// does not exist is a no-op.
func (s *TransactionService) Delete(ctx context.Context, transactionID string) error {
	removed, err := s.ledger.DeleteTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.publisher.Publish(websocket.TransactionDeleted(map[string]string{"transactionId": transactionID}))
	}
	return nil
}

// Get returns one transaction grouped from its splits
func (s *TransactionService) Get(transactionID string) (*domain.Transaction, error) {
	splits := s.ledger.Transaction(transactionID)
	if len(splits) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	txn := domain.GroupTransactions(splits)[0]
	return &txn, nil
}

// List returns transactions in ledger order, optionally filtered by month
// ("YYYY-MM") and category name.
func (s *TransactionService) List(month, category string) []domain.Transaction {
	splits := s.ledger.Query(func(sp domain.Split) bool {
		if month != "" && !strings.HasPrefix(sp.Date, month+"-") {
			return false
		}
		if category != "" && !domain.SameCategoryName(sp.Category, category) {
			return false
		}
		return true
	})
	txns := domain.GroupTransactions(splits)
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns
}

// Consolidate collapses a split intent into a single split carrying the full
// declared total under the chosen category. This is the form-side "split
// off" toggle; the result still has to pass Validate before commit.
func Consolidate(input TransactionInput, category string) TransactionInput {
	out := input
	out.Splits = []SplitInput{{Amount: input.Total, Category: category}}
	return out
}

func (s *TransactionService) buildSplits(transactionID string, input TransactionInput) []domain.Split {
	vendor := strings.TrimSpace(input.Vendor)
	notes := strings.TrimSpace(input.Notes)

	splits := make([]domain.Split, len(input.Splits))
	for i, sp := range input.Splits {
		splits[i] = domain.Split{
			ID:            uuid.New().String(),
			TransactionID: transactionID,
			Amount:        sp.Amount,
			Vendor:        vendor,
			Category:      strings.TrimSpace(sp.Category),
			Date:          input.Date,
			Notes:         notes,
		}
	}
	return splits
}

func (s *TransactionService) mintTransactionID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	floor := s.lastID
	if max := s.ledger.MaxNumericTransactionID(); max > floor {
		floor = max
	}
	now := time.Now().UnixMilli()
	if now <= floor {
		s.lastID = floor + 1
	} else {
		s.lastID = now
	}
	return strconv.FormatInt(s.lastID, 10)
}
