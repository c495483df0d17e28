package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// LedgerService owns the ordered collection of all persisted splits. The
// collection lives in memory and is written through to the record store on
// every mutation; a mutation only becomes visible after its write succeeds,
// so a failed save never leaves memory and store out of step.
type LedgerService struct {
	store  domain.RecordStore
	mu     sync.RWMutex
	splits []domain.Split
}

// NewLedgerService creates a LedgerService over the given store
func NewLedgerService(store domain.RecordStore) *LedgerService {
	return &LedgerService{store: store}
}

// Load reads the persisted ledger into memory. Called once at startup.
func (s *LedgerService) Load(ctx context.Context) error {
	splits, err := s.store.GetSplits(ctx)
	if err != nil {
		return err
	}
	domain.SortSplits(splits)

	s.mu.Lock()
	s.splits = splits
	s.mu.Unlock()

	log.Info().Int("splits", len(splits)).Msg("Ledger loaded")
	return nil
}

// All returns a snapshot of the full ledger in its total order
func (s *LedgerService) All() []domain.Split {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Split, len(s.splits))
	copy(out, s.splits)
	return out
}

// Query returns an order-preserving filtered snapshot
func (s *LedgerService) Query(pred func(domain.Split) bool) []domain.Split {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Split
	for _, sp := range s.splits {
		if pred(sp) {
			out = append(out, sp)
		}
	}
	return out
}

// Transaction returns the splits of one transaction, in ledger order
func (s *LedgerService) Transaction(transactionID string) []domain.Split {
	return s.Query(func(sp domain.Split) bool {
		return sp.TransactionID == transactionID
	})
}

// Insert appends splits and re-sorts the collection per the total order
func (s *LedgerService) Insert(ctx context.Context, splits []domain.Split) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Split, 0, len(s.splits)+len(splits))
	next = append(next, s.splits...)
	next = append(next, splits...)
	domain.SortSplits(next)

	return s.commit(ctx, next)
}

// DeleteTransaction removes every split with the given transaction id and
// returns how many were removed. Removing a transaction that does not exist
// is a no-op, not an error.
func (s *LedgerService) DeleteTransaction(ctx context.Context, transactionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Split, 0, len(s.splits))
	removed := 0
	for _, sp := range s.splits {
		if sp.TransactionID == transactionID {
			removed++
			continue
		}
		next = append(next, sp)
	}
	if removed == 0 {
		return 0, nil
	}

	if err := s.commit(ctx, next); err != nil {
		return 0, err
	}
	return removed, nil
}

// ReplaceTransaction atomically swaps all splits of a transaction for a new
// set. Either the whole replacement lands or nothing does.
func (s *LedgerService) ReplaceTransaction(ctx context.Context, transactionID string, newSplits []domain.Split) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Split, 0, len(s.splits)+len(newSplits))
	found := false
	for _, sp := range s.splits {
		if sp.TransactionID == transactionID {
			found = true
			continue
		}
		next = append(next, sp)
	}
	if !found {
		return domain.ErrTransactionNotFound
	}
	next = append(next, newSplits...)
	domain.SortSplits(next)

	return s.commit(ctx, next)
}

// ReassignCategory rewrites the category of every split matching oldName
// (case-insensitive) to newName, returning the ids of the affected splits.
func (s *LedgerService) ReassignCategory(ctx context.Context, oldName, newName string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Split, len(s.splits))
	copy(next, s.splits)

	var affected []string
	for i := range next {
		if domain.SameCategoryName(next[i].Category, oldName) {
			next[i].Category = newName
			affected = append(affected, next[i].ID)
		}
	}
	if len(affected) == 0 {
		return nil, nil
	}

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return affected, nil
}

// SetCategoryByID rewrites the category of exactly the given splits. Used to
// unwind a cascade when a later step of a registry mutation fails.
func (s *LedgerService) SetCategoryByID(ctx context.Context, ids []string, name string) error {
	if len(ids) == 0 {
		return nil
	}
	member := make(map[string]bool, len(ids))
	for _, id := range ids {
		member[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Split, len(s.splits))
	copy(next, s.splits)
	for i := range next {
		if member[next[i].ID] {
			next[i].Category = name
		}
	}
	return s.commit(ctx, next)
}

// ReplaceAll swaps the entire ledger for a new collection. Used by restore.
func (s *LedgerService) ReplaceAll(ctx context.Context, splits []domain.Split) error {
	next := make([]domain.Split, len(splits))
	copy(next, splits)
	domain.SortSplits(next)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, next)
}

// MaxNumericTransactionID returns the largest numeric transaction id in the
// ledger, or 0 when none. Seeds the transaction id sequence at startup.
func (s *LedgerService) MaxNumericTransactionID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var max int64
	for _, sp := range s.splits {
		if n, err := strconv.ParseInt(sp.TransactionID, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return max
}

// commit persists the candidate collection and makes it visible only after
// the write succeeds. Callers must hold s.mu.
func (s *LedgerService) commit(ctx context.Context, next []domain.Split) error {
	if err := s.store.SetSplits(ctx, next); err != nil {
		log.Error().Err(err).Msg("Failed to persist ledger; mutation discarded")
		return err
	}
	s.splits = next
	return nil
}
