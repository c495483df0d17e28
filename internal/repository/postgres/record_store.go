package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record names for the three persisted documents
const (
	recordSplits     = "splits"
	recordCategories = "categories"
	recordCurrency   = "currency"
)

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS records (
	name       TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertRecord = `
INSERT INTO records (name, doc, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`

// RecordStore implements domain.RecordStore using PostgreSQL. Each named
// record is one jsonb row; a write replaces the whole document.
type RecordStore struct {
	pool *pgxpool.Pool
}

// NewRecordStore creates a RecordStore and ensures its schema exists
func NewRecordStore(ctx context.Context, pool *pgxpool.Pool) (*RecordStore, error) {
	if _, err := pool.Exec(ctx, createRecordsTable); err != nil {
		return nil, fmt.Errorf("ensure records table: %w", err)
	}
	return &RecordStore{pool: pool}, nil
}

// GetSplits reads the split ledger record
func (r *RecordStore) GetSplits(ctx context.Context) ([]domain.Split, error) {
	var splits []domain.Split
	found, err := r.get(ctx, recordSplits, &splits)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.Split{}, nil
	}
	return splits, nil
}

// SetSplits replaces the split ledger record
func (r *RecordStore) SetSplits(ctx context.Context, splits []domain.Split) error {
	return r.set(ctx, recordSplits, splits)
}

// GetCategories reads the category registry record
func (r *RecordStore) GetCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	found, err := r.get(ctx, recordCategories, &categories)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return categories, nil
}

// SetCategories replaces the category registry record
func (r *RecordStore) SetCategories(ctx context.Context, categories []domain.Category) error {
	return r.set(ctx, recordCategories, categories)
}

// GetCurrency reads the currency selection record; nil when unset
func (r *RecordStore) GetCurrency(ctx context.Context) (*domain.Currency, error) {
	var currency domain.Currency
	found, err := r.get(ctx, recordCurrency, &currency)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &currency, nil
}

// SetCurrency replaces the currency selection record
func (r *RecordStore) SetCurrency(ctx context.Context, currency domain.Currency) error {
	return r.set(ctx, recordCurrency, currency)
}

func (r *RecordStore) get(ctx context.Context, name string, v interface{}) (bool, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM records WHERE name = $1`, name).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("read record %s: %w", name, err)
	}
	if err := json.Unmarshal(doc, v); err != nil {
		return false, fmt.Errorf("decode record %s: %w", name, err)
	}
	return true, nil
}

func (r *RecordStore) set(ctx context.Context, name string, v interface{}) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", name, err)
	}
	if _, err := r.pool.Exec(ctx, upsertRecord, name, doc); err != nil {
		return fmt.Errorf("write record %s: %w", name, err)
	}
	return nil
}
