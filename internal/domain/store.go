package domain

import "context"

// RecordStore is the persistence collaborator. The core state lives in three
// named records - the split ledger, the category registry and the currency
// selection - each read and written independently as a JSON document.
type RecordStore interface {
	GetSplits(ctx context.Context) ([]Split, error)
	SetSplits(ctx context.Context, splits []Split) error
	GetCategories(ctx context.Context) ([]Category, error)
	SetCategories(ctx context.Context, categories []Category) error
	// GetCurrency returns nil when no selection has been stored yet
	GetCurrency(ctx context.Context) (*Currency, error)
	SetCurrency(ctx context.Context, currency Currency) error
}
