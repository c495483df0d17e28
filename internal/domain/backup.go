package domain

import (
	"fmt"
	"time"
)

// BackupSchemaVersion is the current backup document schema. It is
// incremented whenever the document shape changes incompatibly. Version 1
// documents predate per-category splits (no transactionId) and carry custom
// categories in a separate list.
const BackupSchemaVersion = 2

// BackupDocument is the full persisted state as one atomic unit
type BackupDocument struct {
	Version    int        `json:"version"`
	Expenses   []Split    `json:"expenses"`
	Currency   Currency   `json:"currency"`
	Categories []Category `json:"categories,omitempty"`

	// CustomCategories is only present in legacy (pre-v2) documents
	CustomCategories []LegacyCustomCategory `json:"customCategories,omitempty"`
}

// LegacyCustomCategory is a pre-v2 user-defined category entry
type LegacyCustomCategory struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// BackupFilename returns the download filename for a backup taken at t.
// The embedded date is the UTC calendar day.
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("centavo-backup-%s.json", t.UTC().Format(DateFormat))
}
