package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/repository/storage"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// ErrArchiveDisabled is returned when no backup archive is configured
var ErrArchiveDisabled = errors.New("backup archive is not configured")

// BackupArchive stores backup documents off-box. Implemented by the S3
// repository; nil when no archive is configured.
type BackupArchive interface {
	Upload(ctx context.Context, filename string, doc []byte) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context) ([]storage.BackupObject, error)
}

// BackupService serializes and restores the full persisted state (ledger +
// registry + currency) as one versioned document.
type BackupService struct {
	ledger     *LedgerService
	categories *CategoryService
	settings   *SettingsService
	archive    BackupArchive
	publisher  websocket.EventPublisher
}

// NewBackupService creates a BackupService. archive may be nil.
func NewBackupService(ledger *LedgerService, categories *CategoryService, settings *SettingsService, archive BackupArchive, publisher websocket.EventPublisher) *BackupService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &BackupService{
		ledger:     ledger,
		categories: categories,
		settings:   settings,
		archive:    archive,
		publisher:  publisher,
	}
}

// Export builds the current state as a backup document plus its download
// filename.
func (s *BackupService) Export(now time.Time) (string, *domain.BackupDocument) {
	doc := &domain.BackupDocument{
		Version:    domain.BackupSchemaVersion,
		Expenses:   s.ledger.All(),
		Currency:   s.settings.Currency(),
		Categories: s.categories.List(),
	}
	return domain.BackupFilename(now), doc
}

// RestoreResult summarizes a successful restore
type RestoreResult struct {
	Splits       int `json:"splits"`
	Transactions int `json:"transactions"`
	Categories   int `json:"categories"`
}

// Restore replaces the entire ledger, registry and currency from a backup
// document. A failed restore leaves prior state completely untouched; a
// malformed document fails with FormatError before any state is touched.
func (s *BackupService) Restore(ctx context.Context, data []byte) (*RestoreResult, error) {
	doc, err := Deserialize(data)
	if err != nil {
		return nil, err
	}

	prevSplits := s.ledger.All()
	prevCategories := s.categories.List()

	if err := s.ledger.ReplaceAll(ctx, doc.Expenses); err != nil {
		return nil, err
	}
	if err := s.categories.ReplaceAll(ctx, doc.Categories); err != nil {
		s.rollback(ctx, prevSplits, nil)
		return nil, err
	}
	if err := s.settings.Replace(ctx, doc.Currency); err != nil {
		s.rollback(ctx, prevSplits, prevCategories)
		return nil, err
	}

	result := &RestoreResult{
		Splits:       len(doc.Expenses),
		Transactions: len(domain.GroupTransactions(doc.Expenses)),
		Categories:   len(doc.Categories),
	}
	s.publisher.Publish(websocket.BackupRestored(result))
	log.Info().
		Int("splits", result.Splits).
		Int("categories", result.Categories).
		Msg("Backup restored")
	return result, nil
}

// rollback best-effort restores previously applied records after a partial
// restore failure. Passing nil skips a record.
func (s *BackupService) rollback(ctx context.Context, splits []domain.Split, categories []domain.Category) {
	if splits != nil {
		if err := s.ledger.ReplaceAll(ctx, splits); err != nil {
			log.Error().Err(err).Msg("Failed to unwind ledger after partial restore")
		}
	}
	if categories != nil {
		if err := s.categories.ReplaceAll(ctx, categories); err != nil {
			log.Error().Err(err).Msg("Failed to unwind registry after partial restore")
		}
	}
}

// Archive uploads the current state to the backup archive and returns the
// object key. Archiving is independent of restore: a failed archive never
// touches local state.
func (s *BackupService) Archive(ctx context.Context, now time.Time) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveDisabled
	}

	filename, doc := s.Export(now)
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	key, err := s.archive.Upload(ctx, filename, data)
	if err != nil {
		return "", err
	}

	log.Info().Str("key", key).Msg("Backup archived")
	return key, nil
}

// ListArchived returns the archived backups, most recent first
func (s *BackupService) ListArchived(ctx context.Context) ([]storage.BackupObject, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.List(ctx)
}

// RestoreArchived downloads an archived backup and restores it
func (s *BackupService) RestoreArchived(ctx context.Context, key string) (*RestoreResult, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	data, err := s.archive.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.Restore(ctx, data)
}

// rawBackup keeps expenses raw so a non-list value is detected explicitly
type rawBackup struct {
	Version          *int                          `json:"version"`
	Expenses         json.RawMessage               `json:"expenses"`
	Currency         *domain.Currency              `json:"currency"`
	Categories       []domain.Category             `json:"categories"`
	CustomCategories []domain.LegacyCustomCategory `json:"customCategories"`
}

// Deserialize parses and upgrades a backup document. It fails with
// FormatError when the document is not a JSON object, expenses is not a
// list, or the currency code is missing.
func Deserialize(data []byte) (*domain.BackupDocument, error) {
	var raw rawBackup
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.FormatError{Reason: "document is not a JSON object"}
	}

	if len(raw.Expenses) == 0 {
		return nil, &domain.FormatError{Reason: "expenses must be a list"}
	}
	var expenses []domain.Split
	if err := json.Unmarshal(raw.Expenses, &expenses); err != nil {
		return nil, &domain.FormatError{Reason: "expenses must be a list"}
	}
	if expenses == nil {
		return nil, &domain.FormatError{Reason: "expenses must be a list"}
	}

	if raw.Currency == nil || raw.Currency.Code == "" {
		return nil, &domain.FormatError{Reason: "currency code is missing"}
	}

	doc := &domain.BackupDocument{
		Expenses:         expenses,
		Currency:         *raw.Currency,
		Categories:       raw.Categories,
		CustomCategories: raw.CustomCategories,
	}
	if raw.Version != nil {
		doc.Version = *raw.Version
	}

	if doc.Version < domain.BackupSchemaVersion {
		MigrateLegacy(doc)
	}
	return doc, nil
}

// MigrateLegacy upgrades a pre-v2 document in place. Legacy single-split
// records become their own transaction (transactionId := id) and the legacy
// custom-category list is merged with the built-in defaults, skipping name
// collisions. Running the upgrade on an already-migrated document changes
// nothing.
func MigrateLegacy(doc *domain.BackupDocument) {
	for i := range doc.Expenses {
		if doc.Expenses[i].TransactionID == "" {
			doc.Expenses[i].TransactionID = doc.Expenses[i].ID
		}
	}

	if len(doc.Categories) == 0 {
		categories := domain.DefaultCategories()
		for _, legacy := range doc.CustomCategories {
			if _, exists := domain.FindCategory(categories, legacy.Name); exists {
				continue
			}
			categories = append(categories, domain.Category{
				Name:      legacy.Name,
				Color:     legacy.Color,
				IsDefault: false,
			})
		}
		doc.Categories = categories
	}

	doc.CustomCategories = nil
	doc.Version = domain.BackupSchemaVersion
}
