package service

import (
	"context"
	"strings"
	"sync"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// CategoryService owns the category registry and drives the cascades a
// registry mutation forces onto the ledger: a rename rewrites every
// referencing split, a delete reassigns them to the sentinel "Other".
type CategoryService struct {
	store     domain.RecordStore
	ledger    *LedgerService
	publisher websocket.EventPublisher

	mu         sync.RWMutex
	categories []domain.Category
}

// NewCategoryService creates a CategoryService over the given store and ledger
func NewCategoryService(store domain.RecordStore, ledger *LedgerService, publisher websocket.EventPublisher) *CategoryService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &CategoryService{store: store, ledger: ledger, publisher: publisher}
}

// Load reads the persisted registry, falling back to the built-in defaults
// when nothing has been stored yet. The sentinel is always present.
func (s *CategoryService) Load(ctx context.Context) error {
	categories, err := s.store.GetCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		categories = domain.DefaultCategories()
	}
	categories = ensureSentinel(categories)

	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()

	log.Info().Int("categories", len(categories)).Msg("Category registry loaded")
	return nil
}

// List returns the registry in display order: defaults first, then custom,
// alphabetical within each group.
func (s *CategoryService) List() []domain.Category {
	s.mu.RLock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	s.mu.RUnlock()

	domain.SortCategoriesForDisplay(out)
	return out
}

// Names returns the registry's category names in display order
func (s *CategoryService) Names() []string {
	categories := s.List()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// Match returns the canonically cased registry name matching the given name
// case-insensitively. Used to validate externally suggested categories.
func (s *CategoryService) Match(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := domain.FindCategory(s.categories, name); ok {
		return c.Name, true
	}
	return "", false
}

// Add appends a non-default entry. The name must be non-empty after trimming
// and unique case-insensitively.
func (s *CategoryService) Add(ctx context.Context, name, color string) (*domain.Category, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkName(name, ""); err != nil {
		return nil, err
	}

	entry := domain.Category{Name: name, Color: color, IsDefault: false}
	next := append(copyCategories(s.categories), entry)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.publisher.Publish(websocket.CategoryCreated(entry))
	return &entry, nil
}

// Rename updates an entry's name and color and cascade-renames every split
// referencing the old name. The sentinel "Other" is never renamable.
func (s *CategoryService) Rename(ctx context.Context, oldName, newName, newColor string) (*domain.Category, int, error) {
	newName = strings.TrimSpace(newName)

	s.mu.Lock()
	defer s.mu.Unlock()

	if domain.SameCategoryName(oldName, domain.CategoryOther) {
		return nil, 0, &domain.ImmutableEntryError{Name: domain.CategoryOther, Reason: "the fallback category cannot be renamed"}
	}

	idx := s.indexOf(oldName)
	if idx < 0 {
		return nil, 0, domain.ErrCategoryNotFound
	}
	if err := s.checkName(newName, oldName); err != nil {
		return nil, 0, err
	}

	prev := s.categories
	next := copyCategories(s.categories)
	next[idx].Name = newName
	next[idx].Color = newColor
	if err := s.commit(ctx, next); err != nil {
		return nil, 0, err
	}

	// Cascade into the ledger. If the cascade's save fails, the registry
	// change is unwound so both records still agree.
	affected, err := s.ledger.ReassignCategory(ctx, oldName, newName)
	if err != nil {
		if rbErr := s.commit(ctx, prev); rbErr != nil {
			log.Error().Err(rbErr).Str("category", oldName).Msg("Failed to unwind registry rename")
		}
		return nil, 0, err
	}

	entry := next[idx]
	s.publisher.Publish(websocket.CategoryUpdated(entry))
	return &entry, len(affected), nil
}

// Delete removes a custom entry and reassigns every split referencing it to
// the sentinel "Other" as part of the same operation. Default categories and
// the sentinel itself are never deletable.
func (s *CategoryService) Delete(ctx context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if domain.SameCategoryName(name, domain.CategoryOther) {
		return 0, &domain.ImmutableEntryError{Name: domain.CategoryOther, Reason: "the fallback category cannot be deleted"}
	}

	idx := s.indexOf(name)
	if idx < 0 {
		return 0, domain.ErrCategoryNotFound
	}
	if s.categories[idx].IsDefault {
		return 0, &domain.ImmutableEntryError{Name: s.categories[idx].Name, Reason: "built-in categories cannot be deleted"}
	}
	removed := s.categories[idx]

	// Reassign the orphaned splits first; only then drop the registry entry.
	// If the registry save fails the reassignment is unwound split by split,
	// so no split is ever left pointing at a missing category.
	affected, err := s.ledger.ReassignCategory(ctx, name, domain.CategoryOther)
	if err != nil {
		return 0, err
	}

	next := make([]domain.Category, 0, len(s.categories)-1)
	next = append(next, s.categories[:idx]...)
	next = append(next, s.categories[idx+1:]...)
	if err := s.commit(ctx, next); err != nil {
		if rbErr := s.ledger.SetCategoryByID(ctx, affected, removed.Name); rbErr != nil {
			log.Error().Err(rbErr).Str("category", removed.Name).Msg("Failed to unwind cascade reassignment")
		}
		return 0, err
	}

	s.publisher.Publish(websocket.CategoryDeleted(removed))
	return len(affected), nil
}

// ReplaceAll swaps the entire registry. Used by restore.
func (s *CategoryService) ReplaceAll(ctx context.Context, categories []domain.Category) error {
	next := ensureSentinel(copyCategories(categories))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, next)
}

// checkName enforces the empty/duplicate rules. exclude names the entry being
// renamed, which is skipped in the duplicate check. Callers hold s.mu.
func (s *CategoryService) checkName(name, exclude string) error {
	if name == "" {
		return domain.NewValidationError("name", "category name is required")
	}
	if len(name) > domain.MaxCategoryNameLength {
		return domain.NewValidationError("name", "category name is too long")
	}
	for _, c := range s.categories {
		if exclude != "" && domain.SameCategoryName(c.Name, exclude) {
			continue
		}
		if domain.SameCategoryName(c.Name, name) {
			return domain.NewValidationError("name", "a category with this name already exists")
		}
	}
	return nil
}

// indexOf finds an entry by case-insensitive name. Callers hold s.mu.
func (s *CategoryService) indexOf(name string) int {
	for i, c := range s.categories {
		if domain.SameCategoryName(c.Name, name) {
			return i
		}
	}
	return -1
}

// commit persists the candidate registry and makes it visible only after the
// write succeeds. Callers hold s.mu.
func (s *CategoryService) commit(ctx context.Context, next []domain.Category) error {
	if err := s.store.SetCategories(ctx, next); err != nil {
		log.Error().Err(err).Msg("Failed to persist category registry; mutation discarded")
		return err
	}
	s.categories = next
	return nil
}

func copyCategories(categories []domain.Category) []domain.Category {
	out := make([]domain.Category, len(categories))
	copy(out, categories)
	return out
}

func ensureSentinel(categories []domain.Category) []domain.Category {
	if _, ok := domain.FindCategory(categories, domain.CategoryOther); ok {
		return categories
	}
	other, _ := domain.FindCategory(domain.DefaultCategories(), domain.CategoryOther)
	return append(categories, other)
}
