package service

import (
	"context"
	"sync"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

// SettingsService owns the currency selection
type SettingsService struct {
	store     domain.RecordStore
	publisher websocket.EventPublisher

	mu       sync.RWMutex
	currency domain.Currency
}

// NewSettingsService creates a SettingsService over the given store
func NewSettingsService(store domain.RecordStore, publisher websocket.EventPublisher) *SettingsService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &SettingsService{store: store, publisher: publisher}
}

// Load reads the persisted selection, defaulting when none is stored
func (s *SettingsService) Load(ctx context.Context) error {
	currency, err := s.store.GetCurrency(ctx)
	if err != nil {
		return err
	}
	if currency == nil {
		def := domain.DefaultCurrency()
		currency = &def
	}

	s.mu.Lock()
	s.currency = *currency
	s.mu.Unlock()

	log.Info().Str("currency", currency.Code).Msg("Currency selection loaded")
	return nil
}

// Currency returns the current selection
func (s *SettingsService) Currency() domain.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency
}

// SetCurrency changes the selection to a supported currency by code
func (s *SettingsService) SetCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	currency, ok := domain.FindCurrency(code)
	if !ok {
		return nil, domain.ErrCurrencyNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, currency); err != nil {
		return nil, err
	}
	s.publisher.Publish(websocket.CurrencyUpdated(currency))
	return &currency, nil
}

// Replace swaps the selection for an arbitrary currency value. Used by
// restore, where the document's currency is taken as-is.
func (s *SettingsService) Replace(ctx context.Context, currency domain.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, currency)
}

func (s *SettingsService) commit(ctx context.Context, currency domain.Currency) error {
	if err := s.store.SetCurrency(ctx, currency); err != nil {
		log.Error().Err(err).Msg("Failed to persist currency selection; mutation discarded")
		return err
	}
	s.currency = currency
	return nil
}
