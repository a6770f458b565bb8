// Package session provides the deck stores backing HTTP sessions.
package session

import (
	"context"
	"fmt"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

// NoopStore discards decks. It backs the "none" session backend.
type NoopStore struct{}

// Save does nothing
func (NoopStore) Save(context.Context, string, entities.Deck) error { return nil }

// Load always reports the session as missing
func (NoopStore) Load(_ context.Context, sessionID string) (entities.Deck, error) {
	return nil, fmt.Errorf("%w: %s", entities.ErrSessionNotFound, sessionID)
}

// Delete does nothing
func (NoopStore) Delete(context.Context, string) error { return nil }

// New builds the store selected by cfg. The returned close function releases
// backend connections and is never nil.
func New(ctx context.Context, cfg entities.SessionConfig) (ports.DeckStore, func() error, error) {
	switch cfg.GetBackend() {
	case entities.SessionBackendNone:
		return NoopStore{}, func() error { return nil }, nil
	case entities.SessionBackendMemory:
		return NewMemoryStore(cfg.GetTTL(), nil), func() error { return nil }, nil
	case entities.SessionBackendRedis:
		store := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			WithTTL(cfg.GetTTL()),
			WithPrefix(cfg.GetKeyPrefix()),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend: %s", cfg.Backend)
	}
}

var _ ports.DeckStore = NoopStore{}
