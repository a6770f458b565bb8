package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

type memoryEntry struct {
	deck      entities.Deck
	expiresAt time.Time
}

// MemoryStore keeps decks in process memory. Expired entries are dropped
// lazily on access and by Sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	clock   ports.TimeProvider
}

// NewMemoryStore creates an in-memory store. A zero ttl keeps decks forever.
func NewMemoryStore(ttl time.Duration, clock ports.TimeProvider) *MemoryStore {
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Save replaces the deck stored for sessionID
func (s *MemoryStore) Save(ctx context.Context, sessionID string, deck entities.Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", entities.ErrInvalidInput)
	}

	entry := memoryEntry{deck: deck.Clone()}
	if s.ttl > 0 {
		entry.expiresAt = s.clock.Now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[sessionID] = entry
	s.mu.Unlock()

	return nil
}

// Load returns a copy of the deck stored for sessionID
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (entities.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrSessionNotFound, sessionID)
	}

	if s.expired(entry) {
		s.mu.Lock()
		// Re-check under the write lock, a concurrent Save may have refreshed it.
		if current, ok := s.entries[sessionID]; ok && s.expired(current) {
			delete(s.entries, sessionID)
		}
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", entities.ErrSessionNotFound, sessionID)
	}

	return entry.deck.Clone(), nil
}

// Delete removes the session
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()

	return nil
}

// Sweep drops expired sessions and returns how many were removed
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !s.clock.Now().Before(entry.expiresAt)
}

var _ ports.DeckStore = (*MemoryStore)(nil)
