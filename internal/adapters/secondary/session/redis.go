package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

const defaultKeyPrefix = "promptdeck:deck:"

// RedisStore implements ports.DeckStore on top of Redis. Decks are stored as
// JSON strings under prefix+sessionID.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a RedisStore
type Option func(*RedisStore)

// WithTTL sets the expiration of stored decks
func WithTTL(ttl time.Duration) Option {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix
func WithPrefix(prefix string) Option {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore connects a store to the redis server at address
func NewRedisStore(address, password string, db int, opts ...Option) *RedisStore {
	return NewRedisStoreFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *backend.Client, opts ...Option) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: defaultKeyPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

// Ping checks the connection
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}

// Save persists the deck as JSON
func (s *RedisStore) Save(ctx context.Context, sessionID string, deck entities.Deck) error {
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", entities.ErrInvalidInput)
	}

	data, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("failed to marshal deck: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}

	return nil
}

// Load retrieves the deck for sessionID
func (s *RedisStore) Load(ctx context.Context, sessionID string) (entities.Deck, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", entities.ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to load from redis: %w", err)
	}

	var deck entities.Deck
	if err := json.Unmarshal(val, &deck); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deck: %w", err)
	}

	return deck, nil
}

// Delete removes the session
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close releases the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ ports.DeckStore = (*RedisStore)(nil)
