package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/test/builders"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, nil)
	deck := builders.SampleDeck()

	require.NoError(t, store.Save(ctx, "s1", deck))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, deck, loaded)

	// Stored decks are isolated from callers.
	loaded[0].Title = "Mutated"
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Renewable Energy", again[0].Title)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, entities.ErrSessionNotFound)

	assert.NoError(t, store.Delete(ctx, "unknown"))
}

func TestMemoryStore_RejectsEmptySessionID(t *testing.T) {
	err := NewMemoryStore(0, nil).Save(context.Background(), "", builders.SampleDeck())
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(time.Minute, clock)

	require.NoError(t, store.Save(ctx, "short", builders.SampleDeck()))
	require.NoError(t, store.Save(ctx, "other", builders.SampleDeck()))

	clock.Advance(30 * time.Second)
	_, err := store.Load(ctx, "short")
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	_, err = store.Load(ctx, "short")
	assert.ErrorIs(t, err, entities.ErrSessionNotFound)
	assert.Equal(t, 1, store.Len())

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryStore(0, nil)
	assert.ErrorIs(t, store.Save(ctx, "s1", builders.SampleDeck()), context.Canceled)
	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, "shared", builders.SampleDeck())
			_, _ = store.Load(ctx, "shared")
		}()
	}
	wg.Wait()

	loaded, err := store.Load(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, loaded, 5)
}

func TestNoopStore(t *testing.T) {
	ctx := context.Background()
	var store NoopStore

	require.NoError(t, store.Save(ctx, "s1", builders.SampleDeck()))
	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, entities.ErrSessionNotFound)
	assert.NoError(t, store.Delete(ctx, "s1"))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to memory", func(t *testing.T) {
		store, closeFn, err := New(ctx, entities.SessionConfig{})
		require.NoError(t, err)
		defer func() { _ = closeFn() }()
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("none", func(t *testing.T) {
		store, _, err := New(ctx, entities.SessionConfig{Backend: "none"})
		require.NoError(t, err)
		assert.IsType(t, NoopStore{}, store)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, _, err := New(ctx, entities.SessionConfig{Backend: "disk"})
		assert.Error(t, err)
	})
}
