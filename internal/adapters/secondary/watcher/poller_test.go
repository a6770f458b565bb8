package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

func writeDeck(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func nextEvent(t *testing.T, events <-chan ports.DeckFileEvent) ports.DeckFileEvent {
	t.Helper()
	select {
	case event, ok := <-events:
		require.True(t, ok, "events channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return ports.DeckFileEvent{}
	}
}

func assertNoEvent(t *testing.T, events <-chan ports.DeckFileEvent, wait time.Duration) {
	t.Helper()
	select {
	case event := <-events:
		t.Fatalf("unexpected event: %+v", event)
	case <-time.After(wait):
	}
}

func TestDeckPoller(t *testing.T) {
	t.Run("reports content changes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.json")
		writeDeck(t, path, `[]`)

		w := NewDeckPoller(10*time.Millisecond, 0, nil)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		writeDeck(t, path, `[{"id":"slide-1","type":"title","title":"Energy"}]`)

		event := nextEvent(t, events)
		assert.Equal(t, path, event.Path)
		assert.Equal(t, ports.Modified, event.Type)
		assert.WithinDuration(t, time.Now(), event.Timestamp, 2*time.Second)
	})

	t.Run("touch without content change is ignored", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.json")
		writeDeck(t, path, `[]`)

		w := NewDeckPoller(10*time.Millisecond, 0, nil)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		later := time.Now().Add(time.Minute)
		require.NoError(t, os.Chtimes(path, later, later))

		assertNoEvent(t, events, 100*time.Millisecond)
	})

	t.Run("reports removal once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.yaml")
		writeDeck(t, path, "[]\n")

		w := NewDeckPoller(10*time.Millisecond, 0, nil)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))
		assert.Equal(t, ports.Removed, nextEvent(t, events).Type)
		assertNoEvent(t, events, 100*time.Millisecond)

		writeDeck(t, path, "[]\n")
		assert.Equal(t, ports.Modified, nextEvent(t, events).Type)
	})

	t.Run("coalesces changes inside the debounce window", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.json")
		writeDeck(t, path, `[]`)

		w := NewDeckPoller(10*time.Millisecond, 300*time.Millisecond, nil)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		writeDeck(t, path, `[{"id":"a"}]`)
		nextEvent(t, events)

		writeDeck(t, path, `[{"id":"ab"}]`)
		time.Sleep(30 * time.Millisecond)
		writeDeck(t, path, `[{"id":"abc"}]`)

		assertNoEvent(t, events, 100*time.Millisecond)
		assert.Equal(t, ports.Modified, nextEvent(t, events).Type)
		assertNoEvent(t, events, 400*time.Millisecond)
	})

	t.Run("missing file", func(t *testing.T) {
		w := NewDeckPoller(10*time.Millisecond, 0, nil)
		defer func() { _ = w.Stop() }()

		_, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("stop closes events and is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.json")
		writeDeck(t, path, `[]`)

		w := NewDeckPoller(10*time.Millisecond, 0, nil)
		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())

		_, ok := <-events
		assert.False(t, ok)

		_, err = w.Watch(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("context cancellation ends polling", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deck.json")
		writeDeck(t, path, `[]`)

		w := NewDeckPoller(10*time.Millisecond, 0, nil)
		ctx, cancel := context.WithCancel(context.Background())
		events, err := w.Watch(ctx, path)
		require.NoError(t, err)

		cancel()
		time.Sleep(30 * time.Millisecond)
		writeDeck(t, path, `[{"id":"x"}]`)
		assertNoEvent(t, events, 100*time.Millisecond)
		require.NoError(t, w.Stop())
	})
}

func TestChangeTypeString(t *testing.T) {
	assert.Equal(t, "modified", ports.Modified.String())
	assert.Equal(t, "removed", ports.Removed.String())
	assert.Equal(t, "unknown", ports.ChangeType(42).String())
}
