package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
	"github.com/fredcamaral/promptdeck/internal/test/builders"
)

type recordingExporter struct {
	mu    sync.Mutex
	decks []entities.Deck
}

func (e *recordingExporter) Export(_ context.Context, deck entities.Deck, req ports.ExportRequest) (*ports.ExportResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.decks = append(e.decks, deck)
	return &ports.ExportResult{Format: req.Format, OutputPath: req.OutputPath, SlideCount: len(deck)}, nil
}

func (e *recordingExporter) SupportedFormats() []string { return []string{"markdown"} }

func (e *recordingExporter) exported() []entities.Deck {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]entities.Deck(nil), e.decks...)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchDeckFile(t *testing.T) {
	path := writeSampleDeck(t, "talk.json")
	exporter := &recordingExporter{}
	out := &lockedBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		req := ports.ExportRequest{Format: "markdown", OutputPath: "/tmp/talk.md"}
		done <- watchDeckFile(ctx, watcher.NewDeckPoller(10*time.Millisecond, 0, nil), exporter, path, req, out, zap.NewNop())
	}()

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Watching "+path)
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, writeDeckFile(path, builders.SampleDeck()[:3], deckFormatJSON))
	assert.Eventually(t, func() bool {
		decks := exporter.exported()
		return len(decks) == 1 && len(decks[0]) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Exported 3 slides as markdown to /tmp/talk.md")
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Re-export failed")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, exporter.exported(), 1)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchDeckFileMissing(t *testing.T) {
	err := watchDeckFile(context.Background(), watcher.NewDeckPoller(10*time.Millisecond, 0, nil),
		&recordingExporter{}, filepath.Join(t.TempDir(), "gone.json"), ports.ExportRequest{}, &lockedBuffer{}, zap.NewNop())
	require.Error(t, err)
}
