package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

// snapshot is what the poller last saw at a path
type snapshot struct {
	exists   bool
	size     int64
	modTime  time.Time
	checksum string
}

// DeckPoller implements ports.DeckWatcher by polling file metadata and
// hashing content only when size or mtime moved
type DeckPoller struct {
	interval time.Duration
	debounce time.Duration
	clock    ports.TimeProvider
	logger   *zap.Logger

	mu        sync.Mutex
	snapshots map[string]snapshot
	events    chan ports.DeckFileEvent
	wg        sync.WaitGroup
	stopped   bool
	stopCh    chan struct{}
}

// NewDeckPoller creates a poller. Changes seen within debounce of the last
// delivered event are coalesced into one event.
func NewDeckPoller(interval, debounce time.Duration, logger *zap.Logger) *DeckPoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeckPoller{
		interval:  interval,
		debounce:  debounce,
		clock:     ports.NewRealTimeProvider(),
		logger:    logger.Named("watcher"),
		snapshots: make(map[string]snapshot),
		events:    make(chan ports.DeckFileEvent, 10),
		stopCh:    make(chan struct{}),
	}
}

// Watch starts polling path. The file must exist when Watch is called.
func (w *DeckPoller) Watch(ctx context.Context, path string) (<-chan ports.DeckFileEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	snap, err := scan(absPath)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}
	if !snap.exists {
		return nil, fmt.Errorf("watching %s: %w", path, fs.ErrNotExist)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil, errors.New("watcher stopped")
	}
	w.snapshots[absPath] = snap

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, absPath)
	}()

	return w.events, nil
}

// Stop ends every poll loop and closes the events channel
func (w *DeckPoller) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	return nil
}

func (w *DeckPoller) pollLoop(ctx context.Context, path string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		pending  *ports.DeckFileEvent
		lastSent time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
		}

		changeType, changed, err := w.check(path)
		if err != nil {
			w.logger.Warn("watch error", zap.String("path", path), zap.Error(err))
			continue
		}
		if changed {
			pending = &ports.DeckFileEvent{Path: path, Type: changeType, Timestamp: w.clock.Now()}
		}

		if pending == nil || (!lastSent.IsZero() && w.clock.Since(lastSent) < w.debounce) {
			continue
		}

		select {
		case w.events <- *pending:
			w.logger.Debug("deck file changed", zap.String("path", path), zap.Stringer("type", pending.Type))
			lastSent = w.clock.Now()
			pending = nil
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

// check compares path against its last snapshot and records the new one
func (w *DeckPoller) check(path string) (ports.ChangeType, bool, error) {
	w.mu.Lock()
	old := w.snapshots[path]
	w.mu.Unlock()

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !old.exists {
			return 0, false, nil
		}
		w.record(path, snapshot{})
		return ports.Removed, true, nil
	case err != nil:
		return 0, false, fmt.Errorf("stat file: %w", err)
	}

	if old.exists && old.size == info.Size() && old.modTime.Equal(info.ModTime()) {
		return 0, false, nil
	}

	checksum, err := checksumFile(path)
	if err != nil {
		return 0, false, fmt.Errorf("calculate checksum: %w", err)
	}

	w.record(path, snapshot{exists: true, size: info.Size(), modTime: info.ModTime(), checksum: checksum})
	if old.exists && old.checksum == checksum {
		return 0, false, nil
	}
	return ports.Modified, true, nil
}

func (w *DeckPoller) record(path string, snap snapshot) {
	w.mu.Lock()
	w.snapshots[path] = snap
	w.mu.Unlock()
}

func scan(path string) (snapshot, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return snapshot{}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("stat file: %w", err)
	}

	checksum, err := checksumFile(path)
	if err != nil {
		return snapshot{}, fmt.Errorf("calculate checksum: %w", err)
	}
	return snapshot{exists: true, size: info.Size(), modTime: info.ModTime(), checksum: checksum}, nil
}

func checksumFile(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 - path is the deck being watched
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

var _ ports.DeckWatcher = (*DeckPoller)(nil)
