package ports

import (
	"context"
	"time"
)

// DeckWatcher reports changes to a deck file on disk
type DeckWatcher interface {
	// Watch starts watching path. The channel is closed by Stop.
	Watch(ctx context.Context, path string) (<-chan DeckFileEvent, error)
	// Stop stops every watch started by this watcher
	Stop() error
}

// DeckFileEvent describes one observed change
type DeckFileEvent struct {
	Path      string
	Type      ChangeType
	Timestamp time.Time
}

// ChangeType represents the type of file change
type ChangeType int

const (
	// Modified indicates the file content changed or the file reappeared
	Modified ChangeType = iota
	// Removed indicates the file no longer exists
	Removed
)

// String returns the string representation of ChangeType
func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}
