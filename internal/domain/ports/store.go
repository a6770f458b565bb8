package ports

import (
	"context"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// DeckStore keeps the latest deck of a session so it can be previewed and
// exported without the client resending it
type DeckStore interface {
	// Save replaces the deck stored for sessionID
	Save(ctx context.Context, sessionID string, deck entities.Deck) error

	// Load returns the deck for sessionID or an error wrapping
	// entities.ErrSessionNotFound
	Load(ctx context.Context, sessionID string) (entities.Deck, error)

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error
}
