// Package terminal renders decks for the command line.
package terminal

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/export"
	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// DefaultWordWrap is the column preview text is wrapped at
const DefaultWordWrap = 80

// Previewer renders a deck as styled markdown in the terminal
type Previewer struct {
	renderer *glamour.TermRenderer
}

// NewPreviewer creates a previewer. An empty style detects the terminal
// background; "notty" produces plain text.
func NewPreviewer(style string, wordWrap int) (*Previewer, error) {
	if wordWrap <= 0 {
		wordWrap = DefaultWordWrap
	}

	styleOption := glamour.WithAutoStyle()
	if style != "" {
		styleOption = glamour.WithStandardStyle(style)
	}

	r, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(wordWrap))
	if err != nil {
		return nil, fmt.Errorf("creating terminal renderer: %w", err)
	}

	return &Previewer{renderer: r}, nil
}

// Render returns the deck's markdown handout rendered for the terminal
func (p *Previewer) Render(deck entities.Deck, includeNotes bool) (string, error) {
	out, err := p.renderer.Render(export.DeckMarkdown(deck, includeNotes))
	if err != nil {
		return "", fmt.Errorf("rendering preview: %w", err)
	}
	return out, nil
}
