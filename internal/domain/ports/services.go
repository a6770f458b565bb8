package ports

import (
	"context"
	"time"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// GenerationMode tells whether a deck was generated fresh or derived from
// an existing one
type GenerationMode string

const (
	ModeGenerate GenerationMode = "generate"
	ModeUpdate   GenerationMode = "update"
)

// GenerateRequest is the input of a generate call: a prompt and the deck the
// caller currently holds (nil or empty for a fresh deck)
type GenerateRequest struct {
	Prompt   string
	Existing entities.Deck
}

// GenerateResult is the deck produced for a GenerateRequest
type GenerateResult struct {
	Slides entities.Deck
	Mode   GenerationMode
	// Topic is set for fresh decks
	Topic string
	// Action names the update rule applied ("add", "remove", "change", "none")
	Action string
}

// DeckService is the request handler for deck generation
type DeckService interface {
	// Generate validates the request and either generates a fresh deck or
	// applies the prompt to the existing one. Errors wrap
	// entities.ErrInvalidInput or entities.ErrGenerationFailure.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

// ExportRequest describes one export of a deck to a file
type ExportRequest struct {
	Format       string
	OutputPath   string
	Title        string
	IncludeNotes bool
	PageSize     string
	Quality      string
}

// ExportResult describes the file produced by an export
type ExportResult struct {
	Format      string
	OutputPath  string
	MimeType    string
	FileSize    int64
	SlideCount  int
	Files       []string
	Warnings    []string
	Duration    time.Duration
	GeneratedAt time.Time
}

// DeckExporter converts decks into presentation files
type DeckExporter interface {
	// Export renders deck into req.OutputPath in req.Format
	Export(ctx context.Context, deck entities.Deck, req ExportRequest) (*ExportResult, error)

	// SupportedFormats lists the formats Export accepts
	SupportedFormats() []string
}
