package services

import (
	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

const (
	titleSubtitle = "AI Generated Presentation"
	titleNotes    = "This is the title slide introducing the presentation topic."

	conclusionTitle = "Conclusion"
	conclusionNotes = "Summary slide wrapping up the presentation."
)

// DeckGenerator builds fresh decks from the template catalog
type DeckGenerator struct {
	catalog      *TemplateCatalog
	ids          ports.IDGenerator
	defaultCount int
	maxCount     int
}

// NewDeckGenerator creates a generator. cfg supplies the default and
// maximum slide counts.
func NewDeckGenerator(catalog *TemplateCatalog, ids ports.IDGenerator, cfg entities.GeneratorConfig) *DeckGenerator {
	return &DeckGenerator{
		catalog:      catalog,
		ids:          ids,
		defaultCount: cfg.GetDefaultSlideCount(),
		maxCount:     cfg.GetMaxSlideCount(),
	}
}

// GenerateFromPrompt extracts topic and slide count from prompt and
// generates the deck
func (g *DeckGenerator) GenerateFromPrompt(prompt string) (string, entities.Deck) {
	count := ParseSlideCount(prompt, g.defaultCount, g.maxCount)
	topic := ExtractTopic(prompt)
	return topic, g.Generate(topic, count)
}

// Generate returns a title slide, max(count-2, 0) templated content slides
// and a conclusion slide. Templates repeat when count exceeds the bucket.
func (g *DeckGenerator) Generate(topic string, count int) entities.Deck {
	formatted := FormatTitle(topic)

	contentCount := count - 2
	if contentCount < 0 {
		contentCount = 0
	}

	deck := make(entities.Deck, 0, contentCount+2)
	deck = append(deck, entities.NewTitleSlide(g.ids.NewID(), formatted, titleSubtitle, titleNotes))

	templates := g.catalog.Lookup(topic).Templates
	if len(templates) > 0 {
		for i := 0; i < contentCount; i++ {
			deck = append(deck, templates[i%len(templates)].Render(g.ids.NewID(), formatted))
		}
	}

	return append(deck, g.conclusion(formatted))
}

func (g *DeckGenerator) conclusion(formattedTopic string) entities.Slide {
	return entities.NewContentSlide(
		g.ids.NewID(),
		conclusionTitle,
		[]string{
			formattedTopic + " is an important subject",
			"Key takeaways have been presented",
			"Further exploration is encouraged",
			"Thank you for your attention",
		},
		conclusionNotes,
	)
}
