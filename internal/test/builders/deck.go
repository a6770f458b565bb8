package builders

import (
	"strconv"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// DeckBuilder helps build Deck entities for testing
type DeckBuilder struct {
	slides entities.Deck
}

// NewDeckBuilder creates an empty deck builder
func NewDeckBuilder() *DeckBuilder {
	return &DeckBuilder{}
}

// WithTitleSlide appends a title slide like the one the generator emits
func (b *DeckBuilder) WithTitleSlide(title string) *DeckBuilder {
	slide := NewSlideBuilder().
		WithID(len(b.slides) + 1).
		WithTitle(title).
		AsTitle("AI Generated Presentation").
		WithNotes("This is the title slide introducing the presentation topic.").
		Build()
	b.slides = append(b.slides, slide)
	return b
}

// WithSlide appends a single slide
func (b *DeckBuilder) WithSlide(slide entities.Slide) *DeckBuilder {
	b.slides = append(b.slides, slide)
	return b
}

// WithContentSlides appends count content slides titled "Slide N" with
// two bullets each
func (b *DeckBuilder) WithContentSlides(count int) *DeckBuilder {
	for i := 0; i < count; i++ {
		n := len(b.slides) + 1
		b.slides = append(b.slides, NewSlideBuilder().
			WithID(n).
			WithTitle("Slide "+strconv.Itoa(n)).
			WithBullets("Point A of slide "+strconv.Itoa(n), "Point B of slide "+strconv.Itoa(n)).
			Build())
	}
	return b
}

// Build creates the final Deck. The builder keeps its own copy.
func (b *DeckBuilder) Build() entities.Deck {
	if b.slides == nil {
		return entities.Deck{}
	}
	return b.slides.Clone()
}

// SlideBuilder helps build Slide entities for testing
type SlideBuilder struct {
	id       string
	title    string
	notes    string
	isTitle  bool
	subtitle string
	bullets  []string
	image    string
}

// NewSlideBuilder creates a content slide builder with sensible defaults
func NewSlideBuilder() *SlideBuilder {
	return &SlideBuilder{
		id:      "slide-1",
		title:   "Test Slide",
		notes:   "Test notes",
		bullets: []string{"First point", "Second point"},
	}
}

// WithID sets the slide id to "slide-<n>"
func (b *SlideBuilder) WithID(n int) *SlideBuilder {
	b.id = "slide-" + strconv.Itoa(n)
	return b
}

// WithRawID sets the slide id verbatim
func (b *SlideBuilder) WithRawID(id string) *SlideBuilder {
	b.id = id
	return b
}

// WithTitle sets the slide title
func (b *SlideBuilder) WithTitle(title string) *SlideBuilder {
	b.title = title
	return b
}

// WithNotes sets the slide speaker notes
func (b *SlideBuilder) WithNotes(notes string) *SlideBuilder {
	b.notes = notes
	return b
}

// WithBullets replaces the bullets and makes the slide a content slide
func (b *SlideBuilder) WithBullets(bullets ...string) *SlideBuilder {
	b.isTitle = false
	b.bullets = bullets
	return b
}

// WithImage sets the image data URI of a content slide
func (b *SlideBuilder) WithImage(dataURI string) *SlideBuilder {
	b.image = dataURI
	return b
}

// AsTitle turns the slide into a title slide with the given subtitle
func (b *SlideBuilder) AsTitle(subtitle string) *SlideBuilder {
	b.isTitle = true
	b.subtitle = subtitle
	return b
}

// Build creates the final Slide entity
func (b *SlideBuilder) Build() entities.Slide {
	if b.isTitle {
		return entities.NewTitleSlide(b.id, b.title, b.subtitle, b.notes)
	}

	slide := entities.NewContentSlide(b.id, b.title, append([]string(nil), b.bullets...), b.notes)
	if b.image != "" {
		slide.Variant = entities.ContentVariant{Bullets: slide.Bullets(), Image: b.image}
	}
	return slide
}

// SampleDeck returns a five slide deck: a title slide, three content slides
// and a conclusion
func SampleDeck() entities.Deck {
	return NewDeckBuilder().
		WithTitleSlide("Renewable Energy").
		WithContentSlides(3).
		WithSlide(NewSlideBuilder().
			WithID(5).
			WithTitle("Conclusion").
			WithBullets("Renewable Energy is an important subject", "Thank you for your attention").
			WithNotes("Summary slide wrapping up the presentation.").
			Build()).
		Build()
}

// PNGDataURI is a valid 1x1 transparent PNG as a data URI
const PNGDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
