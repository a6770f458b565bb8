package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDeck() Deck {
	return Deck{
		NewTitleSlide("s1", "Machine Learning", "AI Generated Presentation", "This is the title slide introducing the presentation topic."),
		NewContentSlide("s2", "Introduction to Machine Learning", []string{"Definition and core concepts"}, "Intro"),
		NewContentSlide("s3", "Conclusion", []string{"Thank you for your attention"}, "Summary slide wrapping up the presentation."),
	}
}

func TestDeck_JSONRoundTrip(t *testing.T) {
	deck := sampleDeck()

	data, err := json.Marshal(deck)
	require.NoError(t, err)

	var decoded Deck
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, deck, decoded)
}

func TestDeck_Clone(t *testing.T) {
	deck := sampleDeck()
	clone := deck.Clone()
	require.Equal(t, deck, clone)

	clone[0].Title = "Changed"
	clone[1].Variant.(ContentVariant).Bullets[0] = "changed"

	assert.Equal(t, "Machine Learning", deck[0].Title)
	assert.Equal(t, "Definition and core concepts", deck[1].Bullets()[0])
	assert.Nil(t, Deck(nil).Clone())
}

func TestDeck_Validate(t *testing.T) {
	tests := []struct {
		name    string
		deck    Deck
		wantErr string
	}{
		{name: "valid", deck: sampleDeck()},
		{name: "empty", deck: Deck{}, wantErr: "at least one slide"},
		{name: "missing id", deck: Deck{NewContentSlide("", "x", nil, "")}, wantErr: "slide id cannot be empty"},
		{
			name:    "duplicate id",
			deck:    Deck{NewContentSlide("a", "x", nil, ""), NewContentSlide("a", "y", nil, "")},
			wantErr: `slide 2 reuses id "a" of slide 1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.deck.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDeck_Accessors(t *testing.T) {
	deck := sampleDeck()

	assert.Equal(t, 3, deck.SlideCount())
	assert.Equal(t, "Machine Learning", deck.Title())
	assert.Empty(t, Deck{NewContentSlide("a", "x", nil, "")}.Title())

	slide, err := deck.GetSlideByIndex(2)
	require.NoError(t, err)
	assert.Equal(t, "Conclusion", slide.Title)

	_, err = deck.GetSlideByIndex(3)
	assert.Error(t, err)
}

func TestSlideTemplate_Render(t *testing.T) {
	tmpl := SlideTemplate{
		Title:   "Introduction to {{topic}}",
		Bullets: []string{"Best practices for {{topic}}", "Plain"},
		Notes:   "About {{topic}}.",
	}

	slide := tmpl.Render("id-1", "Solar Power")

	assert.Equal(t, "id-1", slide.ID)
	assert.Equal(t, SlideTypeContent, slide.Type())
	assert.Equal(t, "Introduction to Solar Power", slide.Title)
	assert.Equal(t, []string{"Best practices for Solar Power", "Plain"}, slide.Bullets())
	assert.Equal(t, "About Solar Power.", slide.Notes)
	assert.Equal(t, "Best practices for {{topic}}", tmpl.Bullets[0], "template must not be mutated")
}
