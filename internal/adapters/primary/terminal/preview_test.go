package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/promptdeck/internal/test/builders"
)

func TestPreviewer(t *testing.T) {
	previewer, err := NewPreviewer("notty", 0)
	require.NoError(t, err)

	deck := builders.SampleDeck()

	t.Run("renders every slide", func(t *testing.T) {
		out, err := previewer.Render(deck, false)
		require.NoError(t, err)

		for _, slide := range deck {
			assert.Contains(t, out, slide.Title)
		}
		assert.NotContains(t, out, "Speaker notes")
	})

	t.Run("includes notes on request", func(t *testing.T) {
		out, err := previewer.Render(deck, true)
		require.NoError(t, err)
		assert.Contains(t, out, "Speaker notes")
		assert.Contains(t, out, "Summary slide wrapping up the presentation.")
	})
}

func TestNewPreviewerAutoStyle(t *testing.T) {
	previewer, err := NewPreviewer("", 40)
	require.NoError(t, err)

	out, err := previewer.Render(builders.SampleDeck()[:1], false)
	require.NoError(t, err)
	assert.Contains(t, out, "Renewable Energy")
}
