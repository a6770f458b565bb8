package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/promptdeck/internal/test/builders"
)

func jpegDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeDataURI(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		img, err := decodeDataURI(builders.PNGDataURI)
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MimeType)
		assert.Equal(t, 1, img.Image.Bounds().Dx())
	})

	t.Run("jpeg", func(t *testing.T) {
		img, err := decodeDataURI(jpegDataURI(t))
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", img.MimeType)
		assert.Equal(t, 4, img.Image.Bounds().Dx())
	})

	tests := []struct {
		name string
		uri  string
	}{
		{name: "remote url", uri: "https://example.com/a.png"},
		{name: "plain text", uri: "not an image"},
		{name: "missing comma", uri: "data:image/png;base64"},
		{name: "not base64", uri: "data:image/png,rawbytes"},
		{name: "bad base64", uri: "data:image/png;base64,@@@"},
		{name: "not an image", uri: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeDataURI(tt.uri)
			assert.Error(t, err)
		})
	}
}

func TestFitWithin(t *testing.T) {
	w, h := fitWithin(400, 200, 100, 100)
	assert.InDelta(t, 100, w, 0.001)
	assert.InDelta(t, 50, h, 0.001)

	w, h = fitWithin(100, 400, 100, 100)
	assert.InDelta(t, 25, w, 0.001)
	assert.InDelta(t, 100, h, 0.001)
}
