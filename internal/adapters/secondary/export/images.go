package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp" // register decoder
	_ "golang.org/x/image/webp"
)

// slideImage is a decoded slide image. Data is always in a format every
// renderer can embed (PNG, JPEG or GIF); other sources are re-encoded as PNG.
type slideImage struct {
	MimeType string
	Data     []byte
	Image    image.Image
}

var errRemoteImage = errors.New("remote images are not embedded")

// decodeDataURI decodes a base64 "data:image/...;base64,..." URI
func decodeDataURI(uri string) (*slideImage, error) {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, "data:") {
		if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
			return nil, errRemoteImage
		}
		return nil, errors.New("image is not a data URI")
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, errors.New("malformed data URI")
	}

	if !strings.HasSuffix(header, ";base64") {
		return nil, errors.New("data URI is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(payload), ""))
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	switch format {
	case "png", "jpeg", "gif":
		return &slideImage{MimeType: "image/" + format, Data: data, Image: img}, nil
	}

	pngData, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	return &slideImage{MimeType: "image/png", Data: pngData, Image: img}, nil
}

// encodePNG re-encodes img as PNG
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales w x h to fit inside maxW x maxH, keeping the aspect ratio
func fitWithin(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}

// imageWarning formats a skipped-image warning for slide index i
func imageWarning(i int, err error) string {
	return fmt.Sprintf("slide %d: image skipped: %v", i+1, err)
}
