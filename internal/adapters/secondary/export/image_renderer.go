package export

import (
	"archive/zip"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

var (
	colorHeadingRGBA = color.RGBA{31, 41, 55, 255}
	colorBodyRGBA    = color.RGBA{54, 54, 54, 255}
	colorMutedRGBA   = color.RGBA{102, 102, 102, 255}
	colorNotesRGBA   = color.RGBA{107, 114, 128, 255}
)

// ImageRenderer implements export to one PNG per slide. Output paths ending
// in .zip produce an archive, anything else is treated as a directory.
type ImageRenderer struct {
	regular *truetype.Font
	bold    *truetype.Font
	italic  *truetype.Font
}

// NewImageRenderer creates a new image renderer with the embedded Go fonts
func NewImageRenderer() (*ImageRenderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}
	italic, err := truetype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}

	return &ImageRenderer{regular: regular, bold: bold, italic: italic}, nil
}

// Render exports the deck to PNG images
func (r *ImageRenderer) Render(ctx context.Context, deck entities.Deck, options *ExportOptions) (*RenderResult, error) {
	if strings.EqualFold(filepath.Ext(options.OutputPath), ".zip") {
		return r.renderArchive(ctx, deck, options)
	}
	return r.renderDirectory(ctx, deck, options)
}

func (r *ImageRenderer) renderDirectory(ctx context.Context, deck entities.Deck, options *ExportOptions) (*RenderResult, error) {
	outputDir := options.OutputPath
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &RenderResult{OutputPath: outputDir}
	err := r.renderSlides(ctx, deck, options, func(name string, img image.Image) error {
		path := filepath.Join(outputDir, name)
		file, err := os.Create(path) // #nosec G304 - path is built from the export directory
		if err != nil {
			return fmt.Errorf("creating PNG file: %w", err)
		}
		defer func() { _ = file.Close() }()

		if err := png.Encode(file, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}

		result.Files = append(result.Files, path)
		result.FileSize += fileSize(path)
		return nil
	}, &result.Warnings)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ImageRenderer) renderArchive(ctx context.Context, deck entities.Deck, options *ExportOptions) (*RenderResult, error) {
	file, err := os.Create(options.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	defer func() { _ = file.Close() }()

	archive := zip.NewWriter(file)
	result := &RenderResult{OutputPath: options.OutputPath}

	err = r.renderSlides(ctx, deck, options, func(name string, img image.Image) error {
		entry, err := archive.Create(name)
		if err != nil {
			return fmt.Errorf("adding %s to archive: %w", name, err)
		}
		if err := png.Encode(entry, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
		result.Files = append(result.Files, name)
		return nil
	}, &result.Warnings)
	if err != nil {
		return nil, err
	}

	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("closing archive file: %w", err)
	}

	result.FileSize = fileSize(options.OutputPath)
	return result, nil
}

// renderSlides draws every slide and hands the image to emit
func (r *ImageRenderer) renderSlides(ctx context.Context, deck entities.Deck, options *ExportOptions, emit func(name string, img image.Image) error, warnings *[]string) error {
	width, height := GetImageDimensions(options.Quality)

	for i, slide := range deck {
		if err := ctx.Err(); err != nil {
			return err
		}

		dc := gg.NewContext(width, height)
		dc.SetColor(color.White)
		dc.Clear()

		if slide.IsTitle() {
			r.drawTitleSlide(dc, slide)
		} else if err := r.drawContentSlide(dc, slide); err != nil {
			*warnings = append(*warnings, imageWarning(i, err))
		}

		if options.IncludeNotes && slide.Notes != "" {
			r.drawNotes(dc, slide.Notes)
		}

		if err := emit(fmt.Sprintf("slide-%03d.png", i+1), dc.Image()); err != nil {
			return err
		}
	}

	return nil
}

func (r *ImageRenderer) drawTitleSlide(dc *gg.Context, slide entities.Slide) {
	w, h := float64(dc.Width()), float64(dc.Height())
	maxWidth := w * 0.8

	titleSize := w / 22
	dc.SetFontFace(r.face(r.bold, titleSize))
	dc.SetColor(colorBodyRGBA)
	lines := dc.WordWrap(slide.Title, maxWidth)
	y := h/2 - float64(len(lines))*titleSize*0.6
	for _, line := range lines {
		dc.DrawStringAnchored(line, w/2, y, 0.5, 0.5)
		y += titleSize * 1.2
	}

	if subtitle := slide.Subtitle(); subtitle != "" {
		subSize := w / 40
		dc.SetFontFace(r.face(r.regular, subSize))
		dc.SetColor(colorMutedRGBA)
		dc.DrawStringAnchored(subtitle, w/2, y+subSize, 0.5, 0.5)
	}
}

// drawContentSlide draws heading, bullets and the optional image. The
// returned error only concerns the image.
func (r *ImageRenderer) drawContentSlide(dc *gg.Context, slide entities.Slide) error {
	w, h := float64(dc.Width()), float64(dc.Height())
	marginX, marginY := w*0.06, h*0.08
	contentWidth := w - 2*marginX

	var (
		img    *slideImage
		imgErr error
	)
	if uri := slide.Image(); uri != "" {
		img, imgErr = decodeDataURI(uri)
	}

	headingSize := w / 30
	dc.SetFontFace(r.face(r.bold, headingSize))
	dc.SetColor(colorHeadingRGBA)
	y := marginY + headingSize
	for _, line := range dc.WordWrap(slide.Title, contentWidth) {
		dc.DrawString(line, marginX, y)
		y += headingSize * 1.2
	}
	y += headingSize * 0.6
	imageTop := y

	bulletWidth := contentWidth
	if img != nil {
		bulletWidth = contentWidth * 0.6
	}

	bodySize := w / 45
	dc.SetFontFace(r.face(r.regular, bodySize))
	dc.SetColor(colorBodyRGBA)
	for _, bullet := range slide.Bullets() {
		for j, line := range dc.WordWrap(bullet, bulletWidth-bodySize*1.5) {
			if y+bodySize > h-marginY*1.5 {
				break
			}
			if j == 0 {
				dc.DrawString("•", marginX, y)
			}
			dc.DrawString(line, marginX+bodySize*1.5, y)
			y += bodySize * 1.4
		}
		y += bodySize * 0.4
	}

	if img != nil {
		b := img.Image.Bounds()
		iw, ih := fitWithin(float64(b.Dx()), float64(b.Dy()), contentWidth*0.35, h*0.5)
		scaled := image.NewRGBA(image.Rect(0, 0, int(iw), int(ih)))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img.Image, b, draw.Over, nil)
		dc.DrawImage(scaled, int(w-marginX-iw), int(imageTop))
	}

	return imgErr
}

func (r *ImageRenderer) drawNotes(dc *gg.Context, notes string) {
	w, h := float64(dc.Width()), float64(dc.Height())
	size := w / 80

	dc.SetFontFace(r.face(r.italic, size))
	dc.SetColor(colorNotesRGBA)
	lines := dc.WordWrap("Notes: "+notes, w*0.88)
	y := h - h*0.04 - float64(len(lines)-1)*size*1.3
	for _, line := range lines {
		dc.DrawString(line, w*0.06, y)
		y += size * 1.3
	}
}

func (r *ImageRenderer) face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size})
}

// Supports returns true if this renderer supports the given format
func (r *ImageRenderer) Supports(format ExportFormat) bool {
	return format == FormatImages
}

// GetMimeType returns the MIME type of the default (archive) output
func (r *ImageRenderer) GetMimeType() string {
	return "application/zip"
}

// Extension returns the file extension of the default output
func (r *ImageRenderer) Extension() string {
	return ".zip"
}

// GetImageDimensions returns image dimensions based on quality setting
func GetImageDimensions(quality string) (width, height int) {
	switch quality {
	case "low":
		return 1280, 720
	case "high":
		return 2560, 1440
	default: // medium
		return 1920, 1080
	}
}
