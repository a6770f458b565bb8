package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// Slide geometry, 16:9 at 10 x 5.625 inches
const emuPerInch = 914400

func inches(v float64) int64 {
	return int64(v * emuPerInch)
}

const (
	colorTitleSlide = "FF363636"
	colorSubtitle   = "FF666666"
	colorHeading    = "FF1F2937"
	colorBody       = "FF363636"
	colorNotes      = "FF94A3B8"

	fontTitleSlide = 44
	fontSubtitle   = 24
	fontHeading    = 32
	fontBody       = 18
	fontNotes      = 10
)

// PPTXRenderer implements export to PowerPoint
type PPTXRenderer struct{}

// NewPPTXRenderer creates a new PowerPoint renderer
func NewPPTXRenderer() *PPTXRenderer {
	return &PPTXRenderer{}
}

// Render writes the deck as a .pptx file. Speaker notes are rendered as a
// small caption at the bottom of the slide when requested.
func (r *PPTXRenderer) Render(ctx context.Context, deck entities.Deck, options *ExportOptions) (*RenderResult, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = options.Title
	p.GetDocumentProperties().Creator = "promptdeck"

	var warnings []string
	for i, slide := range deck {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var s *ppt.Slide
		if i == 0 {
			s = p.GetActiveSlide()
		} else {
			s = p.CreateSlide()
		}

		if slide.IsTitle() {
			r.addTitleSlide(s, slide)
		} else if err := r.addContentSlide(s, slide); err != nil {
			warnings = append(warnings, imageWarning(i, err))
		}

		if options.IncludeNotes && slide.Notes != "" {
			r.addNotesCaption(s, slide.Notes)
		}
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("creating PPTX writer: %w", err)
	}
	writer, ok := w.(*ppt.PPTXWriter)
	if !ok {
		return nil, errors.New("unexpected PPTX writer type")
	}

	var buf bytes.Buffer
	if err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing PPTX: %w", err)
	}

	if err := os.WriteFile(options.OutputPath, buf.Bytes(), 0o600); err != nil {
		return nil, fmt.Errorf("writing PPTX file: %w", err)
	}

	return &RenderResult{
		OutputPath: options.OutputPath,
		FileSize:   int64(buf.Len()),
		Warnings:   warnings,
	}, nil
}

func (r *PPTXRenderer) addTitleSlide(s *ppt.Slide, slide entities.Slide) {
	title := s.CreateRichTextShape()
	title.SetOffsetX(inches(1)).SetOffsetY(inches(1.6))
	title.SetWidth(inches(8)).SetHeight(inches(1.5))
	tr := title.CreateTextRun(slide.Title)
	tr.GetFont().SetSize(fontTitleSlide).SetBold(true).SetColor(ppt.NewColor(colorTitleSlide))
	alignCenter(title.GetActiveParagraph())

	if subtitle := slide.Subtitle(); subtitle != "" {
		sub := s.CreateRichTextShape()
		sub.SetOffsetX(inches(1)).SetOffsetY(inches(3.2))
		sub.SetWidth(inches(8)).SetHeight(inches(1))
		str := sub.CreateTextRun(subtitle)
		str.GetFont().SetSize(fontSubtitle).SetColor(ppt.NewColor(colorSubtitle))
		alignCenter(sub.GetActiveParagraph())
	}
}

// addContentSlide lays out heading, bullets and the optional image. A bad
// image is skipped and reported; the rest of the slide is still written.
func (r *PPTXRenderer) addContentSlide(s *ppt.Slide, slide entities.Slide) error {
	heading := s.CreateRichTextShape()
	heading.SetOffsetX(inches(0.5)).SetOffsetY(inches(0.4))
	heading.SetWidth(inches(9)).SetHeight(inches(0.9))
	tr := heading.CreateTextRun(slide.Title)
	tr.GetFont().SetSize(fontHeading).SetBold(true).SetColor(ppt.NewColor(colorHeading))

	var (
		img    *slideImage
		imgErr error
	)
	if uri := slide.Image(); uri != "" {
		img, imgErr = decodeDataURI(uri)
	}

	bulletWidth := 9.0
	if img != nil {
		bulletWidth = 5.5
	}

	if bullets := slide.Bullets(); len(bullets) > 0 {
		body := s.CreateRichTextShape()
		body.SetOffsetX(inches(0.5)).SetOffsetY(inches(1.5))
		body.SetWidth(inches(bulletWidth)).SetHeight(inches(3.5))
		for i, bullet := range bullets {
			if i > 0 {
				body.CreateParagraph()
			}
			btr := body.CreateTextRun("• " + bullet)
			btr.GetFont().SetSize(fontBody).SetColor(ppt.NewColor(colorBody))
		}
	}

	if img != nil {
		b := img.Image.Bounds()
		w, h := fitWithin(float64(b.Dx()), float64(b.Dy()), 3, 2.5)
		shape := s.CreateDrawingShape()
		shape.SetImageData(img.Data, img.MimeType)
		shape.SetOffsetX(inches(6.5)).SetOffsetY(inches(1.5))
		shape.SetWidth(inches(w)).SetHeight(inches(h))
	}

	return imgErr
}

func (r *PPTXRenderer) addNotesCaption(s *ppt.Slide, notes string) {
	caption := s.CreateRichTextShape()
	caption.SetOffsetX(inches(0.5)).SetOffsetY(inches(5.05))
	caption.SetWidth(inches(9)).SetHeight(inches(0.45))
	tr := caption.CreateTextRun("Notes: " + notes)
	tr.GetFont().SetSize(fontNotes).SetColor(ppt.NewColor(colorNotes))
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// Supports returns true if this renderer supports the given format
func (r *PPTXRenderer) Supports(format ExportFormat) bool {
	return format == FormatPowerPoint
}

// GetMimeType returns the MIME type for PowerPoint exports
func (r *PPTXRenderer) GetMimeType() string {
	return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
}

// Extension returns the file extension of PowerPoint exports
func (r *PPTXRenderer) Extension() string {
	return ".pptx"
}
