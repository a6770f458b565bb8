package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

const pdfMargin = 20.0

// PDFRenderer implements export to PDF with one landscape page per slide
type PDFRenderer struct{}

// NewPDFRenderer creates a new PDF renderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render exports the deck to PDF
func (r *PDFRenderer) Render(ctx context.Context, deck entities.Deck, options *ExportOptions) (*RenderResult, error) {
	pdf := gofpdf.New("L", "mm", options.PageSize, "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(options.Title, true)
	pdf.SetCreator("promptdeck", true)

	// Core fonts are cp1252; translate UTF-8 text before writing it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	var warnings []string
	for i, slide := range deck {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pdf.AddPage()
		if slide.IsTitle() {
			r.addTitlePage(pdf, slide, tr)
		} else if err := r.addContentPage(pdf, i, slide, tr); err != nil {
			warnings = append(warnings, imageWarning(i, err))
		}

		if options.IncludeNotes && slide.Notes != "" {
			r.addNotes(pdf, slide.Notes, tr)
		}

		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("adding slide %d to PDF: %w", i+1, err)
		}
	}

	if err := pdf.OutputFileAndClose(options.OutputPath); err != nil {
		return nil, fmt.Errorf("saving PDF to %s: %w", options.OutputPath, err)
	}

	return &RenderResult{
		OutputPath: options.OutputPath,
		FileSize:   fileSize(options.OutputPath),
		Warnings:   warnings,
	}, nil
}

func (r *PDFRenderer) addTitlePage(pdf *gofpdf.Fpdf, slide entities.Slide, tr func(string) string) {
	_, pageH := pdf.GetPageSize()

	pdf.SetY(pageH/2 - 25)
	pdf.SetFont("Helvetica", "B", 36)
	pdf.SetTextColor(54, 54, 54)
	pdf.MultiCell(0, 16, tr(slide.Title), "", "C", false)

	if subtitle := slide.Subtitle(); subtitle != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 20)
		pdf.SetTextColor(102, 102, 102)
		pdf.MultiCell(0, 10, tr(subtitle), "", "C", false)
	}
}

// addContentPage writes heading and bullets, with the image to the right.
// The returned error only concerns the image.
func (r *PDFRenderer) addContentPage(pdf *gofpdf.Fpdf, index int, slide entities.Slide, tr func(string) string) error {
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pdfMargin

	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(31, 41, 55)
	pdf.MultiCell(0, 12, tr(slide.Title), "", "L", false)
	pdf.Ln(6)

	var (
		img    *slideImage
		imgErr error
	)
	if uri := slide.Image(); uri != "" {
		img, imgErr = decodeDataURI(uri)
	}

	bulletW := contentW
	if img != nil {
		bulletW = contentW * 0.6
	}

	top := pdf.GetY()
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(54, 54, 54)
	for _, bullet := range slide.Bullets() {
		pdf.SetX(pdfMargin)
		pdf.MultiCell(bulletW, 9, tr("• "+bullet), "", "L", false)
		pdf.Ln(2)
	}

	if img != nil {
		// Re-encoding to PNG gives gofpdf one well-supported input format.
		data, err := encodePNG(img.Image)
		if err != nil {
			return err
		}

		name := fmt.Sprintf("slide-%d", index+1)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))

		b := img.Image.Bounds()
		w, h := fitWithin(float64(b.Dx()), float64(b.Dy()), contentW*0.35, 90)
		pdf.ImageOptions(name, pageW-pdfMargin-w, top, w, h, false, opts, 0, "")
	}

	return imgErr
}

func (r *PDFRenderer) addNotes(pdf *gofpdf.Fpdf, notes string, tr func(string) string) {
	_, pageH := pdf.GetPageSize()

	pdf.SetY(pageH - pdfMargin - 12)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(107, 114, 128)
	pdf.MultiCell(0, 5, tr("Notes: "+notes), "T", "L", false)
}

// Supports returns true if this renderer supports the given format
func (r *PDFRenderer) Supports(format ExportFormat) bool {
	return format == FormatPDF
}

// GetMimeType returns the MIME type for PDF exports
func (r *PDFRenderer) GetMimeType() string {
	return "application/pdf"
}

// Extension returns the file extension of PDF exports
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}
