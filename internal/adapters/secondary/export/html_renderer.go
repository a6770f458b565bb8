package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

// NewSlideSanitizer creates the restrictive policy applied to rendered
// slide HTML. Images are limited to base64 data URIs.
func NewSlideSanitizer() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("h1", "h2", "h3", "p", "br", "hr")
	p.AllowElements("strong", "b", "em", "i", "code")
	p.AllowElements("ul", "ol", "li", "blockquote")
	p.AllowElements("img").AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("class").OnElements("section", "div", "aside")
	p.AllowElements("section", "div", "aside")

	p.RequireParseableURLs(true)
	p.AllowDataURIImages()

	return p
}

// SlideHTML converts deck slides into sanitized HTML fragments, one per slide
type SlideHTML struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewSlideHTML creates a converter
func NewSlideHTML() *SlideHTML {
	return &SlideHTML{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: NewSlideSanitizer(),
	}
}

// Render returns one sanitized fragment per slide
func (c *SlideHTML) Render(deck entities.Deck, includeNotes bool) ([]template.HTML, error) {
	fragments := make([]template.HTML, 0, len(deck))
	for i, slide := range deck {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(SlideMarkdown(i, slide, includeNotes)), &buf); err != nil {
			return nil, fmt.Errorf("converting slide %d: %w", i+1, err)
		}
		// #nosec G203 - sanitized by the policy above
		fragments = append(fragments, template.HTML(c.policy.SanitizeBytes(buf.Bytes())))
	}
	return fragments, nil
}

// HTMLRenderer implements export to a standalone HTML document
type HTMLRenderer struct {
	slides   *SlideHTML
	template *template.Template
	now      func() time.Time
}

// NewHTMLRenderer creates a new HTML renderer
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		slides:   NewSlideHTML(),
		template: template.Must(template.New("export").Parse(documentTemplate)),
		now:      time.Now,
	}
}

type htmlSlide struct {
	Number int
	Kind   entities.SlideType
	Body   template.HTML
}

// WriteDocument writes deck as a standalone HTML document to w
func (r *HTMLRenderer) WriteDocument(w io.Writer, deck entities.Deck, title string, includeNotes bool) error {
	fragments, err := r.slides.Render(deck, includeNotes)
	if err != nil {
		return err
	}

	slides := make([]htmlSlide, len(deck))
	for i, slide := range deck {
		slides[i] = htmlSlide{Number: i + 1, Kind: slide.Type(), Body: fragments[i]}
	}

	data := struct {
		Title       string
		Slides      []htmlSlide
		SlideCount  int
		GeneratedAt string
	}{
		Title:       title,
		Slides:      slides,
		SlideCount:  len(deck),
		GeneratedAt: r.now().UTC().Format(time.RFC3339),
	}

	if err := r.template.Execute(w, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}

// Render writes the deck as a single HTML file with one section per slide
func (r *HTMLRenderer) Render(ctx context.Context, deck entities.Deck, options *ExportOptions) (*RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.WriteDocument(&buf, deck, options.Title, options.IncludeNotes); err != nil {
		return nil, err
	}

	if err := os.WriteFile(options.OutputPath, buf.Bytes(), 0o600); err != nil {
		return nil, fmt.Errorf("writing HTML file: %w", err)
	}

	return &RenderResult{
		OutputPath: options.OutputPath,
		FileSize:   fileSize(options.OutputPath),
	}, nil
}

// Supports returns true if this renderer supports the given format
func (r *HTMLRenderer) Supports(format ExportFormat) bool {
	return format == FormatHTML
}

// GetMimeType returns the MIME type for HTML exports
func (r *HTMLRenderer) GetMimeType() string {
	return "text/html; charset=utf-8"
}

// Extension returns the file extension of HTML exports
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generator" content="promptdeck">
<meta name="export-date" content="{{.GeneratedAt}}">
<title>{{.Title}}</title>
<style>
  body { margin: 0; background: #f3f4f6; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; color: #363636; }
  .deck { max-width: 960px; margin: 0 auto; padding: 24px; }
  .slide { background: #fff; aspect-ratio: 16 / 9; margin: 0 0 24px; padding: 48px; box-sizing: border-box; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,.12); overflow: hidden; position: relative; }
  .slide.title { display: flex; flex-direction: column; justify-content: center; text-align: center; }
  .slide.title h1 { font-size: 44px; margin: 0 0 16px; }
  .slide.title p { font-size: 24px; color: #666; }
  .slide h2 { font-size: 32px; color: #1f2937; margin-top: 0; }
  .slide li { font-size: 20px; margin: 8px 0; }
  .slide img { position: absolute; right: 48px; top: 140px; max-width: 30%; max-height: 45%; }
  .slide blockquote { position: absolute; left: 48px; right: 48px; bottom: 16px; margin: 0; font-size: 13px; color: #6b7280; }
  .slide .number { position: absolute; right: 16px; bottom: 8px; font-size: 12px; color: #9ca3af; }
  @media print { body { background: #fff; } .slide { box-shadow: none; page-break-after: always; } }
</style>
</head>
<body>
<main class="deck" data-slides="{{.SlideCount}}">
{{range .Slides}}<section class="slide {{.Kind}}" id="slide-{{.Number}}">
{{.Body}}<div class="number">{{.Number}}</div>
</section>
{{end}}</main>
</body>
</html>
`
