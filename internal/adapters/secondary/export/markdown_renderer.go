package export

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"|", `\|`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// SlideMarkdown renders one slide as a markdown fragment. Title slides use
// a level one heading, content slides a level two heading and a bullet list.
func SlideMarkdown(index int, slide entities.Slide, includeNotes bool) string {
	var b strings.Builder

	if slide.IsTitle() {
		fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(slide.Title))
		if subtitle := slide.Subtitle(); subtitle != "" {
			fmt.Fprintf(&b, "*%s*\n\n", escapeMarkdown(subtitle))
		}
	} else {
		fmt.Fprintf(&b, "## %s\n\n", escapeMarkdown(slide.Title))
		for _, bullet := range slide.Bullets() {
			fmt.Fprintf(&b, "- %s\n", escapeMarkdown(bullet))
		}
		if len(slide.Bullets()) > 0 {
			b.WriteString("\n")
		}
		if image := slide.Image(); strings.HasPrefix(image, "data:image/") {
			fmt.Fprintf(&b, "![Slide %d image](%s)\n\n", index+1, strings.Join(strings.Fields(image), ""))
		}
	}

	if includeNotes && slide.Notes != "" {
		b.WriteString("> **Speaker notes:** ")
		b.WriteString(strings.ReplaceAll(escapeMarkdown(slide.Notes), "\n", "\n> "))
		b.WriteString("\n\n")
	}

	return b.String()
}

// DeckMarkdown renders the slides separated by thematic breaks
func DeckMarkdown(deck entities.Deck, includeNotes bool) string {
	parts := make([]string, 0, len(deck))
	for i, slide := range deck {
		parts = append(parts, strings.TrimRight(SlideMarkdown(i, slide, includeNotes), "\n"))
	}
	return strings.Join(parts, "\n\n---\n\n") + "\n"
}

type markdownFrontmatter struct {
	Title     string `yaml:"title"`
	Slides    int    `yaml:"slides"`
	Generator string `yaml:"generator"`
	Exported  string `yaml:"exported"`
}

// MarkdownRenderer implements export to markdown format
type MarkdownRenderer struct {
	now func() time.Time
}

// NewMarkdownRenderer creates a new markdown renderer
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{now: time.Now}
}

// Render writes a markdown document with a YAML frontmatter block
func (r *MarkdownRenderer) Render(ctx context.Context, deck entities.Deck, options *ExportOptions) (*RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frontmatter, err := yaml.Marshal(markdownFrontmatter{
		Title:     options.Title,
		Slides:    len(deck),
		Generator: "promptdeck",
		Exported:  r.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding frontmatter: %w", err)
	}

	var content strings.Builder
	content.WriteString("---\n")
	content.Write(frontmatter)
	content.WriteString("---\n\n")
	content.WriteString(DeckMarkdown(deck, options.IncludeNotes))

	if err := os.WriteFile(options.OutputPath, []byte(content.String()), 0o600); err != nil {
		return nil, fmt.Errorf("writing markdown file: %w", err)
	}

	return &RenderResult{
		OutputPath: options.OutputPath,
		FileSize:   fileSize(options.OutputPath),
	}, nil
}

// Supports returns true if this renderer supports the given format
func (r *MarkdownRenderer) Supports(format ExportFormat) bool {
	return format == FormatMarkdown
}

// GetMimeType returns the MIME type for markdown exports
func (r *MarkdownRenderer) GetMimeType() string {
	return "text/markdown; charset=utf-8"
}

// Extension returns the file extension of markdown exports
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
