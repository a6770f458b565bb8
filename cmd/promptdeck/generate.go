package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/promptdeck/internal/adapters/primary/terminal"
	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <prompt...>",
		Short: "Generate or update a deck from a prompt",
		Long: `Generate a deck from a natural-language prompt, or edit an existing deck
given with --deck.

Example:
  promptdeck generate "Create 5 slides about renewable energy"
  promptdeck generate --deck talk.json -o talk.json "remove last slide"
  promptdeck generate --export pdf -o talk.pdf "7 slides on machine learning"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().String("deck", "", "Existing deck (json or yaml) to update")
	cmd.Flags().StringP("output", "o", "", "Write the deck, or the export, to this file")
	cmd.Flags().StringP("format", "f", "", "Deck encoding: json or yaml (default from --output extension, else json)")
	cmd.Flags().String("export", "", "Export the deck in this format (pptx, pdf, html, markdown, images)")
	cmd.Flags().Bool("preview", false, "Print a terminal preview instead of the deck data")
	cmd.Flags().Bool("notes", false, "Include speaker notes in previews and exports")
	cmd.Flags().String("output-dir", "", "Directory for exports without --output (overrides config)")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	deckPath, _ := cmd.Flags().GetString("deck")
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	exportFormat, _ := cmd.Flags().GetString("export")
	preview, _ := cmd.Flags().GetBool("preview")

	req := ports.GenerateRequest{Prompt: strings.Join(args, " ")}
	if deckPath != "" {
		req.Existing, err = readDeckFile(deckPath)
		if err != nil {
			return err
		}
	}

	result, err := a.decks.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	includeNotes := a.config.Export.IncludeNotes

	if preview {
		if err := printPreview(out, result.Slides, includeNotes); err != nil {
			return err
		}
	}

	switch {
	case exportFormat != "":
		exported, err := a.exporter.Export(cmd.Context(), result.Slides, ports.ExportRequest{
			Format:       exportFormat,
			OutputPath:   output,
			Title:        result.Topic,
			IncludeNotes: includeNotes,
		})
		if err != nil {
			return err
		}
		printExportResult(out, exported)
	case output != "":
		encoding, err := deckFormat(format, output)
		if err != nil {
			return err
		}
		if err := writeDeckFile(output, result.Slides, encoding); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Wrote %d slides to %s\n", len(result.Slides), output)
	case !preview:
		encoding, err := deckFormat(format, "")
		if err != nil {
			return err
		}
		return encodeDeck(out, result.Slides, encoding)
	}

	return nil
}

func printPreview(w io.Writer, deck entities.Deck, includeNotes bool) error {
	previewer, err := terminal.NewPreviewer("", 0)
	if err != nil {
		return err
	}

	rendered, err := previewer.Render(deck, includeNotes)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, rendered)
	return err
}

func printExportResult(w io.Writer, result *ports.ExportResult) {
	_, _ = fmt.Fprintf(w, "Exported %d slides as %s to %s (%d bytes, %s)\n",
		result.SlideCount, result.Format, result.OutputPath, result.FileSize, result.Duration.Round(time.Millisecond))
	for _, warning := range result.Warnings {
		_, _ = fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}
