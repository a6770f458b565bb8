package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/browser"
	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

const (
	watchInterval = 500 * time.Millisecond
	watchDebounce = 250 * time.Millisecond
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <deck-file>",
		Short: "Export a saved deck to a presentation file",
		Long: `Export a json or yaml deck to pptx, pdf, html, markdown or images.

With --watch the deck file is polled and re-exported to the same output
every time it changes, until interrupted.

Example:
  promptdeck export talk.json -f pdf -o talk.pdf
  promptdeck export talk.yaml -f html -o talk.html --open --watch`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringP("format", "f", "", "Export format (default from config)")
	cmd.Flags().StringP("output", "o", "", "Output file (default: a new file under the export directory)")
	cmd.Flags().Bool("notes", false, "Include speaker notes")
	cmd.Flags().String("title", "", "Presentation title (default: first slide title)")
	cmd.Flags().String("page-size", "", "PDF page size: A4, Letter, Legal or A3")
	cmd.Flags().String("quality", "", "Image quality: low, medium or high")
	cmd.Flags().String("output-dir", "", "Directory for exports without --output (overrides config)")
	cmd.Flags().Bool("open", false, "Open the exported file in the browser")
	cmd.Flags().Bool("watch", false, "Re-export whenever the deck file changes")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	title, _ := cmd.Flags().GetString("title")
	pageSize, _ := cmd.Flags().GetString("page-size")
	quality, _ := cmd.Flags().GetString("quality")
	open, _ := cmd.Flags().GetBool("open")
	watch, _ := cmd.Flags().GetBool("watch")

	req := ports.ExportRequest{
		Format:       format,
		OutputPath:   output,
		Title:        title,
		IncludeNotes: a.config.Export.IncludeNotes,
		PageSize:     pageSize,
		Quality:      quality,
	}

	out := cmd.OutOrStdout()
	deckPath := args[0]

	result, err := exportDeckFile(cmd.Context(), a.exporter, deckPath, req)
	if err != nil {
		return err
	}
	printExportResult(out, result)

	if open {
		if err := browser.NewOpener(a.logger).Open(result.OutputPath); err != nil {
			a.logger.Warn("could not open browser", zap.Error(err))
		}
	}

	if !watch {
		return nil
	}

	// Later exports overwrite the first one rather than creating new files
	req.OutputPath = result.OutputPath
	return watchDeckFile(cmd.Context(), watcher.NewDeckPoller(watchInterval, watchDebounce, a.logger), a.exporter, deckPath, req, out, a.logger)
}

func exportDeckFile(ctx context.Context, exporter ports.DeckExporter, path string, req ports.ExportRequest) (*ports.ExportResult, error) {
	deck, err := readDeckFile(path)
	if err != nil {
		return nil, err
	}
	return exporter.Export(ctx, deck, req)
}

// watchDeckFile re-exports path on every change until ctx is done. Export
// failures are reported and watching continues.
func watchDeckFile(ctx context.Context, w ports.DeckWatcher, exporter ports.DeckExporter, path string, req ports.ExportRequest, out io.Writer, logger *zap.Logger) error {
	events, err := w.Watch(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	_, _ = fmt.Fprintf(out, "Watching %s for changes\n", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Type == ports.Removed {
				logger.Warn("deck file removed, waiting for it to return", zap.String("path", event.Path))
				continue
			}

			result, err := exportDeckFile(ctx, exporter, path, req)
			if err != nil {
				_, _ = fmt.Fprintf(out, "Re-export failed: %v\n", err)
				continue
			}
			printExportResult(out, result)
		}
	}
}
