package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "dev"

	// BuildDate is set during build
	BuildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the promptdeck command tree
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "promptdeck",
		Short: "Generate slide decks from natural-language prompts",
		Long: `promptdeck turns a prompt such as "Create 5 slides about renewable energy"
into a slide deck, edits existing decks with follow-up prompts like
"remove last slide", and exports decks to pptx, pdf, html, markdown or images.

It runs as an HTTP service with live session previews, or directly from
the command line.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build Date: ` + BuildDate + `
`)

	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().StringP("config", "c", "", "Config file (default: ~/.config/promptdeck/config.toml)")

	root.AddCommand(
		newServeCmd(),
		newGenerateCmd(),
		newExportCmd(),
		newTemplatesCmd(),
		newConfigCmd(),
	)

	return root
}
