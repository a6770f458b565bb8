package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// templateBucket is the json form of a catalog bucket
type templateBucket struct {
	Name      string   `json:"name"`
	Keywords  []string `json:"keywords"`
	Templates []string `json:"templates"`
}

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the topic buckets and their slide templates",
		Long: `List the template catalog. A topic uses the first bucket with a keyword
it contains; topics matching no bucket use the default bucket.`,
		Args: cobra.NoArgs,
		RunE: runTemplates,
	}

	cmd.Flags().StringP("format", "f", "table", "Output format: table or json")

	return cmd
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	format, _ := cmd.Flags().GetString("format")

	buckets := make([]templateBucket, 0, len(a.catalog.Buckets()))
	for _, b := range a.catalog.Buckets() {
		titles := make([]string, 0, len(b.Templates))
		for _, tmpl := range b.Templates {
			titles = append(titles, tmpl.Title)
		}
		keywords := b.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		buckets = append(buckets, templateBucket{Name: b.Name, Keywords: keywords, Templates: titles})
	}

	out := cmd.OutOrStdout()

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"buckets": buckets,
			"count":   len(buckets),
		})
	case "table":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "BUCKET\tKEYWORDS\tTEMPLATES")
		for _, b := range buckets {
			keywords := strings.Join(b.Keywords, ", ")
			if keywords == "" {
				keywords = "(any)"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", b.Name, keywords, len(b.Templates))
		}
		return w.Flush()
	default:
		return fmt.Errorf("unsupported output format %q (must be table or json)", format)
	}
}
