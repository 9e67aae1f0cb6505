// ABOUTME: CLI command to export accounts, points log and posts
// ABOUTME: Writes YAML (default), JSON or Markdown to stdout or a file
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export community data",
		Long: `Export every account, the points log and all posts.

The global --format flag selects the output: auto or yaml (default),
json, or markdown.

Examples:
  tribe export
  tribe export backup.yaml
  tribe export --format markdown report.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	format := outputFormat
	if format == "auto" || format == "table" {
		format = "yaml"
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	if len(args) == 1 {
		if err := a.store.ExportToFile(ctx, args[0], format); err != nil {
			return err
		}
		if !quiet {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported to %s\n", args[0])
		}
		return nil
	}

	data, err := a.store.Export(ctx)
	if err != nil {
		return err
	}
	switch format {
	case "yaml", "yml":
		return data.WriteYAML(cmd.OutOrStdout())
	case "json":
		return data.WriteJSON(cmd.OutOrStdout())
	case "markdown", "md":
		return data.WriteMarkdown(cmd.OutOrStdout())
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
