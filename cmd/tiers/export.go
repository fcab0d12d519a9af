// ABOUTME: Export command for generating markdown and YAML output
// ABOUTME: Exports one annotation or all of them to stdout or a file

package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/harper/tiers/internal/storage"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export [annotation]",
	Aliases: []string{"e"},
	Short:   "Export annotations as markdown or YAML",
	Long: `Export annotations as Markdown tables or a YAML backup document.

Examples:
  # Markdown tables for one annotation
  tiers export utt01

  # YAML for everything, saved to a file
  tiers export --format yaml --output all.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "markdown" && format != "yaml" {
			return fmt.Errorf("unsupported format: %s (use 'markdown' or 'yaml')", format)
		}
		output, _ := cmd.Flags().GetString("output")

		var id *uuid.UUID
		if len(args) == 1 {
			a, err := loadAnnotation(args[0])
			if err != nil {
				return err
			}
			id = &a.ID
		}

		var data []byte
		var err error
		switch format {
		case "markdown":
			data, err = storage.ExportToMarkdown(db, id)
		case "yaml":
			if id != nil {
				return fmt.Errorf("yaml export covers all annotations; omit the annotation name")
			}
			data, err = storage.ExportToYAML(db)
		}
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		if output == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // exported files are meant to be shared
			return fmt.Errorf("failed to write export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "markdown", "output format (markdown or yaml)")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
