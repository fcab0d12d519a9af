// ABOUTME: Import command for restoring data from YAML backup
// ABOUTME: Replays every interval and point so corrupt backups are rejected

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harper/tiers/internal/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data from a YAML backup",
	Long: `Import annotations from a YAML backup file created with 'tiers backup'.

Every interval and point is re-inserted, so a backup with overlapping or
inverted intervals is rejected before anything is written.

WARNING: This adds to existing data. Annotations whose names already exist
cause the import to fail.

Examples:
  tiers import tiers.yaml --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename) //nolint:gosec // user-supplied path is the point of this command
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		yes, _ := cmd.Flags().GetBool("confirm")
		if !yes && !confirm(fmt.Sprintf("Import data from '%s'?", filename)) {
			fmt.Println("Canceled.")
			return nil
		}

		if err := storage.ImportBackup(db, data); err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		annotations, tiers := counts()
		color.Green("Import complete")
		fmt.Printf("  %d annotations, %d tiers in database\n", annotations, tiers)
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(importCmd)
}
