// ABOUTME: Backup command for exporting data to YAML
// ABOUTME: Creates portable backup files for data migration

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harper/tiers/internal/storage"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a YAML backup of all data",
	Long: `Create a YAML backup file containing all annotations, tiers, and markers.

Examples:
  tiers backup --output tiers.yaml
  tiers backup -o ~/backups/tiers-$(date +%Y%m%d).yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		data, err := storage.ExportBackup(db)
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		if output == "" {
			output = fmt.Sprintf("tiers-%s.yaml", time.Now().Format("20060102-150405"))
		}

		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for backup files
			return fmt.Errorf("failed to write backup: %w", err)
		}

		annotations, tiers := counts()
		color.Green("Backup created: %s", output)
		fmt.Printf("  %d annotations, %d tiers\n", annotations, tiers)
		return nil
	},
}

// counts reports how many annotations and tiers are stored.
func counts() (int, int) {
	list, err := db.ListAnnotations()
	if err != nil {
		return 0, 0
	}
	tiers := 0
	for _, a := range list {
		tiers += len(a.Tiers)
	}
	return len(list), tiers
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "output file (default: tiers-YYYYMMDD-HHMMSS.yaml)")

	rootCmd.AddCommand(backupCmd)
}
