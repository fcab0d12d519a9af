// ABOUTME: Annotation remove command
// ABOUTME: Deletes an annotation with all of its tiers

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"remove"},
	Short:   "Remove an annotation and all its tiers",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := loadAnnotation(name)
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("confirm")
		if !yes && !confirm(fmt.Sprintf("Remove '%s' and all %d tiers?", name, len(a.Tiers))) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := db.DeleteAnnotation(a.ID); err != nil {
			return fmt.Errorf("failed to remove annotation: %w", err)
		}

		color.Green("✓ Removed %s", name)
		return nil
	},
}

func init() {
	removeCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(removeCmd)
}
