// ABOUTME: Annotation list command
// ABOUTME: Lists all annotations with their spans and tier counts

package main

import (
	"fmt"

	"github.com/harper/tiers/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all annotations",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := db.ListAnnotations()
		if err != nil {
			return fmt.Errorf("failed to list annotations: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No annotations yet. Use 'tiers new' to create one.")
			return nil
		}

		for _, a := range list {
			fmt.Println(ui.FormatAnnotation(a))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
