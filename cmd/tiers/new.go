// ABOUTME: Annotation create command
// ABOUTME: Creates an empty annotation over a fixed time span

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/tiers/internal/models"
	"github.com/harper/tiers/internal/ui"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:     "new <name> --end <seconds>",
	Aliases: []string{"n"},
	Short:   "Create an annotation",
	Long: `Create a new annotation covering the span [start, end] in seconds.

Examples:
  tiers new utt01 --end 2.5
  tiers new utt01 --start 0.25 --end 2.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := models.ValidateName(name); err != nil {
			return err
		}

		start, _ := cmd.Flags().GetFloat64("start")
		end, _ := cmd.Flags().GetFloat64("end")
		if err := models.ValidateSpan(start, end); err != nil {
			return err
		}

		a := models.NewAnnotation(name, start, end)
		if err := db.CreateAnnotation(a); err != nil {
			return fmt.Errorf("failed to create annotation: %w", err)
		}

		color.Green("✓ Created %s", name)
		fmt.Printf("  %s span %s - %s\n",
			color.New(color.Faint).Sprint(a.ID.String()[:6]),
			ui.FormatSeconds(start), ui.FormatSeconds(end))
		return nil
	},
}

func init() {
	newCmd.Flags().Float64("start", 0, "span start in seconds")
	newCmd.Flags().Float64("end", 0, "span end in seconds")
	_ = newCmd.MarkFlagRequired("end")

	rootCmd.AddCommand(newCmd)
}
