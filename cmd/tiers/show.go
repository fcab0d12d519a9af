// ABOUTME: Annotation show command
// ABOUTME: Prints every tier of an annotation with its intervals or points

package main

import (
	"fmt"

	"github.com/harper/tiers/internal/models"
	"github.com/harper/tiers/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <annotation> [tier]",
	Short: "Show the tiers of an annotation",
	Long: `Show an annotation and its tiers.

Interval tiers list their intervals by default. Use --boundaries to list
the boundaries instead; boundary indices are what 'interval rm' and
'interval move' take.

Examples:
  tiers show utt01
  tiers show utt01 words --boundaries`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAnnotation(args[0])
		if err != nil {
			return err
		}
		boundaries, _ := cmd.Flags().GetBool("boundaries")

		tiers := a.Tiers
		if len(args) == 2 {
			t, err := a.TierByName(args[1])
			if err != nil {
				return fmt.Errorf("tier '%s' not found in '%s'", args[1], a.Name)
			}
			tiers = []*models.Tier{t}
		}

		fmt.Println(ui.FormatAnnotation(a))
		for _, t := range tiers {
			fmt.Println()
			fmt.Println(ui.FormatTier(t, boundaries))
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolP("boundaries", "b", false, "list boundaries instead of intervals")

	rootCmd.AddCommand(showCmd)
}
