// ABOUTME: Label command
// ABOUTME: Relabels a point or the interval starting at a boundary

package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var labelCmd = &cobra.Command{
	Use:   "label <annotation> <tier> <index> <label>",
	Short: "Set the label of a point or interval",
	Long: `Set a label by index. For point tiers the index is the point index;
for interval tiers it is the interval index.

Examples:
  tiers label utt01 words 0 hello
  tiers label utt01 words 0 ""`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex(args[2])
		if err != nil {
			return err
		}

		a, t, err := loadTier(args[0], args[1])
		if err != nil {
			return err
		}
		if _, err := t.SetLabel(i, args[3]); err != nil {
			return explain("set label", err)
		}
		if err := saveTier(a, t); err != nil {
			return err
		}

		color.Green("✓ Labeled %s[%d] %q", t.Name, i, args[3])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(labelCmd)
}
