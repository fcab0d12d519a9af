// ABOUTME: Point tier editing commands
// ABOUTME: Adds, removes, and moves labeled points

package main

import (
	"github.com/fatih/color"
	"github.com/harper/tiers/internal/ui"
	"github.com/spf13/cobra"
)

var pointCmd = &cobra.Command{
	Use:     "point",
	Aliases: []string{"pt"},
	Short:   "Edit the points of a point tier",
}

var pointAddCmd = &cobra.Command{
	Use:   "add <annotation> <tier> <time>",
	Short: "Add a labeled point",
	Long: `Add a point. A point already at the same time is relabeled instead.

Examples:
  tiers point add utt01 tones 0.31 --label "H*"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseSeconds(args[2], "time")
		if err != nil {
			return err
		}
		label, _ := cmd.Flags().GetString("label")

		a, t, err := loadTier(args[0], args[1])
		if err != nil {
			return err
		}
		if _, err := t.AddPoint(at, label); err != nil {
			return explain("add point", err)
		}
		if err := saveTier(a, t); err != nil {
			return err
		}

		color.Green("✓ Added point to %s at %s", t.Name, ui.FormatSeconds(at))
		return nil
	},
}

var pointRmCmd = &cobra.Command{
	Use:     "rm <annotation> <tier> <index>",
	Aliases: []string{"remove"},
	Short:   "Remove a point",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex(args[2])
		if err != nil {
			return err
		}

		a, t, err := loadTier(args[0], args[1])
		if err != nil {
			return err
		}
		removed, err := t.RemovePoint(i)
		if err != nil {
			return explain("remove point", err)
		}
		if err := saveTier(a, t); err != nil {
			return err
		}

		color.Green("✓ Removed point at %s from %s", ui.FormatSeconds(removed.Time), t.Name)
		return nil
	},
}

var pointMoveCmd = &cobra.Command{
	Use:   "move <annotation> <tier> <index> <time>",
	Short: "Move a point to a new time",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex(args[2])
		if err != nil {
			return err
		}
		to, err := parseSeconds(args[3], "time")
		if err != nil {
			return err
		}

		a, t, err := loadTier(args[0], args[1])
		if err != nil {
			return err
		}
		if _, err := t.MovePoint(i, to); err != nil {
			return explain("move point", err)
		}
		if err := saveTier(a, t); err != nil {
			return err
		}

		color.Green("✓ Moved point %d of %s to %s", i, t.Name, ui.FormatSeconds(to))
		return nil
	},
}

func init() {
	pointAddCmd.Flags().StringP("label", "l", "", "point label")

	pointCmd.AddCommand(pointAddCmd, pointRmCmd, pointMoveCmd)
	rootCmd.AddCommand(pointCmd)
}
