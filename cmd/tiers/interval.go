// ABOUTME: Interval tier editing commands
// ABOUTME: Inserts, splits, removes, moves, and looks up intervals and boundaries

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/tiers/internal/ui"
	"github.com/spf13/cobra"
)

var intervalCmd = &cobra.Command{
	Use:     "interval",
	Aliases: []string{"iv"},
	Short:   "Edit the intervals of an interval tier",
}

var intervalAddCmd = &cobra.Command{
	Use:   "add <annotation> <tier> <start> <end>",
	Short: "Insert a labeled interval",
	Long: `Insert an interval by placing boundaries at start and end.

Fails if any existing boundary lies strictly between start and end.
Boundaries already at start or end are reused. Reusing the end boundary
clears its label, so insert neighboring intervals left to right.

Examples:
  tiers interval add utt01 words 0.12 0.48 --label hello`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseSeconds(args[2], "start")
		if err != nil {
			return err
		}
		end, err := parseSeconds(args[3], "end")
		if err != nil {
			return err
		}
		label, _ := cmd.Flags().GetString("label")

		a, t, err := loadTier(args[0], args[1])
		if err != nil {
			return err
		}
		if _, _, err := t.InsertInterval(start, end, label); err != nil {
			return explain("add interval", err)
		}
		if err := saveTier(a, t); err != nil {
			return err
		}

		color.Green("✓ Added interval to %s", t.Name)
		fmt.Printf("  %s - %s  %s\n", ui.FormatSeconds(start), ui.FormatSeconds(end), label)
		return nil
	},
}

var intervalSplitCmd = &cobra.Command{
	Use:   "split <annotation> <tier> <time>",
	Short: "Split the interval at a time with a new boundary",
	Long: `Add one boundary inside an existing interval.

The label applies to the new right-hand interval.

Examples:
  tiers interval split utt01 words 0.8 --label world`,
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
		if _, err := t.SplitAt(at, label); err != nil {
			return explain("split interval", err)
		}
		if err := saveTier(a, t); err != nil {
			return err
		}

		color.Green("✓ Split %s at %s", t.Name, ui.FormatSeconds(at))
		return nil
	},
}

var intervalRmCmd = &cobra.Command{
	Use:     "rm <annotation> <tier> <boundary-index>",
	Aliases: []string{"remove"},
	Short:   "Remove a boundary, merging the two intervals around it",
	Long: `Remove an inner boundary. The intervals on either side merge and the
merged interval keeps its own label. The removed boundary's label is
appended to the label of the boundary that followed it.

Use 'tiers show <annotation> <tier> --boundaries' to see boundary indices.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex(args[2])
		if err != nil {
			return err
		}

		a, t, err := loadTier(args[0], args[1])
		if err != nil {
			return err
		}
		removed, err := t.RemoveBoundaryAt(i)
		if err != nil {
			return explain("remove boundary", err)
		}
		if err := saveTier(a, t); err != nil {
			return err
		}

		color.Green("✓ Removed boundary at %s from %s", ui.FormatSeconds(removed.Time), t.Name)
		return nil
	},
}

var intervalMoveCmd = &cobra.Command{
	Use:   "move <annotation> <tier> <boundary-index> <time>",
	Short: "Move an inner boundary between its neighbors",
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
		if _, err := t.MoveBoundary(i, to); err != nil {
			return explain("move boundary", err)
		}
		if err := saveTier(a, t); err != nil {
			return err
		}

		color.Green("✓ Moved boundary %d of %s to %s", i, t.Name, ui.FormatSeconds(to))
		return nil
	},
}

var intervalAtCmd = &cobra.Command{
	Use:   "at <annotation> <tier> <time>",
	Short: "Show the interval containing a time",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseSeconds(args[2], "time")
		if err != nil {
			return err
		}

		_, t, err := loadTier(args[0], args[1])
		if err != nil {
			return err
		}
		iv, i, ok := t.IntervalAt(at)
		if !ok {
			return fmt.Errorf("no interval of '%s' contains %s", t.Name, ui.FormatSeconds(at))
		}

		fmt.Println(ui.FormatInterval(i, iv))
		return nil
	},
}

func init() {
	intervalAddCmd.Flags().StringP("label", "l", "", "interval label")
	intervalSplitCmd.Flags().StringP("label", "l", "", "label of the new right-hand interval")

	intervalCmd.AddCommand(intervalAddCmd, intervalSplitCmd, intervalRmCmd, intervalMoveCmd, intervalAtCmd)
	rootCmd.AddCommand(intervalCmd)
}
