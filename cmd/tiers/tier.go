// ABOUTME: Tier management commands
// ABOUTME: Adds and removes point or interval tiers on an annotation

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/tiers/internal/models"
	"github.com/spf13/cobra"
)

var tierCmd = &cobra.Command{
	Use:   "tier",
	Short: "Manage the tiers of an annotation",
}

var tierAddCmd = &cobra.Command{
	Use:   "add <annotation> <tier> --kind <point|interval>",
	Short: "Add a tier",
	Long: `Add a tier spanning the whole annotation.

An interval tier starts as one empty interval covering the span.
A point tier starts empty.

Examples:
  tiers tier add utt01 words
  tiers tier add utt01 tones --kind point`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAnnotation(args[0])
		if err != nil {
			return err
		}

		kindStr, _ := cmd.Flags().GetString("kind")
		kind, err := models.ParseTierKind(kindStr)
		if err != nil {
			return err
		}

		t, err := a.AddTier(args[1], kind)
		if err != nil {
			return fmt.Errorf("cannot add tier: %w", err)
		}
		if err := saveTier(a, t); err != nil {
			return err
		}

		color.Green("✓ Added %s tier %s to %s", kind, t.Name, a.Name)
		return nil
	},
}

var tierRmCmd = &cobra.Command{
	Use:     "rm <annotation> <tier>",
	Aliases: []string{"remove"},
	Short:   "Remove a tier and all its markers",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAnnotation(args[0])
		if err != nil {
			return err
		}
		t, err := a.RemoveTier(args[1])
		if err != nil {
			return fmt.Errorf("tier '%s' not found in '%s'", args[1], a.Name)
		}
		if err := db.DeleteTier(a.ID, t.ID); err != nil {
			return fmt.Errorf("failed to remove tier: %w", err)
		}

		color.Green("✓ Removed tier %s from %s", t.Name, a.Name)
		return nil
	},
}

func init() {
	tierAddCmd.Flags().StringP("kind", "k", string(models.IntervalTier), "tier kind (point or interval)")

	tierCmd.AddCommand(tierAddCmd, tierRmCmd)
	rootCmd.AddCommand(tierCmd)
}
