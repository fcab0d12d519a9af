// ABOUTME: Config commands for inspecting and changing settings
// ABOUTME: Shows the effective config and writes single keys to config.json

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/tiers/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show the effective configuration",
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		fmt.Printf("config:    %s\n", config.GetConfigPath())
		fmt.Printf("backend:   %s\n", cfg.GetBackend())
		fmt.Printf("data_dir:  %s\n", cfg.GetDataDir())
		fmt.Printf("log_level: %s\n", cfg.GetLogLevel())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Long: `Set backend, data_dir, or log_level in config.json.

Examples:
  tiers config set backend badger
  tiers config set data_dir ~/annotations`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.Green("✓ Set %s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
