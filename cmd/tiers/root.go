// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, builds the logger, and opens the configured storage backend

package main

import (
	"fmt"
	"os"

	"github.com/harper/tiers/internal/config"
	"github.com/harper/tiers/internal/logging"
	"github.com/harper/tiers/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	db      storage.Repository
	logger  = zerolog.Nop()
	dbPath  string
	verbose bool
)

// skipStorage marks commands that never touch the repository.
const skipStorage = "skip-storage"

var rootCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Time-aligned annotation tiers for speech recordings",
	Long: `
████████╗██╗███████╗██████╗ ███████╗
╚══██╔══╝██║██╔════╝██╔══██╗██╔════╝
   ██║   ██║█████╗  ██████╔╝███████╗
   ██║   ██║██╔══╝  ██╔══██╗╚════██║
   ██║   ██║███████╗██║  ██║███████║
   ╚═╝   ╚═╝╚══════╝╚═╝  ╚═╝╚══════╝

     Label speech with points and intervals

Examples:
  tiers new utt01 --start 0 --end 2.5
  tiers tier add utt01 words --kind interval
  tiers interval add utt01 words 0.12 0.48 --label hello
  tiers point add utt01 tones 0.31 --label "H*"
  tiers show utt01`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.GetLogLevel()
		if verbose {
			level = "debug"
		}
		logger = logging.New(os.Stderr, level)

		if cmd.Annotations[skipStorage] == "true" {
			return nil
		}

		if dbPath != "" {
			db, err = storage.NewSQLiteDB(config.ExpandPath(dbPath), storage.WithLogger(logger))
		} else {
			db, err = cfg.OpenStorage(logger)
		}
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		logger.Debug().Str("backend", cfg.GetBackend()).Msg("storage opened")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (overrides configured backend)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
