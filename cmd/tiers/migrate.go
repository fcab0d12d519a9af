// ABOUTME: Migration command for converting annotation data between storage backends
// ABOUTME: Copies everything from the open backend into a fresh sqlite or badger store

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/tiers/internal/config"
	"github.com/harper/tiers/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Migrate all annotations from the current backend to a different backend.

Reads annotations with their tiers from the current backend and writes them
to the target backend. Does NOT update the config file; verify the migration
then run 'tiers config set backend <target>'.

Examples:
  tiers migrate --to badger
  tiers migrate --to sqlite --data-dir ~/tiers-sqlite
  tiers migrate --to badger --force`,
	RunE: runMigrate,
}

var (
	migrateTo      string
	migrateDataDir string
	migrateForce   bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite or badger)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory (defaults to current config data_dir)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into an existing target store")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sourceBackend := cfg.GetBackend()
	if dbPath != "" {
		sourceBackend = config.BackendSQLite
	}
	targetBackend := migrateTo

	if targetBackend != config.BackendSQLite && targetBackend != config.BackendBadger {
		return fmt.Errorf("invalid target backend %q: must be %q or %q", targetBackend, config.BackendSQLite, config.BackendBadger)
	}
	if targetBackend == sourceBackend && migrateDataDir == "" {
		return fmt.Errorf("target backend %q is the same as the current backend; pass --data-dir", targetBackend)
	}

	targetDataDir := cfg.GetDataDir()
	if migrateDataDir != "" {
		targetDataDir = config.ExpandPath(migrateDataDir)
	}

	targetPath, err := config.BackendPath(targetBackend, targetDataDir)
	if err != nil {
		return err
	}
	exists, err := targetExists(targetPath)
	if err != nil {
		return fmt.Errorf("check target: %w", err)
	}
	if exists && !migrateForce {
		return fmt.Errorf("target %q already has data; use --force to write into it", targetPath)
	}

	dst, err := config.OpenBackend(targetBackend, targetDataDir, logger)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	color.Yellow("Migrating annotation data:")
	fmt.Printf("  Source:  %s\n", sourceBackend)
	fmt.Printf("  Target:  %s (%s)\n", targetBackend, targetPath)
	fmt.Println()

	summary, err := storage.MigrateData(db, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	color.Green("Migration complete!")
	fmt.Printf("  Annotations: %d\n", summary.Annotations)
	fmt.Printf("  Tiers:       %d\n", summary.Tiers)
	fmt.Printf("  Markers:     %d\n", summary.Markers)
	fmt.Println()
	color.Yellow("Note: config.json was NOT updated. To switch to the new backend run:")
	fmt.Printf("  tiers config set backend %s\n", targetBackend)
	if migrateDataDir != "" {
		fmt.Printf("  tiers config set data_dir %s\n", migrateDataDir)
	}

	return nil
}

// targetExists reports whether a sqlite file or a non-empty badger directory is already at path.
func targetExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return true, nil
	}
	return storage.IsDirNonEmpty(path)
}
