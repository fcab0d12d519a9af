// ABOUTME: Tests for CLI commands
// ABOUTME: Runs each command against a temporary SQLite database

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/tiers/internal/markers"
	"github.com/harper/tiers/internal/models"
	"github.com/harper/tiers/internal/storage"
	"github.com/spf13/cobra"
)

// testDB creates a temporary database for testing and sets the global db variable.
func testDB(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	var err error
	db, err = storage.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() {
		if db != nil {
			_ = db.Close()
			db = nil
		}
	})
}

// seed stores "utt01" over [0, 2] with an empty interval tier "words" and
// an empty point tier "tones".
func seed(t *testing.T) {
	t.Helper()
	a := models.NewAnnotation("utt01", 0, 2)
	if _, err := a.AddTier("words", models.IntervalTier); err != nil {
		t.Fatalf("AddTier: %v", err)
	}
	if _, err := a.AddTier("tones", models.PointTier); err != nil {
		t.Fatalf("AddTier: %v", err)
	}
	if err := db.CreateAnnotation(a); err != nil {
		t.Fatalf("CreateAnnotation: %v", err)
	}
}

// setFlags sets flags on cmd and restores their defaults when the test ends.
func setFlags(t *testing.T, cmd *cobra.Command, kv ...string) {
	t.Helper()
	for i := 0; i+1 < len(kv); i += 2 {
		name := kv[i]
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Fatalf("flag %q not found on %s", name, cmd.Name())
		}
		def := f.DefValue
		if err := cmd.Flags().Set(name, kv[i+1]); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
		t.Cleanup(func() {
			_ = cmd.Flags().Set(name, def)
			f.Changed = false
		})
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	return cmd.RunE(cmd, args)
}

func mustRun(t *testing.T, cmd *cobra.Command, args ...string) {
	t.Helper()
	if err := run(t, cmd, args...); err != nil {
		t.Fatalf("%s %v failed: %v", cmd.Name(), args, err)
	}
}

func tierFromDB(t *testing.T, name string) *models.Tier {
	t.Helper()
	a, err := db.GetAnnotationByName("utt01")
	if err != nil {
		t.Fatalf("GetAnnotationByName: %v", err)
	}
	tier, err := a.TierByName(name)
	if err != nil {
		t.Fatalf("TierByName: %v", err)
	}
	return tier
}

func intervalLabels(tier *models.Tier) []string {
	var labels []string
	for iv := range tier.Intervals() {
		labels = append(labels, iv.Label())
	}
	return labels
}

// Tests for rootCmd

func TestRootCmd_Metadata(t *testing.T) {
	if rootCmd.Use != "tiers" {
		t.Errorf("expected Use 'tiers', got %q", rootCmd.Use)
	}
	if !strings.Contains(rootCmd.Long, "points and intervals") {
		t.Error("expected description in Long")
	}
	if rootCmd.PersistentFlags().Lookup("db") == nil {
		t.Error("expected --db flag")
	}
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("expected --verbose flag")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{"new", "list", "show", "tier", "interval", "point", "label", "rm", "backup", "import", "export", "migrate", "config", "mcp"}
	for _, name := range want {
		if cmd, _, err := rootCmd.Find([]string{name}); err != nil || cmd == rootCmd {
			t.Errorf("expected subcommand %q", name)
		}
	}
}

// Tests for newCmd

func TestNewCmd(t *testing.T) {
	testDB(t)
	setFlags(t, newCmd, "start", "0.5", "end", "2.5")

	mustRun(t, newCmd, "utt01")

	a, err := db.GetAnnotationByName("utt01")
	if err != nil {
		t.Fatalf("annotation not created: %v", err)
	}
	if a.Start != 0.5 || a.End != 2.5 {
		t.Errorf("expected span [0.5, 2.5], got [%g, %g]", a.Start, a.End)
	}
}

func TestNewCmd_InvalidSpan(t *testing.T) {
	testDB(t)
	setFlags(t, newCmd, "start", "3", "end", "2")

	if err := run(t, newCmd, "utt01"); err == nil {
		t.Error("expected error for inverted span")
	}
}

func TestNewCmd_Duplicate(t *testing.T) {
	testDB(t)
	seed(t)
	setFlags(t, newCmd, "end", "1")

	err := run(t, newCmd, "utt01")
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

// Tests for listCmd and showCmd

func TestListCmd_Empty(t *testing.T) {
	testDB(t)
	mustRun(t, listCmd)
}

func TestListCmd_WithAnnotations(t *testing.T) {
	testDB(t)
	seed(t)
	mustRun(t, listCmd)
}

func TestShowCmd(t *testing.T) {
	testDB(t)
	seed(t)
	mustRun(t, showCmd, "utt01")
	mustRun(t, showCmd, "utt01", "words")
}

func TestShowCmd_NotFound(t *testing.T) {
	testDB(t)
	seed(t)

	if err := run(t, showCmd, "nope"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
	if err := run(t, showCmd, "utt01", "phones"); err == nil {
		t.Error("expected error for missing tier")
	}
}

// Tests for tier commands

func TestTierAddCmd(t *testing.T) {
	testDB(t)
	seed(t)

	mustRun(t, tierAddCmd, "utt01", "phones")
	phones := tierFromDB(t, "phones")
	if phones.Kind != models.IntervalTier {
		t.Errorf("expected interval tier by default, got %s", phones.Kind)
	}
	if phones.Len() != 2 {
		t.Errorf("expected 2 span boundaries, got %d", phones.Len())
	}

	setFlags(t, tierAddCmd, "kind", "point")
	mustRun(t, tierAddCmd, "utt01", "breaks")
	if tierFromDB(t, "breaks").Kind != models.PointTier {
		t.Error("expected point tier")
	}
}

func TestTierAddCmd_Errors(t *testing.T) {
	testDB(t)
	seed(t)

	err := run(t, tierAddCmd, "utt01", "words")
	if !errors.Is(err, models.ErrDuplicateTier) {
		t.Errorf("expected ErrDuplicateTier, got %v", err)
	}

	setFlags(t, tierAddCmd, "kind", "segment")
	if err := run(t, tierAddCmd, "utt01", "phones"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestTierRmCmd(t *testing.T) {
	testDB(t)
	seed(t)

	mustRun(t, tierRmCmd, "utt01", "tones")

	a, _ := db.GetAnnotationByName("utt01")
	if len(a.Tiers) != 1 {
		t.Errorf("expected 1 tier left, got %d", len(a.Tiers))
	}
	if err := run(t, tierRmCmd, "utt01", "tones"); err == nil {
		t.Error("expected error removing a missing tier")
	}
}

// Tests for interval commands

func TestIntervalAddCmd(t *testing.T) {
	testDB(t)
	seed(t)
	setFlags(t, intervalAddCmd, "label", "hello")

	mustRun(t, intervalAddCmd, "utt01", "words", "0", "0.8")

	got := intervalLabels(tierFromDB(t, "words"))
	if len(got) != 2 || got[0] != "hello" || got[1] != "" {
		t.Errorf("unexpected labels %q", got)
	}
}

func TestIntervalAddCmd_Overlap(t *testing.T) {
	testDB(t)
	seed(t)
	mustRun(t, intervalAddCmd, "utt01", "words", "0.5", "1.0")

	err := run(t, intervalAddCmd, "utt01", "words", "0.2", "0.8")
	if !errors.Is(err, markers.ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
	if !strings.Contains(err.Error(), "another boundary is in the way") {
		t.Errorf("expected hint in error, got %q", err.Error())
	}
	if n := tierFromDB(t, "words").Len(); n != 4 {
		t.Errorf("expected tier unchanged with 4 boundaries, got %d", n)
	}
}

func TestIntervalAddCmd_BadArgs(t *testing.T) {
	testDB(t)
	seed(t)

	if err := run(t, intervalAddCmd, "utt01", "words", "abc", "1"); err == nil {
		t.Error("expected error for non-numeric start")
	}
	if err := run(t, intervalAddCmd, "utt01", "words", "1", "0.5"); !errors.Is(err, markers.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if err := run(t, intervalAddCmd, "utt01", "tones", "0.5", "1"); !errors.Is(err, models.ErrWrongKind) {
		t.Errorf("expected ErrWrongKind, got %v", err)
	}
}

func TestIntervalSplitRemoveMove(t *testing.T) {
	testDB(t)
	seed(t)

	setFlags(t, intervalSplitCmd, "label", "world")
	mustRun(t, intervalSplitCmd, "utt01", "words", "0.8")
	mustRun(t, labelCmd, "utt01", "words", "0", "hello")

	got := intervalLabels(tierFromDB(t, "words"))
	if len(got) != 2 || got[0] != "hello" || got[1] != "world" {
		t.Fatalf("unexpected labels after split %q", got)
	}

	mustRun(t, intervalMoveCmd, "utt01", "words", "1", "1.1")
	if b := tierFromDB(t, "words").Positions()[1]; b.Time != 1.1 {
		t.Errorf("expected boundary moved to 1.1, got %g", b.Time)
	}

	mustRun(t, intervalAtCmd, "utt01", "words", "1.5")

	mustRun(t, intervalRmCmd, "utt01", "words", "1")
	if n := tierFromDB(t, "words").Len(); n != 2 {
		t.Errorf("expected 2 boundaries after remove, got %d", n)
	}
}

func TestIntervalRmCmd_SpanEdge(t *testing.T) {
	testDB(t)
	seed(t)

	err := run(t, intervalRmCmd, "utt01", "words", "0")
	if !errors.Is(err, models.ErrSpanEdge) {
		t.Errorf("expected ErrSpanEdge, got %v", err)
	}
	if err := run(t, intervalRmCmd, "utt01", "words", "x"); err == nil {
		t.Error("expected error for non-integer index")
	}
}

func TestIntervalRmCmd_HelpDescribesLabelMerge(t *testing.T) {
	if !strings.Contains(intervalRmCmd.Long, "boundary that followed it") {
		t.Error("expected rm help to name the successor boundary as the merge target")
	}
}

func TestIntervalMoveCmd_NonFinite(t *testing.T) {
	testDB(t)
	seed(t)
	mustRun(t, intervalSplitCmd, "utt01", "words", "1")

	for _, v := range []string{"NaN", "Inf", "-Inf"} {
		if err := run(t, intervalMoveCmd, "utt01", "words", "1", v); err == nil {
			t.Errorf("expected error moving to %s", v)
		}
	}
	if b := tierFromDB(t, "words").Positions(); len(b) != 3 || b[0].Time != 0 || b[1].Time != 1 {
		t.Errorf("boundaries changed after rejected moves: %v", b)
	}
}

func TestIntervalAtCmd_OutsideSpan(t *testing.T) {
	testDB(t)
	seed(t)

	if err := run(t, intervalAtCmd, "utt01", "words", "5"); err == nil {
		t.Error("expected error outside the span")
	}
}

// Tests for point commands

func TestPointCommands(t *testing.T) {
	testDB(t)
	seed(t)

	setFlags(t, pointAddCmd, "label", "L%")
	mustRun(t, pointAddCmd, "utt01", "tones", "1.4")
	mustRun(t, pointAddCmd, "utt01", "tones", "0.3")
	mustRun(t, labelCmd, "utt01", "tones", "0", "H*")

	points := tierFromDB(t, "tones").Positions()
	if len(points) != 2 || points[0].Label != "H*" || points[1].Label != "L%" {
		t.Fatalf("unexpected points %v", points)
	}

	mustRun(t, pointMoveCmd, "utt01", "tones", "0", "0.35")
	if p := tierFromDB(t, "tones").Positions()[0]; p.Time != 0.35 {
		t.Errorf("expected point moved to 0.35, got %g", p.Time)
	}

	mustRun(t, pointRmCmd, "utt01", "tones", "1")
	if n := tierFromDB(t, "tones").Len(); n != 1 {
		t.Errorf("expected 1 point left, got %d", n)
	}
}

func TestPointAddCmd_OutOfSpan(t *testing.T) {
	testDB(t)
	seed(t)

	err := run(t, pointAddCmd, "utt01", "tones", "2.5")
	if !errors.Is(err, models.ErrOutOfSpan) {
		t.Errorf("expected ErrOutOfSpan, got %v", err)
	}
}

func TestPointRmCmd_OutOfRange(t *testing.T) {
	testDB(t)
	seed(t)

	err := run(t, pointRmCmd, "utt01", "tones", "0")
	if !errors.Is(err, markers.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

// Tests for removeCmd

func TestRemoveCmd_WithConfirm(t *testing.T) {
	testDB(t)
	seed(t)
	setFlags(t, removeCmd, "confirm", "true")

	mustRun(t, removeCmd, "utt01")

	if _, err := db.GetAnnotationByName("utt01"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected annotation removed, got %v", err)
	}
}

func TestRemoveCmd_NotFound(t *testing.T) {
	testDB(t)
	setFlags(t, removeCmd, "confirm", "true")

	if err := run(t, removeCmd, "nope"); err == nil {
		t.Error("expected error for missing annotation")
	}
}

// Tests for backup, import, and export

func TestBackupImportFlow(t *testing.T) {
	testDB(t)
	seed(t)
	mustRun(t, intervalAddCmd, "utt01", "words", "0.5", "1.0")

	backupPath := filepath.Join(t.TempDir(), "backup.yaml")
	setFlags(t, backupCmd, "output", backupPath)
	mustRun(t, backupCmd)

	if err := db.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	setFlags(t, importCmd, "confirm", "true")
	mustRun(t, importCmd, backupPath)

	if n := tierFromDB(t, "words").Len(); n != 4 {
		t.Errorf("expected 4 boundaries after import, got %d", n)
	}
}

func TestBackupCmd_DefaultOutput(t *testing.T) {
	testDB(t)
	seed(t)

	oldDir, _ := os.Getwd()
	tmpDir := t.TempDir()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldDir) }()

	mustRun(t, backupCmd)

	files, _ := os.ReadDir(tmpDir)
	found := false
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "tiers-") && strings.HasSuffix(f.Name(), ".yaml") {
			found = true
		}
	}
	if !found {
		t.Error("expected timestamped backup file")
	}
}

func TestImportCmd_FileNotFound(t *testing.T) {
	testDB(t)
	setFlags(t, importCmd, "confirm", "true")

	if err := run(t, importCmd, "/nonexistent/backup.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExportCmd_Markdown(t *testing.T) {
	testDB(t)
	seed(t)

	out := filepath.Join(t.TempDir(), "export.md")
	setFlags(t, exportCmd, "output", out)
	mustRun(t, exportCmd, "utt01")

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("export file not created: %v", err)
	}
	if !strings.Contains(string(data), "utt01") {
		t.Error("expected annotation name in markdown")
	}
}

func TestExportCmd_YAML(t *testing.T) {
	testDB(t)
	seed(t)

	out := filepath.Join(t.TempDir(), "export.yaml")
	setFlags(t, exportCmd, "format", "yaml", "output", out)
	mustRun(t, exportCmd)

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("export file not created: %v", err)
	}
	if !strings.Contains(string(data), "tool: tiers") {
		t.Error("expected tool marker in yaml")
	}
}

func TestExportCmd_Errors(t *testing.T) {
	testDB(t)
	seed(t)

	setFlags(t, exportCmd, "format", "textgrid")
	if err := run(t, exportCmd); err == nil {
		t.Error("expected error for unsupported format")
	}

	setFlags(t, exportCmd, "format", "yaml")
	if err := run(t, exportCmd, "utt01"); err == nil {
		t.Error("expected error for yaml export of one annotation")
	}

	setFlags(t, exportCmd, "format", "markdown")
	if err := run(t, exportCmd, "nope"); err == nil {
		t.Error("expected error for missing annotation")
	}
}

// Tests for migrateCmd

func TestMigrateCmd_ToBadger(t *testing.T) {
	testDB(t)
	seed(t)

	target := t.TempDir()
	setFlags(t, migrateCmd, "to", "badger", "data-dir", target)
	mustRun(t, migrateCmd)

	dst, err := storage.NewBadgerStore(filepath.Join(target, "badger"))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	defer func() { _ = dst.Close() }()

	a, err := dst.GetAnnotationByName("utt01")
	if err != nil {
		t.Fatalf("annotation not migrated: %v", err)
	}
	if len(a.Tiers) != 2 {
		t.Errorf("expected 2 tiers, got %d", len(a.Tiers))
	}
}

func TestMigrateCmd_InvalidTarget(t *testing.T) {
	testDB(t)
	setFlags(t, migrateCmd, "to", "markdown")

	if err := run(t, migrateCmd); err == nil {
		t.Error("expected error for invalid backend")
	}
}

func TestMigrateCmd_SameBackend(t *testing.T) {
	testDB(t)
	setFlags(t, migrateCmd, "to", "sqlite")

	if err := run(t, migrateCmd); err == nil {
		t.Error("expected error migrating onto the current backend")
	}
}

func TestMigrateCmd_ExistingTarget(t *testing.T) {
	testDB(t)
	seed(t)

	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(target, "tiers.db"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	setFlags(t, migrateCmd, "to", "sqlite", "data-dir", target)

	if err := run(t, migrateCmd); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("expected --force hint, got %v", err)
	}
}

// Tests for config commands

func TestConfigSetAndShow(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	mustRun(t, configSetCmd, "backend", "badger")
	mustRun(t, configShowCmd)

	if err := run(t, configSetCmd, "backend", "csv"); err == nil {
		t.Error("expected error for invalid backend")
	}
	if err := run(t, configSetCmd, "color", "on"); err == nil {
		t.Error("expected error for unknown key")
	}
	if configSetCmd.Annotations[skipStorage] != "true" {
		t.Error("config set should not open storage")
	}
}

func TestMcpCmd_Metadata(t *testing.T) {
	if mcpCmd.Use != "mcp" {
		t.Errorf("expected Use 'mcp', got %q", mcpCmd.Use)
	}
}

// Tests for helpers

func TestExplain(t *testing.T) {
	tests := []struct {
		err  error
		hint string
	}{
		{markers.ErrOverlap, "another boundary"},
		{markers.ErrInvalidRange, "end time must be after"},
		{markers.ErrIndexOutOfRange, "valid indices"},
		{models.ErrOutOfSpan, "inside the annotation span"},
		{models.ErrSpanEdge, "fixed at the span edges"},
		{models.ErrWrongKind, "point tiers"},
	}
	for _, tt := range tests {
		err := explain("edit", tt.err)
		if !errors.Is(err, tt.err) {
			t.Errorf("explain lost the wrapped error %v", tt.err)
		}
		if !strings.Contains(err.Error(), tt.hint) {
			t.Errorf("expected hint %q in %q", tt.hint, err.Error())
		}
	}

	plain := explain("edit", errors.New("boom"))
	if plain.Error() != "cannot edit: boom" {
		t.Errorf("unexpected plain error %q", plain.Error())
	}
}

func TestParseHelpers(t *testing.T) {
	if v, err := parseSeconds("1.25", "time"); err != nil || v != 1.25 {
		t.Errorf("parseSeconds = %g, %v", v, err)
	}
	if _, err := parseSeconds("soon", "time"); err == nil {
		t.Error("expected error for non-numeric seconds")
	}
	if i, err := parseIndex("3"); err != nil || i != 3 {
		t.Errorf("parseIndex = %d, %v", i, err)
	}
	if _, err := parseIndex("1.5"); err == nil {
		t.Error("expected error for fractional index")
	}
}
