// ABOUTME: SQLite storage implementation for annotation data
// ABOUTME: Provides local-only persistence using pure Go SQLite driver

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/tiers/internal/markers"
	"github.com/harper/tiers/internal/models"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements Repository with a local SQLite database.
type SQLiteDB struct {
	db   *sql.DB
	path string
	log  zerolog.Logger
}

// Compile-time check that SQLiteDB implements Repository.
var _ Repository = (*SQLiteDB)(nil)

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "tiers", "tiers.db")
}

// NewSQLiteDB creates a new SQLite database at the given path.
// Creates the directory and database file if they don't exist.
func NewSQLiteDB(path string, opts ...Option) (*SQLiteDB, error) {
	o := buildOptions(opts)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Serialize access so the foreign_keys pragma applies to every statement.
	db.SetMaxOpenConns(1)

	s := &SQLiteDB{db: db, path: path, log: o.log}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Debug().Str("path", path).Msg("opened sqlite database")
	return s, nil
}

// migrate creates or updates the database schema.
func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS annotations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			start_time REAL NOT NULL,
			end_time REAL NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS tiers (
			id TEXT PRIMARY KEY,
			annotation_id TEXT NOT NULL REFERENCES annotations(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('point', 'interval')),
			start_time REAL NOT NULL,
			end_time REAL NOT NULL,
			ordinal INTEGER NOT NULL,
			UNIQUE (annotation_id, name)
		);

		CREATE TABLE IF NOT EXISTS markers (
			tier_id TEXT NOT NULL REFERENCES tiers(id) ON DELETE CASCADE,
			ordinal INTEGER NOT NULL,
			time REAL NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (tier_id, ordinal)
		);

		CREATE INDEX IF NOT EXISTS idx_tiers_annotation_id ON tiers(annotation_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Reset clears all data from the database.
func (s *SQLiteDB) Reset() error {
	_, err := s.db.Exec("DELETE FROM markers; DELETE FROM tiers; DELETE FROM annotations;")
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateAnnotation stores an annotation together with its tiers.
func (s *SQLiteDB) CreateAnnotation(a *models.Annotation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		"INSERT INTO annotations (id, name, start_time, end_time, created_at) VALUES (?, ?, ?, ?, ?)",
		a.ID.String(), a.Name, a.Start, a.End, a.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("annotation %q: %w", a.Name, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("insert annotation: %w", err)
	}

	for _, tier := range a.Tiers {
		if err := saveTierTx(tx, a.ID, tier); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetAnnotationByID retrieves an annotation by its UUID.
func (s *SQLiteDB) GetAnnotationByID(id uuid.UUID) (*models.Annotation, error) {
	row := s.db.QueryRow(
		"SELECT id, name, start_time, end_time, created_at FROM annotations WHERE id = ?",
		id.String(),
	)
	return s.loadAnnotation(row)
}

// GetAnnotationByName retrieves an annotation by its name.
func (s *SQLiteDB) GetAnnotationByName(name string) (*models.Annotation, error) {
	row := s.db.QueryRow(
		"SELECT id, name, start_time, end_time, created_at FROM annotations WHERE name = ?",
		name,
	)
	return s.loadAnnotation(row)
}

// ListAnnotations returns all annotations sorted by name.
func (s *SQLiteDB) ListAnnotations() ([]*models.Annotation, error) {
	rows, err := s.db.Query("SELECT id, name, start_time, end_time, created_at FROM annotations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}

	var list []*models.Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for _, a := range list {
		if err := s.loadTiers(a); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// DeleteAnnotation removes an annotation (tiers and markers cascade delete automatically).
func (s *SQLiteDB) DeleteAnnotation(id uuid.UUID) error {
	res, err := s.db.Exec("DELETE FROM annotations WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete annotation: %w", err)
	}
	return requireAffected(res)
}

// SaveTier inserts or replaces a tier and rewrites its markers in order.
func (s *SQLiteDB) SaveTier(annotationID uuid.UUID, tier *models.Tier) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRow("SELECT COUNT(*) FROM annotations WHERE id = ?", annotationID.String()).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check annotation: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("annotation %s: %w", annotationID, ErrNotFound)
	}

	if err := saveTierTx(tx, annotationID, tier); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.log.Debug().
		Str("tier", tier.Name).
		Str("kind", string(tier.Kind)).
		Int("markers", tier.Len()).
		Msg("saved tier")
	return nil
}

// DeleteTier removes a single tier and its markers.
func (s *SQLiteDB) DeleteTier(annotationID, tierID uuid.UUID) error {
	res, err := s.db.Exec(
		"DELETE FROM tiers WHERE id = ? AND annotation_id = ?",
		tierID.String(), annotationID.String(),
	)
	if err != nil {
		return fmt.Errorf("delete tier: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func saveTierTx(tx *sql.Tx, annotationID uuid.UUID, tier *models.Tier) error {
	_, err := tx.Exec(
		`INSERT INTO tiers (id, annotation_id, name, kind, start_time, end_time, ordinal)
		 VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(ordinal) + 1, 0) FROM tiers WHERE annotation_id = ?))
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, kind = excluded.kind,
			start_time = excluded.start_time, end_time = excluded.end_time`,
		tier.ID.String(), annotationID.String(), tier.Name, string(tier.Kind),
		tier.Start, tier.End, annotationID.String(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("tier %q: %w", tier.Name, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("upsert tier %q: %w", tier.Name, err)
	}

	if _, err := tx.Exec("DELETE FROM markers WHERE tier_id = ?", tier.ID.String()); err != nil {
		return fmt.Errorf("clear markers: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO markers (tier_id, ordinal, time, label) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare markers: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, p := range tier.Positions() {
		if _, err := stmt.Exec(tier.ID.String(), i, p.Time, p.Label); err != nil {
			return fmt.Errorf("insert marker: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnotation(row rowScanner) (*models.Annotation, error) {
	var idStr string
	var a models.Annotation
	var createdAt time.Time
	err := row.Scan(&idStr, &a.Name, &a.Start, &a.End, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan annotation: %w", err)
	}
	a.ID, _ = uuid.Parse(idStr)
	a.CreatedAt = createdAt
	return &a, nil
}

func (s *SQLiteDB) loadAnnotation(row *sql.Row) (*models.Annotation, error) {
	a, err := scanAnnotation(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadTiers(a); err != nil {
		return nil, err
	}
	return a, nil
}

type tierRow struct {
	id         string
	name       string
	kind       string
	start, end float64
}

// loadTiers rebuilds every tier of a by replaying its stored markers.
func (s *SQLiteDB) loadTiers(a *models.Annotation) error {
	rows, err := s.db.Query(
		`SELECT id, name, kind, start_time, end_time FROM tiers
		 WHERE annotation_id = ? ORDER BY ordinal`,
		a.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("query tiers: %w", err)
	}
	var tierRows []tierRow
	for rows.Next() {
		var tr tierRow
		if err := rows.Scan(&tr.id, &tr.name, &tr.kind, &tr.start, &tr.end); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan tier: %w", err)
		}
		tierRows = append(tierRows, tr)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	_ = rows.Close()

	for _, tr := range tierRows {
		positions, err := s.loadMarkers(tr.id)
		if err != nil {
			return err
		}
		id, _ := uuid.Parse(tr.id)
		tier, err := models.RestoreTier(id, tr.name, models.TierKind(tr.kind), tr.start, tr.end, positions)
		if err != nil {
			return fmt.Errorf("restore tier: %w", err)
		}
		if err := a.AttachTier(tier); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteDB) loadMarkers(tierID string) ([]*markers.Position, error) {
	rows, err := s.db.Query("SELECT time, label FROM markers WHERE tier_id = ? ORDER BY ordinal", tierID)
	if err != nil {
		return nil, fmt.Errorf("query markers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var positions []*markers.Position
	for rows.Next() {
		var t float64
		var label string
		if err := rows.Scan(&t, &label); err != nil {
			return nil, fmt.Errorf("scan marker: %w", err)
		}
		positions = append(positions, markers.NewPosition(t, label))
	}
	return positions, rows.Err()
}
