// ABOUTME: Export and import functionality for annotation data
// ABOUTME: Supports YAML backup format and markdown export

package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/tiers/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// Backup represents the YAML backup format.
type Backup struct {
	Version     string             `yaml:"version"`
	ExportedAt  time.Time          `yaml:"exported_at"`
	Tool        string             `yaml:"tool"`
	Annotations []AnnotationBackup `yaml:"annotations"`
}

// AnnotationBackup represents an annotation in the backup format.
// The badger backend stores the same document as JSON.
type AnnotationBackup struct {
	ID        string       `yaml:"id" json:"id"`
	Name      string       `yaml:"name" json:"name"`
	Start     float64      `yaml:"start" json:"start"`
	End       float64      `yaml:"end" json:"end"`
	CreatedAt time.Time    `yaml:"created_at" json:"created_at"`
	Tiers     []TierBackup `yaml:"tiers" json:"tiers"`
}

// TierBackup represents a tier. Interval tiers are written as their
// intervals and rebuilt by replaying insertions.
type TierBackup struct {
	ID        string           `yaml:"id" json:"id"`
	Name      string           `yaml:"name" json:"name"`
	Kind      string           `yaml:"kind" json:"kind"`
	Start     float64          `yaml:"start" json:"start"`
	End       float64          `yaml:"end" json:"end"`
	Points    []PointBackup    `yaml:"points,omitempty" json:"points,omitempty"`
	Intervals []IntervalBackup `yaml:"intervals,omitempty" json:"intervals,omitempty"`
}

// PointBackup represents one point marker.
type PointBackup struct {
	Time  float64 `yaml:"time" json:"time"`
	Label string  `yaml:"label,omitempty" json:"label,omitempty"`
}

// IntervalBackup represents one interval. EndLabel carries a label left on
// the closing boundary by a merge, which would otherwise be lost.
type IntervalBackup struct {
	Start    float64 `yaml:"start" json:"start"`
	End      float64 `yaml:"end" json:"end"`
	Label    string  `yaml:"label,omitempty" json:"label,omitempty"`
	EndLabel string  `yaml:"end_label,omitempty" json:"end_label,omitempty"`
}

func tierToBackup(t *models.Tier) TierBackup {
	tb := TierBackup{
		ID:    t.ID.String(),
		Name:  t.Name,
		Kind:  string(t.Kind),
		Start: t.Start,
		End:   t.End,
	}
	switch t.Kind {
	case models.PointTier:
		for _, p := range t.Positions() {
			tb.Points = append(tb.Points, PointBackup{Time: p.Time, Label: p.Label})
		}
	case models.IntervalTier:
		for iv := range t.Intervals() {
			tb.Intervals = append(tb.Intervals, IntervalBackup{
				Start:    iv.Start.Time,
				End:      iv.End.Time,
				Label:    iv.Start.Label,
				EndLabel: iv.End.Label,
			})
		}
	}
	return tb
}

func toBackup(a *models.Annotation) AnnotationBackup {
	ab := AnnotationBackup{
		ID:        a.ID.String(),
		Name:      a.Name,
		Start:     a.Start,
		End:       a.End,
		CreatedAt: a.CreatedAt,
		Tiers:     make([]TierBackup, 0, len(a.Tiers)),
	}
	for _, t := range a.Tiers {
		ab.Tiers = append(ab.Tiers, tierToBackup(t))
	}
	return ab
}

// tierFromBackup rebuilds a tier through the same insert operations an
// editor uses, so corrupt input is rejected by the tier's own checks.
func tierFromBackup(tb TierBackup) (*models.Tier, error) {
	id, err := uuid.Parse(tb.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid tier ID %s: %w", tb.ID, err)
	}
	if err := models.ValidateSpan(tb.Start, tb.End); err != nil {
		return nil, fmt.Errorf("tier %q: %w", tb.Name, err)
	}
	kind, err := models.ParseTierKind(tb.Kind)
	if err != nil {
		return nil, fmt.Errorf("tier %q: %w", tb.Name, err)
	}

	var tier *models.Tier
	switch kind {
	case models.PointTier:
		tier = models.NewPointTier(tb.Name, tb.Start, tb.End)
		for _, pb := range tb.Points {
			if _, err := tier.AddPoint(pb.Time, pb.Label); err != nil {
				return nil, fmt.Errorf("tier %q: point at %g: %w", tb.Name, pb.Time, err)
			}
		}
	case models.IntervalTier:
		tier = models.NewIntervalTier(tb.Name, tb.Start, tb.End)
		for _, ib := range tb.Intervals {
			_, end, err := tier.InsertInterval(ib.Start, ib.End, ib.Label)
			if err != nil {
				return nil, fmt.Errorf("tier %q: interval [%g, %g]: %w", tb.Name, ib.Start, ib.End, err)
			}
			end.Label = ib.EndLabel
		}
	}
	tier.ID = id
	return tier, nil
}

func fromBackup(ab AnnotationBackup) (*models.Annotation, error) {
	id, err := uuid.Parse(ab.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid annotation ID %s: %w", ab.ID, err)
	}
	if err := models.ValidateSpan(ab.Start, ab.End); err != nil {
		return nil, fmt.Errorf("annotation %q: %w", ab.Name, err)
	}

	a := &models.Annotation{
		ID:        id,
		Name:      ab.Name,
		Start:     ab.Start,
		End:       ab.End,
		CreatedAt: ab.CreatedAt,
	}
	for _, tb := range ab.Tiers {
		tier, err := tierFromBackup(tb)
		if err != nil {
			return nil, fmt.Errorf("annotation %q: %w", ab.Name, err)
		}
		if err := a.AttachTier(tier); err != nil {
			return nil, fmt.Errorf("annotation %q: %w", ab.Name, err)
		}
	}
	return a, nil
}

// ExportToYAML exports all data to YAML format.
func ExportToYAML(repo Repository) ([]byte, error) {
	list, err := repo.ListAnnotations()
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}

	backup := Backup{
		Version:     BackupVersion,
		ExportedAt:  time.Now().UTC(),
		Tool:        "tiers",
		Annotations: make([]AnnotationBackup, len(list)),
	}
	for i, a := range list {
		backup.Annotations[i] = toBackup(a)
	}

	return yaml.Marshal(backup)
}

// ImportFromYAML imports data from YAML format.
// Every annotation is validated before anything is written.
func ImportFromYAML(repo Repository, data []byte) error {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}

	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}

	if backup.Tool != "tiers" {
		return fmt.Errorf("wrong tool: %s (expected tiers)", backup.Tool)
	}

	list := make([]*models.Annotation, 0, len(backup.Annotations))
	for _, ab := range backup.Annotations {
		a, err := fromBackup(ab)
		if err != nil {
			return err
		}
		list = append(list, a)
	}

	for _, a := range list {
		if err := repo.CreateAnnotation(a); err != nil {
			return fmt.Errorf("create annotation %s: %w", a.Name, err)
		}
	}
	return nil
}

// ExportToMarkdown exports data to markdown format.
// If annotationID is nil, exports all annotations.
func ExportToMarkdown(repo Repository, annotationID *uuid.UUID) ([]byte, error) {
	list, err := GetAnnotations(repo, annotationID)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder

	now := time.Now().UTC()
	sb.WriteString(fmt.Sprintf("# Annotation Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(list) == 0 {
		sb.WriteString("No annotations.\n")
		return []byte(sb.String()), nil
	}

	for _, a := range list {
		sb.WriteString(fmt.Sprintf("## %s\n\n", a.Name))
		sb.WriteString(fmt.Sprintf("Span: %.3f - %.3f s\n\n", a.Start, a.End))

		if len(a.Tiers) == 0 {
			sb.WriteString("No tiers.\n\n")
			continue
		}

		for _, t := range a.Tiers {
			sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", t.Name, t.Kind))
			switch t.Kind {
			case models.PointTier:
				if t.Len() == 0 {
					sb.WriteString("No points.\n\n")
					continue
				}
				sb.WriteString("| # | Time | Label |\n")
				sb.WriteString("|---|------|-------|\n")
				for i, p := range t.Positions() {
					sb.WriteString(fmt.Sprintf("| %d | %.3f | %s |\n", i, p.Time, markdownCell(p.Label)))
				}
			case models.IntervalTier:
				sb.WriteString("| # | Start | End | Label |\n")
				sb.WriteString("|---|-------|-----|-------|\n")
				i := 0
				for iv := range t.Intervals() {
					sb.WriteString(fmt.Sprintf("| %d | %.3f | %.3f | %s |\n",
						i, iv.Start.Time, iv.End.Time, markdownCell(iv.Label())))
					i++
				}
			}
			sb.WriteString("\n")
		}
	}

	return []byte(sb.String()), nil
}

func markdownCell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// GetAnnotations retrieves one annotation, or all when annotationID is nil.
func GetAnnotations(repo Repository, annotationID *uuid.UUID) ([]*models.Annotation, error) {
	if annotationID != nil {
		a, err := repo.GetAnnotationByID(*annotationID)
		if err != nil {
			return nil, err
		}
		return []*models.Annotation{a}, nil
	}
	return repo.ListAnnotations()
}

// ExportBackup creates a YAML backup (alias for ExportToYAML).
func ExportBackup(repo Repository) ([]byte, error) {
	return ExportToYAML(repo)
}

// ImportBackup restores from a YAML backup (alias for ImportFromYAML).
func ImportBackup(repo Repository, data []byte) error {
	return ImportFromYAML(repo, data)
}
