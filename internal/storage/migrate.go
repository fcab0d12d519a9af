// ABOUTME: Data migration between annotation storage backends
// ABOUTME: Copies annotations and their tiers from source to destination repository

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Annotations int
	Tiers       int
	Markers     int
}

// MigrateData copies all data from src to dst storage.
// The destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	list, err := src.ListAnnotations()
	if err != nil {
		return nil, fmt.Errorf("list source annotations: %w", err)
	}

	for _, a := range list {
		if err := dst.CreateAnnotation(a); err != nil {
			return nil, fmt.Errorf("create annotation %q: %w", a.Name, err)
		}
		summary.Annotations++
		for _, t := range a.Tiers {
			summary.Tiers++
			summary.Markers += t.Len()
		}
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
