// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Loads annotations and tiers, parses arguments, and explains core errors

package main

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/harper/tiers/internal/markers"
	"github.com/harper/tiers/internal/models"
	"github.com/harper/tiers/internal/storage"
)

func loadAnnotation(name string) (*models.Annotation, error) {
	a, err := db.GetAnnotationByName(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("annotation '%s' not found", name)
		}
		return nil, fmt.Errorf("failed to load annotation: %w", err)
	}
	return a, nil
}

func loadTier(annotation, tier string) (*models.Annotation, *models.Tier, error) {
	a, err := loadAnnotation(annotation)
	if err != nil {
		return nil, nil, err
	}
	t, err := a.TierByName(tier)
	if err != nil {
		return nil, nil, fmt.Errorf("tier '%s' not found in '%s'", tier, annotation)
	}
	return a, t, nil
}

// saveTier persists a tier after an edit and logs the new marker count.
func saveTier(a *models.Annotation, t *models.Tier) error {
	if err := db.SaveTier(a.ID, t); err != nil {
		return fmt.Errorf("failed to save tier: %w", err)
	}
	logger.Debug().Str("annotation", a.Name).Str("tier", t.Name).Int("markers", t.Len()).Msg("tier saved")
	return nil
}

func parseSeconds(s, what string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q: expected seconds", what, s)
	}
	return v, nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: expected an integer", s)
	}
	return i, nil
}

// explain wraps an edit error with a hint about how to fix it.
func explain(action string, err error) error {
	var hint string
	switch {
	case errors.Is(err, markers.ErrOverlap):
		hint = "another boundary is in the way; remove it or pick a different time"
	case errors.Is(err, markers.ErrInvalidRange):
		hint = "the end time must be after the start time"
	case errors.Is(err, markers.ErrIndexOutOfRange):
		hint = "run 'tiers show' to see valid indices"
	case errors.Is(err, models.ErrOutOfSpan):
		hint = "times must lie inside the annotation span"
	case errors.Is(err, models.ErrSpanEdge):
		hint = "the first and last boundaries are fixed at the span edges"
	case errors.Is(err, models.ErrWrongKind):
		hint = "use 'point' commands for point tiers and 'interval' commands for interval tiers"
	}
	if hint == "" {
		return fmt.Errorf("cannot %s: %w", action, err)
	}
	return fmt.Errorf("cannot %s: %w (%s)", action, err, hint)
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
