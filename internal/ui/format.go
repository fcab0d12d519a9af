// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for annotations, tiers, and markers

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/tiers/internal/markers"
	"github.com/harper/tiers/internal/models"
)

// FormatSeconds formats a time position in seconds with millisecond precision.
func FormatSeconds(v float64) string {
	return fmt.Sprintf("%.3fs", v)
}

func formatLabel(label string) string {
	if label == "" {
		return color.New(color.Faint).Sprint("(empty)")
	}
	return color.CyanString(label)
}

// FormatAnnotation formats an annotation summary line.
func FormatAnnotation(a *models.Annotation) string {
	if a == nil {
		return color.New(color.Faint).Sprint("(invalid annotation)")
	}
	tiers := "no tiers"
	switch len(a.Tiers) {
	case 0:
	case 1:
		tiers = "1 tier"
	default:
		tiers = fmt.Sprintf("%d tiers", len(a.Tiers))
	}
	return fmt.Sprintf("%s [%s - %s] %s (%s)",
		color.GreenString(a.Name),
		FormatSeconds(a.Start),
		FormatSeconds(a.End),
		tiers,
		color.New(color.Faint).Sprint(FormatRelativeTime(a.CreatedAt)))
}

// FormatTierHeader formats the heading line of a tier.
func FormatTierHeader(t *models.Tier) string {
	if t == nil {
		return color.New(color.Faint).Sprint("(invalid tier)")
	}
	return fmt.Sprintf("%s %s",
		color.New(color.Bold).Sprint(t.Name),
		color.New(color.Faint).Sprintf("(%s, %d markers)", t.Kind, t.Len()))
}

// FormatInterval formats one interval for a tier listing.
func FormatInterval(i int, iv markers.Interval) string {
	return fmt.Sprintf("  %s %s - %s  %s",
		color.New(color.Faint).Sprintf("[%d]", i),
		FormatSeconds(iv.Start.Time),
		FormatSeconds(iv.End.Time),
		formatLabel(iv.Label()))
}

// FormatPoint formats one point or boundary for a tier listing.
func FormatPoint(i int, p *markers.Position) string {
	return fmt.Sprintf("  %s %s  %s",
		color.New(color.Faint).Sprintf("[%d]", i),
		FormatSeconds(p.Time),
		formatLabel(p.Label))
}

// FormatTier formats a tier with all its intervals or points.
// With boundaries set, interval tiers list their boundaries instead, which is
// the indexing used by boundary removal and moves.
func FormatTier(t *models.Tier, boundaries bool) string {
	if t == nil {
		return color.New(color.Faint).Sprint("(invalid tier)")
	}
	lines := []string{FormatTierHeader(t)}
	if t.Kind == models.IntervalTier && !boundaries {
		i := 0
		for iv := range t.Intervals() {
			lines = append(lines, FormatInterval(i, iv))
			i++
		}
	} else {
		for i, p := range t.Positions() {
			lines = append(lines, FormatPoint(i, p))
		}
		if t.Len() == 0 {
			lines = append(lines, color.New(color.Faint).Sprint("  (no points)"))
		}
	}
	return strings.Join(lines, "\n")
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	// Handle future times (clock skew, bad data)
	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
