// ABOUTME: Core data models for annotations and their tiers
// ABOUTME: Provides constructors and validators for new entities

package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidateSpan checks that a time span is finite and strictly increasing.
func ValidateSpan(start, end float64) error {
	if math.IsNaN(start) || math.IsNaN(end) {
		return fmt.Errorf("span cannot be NaN")
	}
	if math.IsInf(start, 0) || math.IsInf(end, 0) {
		return fmt.Errorf("span cannot be infinite")
	}
	if end <= start {
		return fmt.Errorf("span end %g must be after start %g", end, start)
	}
	return nil
}

// ValidateName checks if a name is valid (non-empty, within length limits).
// Note: This validates the raw input - callers should trim whitespace themselves if needed.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name cannot be empty or whitespace")
	}
	if len(name) > 255 {
		return fmt.Errorf("name too long (max 255 characters)")
	}
	return nil
}

// Annotation is a set of tiers annotating one recording over a fixed span.
type Annotation struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Tiers     []*Tier   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAnnotation creates an annotation with no tiers.
func NewAnnotation(name string, start, end float64) *Annotation {
	return &Annotation{
		ID:        uuid.New(),
		Name:      name,
		Start:     start,
		End:       end,
		CreatedAt: time.Now(),
	}
}

// AddTier creates a tier spanning the whole annotation and appends it.
func (a *Annotation) AddTier(name string, kind TierKind) (*Tier, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if _, err := a.TierByName(name); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTier, name)
	}

	var tier *Tier
	switch kind {
	case PointTier:
		tier = NewPointTier(name, a.Start, a.End)
	case IntervalTier:
		tier = NewIntervalTier(name, a.Start, a.End)
	default:
		return nil, fmt.Errorf("unknown tier kind: %q", kind)
	}
	a.Tiers = append(a.Tiers, tier)
	return tier, nil
}

// AttachTier appends an already built tier, as done when loading from storage.
func (a *Annotation) AttachTier(tier *Tier) error {
	if _, err := a.TierByName(tier.Name); err == nil {
		return fmt.Errorf("%w: %q", ErrDuplicateTier, tier.Name)
	}
	a.Tiers = append(a.Tiers, tier)
	return nil
}

// TierByName looks up a tier by its name.
func (a *Annotation) TierByName(name string) (*Tier, error) {
	for _, t := range a.Tiers {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTierNotFound, name)
}

// RemoveTier detaches the named tier and returns it.
func (a *Annotation) RemoveTier(name string) (*Tier, error) {
	for i, t := range a.Tiers {
		if t.Name == name {
			a.Tiers = append(a.Tiers[:i], a.Tiers[i+1:]...)
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTierNotFound, name)
}
