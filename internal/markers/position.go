// ABOUTME: Time position value with tolerance-based equality
// ABOUTME: Shared mutable handle owned by a MarkerSet once inserted

package markers

import (
	"fmt"
	"math"
)

// DefaultToleranceDigits is the number of decimal digits used for equality.
const DefaultToleranceDigits = 5

// Position is a point on the timeline, optionally labeled.
// Once added to a MarkerSet it is always passed around as *Position so every
// holder observes in-place updates to Time and Label.
type Position struct {
	Time   float64
	Label  string
	Digits int
}

// NewPosition creates a position with the default tolerance.
func NewPosition(t float64, label string) *Position {
	return NewPositionWithDigits(t, label, DefaultToleranceDigits)
}

// NewPositionWithDigits creates a position compared at the given number of decimal digits.
func NewPositionWithDigits(t float64, label string, digits int) *Position {
	if digits < 0 {
		digits = 0
	}
	return &Position{Time: t, Label: label, Digits: digits}
}

func finite(t float64) bool {
	return !math.IsNaN(t) && !math.IsInf(t, 0)
}

// roundKey scales t to an integer key at the given precision.
// Comparing keys avoids the float noise left by dividing back.
func roundKey(t float64, digits int) float64 {
	return math.RoundToEven(t * math.Pow10(digits))
}

// Equal reports whether both times round to the same value at p's precision.
func (p *Position) Equal(other *Position) bool {
	if other == nil {
		return false
	}
	return p.MatchesTime(other.Time)
}

// ExactEqual reports raw float equality of the two times.
func (p *Position) ExactEqual(other *Position) bool {
	return other != nil && p.Time == other.Time
}

// Less orders by raw, unrounded time.
func (p *Position) Less(other *Position) bool {
	return p.Time < other.Time
}

// MatchesTime is Equal against a bare time value.
func (p *Position) MatchesTime(t float64) bool {
	return roundKey(p.Time, p.Digits) == roundKey(t, p.Digits)
}

// HasLabel reports whether the position carries a non-empty label.
func (p *Position) HasLabel() bool {
	return p.Label != ""
}

func (p *Position) String() string {
	if p.HasLabel() {
		return fmt.Sprintf("%.*f %q", p.Digits, p.Time, p.Label)
	}
	return fmt.Sprintf("%.*f", p.Digits, p.Time)
}
