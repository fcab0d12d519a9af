// ABOUTME: Annotation tiers over a fixed time span
// ABOUTME: Point and interval variants enforcing the span contract on the marker core

package models

import (
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/harper/tiers/internal/markers"
)

// TierKind selects between point and interval tiers.
type TierKind string

const (
	PointTier    TierKind = "point"
	IntervalTier TierKind = "interval"
)

// ParseTierKind accepts "point" or "interval".
func ParseTierKind(s string) (TierKind, error) {
	switch TierKind(s) {
	case PointTier, IntervalTier:
		return TierKind(s), nil
	default:
		return "", fmt.Errorf("unknown tier kind %q (use 'point' or 'interval')", s)
	}
}

// Tier is one annotation channel. Interval tiers always hold at least one
// interval covering [Start, End] exhaustively; point tiers hold markers
// anywhere inside the span.
type Tier struct {
	ID    uuid.UUID
	Name  string
	Kind  TierKind
	Start float64
	End   float64

	points *markers.MarkerSet
	bounds *markers.IntervalSet
}

// NewPointTier creates an empty point tier.
func NewPointTier(name string, start, end float64) *Tier {
	return &Tier{
		ID:     uuid.New(),
		Name:   name,
		Kind:   PointTier,
		Start:  start,
		End:    end,
		points: markers.NewMarkerSet(),
	}
}

// NewIntervalTier creates an interval tier seeded with one empty interval
// covering the whole span.
func NewIntervalTier(name string, start, end float64) *Tier {
	t := &Tier{
		ID:     uuid.New(),
		Name:   name,
		Kind:   IntervalTier,
		Start:  start,
		End:    end,
		bounds: markers.NewIntervalSet(),
	}
	t.bounds.Add(markers.NewPosition(start, ""))
	t.bounds.Add(markers.NewPosition(end, ""))
	return t
}

// RestoreTier rebuilds a tier from persisted positions. Interval tiers must
// include both span edges.
func RestoreTier(id uuid.UUID, name string, kind TierKind, start, end float64, positions []*markers.Position) (*Tier, error) {
	if err := ValidateSpan(start, end); err != nil {
		return nil, fmt.Errorf("tier %q: %w", name, err)
	}
	t := &Tier{ID: id, Name: name, Kind: kind, Start: start, End: end}

	switch kind {
	case PointTier:
		t.points = markers.NewMarkerSet()
		for _, p := range positions {
			if !t.inSpan(p.Time) {
				return nil, fmt.Errorf("tier %q: %w: point at %g", name, ErrOutOfSpan, p.Time)
			}
			t.points.Add(p)
		}
	case IntervalTier:
		t.bounds = markers.NewIntervalSet()
		for _, p := range positions {
			if !t.inSpan(p.Time) {
				return nil, fmt.Errorf("tier %q: %w: boundary at %g", name, ErrOutOfSpan, p.Time)
			}
			t.bounds.Add(p)
		}
		first, last, ok := t.bounds.Bounds()
		if !ok || t.bounds.Len() < 2 || !first.MatchesTime(start) || !last.MatchesTime(end) {
			return nil, fmt.Errorf("tier %q: %w: boundaries must include %g and %g", name, ErrSpanEdge, start, end)
		}
	default:
		return nil, fmt.Errorf("tier %q: unknown tier kind %q", name, kind)
	}
	return t, nil
}

func (t *Tier) inSpan(v float64) bool {
	edge := markers.NewPosition(v, "")
	return (v >= t.Start && v <= t.End) || edge.MatchesTime(t.Start) || edge.MatchesTime(t.End)
}

func (t *Tier) require(kind TierKind) error {
	if t.Kind != kind {
		return fmt.Errorf("%w: %q is a %s tier", ErrWrongKind, t.Name, t.Kind)
	}
	return nil
}

// Len returns the number of points or boundaries.
func (t *Tier) Len() int {
	if t.Kind == PointTier {
		return t.points.Len()
	}
	return t.bounds.Len()
}

// Positions returns a snapshot of the tier's points or boundaries.
func (t *Tier) Positions() []*markers.Position {
	if t.Kind == PointTier {
		return t.points.Snapshot()
	}
	return t.bounds.Snapshot()
}

// Intervals yields the intervals of an interval tier; a point tier yields nothing.
func (t *Tier) Intervals() iter.Seq[markers.Interval] {
	if t.Kind != IntervalTier {
		return func(func(markers.Interval) bool) {}
	}
	return t.bounds.Intervals()
}

// IntervalAt finds the interval containing v.
func (t *Tier) IntervalAt(v float64) (markers.Interval, int, bool) {
	if t.Kind != IntervalTier {
		return markers.Interval{}, -1, false
	}
	return t.bounds.IntervalAt(v)
}

// AddPoint adds a labeled point, relabeling an existing point at the same time.
func (t *Tier) AddPoint(v float64, label string) (*markers.Position, error) {
	if err := t.require(PointTier); err != nil {
		return nil, err
	}
	if !t.inSpan(v) {
		return nil, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfSpan, v, t.Start, t.End)
	}
	return t.points.Add(markers.NewPosition(v, label)), nil
}

// RemovePoint deletes point i.
func (t *Tier) RemovePoint(i int) (*markers.Position, error) {
	if err := t.require(PointTier); err != nil {
		return nil, err
	}
	return t.points.RemoveAt(i)
}

// MovePoint repositions point i inside the span.
func (t *Tier) MovePoint(i int, v float64) (*markers.Position, error) {
	if err := t.require(PointTier); err != nil {
		return nil, err
	}
	if !t.inSpan(v) {
		return nil, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfSpan, v, t.Start, t.End)
	}
	return t.points.Move(i, v)
}

// InsertInterval adds an interval inside the span.
func (t *Tier) InsertInterval(start, end float64, label string) (*markers.Position, *markers.Position, error) {
	if err := t.require(IntervalTier); err != nil {
		return nil, nil, err
	}
	if !t.inSpan(start) || !t.inSpan(end) {
		return nil, nil, fmt.Errorf("%w: [%g, %g] not in [%g, %g]", ErrOutOfSpan, start, end, t.Start, t.End)
	}
	return t.bounds.InsertInterval(start, end, label)
}

// SplitAt adds one boundary strictly inside an existing interval. The label
// goes to the new right-hand interval.
func (t *Tier) SplitAt(v float64, label string) (*markers.Position, error) {
	if err := t.require(IntervalTier); err != nil {
		return nil, err
	}
	if existing, ok := t.bounds.Find(v); ok {
		return nil, fmt.Errorf("%w: boundary at %g already exists", markers.ErrOverlap, existing.Time)
	}
	if !(v > t.Start && v < t.End) {
		return nil, fmt.Errorf("%w: %g not inside (%g, %g)", ErrOutOfSpan, v, t.Start, t.End)
	}
	return t.bounds.Add(markers.NewPosition(v, label)), nil
}

func (t *Tier) checkInnerBoundary(i int) error {
	if i == 0 || i == t.bounds.Len()-1 {
		return fmt.Errorf("%w: boundary %d of tier %q", ErrSpanEdge, i, t.Name)
	}
	return nil
}

// RemoveBoundaryAt deletes an inner boundary, merging its label into the
// following interval. The span edges cannot be removed.
func (t *Tier) RemoveBoundaryAt(i int) (*markers.Position, error) {
	if err := t.require(IntervalTier); err != nil {
		return nil, err
	}
	if _, err := t.bounds.Get(i); err != nil {
		return nil, err
	}
	if err := t.checkInnerBoundary(i); err != nil {
		return nil, err
	}
	return t.bounds.RemoveBoundaryAt(i)
}

// MoveBoundary drags an inner boundary between its neighbours.
func (t *Tier) MoveBoundary(i int, v float64) (*markers.Position, error) {
	if err := t.require(IntervalTier); err != nil {
		return nil, err
	}
	if _, err := t.bounds.Get(i); err != nil {
		return nil, err
	}
	if err := t.checkInnerBoundary(i); err != nil {
		return nil, err
	}
	if !t.inSpan(v) {
		return nil, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfSpan, v, t.Start, t.End)
	}
	return t.bounds.MoveBoundary(i, v)
}

// SetLabel relabels point i, or interval i of an interval tier.
func (t *Tier) SetLabel(i int, label string) (*markers.Position, error) {
	if t.Kind == PointTier {
		p, err := t.points.Get(i)
		if err != nil {
			return nil, err
		}
		p.Label = label
		return p, nil
	}
	iv, err := t.bounds.Interval(i)
	if err != nil {
		return nil, err
	}
	iv.Start.Label = label
	return iv.Start, nil
}
