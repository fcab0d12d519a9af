// ABOUTME: Interval view over consecutive boundaries of a MarkerSet
// ABOUTME: Overlap-checked insertion and label-merging boundary removal

package markers

import (
	"fmt"
	"iter"
)

// Interval is a derived view over two adjacent boundaries. It is never stored.
type Interval struct {
	Start *Position
	End   *Position
}

// NewInterval pairs two boundaries, requiring start strictly before end.
func NewInterval(start, end *Position) (Interval, error) {
	if !start.Less(end) {
		return Interval{}, fmt.Errorf("%w: end %g is not after start %g", ErrInvalidRange, end.Time, start.Time)
	}
	return Interval{Start: start, End: end}, nil
}

// Label is the label carried by the start boundary.
func (iv Interval) Label() string {
	return iv.Start.Label
}

// Duration returns End - Start in seconds.
func (iv Interval) Duration() float64 {
	return iv.End.Time - iv.Start.Time
}

// Contains reports whether t falls in [Start, End).
func (iv Interval) Contains(t float64) bool {
	return t >= iv.Start.Time && t < iv.End.Time
}

// IntervalSet interprets the sorted boundaries of its MarkerSet as intervals.
// An interval set may hold zero boundaries.
type IntervalSet struct {
	MarkerSet
}

// NewIntervalSet creates an empty interval set.
func NewIntervalSet() *IntervalSet {
	return &IntervalSet{}
}

// InsertInterval adds the boundaries of [start, end], labeling the start.
// Boundaries that coincide with existing ones within tolerance are reused.
// Nothing is mutated unless the whole insertion is valid.
func (s *IntervalSet) InsertInterval(start, end float64, label string) (*Position, *Position, error) {
	if !finite(start) || !finite(end) {
		return nil, nil, fmt.Errorf("%w: [%g, %g] is not finite", ErrInvalidRange, start, end)
	}
	if !(end > start) {
		return nil, nil, fmt.Errorf("%w: end %g is not after start %g", ErrInvalidRange, end, start)
	}
	startPos, endPos := NewPosition(start, label), NewPosition(end, "")
	if startPos.Equal(endPos) {
		return nil, nil, fmt.Errorf("%w: start %g and end %g are equal within tolerance", ErrInvalidRange, start, end)
	}
	for _, p := range s.positions {
		// Boundaries that Add would merge with the new edges are not inside the span.
		if p.Equal(startPos) || p.Equal(endPos) {
			continue
		}
		if p.Time > start && p.Time < end {
			return nil, nil, fmt.Errorf("%w: boundary at %g lies inside (%g, %g)", ErrOverlap, p.Time, start, end)
		}
	}
	return s.Add(startPos), s.Add(endPos), nil
}

// NumIntervals returns the number of adjacent boundary pairs.
func (s *IntervalSet) NumIntervals() int {
	if len(s.positions) < 2 {
		return 0
	}
	return len(s.positions) - 1
}

// Interval returns the interval starting at boundary i.
func (s *IntervalSet) Interval(i int) (Interval, error) {
	if i < 0 || i >= s.NumIntervals() {
		return Interval{}, fmt.Errorf("%w: interval %d not in [0, %d)", ErrIndexOutOfRange, i, s.NumIntervals())
	}
	return Interval{Start: s.positions[i], End: s.positions[i+1]}, nil
}

// Intervals yields every adjacent boundary pair in order. Each iteration
// starts from a fresh snapshot, so mutations between iterations are seen.
func (s *IntervalSet) Intervals() iter.Seq[Interval] {
	return func(yield func(Interval) bool) {
		snap := s.Snapshot()
		for i := 0; i+1 < len(snap); i++ {
			if !yield(Interval{Start: snap[i], End: snap[i+1]}) {
				return
			}
		}
	}
}

// IntervalList materializes Intervals.
func (s *IntervalSet) IntervalList() []Interval {
	out := make([]Interval, 0, s.NumIntervals())
	for iv := range s.Intervals() {
		out = append(out, iv)
	}
	return out
}

// IntervalAt finds the interval containing t. The final interval is closed
// on the right so the end of the span still resolves.
func (s *IntervalSet) IntervalAt(t float64) (Interval, int, bool) {
	n := s.NumIntervals()
	for i := 0; i < n; i++ {
		iv := Interval{Start: s.positions[i], End: s.positions[i+1]}
		if iv.Contains(t) || (i == n-1 && iv.End.MatchesTime(t)) {
			return iv, i, true
		}
	}
	return Interval{}, -1, false
}

// RemoveBoundaryAt deletes boundary i. A non-empty label on a removed
// boundary other than the first is appended to the label of its successor,
// or of the new last boundary when the last one was removed.
func (s *IntervalSet) RemoveBoundaryAt(i int) (*Position, error) {
	removed, err := s.RemoveAt(i)
	if err != nil {
		return nil, err
	}
	if i == 0 || !removed.HasLabel() {
		return removed, nil
	}
	target := i
	if target >= len(s.positions) {
		target = len(s.positions) - 1
	}
	s.positions[target].Label += removed.Label
	return removed, nil
}

// RemoveBoundary deletes the boundary equal to p, merging labels as RemoveBoundaryAt does.
func (s *IntervalSet) RemoveBoundary(p *Position) (*Position, error) {
	i, err := s.IndexOf(p)
	if err != nil {
		return nil, err
	}
	return s.RemoveBoundaryAt(i)
}

// MoveBoundary sets the time of boundary i, which must stay strictly between
// its neighbours so no interval collapses or inverts.
func (s *IntervalSet) MoveBoundary(i int, t float64) (*Position, error) {
	if err := s.checkIndex(i); err != nil {
		return nil, err
	}
	if !finite(t) {
		return nil, fmt.Errorf("%w: time %g is not finite", ErrInvalidRange, t)
	}
	if i > 0 {
		if prev := s.positions[i-1]; t <= prev.Time || prev.MatchesTime(t) {
			return nil, fmt.Errorf("%w: %g is not after previous boundary %g", ErrOverlap, t, prev.Time)
		}
	}
	if i+1 < len(s.positions) {
		if next := s.positions[i+1]; t >= next.Time || next.MatchesTime(t) {
			return nil, fmt.Errorf("%w: %g is not before next boundary %g", ErrOverlap, t, next.Time)
		}
	}
	return s.Move(i, t)
}
