// ABOUTME: Ordered set of unique positions kept sorted by time
// ABOUTME: Owns add/remove/lookup and hands out shared position handles

package markers

import (
	"cmp"
	"fmt"
	"slices"
)

// MarkerSet is an ordered collection of positions, unique under tolerant equality.
// The zero value is an empty set ready to use. It is not safe for concurrent use.
type MarkerSet struct {
	positions []*Position
}

// NewMarkerSet creates an empty marker set.
func NewMarkerSet() *MarkerSet {
	return &MarkerSet{}
}

func comparePositions(a, b *Position) int {
	return cmp.Compare(a.Time, b.Time)
}

// Len returns the number of positions.
func (m *MarkerSet) Len() int {
	return len(m.positions)
}

// Add inserts p in time order and returns it. If a position equal to p already
// exists, its label is overwritten with p's label and the existing handle is
// returned instead. Positions with a NaN or infinite time are never stored;
// Add ignores them and returns nil.
func (m *MarkerSet) Add(p *Position) *Position {
	if !finite(p.Time) {
		return nil
	}
	if i := m.indexOf(p); i >= 0 {
		existing := m.positions[i]
		existing.Label = p.Label
		return existing
	}
	i, _ := slices.BinarySearchFunc(m.positions, p, func(e, target *Position) int {
		// Land after any run of identical raw times so insertion is stable.
		if e.Time <= target.Time {
			return -1
		}
		return 1
	})
	m.positions = slices.Insert(m.positions, i, p)
	return p
}

// Remove deletes the position equal to p and returns the stored handle.
func (m *MarkerSet) Remove(p *Position) (*Position, error) {
	i, err := m.IndexOf(p)
	if err != nil {
		return nil, err
	}
	return m.RemoveAt(i)
}

// RemoveAt deletes the position at index i.
func (m *MarkerSet) RemoveAt(i int) (*Position, error) {
	if err := m.checkIndex(i); err != nil {
		return nil, err
	}
	removed := m.positions[i]
	m.positions = slices.Delete(m.positions, i, i+1)
	return removed, nil
}

// Get returns the position at index i.
func (m *MarkerSet) Get(i int) (*Position, error) {
	if err := m.checkIndex(i); err != nil {
		return nil, err
	}
	return m.positions[i], nil
}

// IndexOf returns the index of the position equal to p.
func (m *MarkerSet) IndexOf(p *Position) (int, error) {
	i := m.indexOf(p)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return i, nil
}

// Contains reports membership under tolerant equality, the same rule Add uses.
func (m *MarkerSet) Contains(p *Position) bool {
	return m.indexOf(p) >= 0
}

// ContainsExact reports membership under raw float equality.
func (m *MarkerSet) ContainsExact(p *Position) bool {
	return slices.ContainsFunc(m.positions, p.ExactEqual)
}

// Find returns the position matching time t within tolerance.
func (m *MarkerSet) Find(t float64) (*Position, bool) {
	i := slices.IndexFunc(m.positions, func(e *Position) bool {
		return e.MatchesTime(t)
	})
	if i < 0 {
		return nil, false
	}
	return m.positions[i], true
}

// Snapshot returns a shallow copy of the current order.
func (m *MarkerSet) Snapshot() []*Position {
	return slices.Clone(m.positions)
}

// Bounds returns the first and last positions.
func (m *MarkerSet) Bounds() (first, last *Position, ok bool) {
	if len(m.positions) == 0 {
		return nil, nil, false
	}
	return m.positions[0], m.positions[len(m.positions)-1], true
}

// Move sets the time of the position at index i and restores ordering.
// It fails without mutating if t would collide with another position.
func (m *MarkerSet) Move(i int, t float64) (*Position, error) {
	if err := m.checkIndex(i); err != nil {
		return nil, err
	}
	if !finite(t) {
		return nil, fmt.Errorf("%w: time %g is not finite", ErrInvalidRange, t)
	}
	for j, other := range m.positions {
		if j != i && other.MatchesTime(t) {
			return nil, fmt.Errorf("%w: position at %s already exists", ErrOverlap, other)
		}
	}
	p := m.positions[i]
	p.Time = t
	slices.SortStableFunc(m.positions, comparePositions)
	return p, nil
}

func (m *MarkerSet) indexOf(p *Position) int {
	return slices.IndexFunc(m.positions, func(e *Position) bool {
		return e.Equal(p)
	})
}

func (m *MarkerSet) checkIndex(i int) error {
	if i < 0 || i >= len(m.positions) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(m.positions))
	}
	return nil
}
