// ABOUTME: Error taxonomy for marker and interval mutations
// ABOUTME: Sentinels are wrapped with context and matched with errors.Is

package markers

import "errors"

// ErrInvalidRange is returned when an interval's end is not strictly after its start.
var ErrInvalidRange = errors.New("invalid range")

// ErrOverlap is returned when a mutation would place a boundary inside claimed time.
var ErrOverlap = errors.New("overlaps existing boundary")

// ErrNotFound is returned when a position is not present in the set.
var ErrNotFound = errors.New("position not found")

// ErrIndexOutOfRange is returned for positional access outside [0, Len).
var ErrIndexOutOfRange = errors.New("index out of range")
