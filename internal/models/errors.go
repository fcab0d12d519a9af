// ABOUTME: Tier contract errors
// ABOUTME: Returned wrapped so callers can match them with errors.Is

package models

import "errors"

var (
	// ErrWrongKind is returned when a point operation targets an interval tier or vice versa.
	ErrWrongKind = errors.New("wrong tier kind")

	// ErrOutOfSpan is returned when a time falls outside the tier's span.
	ErrOutOfSpan = errors.New("outside tier span")

	// ErrSpanEdge is returned when a mutation would remove or move a span edge.
	ErrSpanEdge = errors.New("span edge is fixed")

	// ErrTierNotFound is returned when no tier has the requested name.
	ErrTierNotFound = errors.New("tier not found")

	// ErrDuplicateTier is returned when a tier name is already used in an annotation.
	ErrDuplicateTier = errors.New("tier already exists")
)
