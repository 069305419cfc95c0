// Package engine implements the formatting-resolution core: an anchor
// algebra over an external position space, a mark store, a resolution
// index, and the change computation that ties them together.
package engine

import "errors"

// Anchor errors
var (
	// ErrInvalidAnchor indicates an anchor naming one of the two illegal
	// extremes: (MinPos, SideBefore) or (MaxPos, SideAfter).
	ErrInvalidAnchor = errors.New("engine: invalid anchor")
)

// Slice/range errors
var (
	// ErrOutOfRange indicates a slice argument outside [0, length] or a
	// range with start >= end.
	ErrOutOfRange = errors.New("engine: index out of range")
)

// Mark errors
var (
	// ErrMarkRangeInvalid indicates start >= end on a mark, other than the
	// single allowed zero-width case (start.Side=Before, end.Side=After,
	// same position).
	ErrMarkRangeInvalid = errors.New("engine: mark start must precede end")
)

// Lookup errors
var (
	// ErrFormatAtBoundary indicates GetFormat was called on MinPos or MaxPos.
	ErrFormatAtBoundary = errors.New("engine: format undefined at boundary position")
)

// Mark store errors
var (
	// ErrInconsistentComparator indicates the external precedence
	// comparator returned contradictory results during a locate.
	ErrInconsistentComparator = errors.New("engine: inconsistent mark comparator")
)
