package engine

// bothSides enumerates the two anchor sides an index entry carries.
var bothSides = [2]Side{SideBefore, SideAfter}

// changeEvent is the internal payload threaded through the span builder
// while computing the change list for one AddMark/DeleteMark call.
// changed is false for the "no change" sentinel described in §4.E, which
// exists only to close a running span in the builder.
type changeEvent struct {
	changed bool
	value   Value
	format  Format
}

func changeEventEq(a, b changeEvent) bool {
	if a.changed != b.changed {
		return false
	}
	if !a.changed {
		return true
	}
	return valuesEqual(a.value, b.value) && a.format.Equal(b.format)
}

// forEachTouchedSide calls fn for every (entry index, side) pair whose
// anchor falls within the half-open span [m.Start, m.End), walking index
// entries between startIdx and endIdx inclusive.
func forEachTouchedSide(e *Engine, m *Mark, startIdx, endIdx int, fn func(i int, side Side, a Anchor)) {
	for i := startIdx; i <= endIdx; i++ {
		for _, side := range bothSides {
			a := Anchor{Pos: e.index.entries[i].Pos, Side: side}
			if anchorInRange(e.order, m.Start, m.End, a) {
				fn(i, side, a)
			}
		}
	}
}

// validateMarkSpan rejects everything ValidateAnchor rejects, plus any
// span with start >= end in anchor order. That order already places
// (p, SideBefore) immediately below (p, SideAfter), so the sole allowed
// zero-width mark (formatting a single embed position) falls out of the
// same comparison rather than needing a special case.
func validateMarkSpan(order PositionOrder, m *Mark) error {
	if err := ValidateAnchor(order, m.Start); err != nil {
		return err
	}
	if err := ValidateAnchor(order, m.End); err != nil {
		return err
	}
	if CompareAnchors(order, m.Start, m.End) >= 0 {
		return ErrMarkRangeInvalid
	}
	return nil
}
