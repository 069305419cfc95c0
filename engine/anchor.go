package engine

// MinAnchor returns the permitted lower-bound anchor, MIN_ANCHOR =
// (MinPos, SideAfter).
func MinAnchor(order PositionOrder) Anchor {
	return Anchor{Pos: order.Min(), Side: SideAfter}
}

// MaxAnchor returns the permitted upper-bound anchor, MAX_ANCHOR =
// (MaxPos, SideBefore).
func MaxAnchor(order PositionOrder) Anchor {
	return Anchor{Pos: order.Max(), Side: SideBefore}
}

// AnchorsEqual reports component-wise equality.
func AnchorsEqual(order PositionOrder, a, b Anchor) bool {
	return a.Side == b.Side && order.Equal(a.Pos, b.Pos)
}

// CompareAnchors orders anchors by position, then by side (before < after)
// on a tie.
func CompareAnchors(order PositionOrder, a, b Anchor) int {
	if c := order.Compare(a.Pos, b.Pos); c != 0 {
		return c
	}
	if a.Side == b.Side {
		return 0
	}
	if a.Side == SideBefore {
		return -1
	}
	return 1
}

// ValidateAnchor rejects only the two illegal extremes:
// (MinPos, SideBefore) and (MaxPos, SideAfter).
func ValidateAnchor(order PositionOrder, a Anchor) error {
	if a.Side == SideBefore && order.Equal(a.Pos, order.Min()) {
		return ErrInvalidAnchor
	}
	if a.Side == SideAfter && order.Equal(a.Pos, order.Max()) {
		return ErrInvalidAnchor
	}
	return nil
}

// anchorInRange reports whether a falls within the half-open span
// [start, end) under anchor order.
func anchorInRange(order PositionOrder, start, end, a Anchor) bool {
	return CompareAnchors(order, start, a) <= 0 && CompareAnchors(order, a, end) < 0
}

// IndexOfAnchor returns the index immediately to the right of a within
// seq: the first present position >= a.Pos when a.Side is SideBefore, or
// one past the last present position <= a.Pos when a.Side is SideAfter.
func IndexOfAnchor(seq Sequence, order PositionOrder, a Anchor) int {
	if a.Side == SideBefore {
		return seq.IndexOfPosition(a.Pos, BiasLeft)
	}
	return seq.IndexOfPosition(a.Pos, BiasRight)
}

// AnchorAt returns the anchor in the gap between index i-1 and i. BindLeft
// yields (PositionAt(i-1), SideAfter), or MinAnchor when i == 0. BindRight
// yields (PositionAt(i), SideBefore), or MaxAnchor when i == seq.Len().
func AnchorAt(seq Sequence, order PositionOrder, i int, bind Bind) Anchor {
	if bind == BindLeft {
		if i == 0 {
			return MinAnchor(order)
		}
		return Anchor{Pos: seq.PositionAt(i - 1), Side: SideAfter}
	}
	if i == seq.Len() {
		return MaxAnchor(order)
	}
	return Anchor{Pos: seq.PositionAt(i), Side: SideBefore}
}

// SliceFromSpan converts an anchor span to an index slice [s, e) by
// running IndexOfAnchor on each endpoint.
func SliceFromSpan(seq Sequence, order PositionOrder, start, end Anchor) (s, e int) {
	return IndexOfAnchor(seq, order, start), IndexOfAnchor(seq, order, end)
}

// SpanFromSlice converts an index slice [s, e) to an anchor span, choosing
// Bind per endpoint according to expand: ExpandBefore/ExpandBoth bind the
// start to the left; ExpandAfter/ExpandBoth bind the end to the right;
// the other sides take the non-expanding choice. It fails with
// ErrOutOfRange when s >= e or the range exceeds [0, seq.Len()].
func SpanFromSlice(seq Sequence, order PositionOrder, s, e int, expand Expand) (start, end Anchor, err error) {
	if s < 0 || e > seq.Len() || s >= e {
		return Anchor{}, Anchor{}, ErrOutOfRange
	}
	startBind := BindRight
	if expand == ExpandBefore || expand == ExpandBoth {
		startBind = BindLeft
	}
	endBind := BindLeft
	if expand == ExpandAfter || expand == ExpandBoth {
		endBind = BindRight
	}
	return AnchorAt(seq, order, s, startBind), AnchorAt(seq, order, e, endBind), nil
}
