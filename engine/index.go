package engine

// markStack is a per-key stack of marks ordered ascending by precedence;
// the last element is the current winner.
type markStack []*Mark

func (st markStack) top() *Mark {
	if len(st) == 0 {
		return nil
	}
	return st[len(st)-1]
}

// stackLocate finds m's insertion point in an ascending-precedence stack.
func stackLocate(st markStack, m *Mark) (index int, isTop bool) {
	lo, hi := 0, len(st)
	for lo < hi {
		mid := (lo + hi) / 2
		if st[mid].Precedence.Compare(m.Precedence) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo == len(st)
}

func (st markStack) insert(m *Mark) (out markStack, index int, isTop bool) {
	index, isTop = stackLocate(st, m)
	out = append(st, nil)
	copy(out[index+1:], out[index:])
	out[index] = m
	return out, index, isTop
}

// removeFromStack deletes the mark equal to m (by Precedence) from st, if
// present, reporting whether it was the top.
func removeFromStack(st markStack, m *Mark) (out markStack, wasTop, found bool) {
	for i, cur := range st {
		if cur.Precedence.Compare(m.Precedence) == 0 {
			wasTop = i == len(st)-1
			out = append(st[:i:i], st[i+1:]...)
			return out, wasTop, true
		}
	}
	return st, false, false
}

// keyStacks maps a format key to its mark stack at one anchor side.
type keyStacks map[string]markStack

func cloneStacks(src keyStacks) keyStacks {
	out := make(keyStacks, len(src))
	for k, st := range src {
		cp := make(markStack, len(st))
		copy(cp, st)
		out[k] = cp
	}
	return out
}

// format returns the resolved Format for a set of key stacks: the top
// value per key, keys whose winner is Null omitted.
func (ks keyStacks) format() Format {
	out := make(Format, len(ks))
	for k, st := range ks {
		top := st.top()
		if top == nil || IsNull(top.Value) {
			continue
		}
		out[k] = top.Value
	}
	return out
}

// FormatData holds the per-key mark stacks on each side of one position.
type FormatData struct {
	Before keyStacks
	After  keyStacks
}

func (d FormatData) empty() bool {
	return len(d.Before) == 0 && len(d.After) == 0
}

// resolutionIndex is the sparse, position-ordered structure described in
// §4.D: one FormatData per position with any formatting activity, always
// seeded with MIN_POS so a left-walk from any position terminates.
type resolutionIndex struct {
	order   PositionOrder
	entries []*indexEntry
}

type indexEntry struct {
	Pos  Position
	Data FormatData
}

func newResolutionIndex(order PositionOrder) *resolutionIndex {
	idx := &resolutionIndex{order: order}
	idx.entries = []*indexEntry{{
		Pos:  order.Min(),
		Data: FormatData{After: keyStacks{}},
	}}
	return idx
}

// locate returns the index of the entry at position p, or the sorted
// insertion point if none exists.
func (idx *resolutionIndex) locate(p Position) (index int, found bool) {
	lo, hi := 0, len(idx.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		c := idx.order.Compare(idx.entries[mid].Pos, p)
		switch {
		case c == 0:
			return mid, true
		case c < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// ensureEntry creates an empty entry at p if one does not already exist,
// and returns its index. It is a no-op returning (0, true) for MinPos,
// whose seed entry is always at index 0.
func (idx *resolutionIndex) ensureEntry(p Position) (index int, ok bool) {
	if idx.order.Equal(p, idx.order.Min()) {
		return 0, true
	}
	i, found := idx.locate(p)
	if found {
		return i, true
	}
	entry := &indexEntry{Pos: p}
	idx.entries = append(idx.entries, nil)
	copy(idx.entries[i+1:], idx.entries[i:])
	idx.entries[i] = entry
	return i, true
}

// effectiveStacksBefore returns the stacks effective immediately before
// entries[i], found by walking left to the nearest populated side.
func (idx *resolutionIndex) effectiveStacksBefore(i int) keyStacks {
	if i == 0 {
		return keyStacks{}
	}
	prev := idx.entries[i-1]
	if prev.Data.After != nil {
		return cloneStacks(prev.Data.After)
	}
	if prev.Data.Before != nil {
		return cloneStacks(prev.Data.Before)
	}
	return keyStacks{}
}

// ensureSide fills the requested side of entries[i] if it is not already
// populated: Before is filled from the left-walk; After is filled by
// deep-copying Before when present, else by the same left-walk.
func (idx *resolutionIndex) ensureSide(i int, side Side) keyStacks {
	e := idx.entries[i]
	if side == SideBefore {
		if e.Data.Before == nil {
			e.Data.Before = idx.effectiveStacksBefore(i)
		}
		return e.Data.Before
	}
	if e.Data.After == nil {
		if e.Data.Before != nil {
			e.Data.After = cloneStacks(e.Data.Before)
		} else {
			e.Data.After = idx.effectiveStacksBefore(i)
		}
	}
	return e.Data.After
}

// ensureRange materializes both sides of every entry in [startIdx, endIdx]
// from their left-neighbor state; the MinPos seed entry only ever gets its
// After side, since (MinPos, SideBefore) is not a valid anchor. It must run
// as one pass over the whole
// range before any mark mutation touches these entries: if a mutation to
// entries[i].Data.Before happened first, a later ensureSide(i, SideAfter)
// would clone the already-mutated Before instead of the pre-mutation
// state, inserting the new mark twice.
func (idx *resolutionIndex) ensureRange(startIdx, endIdx int) {
	for i := startIdx; i <= endIdx; i++ {
		if !idx.order.Equal(idx.entries[i].Pos, idx.order.Min()) {
			idx.ensureSide(i, SideBefore)
		}
		idx.ensureSide(i, SideAfter)
	}
}

// sideStacks returns the requested side of entries[i] without creating it.
func (idx *resolutionIndex) sideStacks(i int, side Side) keyStacks {
	if side == SideBefore {
		return idx.entries[i].Data.Before
	}
	return idx.entries[i].Data.After
}

func (idx *resolutionIndex) setSideStacks(i int, side Side, ks keyStacks) {
	if side == SideBefore {
		idx.entries[i].Data.Before = ks
	} else {
		idx.entries[i].Data.After = ks
	}
}

// lookup resolves the Format at position p, which must not be MinPos or
// MaxPos.
func (idx *resolutionIndex) lookup(p Position) Format {
	i, found := idx.locate(p)
	if found && idx.entries[i].Data.Before != nil {
		return idx.entries[i].Data.Before.format()
	}
	prev := idx.entries[i-1]
	if prev.Data.After != nil {
		return prev.Data.After.format()
	}
	return prev.Data.Before.format()
}

// compact removes entries whose FormatData is entirely empty. The
// MinPos seed entry is never removed.
func (idx *resolutionIndex) compact() {
	kept := idx.entries[:0:0]
	for _, e := range idx.entries {
		if idx.order.Equal(e.Pos, idx.order.Min()) || !e.Data.empty() {
			kept = append(kept, e)
		}
	}
	idx.entries = kept
}
