package engine

// Engine is the core formatting-resolution instance: a mark store plus a
// resolution index over one external position order. It is not safe for
// concurrent use; callers sharing one Engine across goroutines must
// provide their own locking (see the format package's Formatter, which
// does).
type Engine struct {
	order PositionOrder
	marks *markStore
	index *resolutionIndex
}

// New creates an empty Engine over the given position order.
func New(order PositionOrder) *Engine {
	return &Engine{
		order: order,
		marks: newMarkStore(),
		index: newResolutionIndex(order),
	}
}

// Order returns the position order this Engine was created with.
func (e *Engine) Order() PositionOrder {
	return e.order
}

// ensureSpanEntries ensures index entries exist at m.Start.Pos and
// m.End.Pos, with their own anchor's side populated, and returns the
// entry indices.
func (e *Engine) ensureSpanEntries(m *Mark) (startIdx, endIdx int) {
	e.index.ensureEntry(m.Start.Pos)
	e.index.ensureEntry(m.End.Pos)
	startIdx, _ = e.index.locate(m.Start.Pos)
	endIdx, _ = e.index.locate(m.End.Pos)
	e.index.ensureSide(startIdx, m.Start.Side)
	e.index.ensureSide(endIdx, m.End.Side)
	return startIdx, endIdx
}

// AddMark inserts m and returns the list of observable format changes it
// causes. Adding a mark equivalent to one already present (same
// Precedence) is a no-op returning an empty list. m.Start must be
// strictly less than m.End in anchor order, with the sole exception of a
// same-position (before -> after) pair identifying a single embed.
func (e *Engine) AddMark(m *Mark) ([]Change, error) {
	if err := validateMarkSpan(e.order, m); err != nil {
		return nil, err
	}
	index, existing, err := e.marks.locate(m)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}
	e.marks.insertAt(index, m)

	startIdx, endIdx := e.ensureSpanEntries(m)
	e.index.ensureRange(startIdx, endIdx)

	sb := newSpanBuilder(e.order, changeEventEq)
	forEachTouchedSide(e, m, startIdx, endIdx, func(i int, side Side, a Anchor) {
		stacks := e.index.sideStacks(i, side)
		st := stacks[m.Key]
		prevTop := st.top()
		newSt, _, isTop := st.insert(m)
		stacks[m.Key] = newSt
		if !isTop {
			sb.push(a, changeEvent{changed: false})
			return
		}
		prevVal := NullValue
		if prevTop != nil {
			prevVal = prevTop.Value
		}
		// A higher-precedence mark can become the new top without moving
		// the resolved value (e.g. two marks agreeing on the same value):
		// that is not an observable change, so it emits no record.
		if valuesEqual(prevVal, m.Value) {
			sb.push(a, changeEvent{changed: false})
			return
		}
		sb.push(a, changeEvent{changed: true, value: prevVal, format: stacks.format()})
	})
	spans := sb.finish(m.End)

	return collectChanges(spans, m.Key, func(ev changeEvent) (value, previous Value) {
		return m.Value, ev.value
	}), nil
}

// DeleteMark removes the mark equivalent to m (by Precedence) and
// returns the list of observable format changes it causes. Deleting an
// absent mark is a no-op returning an empty list.
func (e *Engine) DeleteMark(m *Mark) ([]Change, error) {
	removed, err := e.marks.remove(m)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, nil
	}
	m = removed

	startIdx, _ := e.index.locate(m.Start.Pos)
	endIdx, _ := e.index.locate(m.End.Pos)

	sb := newSpanBuilder(e.order, changeEventEq)
	forEachTouchedSide(e, m, startIdx, endIdx, func(i int, side Side, a Anchor) {
		stacks := e.index.sideStacks(i, side)
		if stacks == nil {
			return
		}
		st := stacks[m.Key]
		newSt, wasTop, found := removeFromStack(st, m)
		if !found {
			return
		}
		if len(newSt) == 0 {
			delete(stacks, m.Key)
		} else {
			stacks[m.Key] = newSt
		}
		if !wasTop {
			sb.push(a, changeEvent{changed: false})
			return
		}
		newVal := NullValue
		if top := newSt.top(); top != nil {
			newVal = top.Value
		}
		if valuesEqual(newVal, m.Value) {
			sb.push(a, changeEvent{changed: false})
			return
		}
		sb.push(a, changeEvent{changed: true, value: newVal, format: stacks.format()})
	})
	spans := sb.finish(m.End)

	return collectChanges(spans, m.Key, func(ev changeEvent) (value, previous Value) {
		return ev.value, m.Value
	}), nil
}

func collectChanges(spans []spanOf[changeEvent], key string, resolve func(changeEvent) (value, previous Value)) []Change {
	var changes []Change
	for _, sp := range spans {
		if !sp.Payload.changed {
			continue
		}
		value, previous := resolve(sp.Payload)
		changes = append(changes, Change{
			Start:         sp.Start,
			End:           sp.End,
			Key:           key,
			Value:         value,
			PreviousValue: previous,
			Format:        sp.Payload.format,
		})
	}
	return changes
}

// GetFormat resolves the winning format at position p. It fails with
// ErrFormatAtBoundary for MinPos and MaxPos.
func (e *Engine) GetFormat(p Position) (Format, error) {
	if e.order.Equal(p, e.order.Min()) || e.order.Equal(p, e.order.Max()) {
		return nil, ErrFormatAtBoundary
	}
	return e.index.lookup(p), nil
}

// FormattedSpans streams every index entry in position order and returns
// the gap-free sequence of maximal spans from MIN_ANCHOR to MAX_ANCHOR,
// each carrying one Format, consecutive spans differing in at least one
// key.
func (e *Engine) FormattedSpans() []Span {
	sb := newSpanBuilder(e.order, Format.Equal)
	for _, entry := range e.index.entries {
		if entry.Data.Before != nil {
			sb.push(Anchor{Pos: entry.Pos, Side: SideBefore}, entry.Data.Before.format())
		}
		if entry.Data.After != nil {
			sb.push(Anchor{Pos: entry.Pos, Side: SideAfter}, entry.Data.After.format())
		}
	}
	raw := sb.finish(MaxAnchor(e.order))
	out := make([]Span, len(raw))
	for i, sp := range raw {
		out[i] = Span{Start: sp.Start, End: sp.End, Format: sp.Payload}
	}
	return out
}

// Compact removes resolution-index entries whose stacks are entirely
// empty on both sides. It is optional and safe to call at any quiescent
// point; the engine never calls it itself.
func (e *Engine) Compact() {
	e.index.compact()
}

// Marks returns the current mark set in ascending precedence order. The
// returned slice must not be mutated.
func (e *Engine) Marks() []*Mark {
	return e.marks.all()
}

// Load discards the current mark set and resolution index and rebuilds
// both from marks, which need not already be sorted. It does not report
// or emit change records.
func (e *Engine) Load(marks []*Mark) {
	e.marks.load(marks)
	e.index = newResolutionIndex(e.order)
	for _, m := range e.marks.all() {
		startIdx, endIdx := e.ensureSpanEntries(m)
		e.index.ensureRange(startIdx, endIdx)
		forEachTouchedSide(e, m, startIdx, endIdx, func(i int, side Side, a Anchor) {
			stacks := e.index.sideStacks(i, side)
			st := stacks[m.Key]
			newSt, _, _ := st.insert(m)
			stacks[m.Key] = newSt
		})
	}
}
