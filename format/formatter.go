// Package format provides the convenience facade described in the
// engine's component design: index-based formatting, insertion with a
// target format, span/slice projection, and save/load, all built over a
// default in-memory position space and sequence.
package format

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/phroun/peritext/engine"
	"github.com/phroun/peritext/posspace"
	"github.com/phroun/peritext/seqlist"
)

// Options configures a Formatter.
type Options struct {
	// ReplicaID stamps every mark this Formatter creates. Defaults to a
	// fresh UUID when empty.
	ReplicaID string

	// OnNewMark, if set, fires synchronously after a new mark has been
	// fully applied to the engine, from Format and InsertWithFormat.
	OnNewMark func(*engine.Mark)
}

// Formatter wraps an engine.Engine together with a default position space
// and sequence, exposing index-based operations over a concrete list of
// values of type T. Unlike engine.Engine, Formatter is safe for
// concurrent use: its exported methods share a single mutex, matching
// the facade-level locking the rest of this module's ambient stack uses.
type Formatter[T any] struct {
	mu sync.Mutex

	order *posspace.Space
	seq   *seqlist.List[T]
	eng   *engine.Engine

	replicaID string
	counter   uint64
	onNewMark func(*engine.Mark)
}

// New creates an empty Formatter.
func New[T any](opts Options) *Formatter[T] {
	replicaID := opts.ReplicaID
	if replicaID == "" {
		replicaID = uuid.NewString()
	}
	order := posspace.New()
	return &Formatter[T]{
		order:     order,
		seq:       seqlist.New[T](order),
		eng:       engine.New(order),
		replicaID: replicaID,
		onNewMark: opts.OnNewMark,
	}
}

// Engine returns the underlying engine, for callers that need direct
// access (e.g. to merge marks received from a peer via AddMark).
func (f *Formatter[T]) Engine() *engine.Engine { return f.eng }

// Len returns the number of present positions in the backing sequence.
func (f *Formatter[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq.Len()
}

// newMarkLocked stamps a fresh mark with the next local precedence
// counter. Callers must hold f.mu.
func (f *Formatter[T]) newMarkLocked(start, end engine.Anchor, key string, value engine.Value) *engine.Mark {
	f.counter++
	return &engine.Mark{
		Start:      start,
		End:        end,
		Key:        key,
		Value:      value,
		Precedence: &LamportPrecedence{CreatorID: f.replicaID, Timestamp: f.counter},
	}
}

// bumpCounterLocked advances the local counter to one past any observed
// precedence, so subsequently created marks always win over it. Callers
// must hold f.mu.
func (f *Formatter[T]) bumpCounterLocked(p engine.Precedence) {
	lp, ok := p.(*LamportPrecedence)
	if !ok {
		return
	}
	if lp.Timestamp >= f.counter {
		f.counter = lp.Timestamp + 1
	}
}

// AddMark inserts an externally constructed mark (e.g. received from a
// peer) and advances the local precedence counter past it.
func (f *Formatter[T]) AddMark(m *engine.Mark) ([]engine.Change, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	changes, err := f.eng.AddMark(m)
	if err != nil {
		return nil, err
	}
	f.bumpCounterLocked(m.Precedence)
	return changes, nil
}

// DeleteMark removes an externally constructed mark.
func (f *Formatter[T]) DeleteMark(m *engine.Mark) ([]engine.Change, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eng.DeleteMark(m)
}

// Format builds a span from the index slice [startIdx, endIdx), creates
// and adds a new mark for key/value over it, and returns the mark and the
// change list.
func (f *Formatter[T]) Format(startIdx, endIdx int, key string, value engine.Value, expand engine.Expand) (*engine.Mark, []engine.Change, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	start, end, err := engine.SpanFromSlice(f.seq, f.order, startIdx, endIdx, expand)
	if err != nil {
		return nil, nil, err
	}
	m := f.newMarkLocked(start, end, key, value)
	changes, err := f.eng.AddMark(m)
	if err != nil {
		return nil, nil, err
	}
	if f.onNewMark != nil {
		f.onNewMark(m)
	}
	return m, changes, nil
}

// ExpandRule chooses the Expand policy a newly created mark uses for one
// key/value pair, per InsertWithFormat.
type ExpandRule func(key string, value engine.Value) engine.Expand

// DefaultExpandRule always expands after, the typical policy for text
// formatting.
func DefaultExpandRule(string, engine.Value) engine.Expand { return engine.ExpandAfter }

// InsertWithFormat inserts content into the backing sequence at idx,
// reads the resulting format at the first inserted position, diffs it
// against desired, and for each differing key creates a mark spanning the
// inserted range with the Expand chosen by rule (DefaultExpandRule if
// nil). It returns the marks created, in no particular order, and never a
// change list: the caller already knows the target format.
func (f *Formatter[T]) InsertWithFormat(idx int, desired engine.Format, content []T, rule ExpandRule) ([]*engine.Mark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rule == nil {
		rule = DefaultExpandRule
	}
	if len(content) == 0 {
		return nil, nil
	}
	if _, err := f.seq.InsertAt(idx, content...); err != nil {
		return nil, err
	}
	firstPos := f.seq.PositionAt(idx)
	current, err := f.eng.GetFormat(firstPos)
	if err != nil {
		return nil, err
	}
	diff := DiffFormats(current, desired)
	if len(diff) == 0 {
		return nil, nil
	}

	var marks []*engine.Mark
	for key, value := range diff {
		expand := rule(key, value)
		start, end, err := engine.SpanFromSlice(f.seq, f.order, idx, idx+len(content), expand)
		if err != nil {
			return marks, err
		}
		m := f.newMarkLocked(start, end, key, value)
		if _, err := f.eng.AddMark(m); err != nil {
			return marks, err
		}
		if f.onNewMark != nil {
			f.onNewMark(m)
		}
		marks = append(marks, m)
	}
	return marks, nil
}

// Slice is a half-open index interval with a single format, as produced
// by FormattedSlicesRange.
type Slice struct {
	Start, End int
	Format     engine.Format
}

// FormattedSlices projects the engine's formatted spans onto the full
// backing sequence.
func (f *Formatter[T]) FormattedSlices() []Slice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.formattedSlicesLocked(0, f.seq.Len())
}

// FormattedSlicesRange restricts the projection to [start, end).
func (f *Formatter[T]) FormattedSlicesRange(start, end int) []Slice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.formattedSlicesLocked(start, end)
}

func (f *Formatter[T]) formattedSlicesLocked(windowStart, windowEnd int) []Slice {
	spans := f.eng.FormattedSpans()
	var out []Slice
	for _, sp := range spans {
		s, e := engine.SliceFromSpan(f.seq, f.order, sp.Start, sp.End)
		if s < windowStart {
			s = windowStart
		}
		if e > windowEnd {
			e = windowEnd
		}
		if s >= e {
			continue
		}
		if n := len(out); n > 0 && out[n-1].End == s && out[n-1].Format.Equal(sp.Format) {
			out[n-1].End = e
			continue
		}
		out = append(out, Slice{Start: s, End: e, Format: sp.Format})
	}
	return out
}

// Entry is one present item, as produced by Entries.
type Entry[T any] struct {
	Position engine.Position
	Value    T
	Format   engine.Format
}

// Entries yields (position, value, format) per present item in
// [start, end).
func (f *Formatter[T]) Entries(start, end int) ([]Entry[T], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if start < 0 || end > f.seq.Len() || start > end {
		return nil, engine.ErrOutOfRange
	}
	out := make([]Entry[T], 0, end-start)
	for i := start; i < end; i++ {
		pos := f.seq.PositionAt(i)
		fmtAt, err := f.eng.GetFormat(pos)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry[T]{Position: pos, Value: f.seq.ValueAt(i), Format: fmtAt})
	}
	return out, nil
}

// SavedState is the facade's persisted snapshot, recorded and reloaded in
// the fixed order: metadata, list, formatting.
type SavedState[T any] struct {
	ReplicaID  string
	Counter    uint64
	List       []seqlist.Entry[T]
	Formatting []*engine.Mark
}

// savedStateWire is SavedState's JSON wire shape. Formatting goes through
// wireMark, since engine.Mark.Precedence is a bare interface that
// encoding/json cannot decode on its own; see wire.go.
type savedStateWire[T any] struct {
	ReplicaID  string             `json:"replicaID"`
	Counter    uint64             `json:"counter"`
	List       []seqlist.Entry[T] `json:"list"`
	Formatting []wireMark         `json:"formatting"`
}

// MarshalJSON implements json.Marshaler.
func (s SavedState[T]) MarshalJSON() ([]byte, error) {
	wire := savedStateWire[T]{ReplicaID: s.ReplicaID, Counter: s.Counter, List: s.List}
	wire.Formatting = make([]wireMark, len(s.Formatting))
	for i, m := range s.Formatting {
		wm, err := toWireMark(m)
		if err != nil {
			return nil, err
		}
		wire.Formatting[i] = wm
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *SavedState[T]) UnmarshalJSON(data []byte) error {
	var wire savedStateWire[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	s.ReplicaID = wire.ReplicaID
	s.Counter = wire.Counter
	s.List = wire.List
	s.Formatting = make([]*engine.Mark, len(wire.Formatting))
	for i, wm := range wire.Formatting {
		m, err := wm.toMark()
		if err != nil {
			return err
		}
		s.Formatting[i] = m
	}
	return nil
}

// Save returns the facade's current state.
func (f *Formatter[T]) Save() SavedState[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return SavedState[T]{
		ReplicaID:  f.replicaID,
		Counter:    f.counter,
		List:       f.seq.Snapshot(),
		Formatting: f.eng.Marks(),
	}
}

// Load replaces the facade's state with state.
func (f *Formatter[T]) Load(state SavedState[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replicaID = state.ReplicaID
	f.counter = state.Counter
	f.seq.Restore(state.List)
	f.eng.Load(state.Formatting)
	for _, m := range state.Formatting {
		f.bumpCounterLocked(m.Precedence)
	}
}
