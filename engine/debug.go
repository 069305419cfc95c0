package engine

import "github.com/sanity-io/litter"

// Dump renders the engine's mark set and resolution index as a
// human-readable string, for manual inspection only. It is never used on
// the hot path and its output format is not part of the API contract.
func (e *Engine) Dump() string {
	type dumpEntry struct {
		Pos    Position
		Before map[string][]Value
		After  map[string][]Value
	}
	entries := make([]dumpEntry, len(e.index.entries))
	for i, ent := range e.index.entries {
		entries[i] = dumpEntry{
			Pos:    ent.Pos,
			Before: dumpStacks(ent.Data.Before),
			After:  dumpStacks(ent.Data.After),
		}
	}
	return litter.Sdump(struct {
		Marks   []*Mark
		Entries []dumpEntry
	}{
		Marks:   e.marks.all(),
		Entries: entries,
	})
}

func dumpStacks(ks keyStacks) map[string][]Value {
	if ks == nil {
		return nil
	}
	out := make(map[string][]Value, len(ks))
	for k, st := range ks {
		values := make([]Value, len(st))
		for i, m := range st {
			values[i] = m.Value
		}
		out[k] = values
	}
	return out
}
