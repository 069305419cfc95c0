package format

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/phroun/peritext/engine"
)

// DiffFormats returns the keys and values InsertWithFormat must create
// new marks for: every key in the union of current and target whose
// resolved value differs. A key present in target but absent from
// current is reported with its target value; a key present in current
// but absent from target is reported as engine.NullValue, instructing
// the caller to mint a removal mark.
func DiffFormats(current, target engine.Format) map[string]engine.Value {
	keys := mapset.NewThreadUnsafeSet[string]()
	for k := range current {
		keys.Add(k)
	}
	for k := range target {
		keys.Add(k)
	}

	out := make(map[string]engine.Value)
	for k := range keys.Iter() {
		cv, cok := current[k]
		tv, tok := target[k]
		// A NULL_VALUE entry in either map means "this key is not actually
		// set here", not "set to null": treat it as absent before diffing.
		if cok && engine.IsNull(cv) {
			cok = false
		}
		if tok && engine.IsNull(tv) {
			tok = false
		}
		switch {
		case tok && !cok:
			out[k] = tv
		case !tok && cok:
			out[k] = engine.NullValue
		case tok && cok && !valuesEqual(cv, tv):
			out[k] = tv
		}
	}
	return out
}

func valuesEqual(a, b engine.Value) bool {
	af := engine.Format{"v": a}
	bf := engine.Format{"v": b}
	return af.Equal(bf)
}
