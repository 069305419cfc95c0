package format

import (
	"encoding/json"
	"fmt"

	"github.com/phroun/peritext/engine"
	"github.com/phroun/peritext/posspace"
)

// wireAnchor is the JSON wire shape for engine.Anchor: a position plus a
// before/after boolean. engine.Anchor's Pos field is an opaque any, so only
// the default posspace.Pos implementation this package always uses can
// round-trip through it.
type wireAnchor struct {
	Pos    posspace.Pos `json:"pos"`
	Before bool         `json:"before"`
}

func toWireAnchor(a engine.Anchor) (wireAnchor, error) {
	pos, ok := a.Pos.(posspace.Pos)
	if !ok {
		return wireAnchor{}, fmt.Errorf("format: anchor position is not a posspace.Pos, cannot serialize")
	}
	return wireAnchor{Pos: pos, Before: a.Side == engine.SideBefore}, nil
}

func (w wireAnchor) toAnchor() engine.Anchor {
	side := engine.SideAfter
	if w.Before {
		side = engine.SideBefore
	}
	return engine.Anchor{Pos: w.Pos, Side: side}
}

// wireMark is the JSON wire shape for engine.Mark. Mark.Precedence is a
// bare interface, so a plain struct-tagged Mark either loses its concrete
// type on encode or fails outright on decode (encoding/json cannot
// unmarshal into a named interface). wireMark pins the concrete
// LamportPrecedence this package's Formatter always stamps, the same way
// posspace.Pos pins its own wire form. Value goes through raw JSON with a
// separate Null flag, since Null{} would otherwise decode back as an empty
// map instead of the sentinel.
type wireMark struct {
	Start      wireAnchor         `json:"start"`
	End        wireAnchor         `json:"end"`
	Key        string             `json:"key"`
	Value      json.RawMessage    `json:"value,omitempty"`
	Null       bool               `json:"null,omitempty"`
	Precedence *LamportPrecedence `json:"precedence"`
}

func toWireMark(m *engine.Mark) (wireMark, error) {
	start, err := toWireAnchor(m.Start)
	if err != nil {
		return wireMark{}, err
	}
	end, err := toWireAnchor(m.End)
	if err != nil {
		return wireMark{}, err
	}
	p, ok := m.Precedence.(*LamportPrecedence)
	if !ok {
		return wireMark{}, fmt.Errorf("format: mark precedence is not a *LamportPrecedence, cannot serialize")
	}
	wm := wireMark{Start: start, End: end, Key: m.Key, Precedence: p}
	if engine.IsNull(m.Value) {
		wm.Null = true
		return wm, nil
	}
	raw, err := json.Marshal(m.Value)
	if err != nil {
		return wireMark{}, fmt.Errorf("format: encoding mark value: %w", err)
	}
	wm.Value = raw
	return wm, nil
}

func (w wireMark) toMark() (*engine.Mark, error) {
	m := &engine.Mark{Start: w.Start.toAnchor(), End: w.End.toAnchor(), Key: w.Key, Precedence: w.Precedence}
	if w.Null {
		m.Value = engine.NullValue
		return m, nil
	}
	var v engine.Value
	if len(w.Value) > 0 {
		if err := json.Unmarshal(w.Value, &v); err != nil {
			return nil, fmt.Errorf("format: decoding mark value: %w", err)
		}
	}
	m.Value = v
	return m, nil
}
