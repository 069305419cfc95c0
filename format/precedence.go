package format

import (
	"strings"

	"github.com/phroun/peritext/engine"
)

// LamportPrecedence is the reference precedence scheme: a Lamport counter
// with creator-id tie-break, per the spec's default mark wire shape.
// Timestamps are positive; (CreatorID, Timestamp) is globally unique.
type LamportPrecedence struct {
	CreatorID string `json:"creatorID"`
	Timestamp uint64 `json:"timestamp"`
}

// Compare orders by Timestamp, then lexicographically by CreatorID.
func (p *LamportPrecedence) Compare(other engine.Precedence) int {
	o, ok := other.(*LamportPrecedence)
	if !ok {
		panic("format: LamportPrecedence.Compare against a foreign precedence type")
	}
	if p.Timestamp != o.Timestamp {
		if p.Timestamp < o.Timestamp {
			return -1
		}
		return 1
	}
	return strings.Compare(p.CreatorID, o.CreatorID)
}
