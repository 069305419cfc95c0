package engine

import "github.com/phroun/peritext/posspace"

// testSeq is a minimal Sequence fake built directly on posspace, used so
// engine tests can exercise index-based APIs without importing seqlist
// (which itself imports engine).
type testSeq struct {
	space *posspace.Space
	pos   []Position
}

func newTestSeq(n int) *testSeq {
	space := posspace.New()
	s := &testSeq{space: space}
	var left Position = space.Min()
	right := space.Max()
	for i := 0; i < n; i++ {
		p := space.Between(left, right)
		s.pos = append(s.pos, p)
		left = p
	}
	return s
}

func (s *testSeq) Len() int                 { return len(s.pos) }
func (s *testSeq) PositionAt(i int) Position { return s.pos[i] }
func (s *testSeq) IndexOfPosition(p Position, bias Bias) int {
	lo, hi := 0, len(s.pos)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.space.Compare(s.pos[mid], p) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if bias == BiasLeft {
		return lo
	}
	if lo < len(s.pos) && s.space.Equal(s.pos[lo], p) {
		return lo + 1
	}
	return lo
}
