package engine

import "testing"

func mk(p Precedence) *Mark {
	return &Mark{Key: "k", Value: true, Precedence: p}
}

func TestMarkStoreLocateOrdersByPrecedence(t *testing.T) {
	s := newMarkStore()
	for _, p := range []int{5, 1, 9, 3} {
		idx, existing, err := s.locate(mk(intPrecedence(p)))
		if err != nil {
			t.Fatalf("locate(%d): %v", p, err)
		}
		if existing != nil {
			t.Fatalf("locate(%d): unexpected existing mark", p)
		}
		s.insertAt(idx, mk(intPrecedence(p)))
	}
	var got []int
	for _, m := range s.all() {
		got = append(got, int(m.Precedence.(intPrecedence)))
	}
	want := []int{1, 3, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMarkStoreLocateFindsExisting(t *testing.T) {
	s := newMarkStore()
	m := mk(intPrecedence(4))
	idx, _, err := s.locate(m)
	if err != nil {
		t.Fatal(err)
	}
	s.insertAt(idx, m)

	_, existing, err := s.locate(mk(intPrecedence(4)))
	if err != nil {
		t.Fatal(err)
	}
	if existing != m {
		t.Fatalf("expected to find the canonical mark, got %v", existing)
	}
}

// asymPrecedence orders by val normally, except a rigged value reports
// "greater than" against every other value regardless of which side of
// the comparison it is on, so comparing it against a normal value gives
// the same sign both ways, violating antisymmetry.
type asymPrecedence struct {
	val    int
	rigged bool
}

func (p asymPrecedence) Compare(other Precedence) int {
	o := other.(asymPrecedence)
	if p.rigged || o.rigged {
		return 1
	}
	switch {
	case p.val < o.val:
		return -1
	case p.val > o.val:
		return 1
	default:
		return 0
	}
}

func TestMarkStoreLocateDetectsInconsistentComparator(t *testing.T) {
	s := newMarkStore()
	// Fill past tailScanDepth so the binary search path runs, then corrupt
	// one stored mark's precedence so it contradicts the probe's compare.
	for i := 0; i < tailScanDepth+5; i++ {
		m := mk(asymPrecedence{val: i})
		idx, _, err := s.locate(m)
		if err != nil {
			t.Fatal(err)
		}
		s.insertAt(idx, m)
	}
	s.marks[0].Precedence = asymPrecedence{val: 0, rigged: true}

	_, _, err := s.locate(mk(asymPrecedence{val: -1}))
	if err != ErrInconsistentComparator {
		t.Fatalf("expected ErrInconsistentComparator, got %v", err)
	}
}
