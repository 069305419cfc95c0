package engine

import "sort"

// tailScanDepth bounds the reverse linear scan locate performs before
// falling back to binary search, optimized for the common case of a new
// mark winning over all existing ones.
const tailScanDepth = 10

// markStore holds orderedMarks: a sequence sorted ascending by precedence,
// with no two marks of equal precedence.
type markStore struct {
	marks []*Mark
}

func newMarkStore() *markStore {
	return &markStore{}
}

// sign normalizes a Compare result to -1, 0, or 1.
func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	default:
		return 0
	}
}

// checkAntisymmetric verifies a.Compare(b) and b.Compare(a) agree (one is
// the negation of the other), catching a comparator that reports
// contradictory orderings depending on argument order.
func checkAntisymmetric(a, b Precedence) (c int, ok bool) {
	c = a.Compare(b)
	return c, sign(c) == -sign(b.Compare(a))
}

// locate finds m's position in the store. It returns the insertion index
// and, if an equivalent mark (by Precedence.Compare == 0) already exists,
// the canonical copy. It fails with ErrInconsistentComparator if
// m.Precedence's comparator disagrees with itself on argument order, or if
// the binary search invariant (monotonic ordering of the stored marks with
// respect to m) is violated partway through the search.
func (s *markStore) locate(m *Mark) (index int, existing *Mark, err error) {
	n := len(s.marks)
	tailStart := n - tailScanDepth
	if tailStart < 0 {
		tailStart = 0
	}
	for i := n - 1; i >= tailStart; i-- {
		c, ok := checkAntisymmetric(s.marks[i].Precedence, m.Precedence)
		if !ok {
			return 0, nil, ErrInconsistentComparator
		}
		if c == 0 {
			return i, s.marks[i], nil
		}
		if c < 0 {
			return i + 1, nil, nil
		}
	}
	lo, hi := 0, tailStart
	for lo < hi {
		mid := (lo + hi) / 2
		c, ok := checkAntisymmetric(s.marks[mid].Precedence, m.Precedence)
		if !ok {
			return 0, nil, ErrInconsistentComparator
		}
		switch {
		case c == 0:
			return mid, s.marks[mid], nil
		case c < 0:
			lo = mid + 1
		case c > 0:
			hi = mid
		}
	}
	if lo > 0 {
		if c, ok := checkAntisymmetric(s.marks[lo-1].Precedence, m.Precedence); !ok || c > 0 {
			return 0, nil, ErrInconsistentComparator
		}
	}
	if lo < n {
		if c, ok := checkAntisymmetric(s.marks[lo].Precedence, m.Precedence); !ok || c < 0 {
			return 0, nil, ErrInconsistentComparator
		}
	}
	return lo, nil, nil
}

// insertAt inserts m at index, which the caller must have obtained from a
// preceding locate call on the same mark with no mutation in between.
func (s *markStore) insertAt(index int, m *Mark) {
	s.marks = append(s.marks, nil)
	copy(s.marks[index+1:], s.marks[index:])
	s.marks[index] = m
}

// add inserts m if no equivalent mark is present, reporting whether it did.
func (s *markStore) add(m *Mark) (inserted bool, err error) {
	index, existing, err := s.locate(m)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	s.insertAt(index, m)
	return true, nil
}

// remove deletes the canonical copy of m, if present, and returns it.
func (s *markStore) remove(m *Mark) (removed *Mark, err error) {
	index, existing, err := s.locate(m)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	canonical := s.marks[index]
	s.marks = append(s.marks[:index], s.marks[index+1:]...)
	return canonical, nil
}

// all returns the marks in ascending precedence order. The slice is owned
// by the store and must not be mutated by the caller.
func (s *markStore) all() []*Mark {
	return s.marks
}

// load replaces the store's contents with marks, sorted defensively by
// precedence.
func (s *markStore) load(marks []*Mark) {
	sorted := make([]*Mark, len(marks))
	copy(sorted, marks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Precedence.Compare(sorted[j].Precedence) < 0
	})
	s.marks = sorted
}

// maxPrecedence returns the greatest precedence among stored marks, or
// nil if the store is empty.
func (s *markStore) maxPrecedence() Precedence {
	if len(s.marks) == 0 {
		return nil
	}
	return s.marks[len(s.marks)-1].Precedence
}
