package seqlist

import (
	"testing"

	"github.com/phroun/peritext/engine"
	"github.com/phroun/peritext/posspace"
)

func TestInsertAtAppendsAndOrders(t *testing.T) {
	l := New[rune](posspace.New())

	if _, err := l.InsertAt(0, 'a', 'b', 'c'); err != nil {
		t.Fatalf("InsertAt: %v", err)
	}
	if l.Len() != 3 {
		t.Fatalf("expected length 3, got %d", l.Len())
	}
	if l.ValueAt(0) != 'a' || l.ValueAt(1) != 'b' || l.ValueAt(2) != 'c' {
		t.Fatalf("unexpected values: %c %c %c", l.ValueAt(0), l.ValueAt(1), l.ValueAt(2))
	}
}

func TestInsertAtMiddle(t *testing.T) {
	l := New[rune](posspace.New())
	l.InsertAt(0, 'a', 'c')
	l.InsertAt(1, 'b')

	got := []rune{l.ValueAt(0), l.ValueAt(1), l.ValueAt(2)}
	want := []rune{'a', 'b', 'c'}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %c, want %c", i, got[i], want[i])
		}
	}
}

func TestDeleteAt(t *testing.T) {
	l := New[rune](posspace.New())
	l.InsertAt(0, 'a', 'b', 'c', 'd')

	if err := l.DeleteAt(1, 2); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected length 2, got %d", l.Len())
	}
	if l.ValueAt(0) != 'a' || l.ValueAt(1) != 'd' {
		t.Fatalf("unexpected remaining values: %c %c", l.ValueAt(0), l.ValueAt(1))
	}
}

func TestIndexOfPositionBias(t *testing.T) {
	space := posspace.New()
	l := New[rune](space)
	l.InsertAt(0, 'a', 'b', 'c')

	present := l.PositionAt(1)
	if i := l.IndexOfPosition(present, engine.BiasLeft); i != 1 {
		t.Fatalf("BiasLeft on present position: got %d, want 1", i)
	}
	if i := l.IndexOfPosition(present, engine.BiasRight); i != 2 {
		t.Fatalf("BiasRight on present position: got %d, want 2", i)
	}

	if i := l.IndexOfPosition(space.Min(), engine.BiasLeft); i != 0 {
		t.Fatalf("BiasLeft on Min: got %d, want 0", i)
	}
	if i := l.IndexOfPosition(space.Max(), engine.BiasRight); i != 3 {
		t.Fatalf("BiasRight on Max: got %d, want 3", i)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	l := New[rune](posspace.New())
	l.InsertAt(0, 'x', 'y', 'z')

	snap := l.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap))
	}

	l2 := New[rune](posspace.New())
	l2.Restore(snap)
	if l2.Len() != 3 {
		t.Fatalf("expected restored length 3, got %d", l2.Len())
	}
	for i := 0; i < 3; i++ {
		if l2.ValueAt(i) != l.ValueAt(i) {
			t.Fatalf("restored value mismatch at %d", i)
		}
	}
}

func TestDeleteAtOutOfRange(t *testing.T) {
	l := New[rune](posspace.New())
	l.InsertAt(0, 'a')
	if err := l.DeleteAt(0, 5); err != engine.ErrOutOfRange {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}
