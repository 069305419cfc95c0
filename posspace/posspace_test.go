package posspace

import (
	"encoding/json"
	"testing"
)

func TestMinMaxOrdering(t *testing.T) {
	s := New()
	min, max := s.Min(), s.Max()
	if s.Compare(min, max) >= 0 {
		t.Fatalf("expected Min < Max")
	}
	if s.Compare(max, min) <= 0 {
		t.Fatalf("expected Max > Min")
	}
	if !s.Equal(min, min) {
		t.Fatalf("expected Min == Min")
	}
}

func TestBetweenOrdersCorrectly(t *testing.T) {
	s := New()
	min, max := s.Min(), s.Max()

	mid := s.Between(min, max)
	if s.Compare(min, mid) >= 0 || s.Compare(mid, max) >= 0 {
		t.Fatalf("expected Min < mid < Max, got mid=%v", mid)
	}

	left := s.Between(min, mid)
	if s.Compare(min, left) >= 0 || s.Compare(left, mid) >= 0 {
		t.Fatalf("expected Min < left < mid")
	}

	right := s.Between(mid, max)
	if s.Compare(mid, right) >= 0 || s.Compare(right, max) >= 0 {
		t.Fatalf("expected mid < right < Max")
	}
}

func TestBetweenDenseInsertion(t *testing.T) {
	s := New()
	lo, hi := s.Min(), s.Max()
	// Repeatedly bisect the same gap and confirm a strict total order
	// survives many iterations without collision.
	positions := []any{lo}
	cur := lo
	for i := 0; i < 200; i++ {
		p := s.Between(cur, hi)
		positions = append(positions, p)
		cur = p
	}
	positions = append(positions, hi)
	for i := 1; i < len(positions); i++ {
		if s.Compare(positions[i-1], positions[i]) >= 0 {
			t.Fatalf("order violated at %d", i)
		}
	}
}

func TestBetweenPanicsOnBadRange(t *testing.T) {
	s := New()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a >= b")
		}
	}()
	s.Between(s.Max(), s.Min())
}

func TestJSONRoundTrip(t *testing.T) {
	s := New()
	mid := s.Between(s.Min(), s.Max())

	data, err := json.Marshal(mid)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Pos
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !s.Equal(got, mid) {
		t.Fatalf("round-tripped position changed: got %v, want %v", got, mid)
	}
}

func TestJSONRoundTripSentinels(t *testing.T) {
	s := New()
	for _, p := range []Pos{s.Min().(Pos), s.Max().(Pos)} {
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var got Pos
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if !s.Equal(got, p) {
			t.Fatalf("sentinel round-trip mismatch: got %v, want %v", got, p)
		}
	}
}
