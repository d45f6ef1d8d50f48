package random

import (
	"testing"
)

func TestEngine_determinism(t *testing.T) {
	for _, v := range []uint64{0, 1, 42, 1<<63 + 5} {
		a := New(FromU64(v))
		b := New(FromU64(v))
		for i := 0; i < 200; i++ {
			switch i % 5 {
			case 0:
				if x, y := a.Uint64(), b.Uint64(); x != y {
					t.Fatalf("seed %d draw %d: %d != %d", v, i, x, y)
				}
			case 1:
				if x, y := a.InRangeInclusive(-3, 9), b.InRangeInclusive(-3, 9); x != y {
					t.Fatalf("seed %d draw %d: %d != %d", v, i, x, y)
				}
			case 2:
				if x, y := a.WithProbability(0.3), b.WithProbability(0.3); x != y {
					t.Fatalf("seed %d draw %d: %v != %v", v, i, x, y)
				}
			case 3:
				if x, y := a.Float(), b.Float(); x != y {
					t.Fatalf("seed %d draw %d: %v != %v", v, i, x, y)
				}
			case 4:
				a.SkipN(3)
				b.SkipN(3)
			}
		}
	}
}

func TestEngine_different_seeds_diverge(t *testing.T) {
	a := New(FromU64(1))
	b := New(FromU64(2))
	same := 0
	for i := 0; i < 16; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same == 16 {
		t.Error("distinct seeds produced identical sequences")
	}
}

func TestEngine_ranges(t *testing.T) {
	e := New(FromU64(9))
	for i := 0; i < 1000; i++ {
		if v := e.InRangeInclusive(2, 4); v < 2 || v > 4 {
			t.Fatalf("InRangeInclusive(2,4) = %d", v)
		}
		if v := e.InRangeExclusive(2, 4); v < 2 || v >= 4 {
			t.Fatalf("InRangeExclusive(2,4) = %d", v)
		}
		if v := e.Float(); v < 0 || v > 1 {
			t.Fatalf("Float() = %v", v)
		}
	}
	if v := e.InRangeInclusive(5, 5); v != 5 {
		t.Errorf("InRangeInclusive(5,5) = %d", v)
	}
}

func TestEngine_invalid_range_panics(t *testing.T) {
	e := New(FromU64(1))
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for empty exclusive range")
		}
	}()
	e.InRangeExclusive(3, 3)
}

func TestEngine_WithProbability_edges(t *testing.T) {
	e := New(FromU64(3))
	for i := 0; i < 1000; i++ {
		if !e.WithProbability(1.0) {
			t.Fatal("WithProbability(1.0) returned false")
		}
		if e.WithProbability(0.0) {
			t.Fatal("WithProbability(0.0) returned true")
		}
	}
}

func TestEngine_WithProbability_consumes_one_draw(t *testing.T) {
	for _, p := range []float64{0.0, 0.5, 1.0} {
		subject := New(FromU64(77))
		control := New(FromU64(77))

		subject.WithProbability(p)
		control.Skip()

		if got, want := subject.Uint64(), control.Uint64(); got != want {
			t.Errorf("p=%v: next draw %d, control %d", p, got, want)
		}
	}
}

func TestEngine_SkipN_matches_Skip(t *testing.T) {
	a := New(FromU64(11))
	b := New(FromU64(11))
	a.SkipN(4)
	for i := 0; i < 4; i++ {
		b.Skip()
	}
	if a.Uint64() != b.Uint64() {
		t.Error("SkipN(4) and four Skip calls diverged")
	}
}

func TestPick(t *testing.T) {
	e := New(FromU64(5))
	values := []string{"x", "y", "z"}
	for i := 0; i < 100; i++ {
		v := Pick(e, values)
		if v != "x" && v != "y" && v != "z" {
			t.Fatalf("Pick returned %q", v)
		}
	}
}
