package systems

import "testing"

func TestHashSeed(t *testing.T) {
	tests := []struct {
		seed string
		want uint32
	}{
		{"", 2166136261},
		{"abc", 440920331},
		{"42", 2279835011},
	}
	for _, tt := range tests {
		if got := HashSeed(tt.seed); got != tt.want {
			t.Errorf("HashSeed(%q) = %d, want %d", tt.seed, got, tt.want)
		}
	}
}

func TestRNGKnownStream(t *testing.T) {
	r := &RNG{}
	r.SeedValue(0)
	want := []uint32{1144304738, 1416247, 958946056}
	for i, w := range want {
		if got := r.Uint32(); got != w {
			t.Fatalf("output %d = %d, want %d", i, got, w)
		}
	}
}

func TestRNGFromString(t *testing.T) {
	r := NewRNG("abc")
	want := []float64{0.5166419988963753, 0.6596221292857081, 0.0018796597141772509}
	for i, w := range want {
		if got := r.Next(); got != w {
			t.Errorf("Next() #%d = %.17g, want %.17g", i, got, w)
		}
	}
}

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG("same seed")
	b := NewRNG("same seed")
	for i := 0; i < 1000; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("streams diverged at %d: %v vs %v", i, va, vb)
		}
		if va < 0 || va >= 1 {
			t.Fatalf("Next() = %v out of [0,1)", va)
		}
	}
}

func TestRNGReseedRestartsStream(t *testing.T) {
	r := NewRNG("x")
	first := r.Next()
	r.Next()
	r.Seed("x")
	if got := r.Next(); got != first {
		t.Errorf("after reseed got %v, want %v", got, first)
	}
}

func TestMooreOffsetCoversNeighbors(t *testing.T) {
	r := NewRNG("moore")
	seen := make(map[[2]int]int)
	for i := 0; i < 4000; i++ {
		dx, dy := r.MooreOffset()
		if dx == 0 && dy == 0 {
			t.Fatal("MooreOffset returned (0,0)")
		}
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
			t.Fatalf("MooreOffset returned (%d,%d)", dx, dy)
		}
		seen[[2]int{dx, dy}]++
	}
	if len(seen) != 8 {
		t.Errorf("expected all 8 offsets, saw %d", len(seen))
	}
}
