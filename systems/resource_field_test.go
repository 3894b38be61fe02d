package systems

import (
	"errors"
	"math"
	"testing"
)

func newTestField(t *testing.T, w, h int) *ResourceField {
	t.Helper()
	rf, err := NewResourceField(w, h)
	if err != nil {
		t.Fatalf("NewResourceField(%d, %d): %v", w, h, err)
	}
	return rf
}

func TestResourceFieldCreation(t *testing.T) {
	rf := newTestField(t, 64, 32)

	w, h := rf.GridSize()
	if w != 64 || h != 32 {
		t.Errorf("expected grid size 64x32, got %dx%d", w, h)
	}
	if rf.Len() != 64*32 {
		t.Errorf("expected %d cells, got %d", 64*32, rf.Len())
	}
	for i, v := range rf.Values() {
		if v != 0 {
			t.Fatalf("expected zero field, cell %d = %f", i, v)
		}
	}
}

func TestResourceFieldRejectsBadSize(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if _, err := NewResourceField(dims[0], dims[1]); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewResourceField(%d, %d): expected ErrInvalidSize, got %v", dims[0], dims[1], err)
		}
	}
}

func TestSeedGradientWithoutNoise(t *testing.T) {
	rf := newTestField(t, 10, 10)
	rf.Seed(1.0, 0, NewRNG("abc"))

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			base := 0.8 - 0.6*math.Hypot(float64(x)/10-0.5, float64(y)/10-0.5)
			want := float32(math.Min(math.Max(base, 0), 1))
			got, err := rf.At(x, y)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("cell (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSeedStaysWithinCapacity(t *testing.T) {
	rf := newTestField(t, 40, 30)
	rf.Seed(0.7, 2.0, NewRNG("noisy"))

	for i, v := range rf.Values() {
		if v < 0 || v > 0.7 {
			t.Fatalf("cell %d = %f outside [0, 0.7]", i, v)
		}
	}
}

func TestSeedConsumesOneDrawPerCell(t *testing.T) {
	rf := newTestField(t, 7, 5)
	if err := rf.SetObstacle(3, 2, true); err != nil {
		t.Fatal(err)
	}
	rng := NewRNG("draws")
	rf.Seed(1, 0.3, rng)

	ref := NewRNG("draws")
	for i := 0; i < 7*5; i++ {
		ref.Next()
	}
	if got, want := rng.Next(), ref.Next(); got != want {
		t.Errorf("stream after Seed = %v, want %v", got, want)
	}
}

func TestStepNoDrift(t *testing.T) {
	rf := newTestField(t, 20, 15)
	rf.Seed(1.0, 0.35, NewRNG("drift"))
	before := append([]float32(nil), rf.Values()...)

	for i := 0; i < 50; i++ {
		rf.Step(0, 0, 1.0, 0)
	}

	for i, v := range rf.Values() {
		if v != before[i] {
			t.Fatalf("cell %d drifted: %v -> %v", i, before[i], v)
		}
	}
}

func TestStepReadsSnapshot(t *testing.T) {
	rf := newTestField(t, 3, 1)
	if err := rf.SetValues([]float32{0, 1, 0}); err != nil {
		t.Fatal(err)
	}

	rf.Step(0.25, 0, 1, 0)

	want := []float32{0.25, 0.5, 0.25}
	for i, v := range rf.Values() {
		if v != want[i] {
			t.Errorf("cell %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestStepSingleCell(t *testing.T) {
	tests := []struct {
		name           string
		f              float32
		d, r, fmax, dl float64
	}{
		{"replenish", 0.2, 0.1, 0.05, 1.0, 0},
		{"decay", 0.9, 0.4, 0, 1.0, 0.1},
		{"both", 0.5, 3.0, 0.3, 2.0, 0.2},
		{"zero capacity", 0.5, 0.1, 0.2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rf := newTestField(t, 1, 1)
			if err := rf.SetValues([]float32{tt.f}); err != nil {
				t.Fatal(err)
			}
			rf.Step(tt.d, tt.r, tt.fmax, tt.dl)

			f := float64(tt.f)
			v := f + tt.r*(tt.fmax-f)
			v *= 1 - tt.dl
			want := float32(math.Min(math.Max(v, 0), tt.fmax))
			if got := rf.Values()[0]; got != want {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestStepBoundsInvariant(t *testing.T) {
	params := []struct{ d, r, fmax, delta float64 }{
		{0.1, 0.01, 1.0, 0},
		{0.25, 0.5, 0.8, 0.02},
		{5.0, 0, 1.0, 0},      // unstable diffusion, saved by the clamp
		{0.1, 3.0, 1.0, 0},    // replenish overshoot
		{0.1, 0.1, 1.0, 2.0},  // decay past zero
		{0.1, 0.1, 0, 0.1},    // zero capacity
		{1e6, 1e6, 1e3, 1e-3}, // large but finite
	}
	for _, p := range params {
		rf := newTestField(t, 17, 11)
		rf.Seed(1.0, 0.5, NewRNG("bounds"))
		for tick := 0; tick < 40; tick++ {
			rf.Step(p.d, p.r, p.fmax, p.delta)
			for i, v := range rf.Values() {
				fv := float64(v)
				if math.IsNaN(fv) || math.IsInf(fv, 0) || fv < 0 || fv > p.fmax {
					t.Fatalf("params %+v tick %d: cell %d = %v outside [0, %v]", p, tick, i, v, p.fmax)
				}
			}
		}
	}
}

func TestObstacleIsolation(t *testing.T) {
	rf := newTestField(t, 12, 12)
	rf.Seed(1.0, 0.2, NewRNG("obstacles"))
	if n := rf.FillObstacleRect(4, 4, 3, 2, true); n != 6 {
		t.Fatalf("expected 6 obstacle cells, got %d", n)
	}
	// Zero one obstacle cell so replenish would be visible if it leaked in.
	vals := append([]float32(nil), rf.Values()...)
	vals[4+4*12] = 0
	if err := rf.SetValues(vals); err != nil {
		t.Fatal(err)
	}

	before := append([]float32(nil), rf.Values()...)
	for i := 0; i < 100; i++ {
		rf.Step(0.2, 0.3, 1.0, 0.05)
	}

	for y := 4; y < 6; y++ {
		for x := 4; x < 7; x++ {
			i := x + y*12
			if rf.Values()[i] != before[i] {
				t.Errorf("obstacle (%d,%d) changed: %v -> %v", x, y, before[i], rf.Values()[i])
			}
		}
	}
}

func TestFillObstacleRectClips(t *testing.T) {
	rf := newTestField(t, 5, 5)
	if n := rf.FillObstacleRect(-2, 3, 4, 10, true); n != 4 {
		t.Errorf("expected 4 clipped cells, got %d", n)
	}
	if !rf.IsObstacle(0, 4) || !rf.IsObstacle(1, 3) || rf.IsObstacle(2, 3) {
		t.Error("unexpected obstacle layout after clipped fill")
	}
	if !rf.IsObstacle(-1, 0) {
		t.Error("cells outside the grid should report as obstacles")
	}
}

func TestResourceFieldSettersFailFast(t *testing.T) {
	rf := newTestField(t, 4, 3)

	if err := rf.SetObstacle(4, 0, true); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("SetObstacle out of range: expected ErrOutOfBounds, got %v", err)
	}
	if _, err := rf.At(0, -1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("At out of range: expected ErrOutOfBounds, got %v", err)
	}
	if err := rf.SetObstacleMask(make([]bool, 11)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("SetObstacleMask: expected ErrSizeMismatch, got %v", err)
	}
	if err := rf.SetValues(make([]float32, 13)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("SetValues: expected ErrSizeMismatch, got %v", err)
	}
}

func TestResourceFieldAggregates(t *testing.T) {
	rf := newTestField(t, 2, 2)
	if err := rf.SetValues([]float32{0.25, 0.5, 0.75, 1}); err != nil {
		t.Fatal(err)
	}
	if got := rf.Mean(); got != 0.625 {
		t.Errorf("Mean() = %v, want 0.625", got)
	}
	if got := rf.TotalMass(); got != 2.5 {
		t.Errorf("TotalMass() = %v, want 2.5", got)
	}
	lo, hi := rf.Range()
	if lo != 0.25 || hi != 1 {
		t.Errorf("Range() = (%v, %v), want (0.25, 1)", lo, hi)
	}
}

func BenchmarkResourceFieldStep(b *testing.B) {
	rf, _ := NewResourceField(150, 100)
	rf.Seed(1.0, 0.35, NewRNG("bench"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rf.Step(0.1, 0.01, 1.0, 0)
	}
}
