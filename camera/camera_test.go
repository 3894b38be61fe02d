package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(600, 400, 150, 100, 4)

	// Should be centered on the grid
	if cam.X != 75 || cam.Y != 50 {
		t.Errorf("expected camera at (75, 50), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 4 {
		t.Errorf("expected zoom 4, got %f", cam.Zoom)
	}
	if cam.MinZoom != 4 {
		t.Errorf("expected min zoom 4 (grid fits exactly), got %f", cam.MinZoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(600, 400, 150, 100, 4)

	// Grid origin maps to the screen origin when the grid fills the view
	sx, sy := cam.WorldToScreen(0, 0)
	if !near(sx, 0) || !near(sy, 0) {
		t.Errorf("expected (0, 0), got (%f, %f)", sx, sy)
	}
	sx, sy = cam.WorldToScreen(75, 50)
	if !near(sx, 300) || !near(sy, 200) {
		t.Errorf("expected screen center (300, 200), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(600, 400, 150, 100, 4)
	cam.ZoomAt(3, 100, 100)

	testCases := []struct{ sx, sy float32 }{
		{300, 200}, // center
		{10, 10},   // top-left
		{590, 390}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestCellAt(t *testing.T) {
	cam := New(600, 400, 150, 100, 4)

	tests := []struct {
		sx, sy float32
		x, y   int
		ok     bool
	}{
		{0, 0, 0, 0, true},
		{7.9, 3.9, 1, 0, true},
		{599, 399, 149, 99, true},
		{600, 10, 0, 0, false},
		{-1, 10, 0, 0, false},
	}
	for _, tt := range tests {
		x, y, ok := cam.CellAt(tt.sx, tt.sy)
		if x != tt.x || y != tt.y || ok != tt.ok {
			t.Errorf("CellAt(%v, %v) = (%d, %d, %v), want (%d, %d, %v)", tt.sx, tt.sy, x, y, ok, tt.x, tt.y, tt.ok)
		}
	}
}

func TestPanStaysInBounds(t *testing.T) {
	cam := New(600, 400, 150, 100, 4)

	// Grid fills the view at min zoom, so panning has nowhere to go
	cam.Pan(-200, 50)
	if cam.X != 75 || cam.Y != 50 {
		t.Errorf("expected fixed center at min zoom, got (%f, %f)", cam.X, cam.Y)
	}

	cam.SetZoom(8)
	cam.Pan(-10000, -10000)
	minX, minY, _, _ := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(minY, 0) {
		t.Errorf("expected view pinned to the top-left corner, got (%f, %f)", minX, minY)
	}

	cam.Pan(10000, 10000)
	_, _, maxX, maxY := cam.VisibleWorldBounds()
	if !near(maxX, 150) || !near(maxY, 100) {
		t.Errorf("expected view pinned to the bottom-right corner, got (%f, %f)", maxX, maxY)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(600, 400, 150, 100, 4)

	cam.SetZoom(1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
	cam.SetZoom(1000)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsCursorCell(t *testing.T) {
	cam := New(600, 400, 150, 100, 4)

	wx, wy := cam.ScreenToWorld(300, 200)
	cam.ZoomAt(2, 300, 200)
	gx, gy := cam.ScreenToWorld(300, 200)
	if !near(wx, gx) || !near(wy, gy) {
		t.Errorf("cell under cursor moved: (%f,%f) -> (%f,%f)", wx, wy, gx, gy)
	}
	if cam.Zoom != 8 {
		t.Errorf("expected zoom 8, got %f", cam.Zoom)
	}
}

func TestSmallGridCentered(t *testing.T) {
	// Grid smaller than the viewport at max zoom stays centered
	cam := New(600, 400, 10, 10, 4)
	if cam.MinZoom != 40 {
		t.Fatalf("expected min zoom 40, got %f", cam.MinZoom)
	}
	cam.Pan(500, 0)
	if cam.X != 5 || cam.Y != 5 {
		t.Errorf("expected centered camera, got (%f, %f)", cam.X, cam.Y)
	}
}

func TestReset(t *testing.T) {
	cam := New(600, 400, 150, 100, 4)
	cam.ZoomAt(4, 10, 10)
	cam.Reset()
	if cam.X != 75 || cam.Y != 50 || cam.Zoom != 4 {
		t.Errorf("expected home view, got (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}
