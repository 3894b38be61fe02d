package renderer

import (
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/config"
)

type fakeView struct {
	w, h      int
	field     []float32
	obstacles []bool
	agents    []components.Agent
}

func (v *fakeView) GridSize() (int, int)       { return v.w, v.h }
func (v *fakeView) Field() []float32           { return v.field }
func (v *fakeView) Obstacles() []bool          { return v.obstacles }
func (v *fakeView) Agents() []components.Agent { return v.agents }

func newFakeView(w, h int, field ...float32) *fakeView {
	v := &fakeView{w: w, h: h, field: make([]float32, w*h), obstacles: make([]bool, w*h)}
	copy(v.field, field)
	return v
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func TestFoodRamp(t *testing.T) {
	theme := DefaultTheme()

	tests := []struct {
		name  string
		f     float32
		fmax  float64
		gamma float64
		want  color.RGBA
	}{
		{"empty", 0, 1, 1, rgb(7, 10, 18)},
		{"negative", -0.5, 1, 1, rgb(7, 10, 18)},
		{"full", 1, 1, 1, rgb(110, 195, 255)},
		{"half truncates", 0.5, 1, 1, rgb(59, 112, 157)},
		{"above capacity clamps", 3, 1, 1, rgb(110, 195, 255)},
		{"zero capacity", 0.5, 0, 1, rgb(8, 30, 60)},
		{"gamma", 0.25, 1, 2, rgb(59, 112, 157)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := theme
			th.Gamma = tt.gamma
			got := CellColors(newFakeView(1, 1, tt.f), tt.fmax, th, nil)
			if got[0] != tt.want {
				t.Errorf("got %v, want %v", got[0], tt.want)
			}
		})
	}
}

func TestObstaclesDimAndHideAgents(t *testing.T) {
	v := newFakeView(3, 1, 1, 1, 0)
	v.obstacles[0] = true
	v.obstacles[2] = true
	v.agents = []components.Agent{{X: 0, Y: 0, Energy: 1}, {X: 1, Y: 0, Energy: 1}, {X: 5, Y: 9}}

	got := CellColors(v, 1, DefaultTheme(), nil)

	if want := rgb(33, 58, 76); got[0] != want {
		t.Errorf("obstacle over full cell: got %v, want %v", got[0], want)
	}
	if want := DefaultTheme().Agent; got[1] != want {
		t.Errorf("agent cell: got %v, want %v", got[1], want)
	}
	if want := rgb(2, 3, 5); got[2] != want {
		t.Errorf("obstacle over empty cell: got %v, want %v", got[2], want)
	}
}

func TestCellColorsReusesBuffer(t *testing.T) {
	v := newFakeView(4, 4)
	buf := make([]color.RGBA, 0, 32)
	out := CellColors(v, 1, DefaultTheme(), buf)
	if len(out) != 16 || &out[0] != &buf[:1][0] {
		t.Error("expected the caller's buffer to be reused")
	}
}

func TestRasterizeScalesCells(t *testing.T) {
	v := newFakeView(2, 1, 0, 1)
	img := Rasterize(v, 1, 3, DefaultTheme())

	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Fatalf("bounds %v, want 6x3", b)
	}
	if got := img.RGBAAt(2, 2); got != rgb(7, 10, 18) {
		t.Errorf("pixel (2,2) = %v, want empty color", got)
	}
	if got := img.RGBAAt(3, 0); got != rgb(110, 195, 255) {
		t.Errorf("pixel (3,0) = %v, want high color", got)
	}
	if got := img.RGBAAt(5, 2); got != rgb(110, 195, 255) {
		t.Errorf("pixel (5,2) = %v, want high color", got)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := SavePNG(path, Rasterize(newFakeView(5, 4, 0.5), 1, 2, DefaultTheme())); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 8 {
		t.Errorf("decoded bounds %v, want 10x8", b)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#6ec3ff", rgb(110, 195, 255), true},
		{"6EC3FF", rgb(110, 195, 255), true},
		{" #070a12 ", rgb(7, 10, 18), true},
		{"#fff", rgb(255, 255, 255), true},
		{"#12345", color.RGBA{}, false},
		{"#gg0000", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if tt.ok {
			if err != nil || got != tt.want {
				t.Errorf("ParseHex(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseHex(%q): expected ErrInvalidColor, got %v", tt.in, err)
		}
	}
}

func TestThemeFromConfig(t *testing.T) {
	th, err := ThemeFromConfig(config.ThemeConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if th != DefaultTheme() {
		t.Errorf("empty config should give the default theme, got %+v", th)
	}

	th, err = ThemeFromConfig(config.ThemeConfig{Agent: "#ff0000", Gamma: 2.2, ObstacleDim: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if th.Agent != rgb(255, 0, 0) || th.Gamma != 2.2 || th.ObstacleDim != 0.5 {
		t.Errorf("overrides not applied: %+v", th)
	}

	if _, err := ThemeFromConfig(config.ThemeConfig{FoodLow: "blue"}); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor, got %v", err)
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	th, err := ThemeFromConfig(cfg.Theme)
	if err != nil {
		t.Fatal(err)
	}
	if th != DefaultTheme() {
		t.Errorf("defaults.yaml theme %+v differs from DefaultTheme", th)
	}
}

func BenchmarkCellColors(b *testing.B) {
	v := newFakeView(150, 100)
	for i := range v.field {
		v.field[i] = float32(i%100) / 100
	}
	theme := DefaultTheme()
	theme.Gamma = 2.2
	buf := CellColors(v, 1, theme, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = CellColors(v, 1, theme, buf)
	}
}
