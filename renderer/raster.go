// Package renderer turns simulation state into pixels. The CPU rasterizer is
// shared by the raylib viewer, the terminal viewer and PNG export, and has no
// graphics dependencies of its own.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/pthm-cable/bloom/components"
)

// View is the read-only state a frame is drawn from.
type View interface {
	GridSize() (int, int)
	Field() []float32
	Obstacles() []bool
	Agents() []components.Agent
}

// CellColors writes one color per cell into dst (reallocated when too short)
// and returns it. Food is shaded first, obstacles dim whatever is under them,
// then agents are drawn on every non-obstacle cell they occupy.
func CellColors(v View, fmax float64, theme Theme, dst []color.RGBA) []color.RGBA {
	w, h := v.GridSize()
	n := w * h
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]

	field := v.Field()
	obstacles := v.Obstacles()

	for i := 0; i < n; i++ {
		dst[i] = foodColor(float64(field[i]), fmax, theme)
	}

	for i := 0; i < n; i++ {
		if obstacles[i] {
			dst[i] = dim(dst[i], theme.ObstacleDim)
		}
	}

	for _, a := range v.Agents() {
		if a.X < 0 || a.X >= w || a.Y < 0 || a.Y >= h {
			continue
		}
		idx := a.X + a.Y*w
		if !obstacles[idx] {
			dst[idx] = theme.Agent
		}
	}
	return dst
}

// Rasterize draws the view at scale pixels per cell.
func Rasterize(v View, fmax float64, scale int, theme Theme) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	w, h := v.GridSize()
	cells := CellColors(v, fmax, theme, nil)

	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[x+y*w]
			for dy := 0; dy < scale; dy++ {
				row := img.PixOffset(x*scale, y*scale+dy)
				for dx := 0; dx < scale; dx++ {
					off := row + dx*4
					img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = c.R, c.G, c.B, c.A
				}
			}
		}
	}
	return img
}

// foodColor maps a concentration onto the empty/low/high ramp.
func foodColor(f, fmax float64, theme Theme) color.RGBA {
	if !(f > 0) {
		return theme.FoodEmpty
	}
	v := 0.0
	if fmax > 0 {
		v = clamp01(f / fmax)
	}
	if theme.Gamma > 0 && theme.Gamma != 1 {
		v = math.Pow(v, 1/theme.Gamma)
	}
	lo, hi := theme.FoodLow, theme.FoodHigh
	return color.RGBA{
		R: lerp8(lo.R, hi.R, v),
		G: lerp8(lo.G, hi.G, v),
		B: lerp8(lo.B, hi.B, v),
		A: 255,
	}
}

// lerp8 interpolates a channel and truncates toward zero.
func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func dim(c color.RGBA, k float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: 255,
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
