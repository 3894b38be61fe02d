package ui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bloom/camera"
	"github.com/pthm-cable/bloom/renderer"
)

// FieldTexture keeps a one-texel-per-cell GPU texture of the rasterized view
// and draws it scaled up with nearest-neighbour filtering.
type FieldTexture struct {
	tex        rl.Texture2D
	texW, texH int
	pixels     []color.RGBA

	initialized bool
}

// NewFieldTexture creates an uninitialized texture. Init runs lazily on the
// first Update, which must happen after the raylib window exists.
func NewFieldTexture() *FieldTexture {
	return &FieldTexture{}
}

// Init allocates the GPU texture for a w×h grid.
func (ft *FieldTexture) Init(w, h int) {
	if ft.initialized {
		return
	}
	ft.texW = w
	ft.texH = h

	img := rl.GenImageColor(w, h, rl.Black)
	ft.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(ft.tex, rl.FilterPoint)
	rl.UnloadImage(img)

	ft.initialized = true
}

// Update rasterizes the view and uploads it.
func (ft *FieldTexture) Update(v renderer.View, fmax float64, theme renderer.Theme) {
	w, h := v.GridSize()
	if ft.initialized && (w != ft.texW || h != ft.texH) {
		ft.Unload()
	}
	if !ft.initialized {
		ft.Init(w, h)
	}
	ft.pixels = renderer.CellColors(v, fmax, theme, ft.pixels)
	rl.UpdateTexture(ft.tex, ft.pixels)
}

// Draw renders the texture through cam, clipped to its viewport.
func (ft *FieldTexture) Draw(cam *camera.Camera) {
	if !ft.initialized {
		return
	}
	x0, y0 := cam.WorldToScreen(0, 0)
	x1, y1 := cam.WorldToScreen(float32(ft.texW), float32(ft.texH))
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(ft.texW), Height: float32(ft.texH)}
	dst := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}

	rl.BeginScissorMode(0, 0, int32(cam.ViewportW), int32(cam.ViewportH))
	rl.DrawTexturePro(ft.tex, src, dst, rl.Vector2{}, 0, rl.White)
	rl.EndScissorMode()
}

// Unload frees GPU resources.
func (ft *FieldTexture) Unload() {
	if !ft.initialized {
		return
	}
	rl.UnloadTexture(ft.tex)
	ft.initialized = false
}
