package main

import (
	"fmt"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/renderer"
	"github.com/pthm-cable/bloom/telemetry"
)

// halfBlock shows the upper grid row in the foreground and the lower one in
// the background, so each terminal cell covers two grid rows.
const halfBlock = '▀'

// stride returns how many grid cells one terminal column (and half row) spans
// so a gridW×gridH field fits into cols×rows terminal cells.
func stride(gridW, gridH, cols, rows int) int {
	if cols < 1 || rows < 1 {
		return 1
	}
	sx := (gridW + cols - 1) / cols
	sy := (gridH + 2*rows - 1) / (2 * rows)
	return max(sx, sy, 1)
}

func tcellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// drawField rasterizes v into the top rows of the screen and returns the
// color buffer for reuse.
func drawField(s tcell.Screen, v renderer.View, fmax float64, theme renderer.Theme, rows int, buf []color.RGBA) []color.RGBA {
	cols, _ := s.Size()
	w, h := v.GridSize()
	buf = renderer.CellColors(v, fmax, theme, buf)
	k := stride(w, h, cols, rows)
	empty := tcellColor(theme.FoodEmpty)

	for ty := 0; ty < rows; ty++ {
		top := 2 * ty * k
		if top >= h {
			break
		}
		bottom := top + k
		for tx := 0; tx < cols; tx++ {
			gx := tx * k
			if gx >= w {
				break
			}
			fg := tcellColor(buf[gx+top*w])
			bg := empty
			if bottom < h {
				bg = tcellColor(buf[gx+bottom*w])
			}
			s.SetContent(tx, ty, halfBlock, nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}
	return buf
}

// drawText writes a single line starting at (x, y), clipped to the screen.
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	cols, _ := s.Size()
	for _, r := range text {
		if x >= cols {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// snapshotView adapts a saved snapshot to the renderer.
type snapshotView struct {
	snap   *telemetry.Snapshot
	mask   []bool
	agents []components.Agent
}

func newSnapshotView(snap *telemetry.Snapshot) (*snapshotView, error) {
	mask, err := snap.ObstacleMask()
	if err != nil {
		return nil, fmt.Errorf("snapshot obstacles: %w", err)
	}
	agents := make([]components.Agent, len(snap.Agents))
	for i, a := range snap.Agents {
		agents[i] = components.Agent{X: a.X, Y: a.Y, Energy: a.Energy}
	}
	return &snapshotView{snap: snap, mask: mask, agents: agents}, nil
}

func (v *snapshotView) GridSize() (int, int)       { return v.snap.Width, v.snap.Height }
func (v *snapshotView) Field() []float32           { return v.snap.Field }
func (v *snapshotView) Obstacles() []bool          { return v.mask }
func (v *snapshotView) Agents() []components.Agent { return v.agents }

// fieldMax returns the largest concentration in the snapshot, used to scale
// the color ramp when the run's capacity is unknown.
func (v *snapshotView) fieldMax() float64 {
	var hi float32
	for _, f := range v.snap.Field {
		hi = max(hi, f)
	}
	return float64(hi)
}
