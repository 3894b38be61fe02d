package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bloom/game"
)

// InspectorData describes the cell under the cursor.
type InspectorData struct {
	X, Y      int
	Resource  float32
	Obstacle  bool
	Bacteria  int
	EnergySum float64
	EnergyMax float64
}

// InspectCell gathers the inspector data for cell (x, y).
func InspectCell(sim *game.Simulation, x, y int) InspectorData {
	w, _ := sim.GridSize()
	idx := x + y*w
	d := InspectorData{
		X:        x,
		Y:        y,
		Resource: sim.Field()[idx],
		Obstacle: sim.Obstacles()[idx],
	}
	for _, a := range sim.Agents() {
		if a.X != x || a.Y != y {
			continue
		}
		d.Bacteria++
		d.EnergySum += a.Energy
		d.EnergyMax = max(d.EnergyMax, a.Energy)
	}
	return d
}

// Inspector renders the cell inspection panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) {
	r := ins.renderer
	padding := r.Theme.Padding
	height := r.Theme.LineHeight*5 + padding*2

	r.DrawPanel(ins.x, ins.y, ins.width, height)
	x := ins.x + padding
	y := r.DrawSectionHeader(x, ins.y+padding, fmt.Sprintf("Cell (%d, %d)", data.X, data.Y))

	if data.Obstacle {
		rl.DrawText("obstacle", x, y, r.Theme.FontSize, rl.Orange)
		return
	}
	y = r.DrawLabelValue(x, y, "Resource", fmt.Sprintf("%.4f", data.Resource))
	y = r.DrawLabelValue(x, y, "Bacteria", fmt.Sprintf("%d", data.Bacteria))
	if data.Bacteria > 0 {
		y = r.DrawLabelValue(x, y, "Mean energy", fmt.Sprintf("%.3f", data.EnergySum/float64(data.Bacteria)))
		r.DrawLabelValue(x, y, "Max energy", fmt.Sprintf("%.3f", data.EnergyMax))
	}
}
