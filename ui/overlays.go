package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bloom/camera"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayAgents    OverlayID = "agents"
	OverlayGrid      OverlayID = "grid"
	OverlayInspector OverlayID = "inspector"
	OverlayPerf      OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // Keyboard key to toggle (0 = no key)
	KeyLabel string // Key label for display
	Default  bool   // Enabled at startup
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	reg.Register(OverlayDescriptor{ID: OverlayAgents, Name: "Bacteria", Key: rl.KeyA, KeyLabel: "A", Default: true})
	reg.Register(OverlayDescriptor{ID: OverlayGrid, Name: "Cell grid", Key: rl.KeyG, KeyLabel: "G"})
	reg.Register(OverlayDescriptor{ID: OverlayInspector, Name: "Cell inspector", Key: rl.KeyI, KeyLabel: "I", Default: true})
	reg.Register(OverlayDescriptor{ID: OverlayPerf, Name: "Tick timing", Key: rl.KeyF, KeyLabel: "F"})
	return reg
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}

// Legend returns "[A] Bacteria on" style lines for the help text.
func (r *OverlayRegistry) Legend() []string {
	lines := make([]string, 0, len(r.descriptors))
	for _, desc := range r.descriptors {
		state := "off"
		if r.enabled[desc.ID] {
			state = "on"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s %s", desc.KeyLabel, desc.Name, state))
	}
	return lines
}

// drawGrid draws the visible cell boundaries over the field view.
func drawGrid(cam *camera.Camera, w, h int) {
	c := rl.Color{R: 255, G: 255, B: 255, A: 18}
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	x0, y0 := max(int(minX), 0), max(int(minY), 0)
	x1, y1 := min(int(maxX)+1, w), min(int(maxY)+1, h)
	left, top := cam.WorldToScreen(float32(x0), float32(y0))
	right, bottom := cam.WorldToScreen(float32(x1), float32(y1))

	for x := x0; x <= x1; x++ {
		px, _ := cam.WorldToScreen(float32(x), 0)
		rl.DrawLine(int32(px), int32(top), int32(px), int32(bottom), c)
	}
	for y := y0; y <= y1; y++ {
		_, py := cam.WorldToScreen(0, float32(y))
		rl.DrawLine(int32(left), int32(py), int32(right), int32(py), c)
	}
}
