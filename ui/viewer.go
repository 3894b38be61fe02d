package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bloom/camera"
	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/game"
	"github.com/pthm-cable/bloom/renderer"
	"github.com/pthm-cable/bloom/telemetry"
)

const (
	hudWidth     = 250
	hudHeight    = 200
	minWinHeight = 780
	maxBrush     = 8
)

const (
	controlsLegend = "[Space] pause  [N] step  [R] reset  [,/.] speed  [1-9] preset  [LMB/RMB] paint/erase walls  [ [/] ] brush  [S] snapshot  [P] screenshot"
	cameraLegend   = "[Wheel] zoom  [MMB drag] pan  [Home] fit view"
	zoomStep       = 1.25
)

// Viewer is the interactive raylib front end around a Runner.
type Viewer struct {
	run   *game.Runner
	theme renderer.Theme

	cam       *camera.Camera
	field     *FieldTexture
	hud       *HUD
	controls  *ControlsPanel
	perf      *PerfPanel
	inspector *Inspector
	overlays  *OverlayRegistry

	preset   string
	brush    int
	outDir   string
	maxTicks uint64

	scale          int
	fieldW, fieldH int32
	screenW        int32
	screenH        int32
}

// NewViewer creates a viewer for run. Snapshots and screenshots go to outDir
// (the working directory when empty).
func NewViewer(run *game.Runner, theme renderer.Theme, outDir string) *Viewer {
	cfg := run.Config()
	w, h := run.Sim().GridSize()
	scale := run.Sim().PixelScale()
	fieldW, fieldH := int32(cfg.Derived.ScreenW), int32(cfg.Derived.ScreenH)
	panelW := int32(cfg.Screen.PanelWidth)
	screenH := max(fieldH+hudHeight+50, minWinHeight)

	return &Viewer{
		run:       run,
		theme:     theme,
		cam:       camera.New(float32(fieldW), float32(fieldH), float32(w), float32(h), float32(scale)),
		field:     NewFieldTexture(),
		hud:       NewHUD(0, fieldH+4, hudWidth),
		controls:  NewControlsPanel(fieldW+4, 0, panelW-4, cfg.Derived.PresetNames),
		perf:      NewPerfPanel(hudWidth*2+20, fieldH+10),
		inspector: NewInspector(hudWidth+6, fieldH+4, hudWidth),
		overlays:  NewOverlayRegistry(),
		preset:    cfg.Simulation.Preset,
		brush:     1,
		outDir:    outDir,
		scale:     scale,
		fieldW:    fieldW,
		fieldH:    fieldH,
		screenW:   fieldW + panelW,
		screenH:   screenH,
	}
}

// StopAt closes the viewer once the simulation reaches tick n (0 = never).
func (v *Viewer) StopAt(n uint64) {
	v.maxTicks = n
}

// Run opens the window and drives the runner until the window is closed or
// ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	rl.InitWindow(v.screenW, v.screenH, "bloom")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(v.run.Config().Screen.TargetFPS))
	defer v.field.Unload()

	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		v.handleInput()
		v.run.Update()
		v.draw()

		if v.maxTicks > 0 && v.run.Sim().TickCount() >= v.maxTicks {
			slog.Info("max ticks reached", "run_id", v.run.RunID(), "stats", v.run.Sim().Stats())
			break
		}
	}
	return nil
}

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.overlays.HandleKeys()

	if rl.IsKeyPressed(rl.KeySpace) {
		v.run.SetPaused(!v.run.Paused())
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.run.Restart()
	}
	if rl.IsKeyPressed(rl.KeyN) {
		v.act(ActionStep)
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		v.run.SetStepsPerUpdate(v.run.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.run.SetStepsPerUpdate(v.run.StepsPerUpdate() + 1)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) && v.brush > 1 {
		v.brush--
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) && v.brush < maxBrush {
		v.brush++
	}
	if rl.IsKeyPressed(rl.KeyS) {
		v.act(ActionSnapshot)
	}
	if rl.IsKeyPressed(rl.KeyP) {
		v.act(ActionScreenshot)
	}

	v.handleCamera()

	// Number keys pick presets in listed order
	names := v.run.Config().Derived.PresetNames
	for i := 0; i < len(names) && i < 9; i++ {
		if rl.IsKeyPressed(int32(rl.KeyOne) + int32(i)) {
			if err := v.run.ApplyPreset(names[i]); err == nil {
				v.preset = names[i]
			}
		}
	}

	v.paintObstacles()
}

// handleCamera zooms with the wheel and pans with a middle-button drag.
func (v *Viewer) handleCamera() {
	m := rl.GetMousePosition()
	overField := m.X >= 0 && m.Y >= 0 && int32(m.X) < v.fieldW && int32(m.Y) < v.fieldH

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && overField {
		factor := float32(zoomStep)
		if wheel < 0 {
			factor = 1 / factor
		}
		v.cam.ZoomAt(factor, m.X, m.Y)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		v.cam.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}

// paintObstacles draws (LMB) or erases (RMB) walls under the cursor.
func (v *Viewer) paintObstacles() {
	paint := rl.IsMouseButtonDown(rl.MouseButtonLeft)
	erase := rl.IsMouseButtonDown(rl.MouseButtonRight)
	if !paint && !erase {
		return
	}
	cx, cy, ok := v.cellUnderMouse()
	if !ok {
		return
	}
	half := v.brush / 2
	v.run.Sim().FillObstacleRect(cx-half, cy-half, v.brush, v.brush, paint)
}

// cellUnderMouse maps the cursor to a grid cell.
func (v *Viewer) cellUnderMouse() (int, int, bool) {
	m := rl.GetMousePosition()
	return v.cam.CellAt(m.X, m.Y)
}

// act performs a control action.
func (v *Viewer) act(a ControlAction) {
	switch a {
	case ActionTogglePause:
		v.run.SetPaused(!v.run.Paused())
	case ActionRestart:
		v.run.Restart()
	case ActionStep:
		v.run.Step()
	case ActionClearObstacles:
		w, h := v.run.Sim().GridSize()
		if err := v.run.Sim().SetObstacleMask(make([]bool, w*h)); err != nil {
			slog.Error("failed to clear obstacles", "error", err)
		}
	case ActionSnapshot:
		path, err := v.run.SaveSnapshot(v.dir("snapshots"))
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
			return
		}
		slog.Info("snapshot saved", "path", path)
	case ActionScreenshot:
		dir := v.dir("screenshots")
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("failed to create screenshot dir", "error", err)
			return
		}
		sim := v.run.Sim()
		path := filepath.Join(dir, fmt.Sprintf("frame_%d.png", sim.TickCount()))
		img := renderer.Rasterize(v.view(), v.run.Params().FMax, v.scale, v.theme)
		if err := renderer.SavePNG(path, img); err != nil {
			slog.Error("failed to save screenshot", "error", err)
			return
		}
		slog.Info("screenshot saved", "path", path)
	}
}

func (v *Viewer) dir(sub string) string {
	if v.outDir == "" {
		return sub
	}
	return filepath.Join(v.outDir, sub)
}

// fieldOnly hides agents from the rasterizer.
type fieldOnly struct {
	*game.Simulation
}

func (fieldOnly) Agents() []components.Agent { return nil }

// view returns what the field layer should draw.
func (v *Viewer) view() renderer.View {
	if v.overlays.IsEnabled(OverlayAgents) {
		return v.run.Sim()
	}
	return fieldOnly{v.run.Sim()}
}

// draw renders one frame.
func (v *Viewer) draw() {
	v.run.PerfCollector().RecordFrame()
	sim := v.run.Sim()
	params := v.run.Params()

	v.field.Update(v.view(), params.FMax, v.theme)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 7, G: 9, B: 14, A: 255})

	v.field.Draw(v.cam)
	w, h := sim.GridSize()
	if v.overlays.IsEnabled(OverlayGrid) && v.cam.Zoom >= 4 {
		drawGrid(v.cam, w, h)
	}
	if cx, cy, ok := v.cellUnderMouse(); ok {
		half := v.brush / 2
		sx, sy := v.cam.WorldToScreen(float32(cx-half), float32(cy-half))
		size := float32(v.brush) * v.cam.Zoom
		rl.DrawRectangleLinesEx(rl.Rectangle{X: sx, Y: sy, Width: size, Height: size}, 1, rl.Color{R: 255, G: 255, B: 255, A: 90})
		if v.overlays.IsEnabled(OverlayInspector) {
			v.inspector.Draw(InspectCell(sim, cx, cy))
		}
	}

	v.hud.Draw(HUDData{
		Stats:  sim.Stats(),
		EDiv:   params.EDiv,
		FMax:   params.FMax,
		Speed:  v.run.StepsPerUpdate(),
		FPS:    rl.GetFPS(),
		Paused: v.run.Paused(),
		Preset: v.preset,
		Brush:  fmt.Sprintf("%dx%d", v.brush, v.brush),
	})

	if v.overlays.IsEnabled(OverlayPerf) {
		v.perf.Draw(v.run.PerfCollector().Stats(), telemetry.Phases())
	}

	if a := v.controls.Draw(v.run, &v.preset); a != ActionNone {
		v.act(a)
	}

	v.hud.DrawControls(v.screenH, []string{controlsLegend, cameraLegend + "  " + strings.Join(v.overlays.Legend(), "  ")})
	rl.EndDrawing()
}
