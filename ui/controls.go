package ui

import (
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bloom/game"
)

// paramKnob binds a slider to one field of the live tick parameters.
func paramKnob(id, label, format string, lo, hi float32, field func(*game.Params) *float64) KnobDescriptor {
	return KnobDescriptor{
		ID:     id,
		Label:  label,
		Format: format,
		Min:    lo,
		Max:    hi,
		Get: func(r *game.Runner) float64 {
			p := r.Params()
			return *field(&p)
		},
		Set: func(r *game.Runner, v float64) {
			p := r.Params()
			*field(&p) = v
			r.SetParams(p)
		},
	}
}

// DefaultKnobs returns the tick parameter sliders.
func DefaultKnobs() []KnobDescriptor {
	return []KnobDescriptor{
		paramKnob("u_max", "Max uptake u_max", "%.2f", 0, 2, func(p *game.Params) *float64 { return &p.UMax }),
		paramKnob("k", "Half saturation K", "%.2f", 0.01, 1, func(p *game.Params) *float64 { return &p.K }),
		paramKnob("c_maint", "Maintenance c", "%.3f", 0, 0.5, func(p *game.Params) *float64 { return &p.CMaint }),
		paramKnob("y_e", "Yield Y_E", "%.2f", 0, 2, func(p *game.Params) *float64 { return &p.YieldE }),
		paramKnob("e_div", "Divide at E_div", "%.2f", 0.5, 6, func(p *game.Params) *float64 { return &p.EDiv }),
		paramKnob("e_new", "Daughter E_new", "%.2f", 0.1, 4, func(p *game.Params) *float64 { return &p.ENew }),
		paramKnob("d", "Diffusion D", "%.3f", 0, 0.25, func(p *game.Params) *float64 { return &p.D }),
		paramKnob("r", "Replenish r", "%.3f", 0, 0.1, func(p *game.Params) *float64 { return &p.R }),
		paramKnob("f_max", "Capacity Fmax", "%.2f", 0.1, 2, func(p *game.Params) *float64 { return &p.FMax }),
		paramKnob("delta", "Decay delta", "%.3f", 0, 0.1, func(p *game.Params) *float64 { return &p.Delta }),
		paramKnob("move_rate", "Move rate", "%.2f", 0, 1, func(p *game.Params) *float64 { return &p.MoveRate }),
	}
}

// ResetKnobs returns the sliders that take effect on the next reset.
func ResetKnobs() []KnobDescriptor {
	return []KnobDescriptor{
		{
			ID: "seed_noise", Label: "Seed noise", Format: "%.2f", Min: 0, Max: 1,
			Get: func(r *game.Runner) float64 { return r.ResetOptions().SeedNoise },
			Set: func(r *game.Runner, v float64) {
				o := r.ResetOptions()
				o.SeedNoise = v
				r.SetResetOptions(o)
			},
		},
		{
			ID: "initial_population", Label: "Initial bacteria", Format: "%.0f", Min: 0, Max: 2000,
			Get: func(r *game.Runner) float64 { return float64(r.ResetOptions().InitialPopulation) },
			Set: func(r *game.Runner, v float64) {
				o := r.ResetOptions()
				o.InitialPopulation = int(math.Round(v))
				r.SetResetOptions(o)
			},
		},
		{
			ID: "speed", Label: "Steps per frame", Format: "%.0f", Min: 1, Max: 50,
			Get: func(r *game.Runner) float64 { return float64(r.StepsPerUpdate()) },
			Set: func(r *game.Runner, v float64) { r.SetStepsPerUpdate(int(math.Round(v))) },
		},
	}
}

// ControlAction is a button press the viewer must act on.
type ControlAction int

const (
	ActionNone ControlAction = iota
	ActionTogglePause
	ActionRestart
	ActionSnapshot
	ActionScreenshot
	ActionClearObstacles
	ActionStep
)

// ControlsPanel renders the knob sliders, preset buttons and actions.
type ControlsPanel struct {
	renderer *Renderer
	knobs    []KnobDescriptor
	reset    []KnobDescriptor
	presets  []string
	x, y     int32
	width    int32
}

// NewControlsPanel creates a controls panel listing the given presets.
func NewControlsPanel(x, y, width int32, presets []string) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		knobs:    DefaultKnobs(),
		reset:    ResetKnobs(),
		presets:  presets,
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the panel, applies slider and preset changes to the runner,
// and returns the action button pressed this frame. preset is updated when a
// preset button is used and cleared when a knob is moved by hand.
func (c *ControlsPanel) Draw(run *game.Runner, preset *string) ControlAction {
	r := c.renderer
	padding := r.Theme.Padding
	inner := c.width - padding*2
	x := c.x + padding
	y := r.DrawSectionHeader(x, c.y+padding, "Parameters")

	for _, k := range c.knobs {
		if c.drawKnob(run, k, x, &y, inner) {
			*preset = ""
		}
	}

	y = r.DrawSectionHeader(x, y+4, "Reset")
	for _, k := range c.reset {
		c.drawKnob(run, k, x, &y, inner)
	}

	y = r.DrawSectionHeader(x, y+4, "Presets")
	btnW := (inner - 6) / 2
	for i, name := range c.presets {
		bx := x + int32(i%2)*(btnW+6)
		by := y + int32(i/2)*28
		if gui.Button(rl.Rectangle{X: float32(bx), Y: float32(by), Width: float32(btnW), Height: 24}, name) {
			if err := run.ApplyPreset(name); err == nil {
				*preset = name
			}
		}
	}
	y += int32((len(c.presets)+1)/2)*28 + 6

	action := ActionNone
	buttons := []struct {
		label  string
		action ControlAction
	}{
		{toggleText(run.Paused(), "Resume", "Pause"), ActionTogglePause},
		{"Step", ActionStep},
		{"Reset", ActionRestart},
		{"Snapshot", ActionSnapshot},
		{"Screenshot", ActionScreenshot},
		{"Clear walls", ActionClearObstacles},
	}
	for i, b := range buttons {
		bx := x + int32(i%2)*(btnW+6)
		by := y + int32(i/2)*28
		if gui.Button(rl.Rectangle{X: float32(bx), Y: float32(by), Width: float32(btnW), Height: 24}, b.label) {
			action = b.action
		}
	}
	return action
}

// drawKnob renders one slider and reports whether the user changed it.
func (c *ControlsPanel) drawKnob(run *game.Runner, k KnobDescriptor, x int32, y *int32, width int32) bool {
	cur := float32(k.Get(run))
	next, ny := c.renderer.DrawSlider(x, *y, k.Label, k.Format, cur, k.Min, k.Max, width)
	*y = ny
	if next == cur {
		return false
	}
	k.Set(run, float64(next))
	return true
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
