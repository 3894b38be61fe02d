package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bloom/game"
	"github.com/pthm-cable/bloom/telemetry"
)

// HUDData holds all the data needed to render the stats panel.
type HUDData struct {
	Stats  game.Stats
	EDiv   float64 // division threshold, scales the energy bar
	FMax   float64 // carrying capacity, scales the field bar
	Speed  int
	FPS    int32
	Paused bool
	Preset string
	Brush  string
}

// DefaultStats returns the stats panel layout.
func DefaultStats() []StatDescriptor {
	return []StatDescriptor{
		{Label: "Tick", Text: func(d HUDData) string { return fmt.Sprintf("%d", d.Stats.Tick) }},
		{Label: "Bacteria", Text: func(d HUDData) string { return fmt.Sprintf("%d", d.Stats.Agents) }},
		{
			Label: "Avg energy",
			Text:  func(d HUDData) string { return fmt.Sprintf("%.3f", d.Stats.MeanEnergy) },
			Bar: func(d HUDData) float32 {
				if d.EDiv <= 0 {
					return 0
				}
				return float32(d.Stats.MeanEnergy / d.EDiv)
			},
		},
		{
			Label: "Avg food",
			Text:  func(d HUDData) string { return fmt.Sprintf("%.3f", d.Stats.MeanField) },
			Bar: func(d HUDData) float32 {
				if d.FMax <= 0 {
					return 0
				}
				return float32(d.Stats.MeanField / d.FMax)
			},
		},
		{Label: "Births", Text: func(d HUDData) string { return fmt.Sprintf("%d", d.Stats.Births) }},
		{Label: "Deaths", Text: func(d HUDData) string { return fmt.Sprintf("%d", d.Stats.Deaths) }},
	}
}

// HUD renders the stats panel.
type HUD struct {
	renderer *Renderer
	stats    []StatDescriptor
	x, y     int32
	width    int32
}

// NewHUD creates a stats panel at (x, y).
func NewHUD(x, y, width int32) *HUD {
	return &HUD{
		renderer: NewRenderer(),
		stats:    DefaultStats(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the panel and returns the Y below it.
func (h *HUD) Draw(data HUDData) int32 {
	r := h.renderer
	padding := r.Theme.Padding
	height := int32(len(h.stats)+2)*r.Theme.LineHeight + padding*2 + 4

	r.DrawPanel(h.x, h.y, h.width, height)
	y := r.DrawSectionHeader(h.x+padding, h.y+padding, "Stats")
	y = r.DrawStats(h.x+padding, y, h.stats, data, h.width-padding*2)

	status := "Running"
	statusColor := rl.Green
	if data.Paused {
		status = "PAUSED"
		statusColor = rl.Yellow
	}
	preset := data.Preset
	if preset == "" {
		preset = "custom"
	}
	rl.DrawText(fmt.Sprintf("%s | %dx | %d fps | %s | brush %s", status, data.Speed, data.FPS, preset, data.Brush), h.x+padding, y, r.Theme.FontSize, statusColor)

	return h.y + height
}

// DrawControls renders the control legend lines at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, lines []string) {
	y := screenHeight - int32(len(lines))*16 - 4
	for _, line := range lines {
		rl.DrawText(line, 10, y, 12, rl.Gray)
		y += 16
	}
}

// PerfPanel renders tick timing from the perf collector.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, phases []string) {
	x, y := p.x, p.y

	rl.DrawText("Tick Performance", x, y, 14, rl.White)
	y += 18
	rl.DrawText(fmt.Sprintf("avg %s  max %s  %.0f ticks/s",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond),
		stats.TicksPerSecond), x, y, 12, rl.Yellow)
	y += 16

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 60 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-12s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct), x, y, 12, color)
		y += 14
	}
}
