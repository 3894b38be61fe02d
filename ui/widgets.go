package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a labelled progress bar for a [0, 1] value with its text.
func (r *Renderer) DrawBar(x, y int32, label, text string, value float32, width int32) int32 {
	value = clampUnit(value)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 60

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(text, barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight
}

// DrawSlider draws a labelled raygui slider and returns the new value and Y.
func (r *Renderer) DrawSlider(x, y int32, label, format string, value, lo, hi float32, width int32) (float32, int32) {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.FontSize + 2

	sliderW := width - 56
	next := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(sliderW), Height: 14},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), x+sliderW+6, y+1, r.Theme.FontSize, r.Theme.ValueColor)

	return next, y + 20
}

// DrawStats renders stat descriptors against data.
func (r *Renderer) DrawStats(x, y int32, stats []StatDescriptor, data HUDData, width int32) int32 {
	for _, sd := range stats {
		text := sd.Text(data)
		if sd.Bar != nil {
			y = r.DrawBar(x, y, sd.Label, text, sd.Bar(data), width)
			continue
		}
		y = r.DrawLabelValue(x, y, sd.Label, text)
	}
	return y + 4
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
