// Package ui is the raylib viewer. Control panels are descriptor-driven:
// knobs and stats are declared as metadata and rendered generically, so new
// parameters only need a descriptor.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bloom/game"
)

// KnobDescriptor defines a slider bound to a value on the runner.
type KnobDescriptor struct {
	ID     string // Unique identifier
	Label  string // Display label
	Format string // Printf format for the value
	Min    float32
	Max    float32
	Get    func(*game.Runner) float64
	Set    func(*game.Runner, float64)
}

// StatDescriptor defines one line of the stats panel.
type StatDescriptor struct {
	Label string
	Text  func(HUDData) string
	Bar   func(HUDData) float32 // Optional [0, 1] bar; nil draws text only
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 14, G: 18, B: 28, A: 240},
		PanelBorder:    rl.Color{R: 50, G: 64, B: 84, A: 255},
		SectionHeader:  rl.Color{R: 110, G: 195, B: 255, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		BarBg:          rl.Color{R: 40, G: 40, B: 48, A: 255},
		BarFill:        rl.Color{R: 170, G: 255, B: 190, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     96,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
