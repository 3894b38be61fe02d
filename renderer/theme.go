package renderer

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/bloom/config"
)

// ErrInvalidColor is returned by ParseHex for anything but #rgb or #rrggbb.
var ErrInvalidColor = errors.New("invalid hex color")

// Theme holds the palette used to rasterize the field and agents.
type Theme struct {
	FoodEmpty   color.RGBA // cells with no resource
	FoodLow     color.RGBA
	FoodHigh    color.RGBA // cells at carrying capacity
	Agent       color.RGBA
	Gamma       float64
	ObstacleDim float64 // channel multiplier for obstacle cells
}

// DefaultTheme returns the deep-sea palette.
func DefaultTheme() Theme {
	return Theme{
		FoodEmpty:   color.RGBA{R: 7, G: 10, B: 18, A: 255},
		FoodLow:     color.RGBA{R: 8, G: 30, B: 60, A: 255},
		FoodHigh:    color.RGBA{R: 110, G: 195, B: 255, A: 255},
		Agent:       color.RGBA{R: 170, G: 255, B: 190, A: 255},
		Gamma:       1.0,
		ObstacleDim: 0.3,
	}
}

// ParseHex parses "#rrggbb" (the leading # is optional) or the short "#rgb" form.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 7 && len(s) != 4 {
		return color.RGBA{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	for _, c := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return color.RGBA{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
		}
	}

	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// ThemeFromConfig builds a theme from the config section. Empty colors and
// zero numbers keep the default; malformed colors are an error.
func ThemeFromConfig(tc config.ThemeConfig) (Theme, error) {
	t := DefaultTheme()

	for _, f := range []struct {
		name string
		hex  string
		dst  *color.RGBA
	}{
		{"food_empty", tc.FoodEmpty, &t.FoodEmpty},
		{"food_low", tc.FoodLow, &t.FoodLow},
		{"food_high", tc.FoodHigh, &t.FoodHigh},
		{"agent", tc.Agent, &t.Agent},
	} {
		if f.hex == "" {
			continue
		}
		c, err := ParseHex(f.hex)
		if err != nil {
			return t, fmt.Errorf("theme.%s: %w", f.name, err)
		}
		*f.dst = c
	}

	if tc.Gamma > 0 {
		t.Gamma = tc.Gamma
	}
	if tc.ObstacleDim > 0 && tc.ObstacleDim <= 1 {
		t.ObstacleDim = tc.ObstacleDim
	}
	return t, nil
}
