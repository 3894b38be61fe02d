// Package config provides configuration loading and access for the simulation
// drivers. The engine itself never reads it; drivers convert it into per-tick
// parameter bundles.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrUnknownPreset is returned by Preset for names not in the presets table.
var ErrUnknownPreset = errors.New("unknown preset")

// Config holds all configuration parameters.
type Config struct {
	Grid       GridConfig              `yaml:"grid"`
	Screen     ScreenConfig            `yaml:"screen"`
	Simulation SimulationConfig        `yaml:"simulation"`
	Params     ParamsConfig            `yaml:"params"`
	Presets    map[string]PresetConfig `yaml:"presets"`
	Obstacles  []RectConfig            `yaml:"obstacles"`
	Theme      ThemeConfig             `yaml:"theme"`
	Telemetry  TelemetryConfig         `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig fixes the field resolution. Changing it means building a new
// simulation.
type GridConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	PixelScale int `yaml:"pixel_scale"`
}

// ScreenConfig holds display settings for the viewers.
type ScreenConfig struct {
	TargetFPS  int `yaml:"target_fps"`
	PanelWidth int `yaml:"panel_width"` // Control panel to the right of the field view
}

// SimulationConfig holds reset-time settings.
type SimulationConfig struct {
	Seed              string  `yaml:"seed"`
	InitialPopulation int     `yaml:"initial_population"`
	SeedNoise         float64 `yaml:"seed_noise"`
	StepsPerUpdate    int     `yaml:"steps_per_update"` // Ticks per driver update (throughput knob)
	Preset            string  `yaml:"preset"`           // Applied over params when non-empty
}

// ParamsConfig is the per-tick knob set.
type ParamsConfig struct {
	UMax     float64 `yaml:"u_max"`     // Uptake rate limit
	K        float64 `yaml:"k"`         // Half-saturation constant
	CMaint   float64 `yaml:"c_maint"`   // Maintenance cost per tick
	YieldE   float64 `yaml:"y_e"`       // Energy yield per unit uptake
	EDiv     float64 `yaml:"e_div"`     // Division threshold
	ENew     float64 `yaml:"e_new"`     // Offspring energy
	D        float64 `yaml:"d"`         // Diffusion coefficient
	R        float64 `yaml:"r"`         // Replenish rate toward f_max
	FMax     float64 `yaml:"f_max"`     // Carrying capacity
	Delta    float64 `yaml:"delta"`     // Decay fraction per tick
	MoveRate float64 `yaml:"move_rate"` // Movement probability per tick (0 = sessile)
}

// PresetConfig is a named parameter set with its matching seed noise.
type PresetConfig struct {
	Params    ParamsConfig `yaml:"params"`
	SeedNoise float64      `yaml:"seed_noise"`
}

// RectConfig is an obstacle rectangle in grid cells.
type RectConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// ThemeConfig holds renderer colors as #rrggbb strings.
type ThemeConfig struct {
	FoodEmpty   string  `yaml:"food_empty"`
	FoodLow     string  `yaml:"food_low"`
	FoodHigh    string  `yaml:"food_high"`
	Agent       string  `yaml:"agent"`
	Gamma       float64 `yaml:"gamma"`
	ObstacleDim float64 `yaml:"obstacle_dim"` // Brightness multiplier applied to obstacle cells
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW     int      // Grid width × pixel scale
	ScreenH     int      // Grid height × pixel scale
	PresetNames []string // Sorted preset names
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if cfg.Simulation.Preset != "" {
		if err := cfg.ApplyPreset(cfg.Simulation.Preset); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations the engine cannot be built from. The engine
// does not check knob signs itself, so negative knobs are caught here.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid %dx%d: dimensions must be positive", c.Grid.Width, c.Grid.Height)
	}
	if c.Grid.PixelScale <= 0 {
		return fmt.Errorf("grid pixel_scale %d: must be positive", c.Grid.PixelScale)
	}
	if c.Simulation.InitialPopulation < 0 {
		return fmt.Errorf("initial_population %d: must not be negative", c.Simulation.InitialPopulation)
	}
	if c.Telemetry.StatsWindow <= 0 {
		return fmt.Errorf("telemetry stats_window %d: must be positive", c.Telemetry.StatsWindow)
	}
	return c.Params.Validate()
}

// Validate rejects negative knobs.
func (p ParamsConfig) Validate() error {
	knobs := []struct {
		name string
		v    float64
	}{
		{"u_max", p.UMax}, {"k", p.K}, {"c_maint", p.CMaint}, {"y_e", p.YieldE},
		{"e_div", p.EDiv}, {"e_new", p.ENew}, {"d", p.D}, {"r", p.R},
		{"f_max", p.FMax}, {"delta", p.Delta}, {"move_rate", p.MoveRate},
	}
	for _, k := range knobs {
		if k.v < 0 {
			return fmt.Errorf("param %s = %g: must not be negative", k.name, k.v)
		}
	}
	return nil
}

// Preset returns the named preset.
func (c *Config) Preset(name string) (PresetConfig, error) {
	p, ok := c.Presets[name]
	if !ok {
		return PresetConfig{}, fmt.Errorf("preset %q: %w", name, ErrUnknownPreset)
	}
	return p, nil
}

// ApplyPreset copies the named preset's params and seed noise into the config.
func (c *Config) ApplyPreset(name string) error {
	p, err := c.Preset(name)
	if err != nil {
		return err
	}
	c.Params = p.Params
	c.Simulation.SeedNoise = p.SeedNoise
	c.Simulation.Preset = name
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW = c.Grid.Width * c.Grid.PixelScale
	c.Derived.ScreenH = c.Grid.Height * c.Grid.PixelScale

	if c.Simulation.StepsPerUpdate < 1 {
		c.Simulation.StepsPerUpdate = 1
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 60
	}

	c.Derived.PresetNames = make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		c.Derived.PresetNames = append(c.Derived.PresetNames, name)
	}
	sort.Strings(c.Derived.PresetNames)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
