// Package main provides CMA-ES optimization for bloom simulation parameters.
package main

import (
	"github.com/pthm-cable/bloom/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value

	field func(*config.Config) *float64
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Carrying capacity, diffusion and movement stay at their configured values:
// capacity only rescales the others, and diffusion/movement change the
// character of the run rather than its viability.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Uptake
			{Name: "u_max", Path: "params.u_max", Min: 0.2, Max: 2.0, Default: 1.0,
				field: func(c *config.Config) *float64 { return &c.Params.UMax }},
			{Name: "k", Path: "params.k", Min: 0.02, Max: 1.0, Default: 0.2,
				field: func(c *config.Config) *float64 { return &c.Params.K }},
			{Name: "y_e", Path: "params.y_e", Min: 0.3, Max: 1.5, Default: 1.0,
				field: func(c *config.Config) *float64 { return &c.Params.YieldE }},
			// Energy budget
			{Name: "c_maint", Path: "params.c_maint", Min: 0.01, Max: 0.4, Default: 0.10,
				field: func(c *config.Config) *float64 { return &c.Params.CMaint }},
			{Name: "e_div", Path: "params.e_div", Min: 1.5, Max: 6.0, Default: 3.0,
				field: func(c *config.Config) *float64 { return &c.Params.EDiv }},
			{Name: "e_new", Path: "params.e_new", Min: 0.5, Max: 3.0, Default: 1.5,
				field: func(c *config.Config) *float64 { return &c.Params.ENew }},
			// Field
			{Name: "r", Path: "params.r", Min: 0.001, Max: 0.05, Default: 0.01,
				field: func(c *config.Config) *float64 { return &c.Params.R }},
			{Name: "delta", Path: "params.delta", Min: 0, Max: 0.05, Default: 0,
				field: func(c *config.Config) *float64 { return &c.Params.Delta }},
			// Seeding
			{Name: "seed_noise", Path: "simulation.seed_noise", Min: 0, Max: 1.0, Default: 0.35,
				field: func(c *config.Config) *float64 { return &c.Simulation.SeedNoise }},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg. The preset name is
// cleared since the knobs no longer match any preset.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, spec := range pv.Specs {
		*spec.field(cfg) = clamped[i]
	}
	cfg.Simulation.Preset = ""
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = *spec.field(cfg)
	}
	return v
}
