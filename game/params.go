package game

import (
	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/systems"
)

// Params is the per-tick knob bundle. Any value may change between ticks.
type Params struct {
	UMax     float64 // uptake rate limit
	K        float64 // half-saturation constant
	CMaint   float64 // maintenance cost per tick
	YieldE   float64 // energy per unit of uptake
	EDiv     float64 // division threshold
	ENew     float64 // offspring energy
	D        float64 // diffusion coefficient
	R        float64 // replenish rate
	FMax     float64 // carrying capacity
	Delta    float64 // decay fraction
	MoveRate float64 // movement probability (0 = sessile)
}

// population extracts the agent knobs.
func (p Params) population() systems.PopulationParams {
	return systems.PopulationParams{
		UMax:     p.UMax,
		K:        p.K,
		CMaint:   p.CMaint,
		YieldE:   p.YieldE,
		EDiv:     p.EDiv,
		ENew:     p.ENew,
		MoveRate: p.MoveRate,
	}
}

// ParamsFromConfig converts the config knob set.
func ParamsFromConfig(pc config.ParamsConfig) Params {
	return Params{
		UMax:     pc.UMax,
		K:        pc.K,
		CMaint:   pc.CMaint,
		YieldE:   pc.YieldE,
		EDiv:     pc.EDiv,
		ENew:     pc.ENew,
		D:        pc.D,
		R:        pc.R,
		FMax:     pc.FMax,
		Delta:    pc.Delta,
		MoveRate: pc.MoveRate,
	}
}

// Config returns the knob set in config form.
func (p Params) Config() config.ParamsConfig {
	return config.ParamsConfig{
		UMax:     p.UMax,
		K:        p.K,
		CMaint:   p.CMaint,
		YieldE:   p.YieldE,
		EDiv:     p.EDiv,
		ENew:     p.ENew,
		D:        p.D,
		R:        p.R,
		FMax:     p.FMax,
		Delta:    p.Delta,
		MoveRate: p.MoveRate,
	}
}

// ResetOptions configures a Reset.
type ResetOptions struct {
	Seed              string
	InitialPopulation int
	SeedNoise         float64 // noise amplitude as a fraction of carrying capacity
	DivisionThreshold float64 // initial agents start with half of it
	CarryingCapacity  float64 // field seeding scale; 1.0 when not positive
}

// ResetOptionsFromConfig builds the reset options a driver uses at startup.
func ResetOptionsFromConfig(cfg *config.Config) ResetOptions {
	return ResetOptions{
		Seed:              cfg.Simulation.Seed,
		InitialPopulation: cfg.Simulation.InitialPopulation,
		SeedNoise:         cfg.Simulation.SeedNoise,
		DivisionThreshold: cfg.Params.EDiv,
		CarryingCapacity:  cfg.Params.FMax,
	}
}
