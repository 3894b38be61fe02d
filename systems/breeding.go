package systems

import "github.com/pthm-cable/bloom/components"

// tryDivide splits an offspring off a parent that has reached the division
// threshold. The offspring cell is a random Moore neighbor clamped to the grid; an
// obstacle there, or too little parent energy, skips division for this tick.
// The RNG is only drawn when the threshold is met.
func tryDivide(field *ResourceField, rng *RNG, pos *components.Position, energy *components.Energy, p PopulationParams) (components.Agent, bool) {
	if energy.Value < p.EDiv {
		return components.Agent{}, false
	}
	dx, dy := rng.MooreOffset()
	nx := clampInt(pos.X+dx, 0, field.W-1)
	ny := clampInt(pos.Y+dy, 0, field.H-1)
	if energy.Value < p.ENew || field.obs[nx+ny*field.W] {
		return components.Agent{}, false
	}
	energy.Value -= p.ENew
	return components.Agent{X: nx, Y: ny, Energy: p.ENew}, true
}
