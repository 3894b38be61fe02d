package systems

import "github.com/pthm-cable/bloom/components"

// tryMove displaces the agent to a random Moore neighbor with probability
// moveRate. Destinations are clamped to the grid; obstacles block the move.
func tryMove(field *ResourceField, rng *RNG, pos *components.Position, moveRate float64) bool {
	if moveRate <= 0 {
		return false
	}
	if rng.Next() >= moveRate {
		return false
	}
	dx, dy := rng.MooreOffset()
	mx := clampInt(pos.X+dx, 0, field.W-1)
	my := clampInt(pos.Y+dy, 0, field.H-1)
	if field.obs[mx+my*field.W] {
		return false
	}
	pos.X, pos.Y = mx, my
	return true
}
