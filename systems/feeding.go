package systems

import "github.com/pthm-cable/bloom/components"

// uptakeEpsilon keeps the Monod denominator positive when f = K = 0.
const uptakeEpsilon = 1e-9

// Uptake returns the Monod-style consumption for local concentration f:
// uMax·f/(K+f+ε), never more than f itself.
func Uptake(f, uMax, k float64) float64 {
	u := uMax * f / (k + f + uptakeEpsilon)
	if u > f {
		u = f
	}
	return u
}

// forage consumes resource at the agent's cell and returns the amount taken.
// The depletion is written straight into the current buffer, so agents examined
// later in the same pass see the reduced stock. Obstacle cells are never a food
// source.
func forage(field *ResourceField, pos *components.Position, p PopulationParams) float64 {
	i := pos.Index(field.W)
	if field.obs[i] {
		return 0
	}
	f := field.cell(i)
	u := Uptake(f, p.UMax, p.K)
	field.setCell(i, f-u)
	return u
}
