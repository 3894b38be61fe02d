package systems

import (
	"math"

	"github.com/pthm-cable/bloom/components"
)

// UpdateEnergy credits yield·uptake and charges maintenance.
// Energy saturates at math.MaxFloat64.
// Returns false when the agent has died (energy ≤ 0).
func UpdateEnergy(energy *components.Energy, uptake float64, p PopulationParams) bool {
	energy.Value += p.YieldE*uptake - p.CMaint
	if energy.Value > math.MaxFloat64 {
		energy.Value = math.MaxFloat64
	}
	return energy.Value > 0
}
