package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/bloom/components"
)

// PopulationParams holds the per-tick agent knobs.
type PopulationParams struct {
	UMax     float64 // uptake rate limit
	K        float64 // half-saturation constant
	CMaint   float64 // maintenance cost per tick
	YieldE   float64 // energy gained per unit of uptake
	EDiv     float64 // division threshold
	ENew     float64 // energy handed to each offspring
	MoveRate float64 // per-tick movement probability (0 disables)
}

// UpdateResult reports the population events of one tick.
type UpdateResult struct {
	Births int
	Deaths int
}

// Population stores agents as ECS entities with a Position and an Energy.
// Storage order carries no meaning and changes when agents are removed.
type Population struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Energy]
	filter *ecs.Filter2[components.Position, components.Energy]

	count int

	// Per-tick scratch, reused across updates
	dead   []ecs.Entity
	births []components.Agent
}

// NewPopulation creates an empty population backed by its own ECS world.
func NewPopulation() *Population {
	world := ecs.NewWorld()
	return &Population{
		world:  world,
		mapper: ecs.NewMap2[components.Position, components.Energy](world),
		filter: ecs.NewFilter2[components.Position, components.Energy](world),
	}
}

// Spawn adds one agent.
func (p *Population) Spawn(x, y int, energy float64) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	e := components.Energy{Value: energy}
	p.count++
	return p.mapper.NewEntity(&pos, &e)
}

// Clear removes every agent.
func (p *Population) Clear() {
	var all []ecs.Entity
	query := p.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		p.world.RemoveEntity(e)
	}
	p.count = 0
}

// Count returns the number of live agents.
func (p *Population) Count() int {
	return p.count
}

// Update runs one tick of agent dynamics against the field. Each agent live at
// the start of the tick is visited once: it forages, pays maintenance, dies if
// its energy is no longer positive, and otherwise may divide and move. Removals
// and births are applied after the pass, so offspring are not visited until the
// next tick.
func (p *Population) Update(field *ResourceField, rng *RNG, params PopulationParams) UpdateResult {
	p.dead = p.dead[:0]
	p.births = p.births[:0]

	query := p.filter.Query()
	for query.Next() {
		pos, energy := query.Get()

		u := forage(field, pos, params)
		if !UpdateEnergy(energy, u, params) {
			p.dead = append(p.dead, query.Entity())
			continue
		}

		if child, ok := tryDivide(field, rng, pos, energy, params); ok {
			p.births = append(p.births, child)
		}

		tryMove(field, rng, pos, params.MoveRate)
	}

	// The query is closed once Next returns false; structural changes are safe now.
	for _, e := range p.dead {
		p.world.RemoveEntity(e)
	}
	p.count -= len(p.dead)

	for _, b := range p.births {
		p.Spawn(b.X, b.Y, b.Energy)
	}

	return UpdateResult{Births: len(p.births), Deaths: len(p.dead)}
}

// Agents returns a copy of every agent's state in storage order.
func (p *Population) Agents() []components.Agent {
	out := make([]components.Agent, 0, p.count)
	query := p.filter.Query()
	for query.Next() {
		pos, energy := query.Get()
		out = append(out, components.Agent{X: pos.X, Y: pos.Y, Energy: energy.Value})
	}
	return out
}

// Energies returns every agent's energy in storage order.
func (p *Population) Energies() []float64 {
	out := make([]float64, 0, p.count)
	query := p.filter.Query()
	for query.Next() {
		_, energy := query.Get()
		out = append(out, energy.Value)
	}
	return out
}

// MeanEnergy returns the average agent energy, or 0 for an empty population.
func (p *Population) MeanEnergy() float64 {
	if p.count == 0 {
		return 0
	}
	// Running mean so saturated energies cannot overflow a sum.
	var mean float64
	n := 0
	query := p.filter.Query()
	for query.Next() {
		_, energy := query.Get()
		n++
		mean += (energy.Value - mean) / float64(n)
	}
	return mean
}
