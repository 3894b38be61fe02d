// Package game owns the simulation instance and the drivers that step it.
package game

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/bloom/components"
	"github.com/pthm-cable/bloom/systems"
	"github.com/pthm-cable/bloom/telemetry"
)

// ErrInvalidScale is returned by New for a non-positive pixel scale.
var ErrInvalidScale = errors.New("pixel scale must be positive")

// Simulation is one independent field-and-population instance. It owns its
// field buffers, population, RNG and counters; nothing is shared between
// instances.
type Simulation struct {
	field *systems.ResourceField
	pop   *systems.Population
	rng   *systems.RNG

	seed       string
	pixelScale int

	// Counters for the current reset epoch
	tick   uint64
	births uint64
	deaths uint64

	last systems.UpdateResult
}

// New creates a simulation with a zero field, no obstacles and no agents.
// Call Reset before the first Tick.
func New(width, height, pixelScale int) (*Simulation, error) {
	if pixelScale <= 0 {
		return nil, fmt.Errorf("pixel scale %d: %w", pixelScale, ErrInvalidScale)
	}
	field, err := systems.NewResourceField(width, height)
	if err != nil {
		return nil, err
	}
	return &Simulation{
		field:      field,
		pop:        systems.NewPopulation(),
		rng:        systems.NewRNG(""),
		pixelScale: pixelScale,
	}, nil
}

// Reset reseeds the RNG, zeroes the counters, reseeds the field and spawns the
// initial population at uniformly random free cells. The obstacle mask is kept.
func (s *Simulation) Reset(opts ResetOptions) {
	s.seed = opts.Seed
	s.rng.Seed(opts.Seed)
	s.tick, s.births, s.deaths = 0, 0, 0
	s.last = systems.UpdateResult{}

	capacity := opts.CarryingCapacity
	if !(capacity > 0) {
		capacity = 1.0
	}
	s.field.Clear()
	s.field.Seed(capacity, opts.SeedNoise, s.rng)

	s.pop.Clear()
	w, h := s.field.GridSize()
	energy := 0.5 * opts.DivisionThreshold
	free := s.freeCells()
	if len(free) == 0 {
		return
	}
	for i := 0; i < opts.InitialPopulation; i++ {
		x, y := s.spawnCell(w, h, free)
		s.pop.Spawn(x, y, energy)
	}
}

// spawnRetries bounds the redraws of a spawn cell that landed on an obstacle.
const spawnRetries = 16

// spawnCell draws (Intn(w), Intn(h)) and redraws while the cell is an obstacle.
// After spawnRetries misses it picks directly from the free cells. Without
// obstacles this is exactly two draws per agent.
func (s *Simulation) spawnCell(w, h int, free []int) (int, int) {
	for try := 0; try < spawnRetries; try++ {
		x := s.rng.Intn(w)
		y := s.rng.Intn(h)
		if !s.field.IsObstacle(x, y) {
			return x, y
		}
	}
	i := free[s.rng.Intn(len(free))]
	return i % w, i / w
}

// freeCells lists the indices of every cell not blocked by an obstacle.
func (s *Simulation) freeCells() []int {
	obs := s.field.Obstacles()
	free := make([]int, 0, len(obs))
	for i, blocked := range obs {
		if !blocked {
			free = append(free, i)
		}
	}
	return free
}

// Tick advances one step: agents first, then the field.
func (s *Simulation) Tick(p Params) {
	s.advance(p, nil)
}

// advance runs one tick, timing its phases when perf is non-nil.
func (s *Simulation) advance(p Params, perf *telemetry.PerfCollector) {
	if perf != nil {
		perf.StartPhase(telemetry.PhasePopulation)
	}
	s.last = s.pop.Update(s.field, s.rng, p.population())
	s.births += uint64(s.last.Births)
	s.deaths += uint64(s.last.Deaths)

	if perf != nil {
		perf.StartPhase(telemetry.PhaseField)
	}
	s.field.Step(p.D, p.R, p.FMax, p.Delta)
	s.tick++
}

// SetObstacle marks or clears one obstacle cell.
func (s *Simulation) SetObstacle(x, y int, blocked bool) error {
	return s.field.SetObstacle(x, y, blocked)
}

// SetObstacleMask replaces the obstacle mask.
func (s *Simulation) SetObstacleMask(mask []bool) error {
	return s.field.SetObstacleMask(mask)
}

// FillObstacleRect sets a rectangle of obstacle cells, clipped to the grid.
func (s *Simulation) FillObstacleRect(x, y, w, h int, blocked bool) int {
	return s.field.FillObstacleRect(x, y, w, h, blocked)
}

// Field returns the current concentration buffer. It is only valid until the
// next Tick.
func (s *Simulation) Field() []float32 {
	return s.field.Values()
}

// Obstacles returns the obstacle mask.
func (s *Simulation) Obstacles() []bool {
	return s.field.Obstacles()
}

// Agents returns a copy of every live agent.
func (s *Simulation) Agents() []components.Agent {
	return s.pop.Agents()
}

// Energies returns every live agent's energy.
func (s *Simulation) Energies() []float64 {
	return s.pop.Energies()
}

// GridSize returns the field dimensions.
func (s *Simulation) GridSize() (int, int) {
	return s.field.GridSize()
}

// PixelScale returns the display pixels per cell.
func (s *Simulation) PixelScale() int {
	return s.pixelScale
}

// Seed returns the seed string of the current epoch.
func (s *Simulation) Seed() string {
	return s.seed
}

// RNGState returns the generator state at the current tick.
func (s *Simulation) RNGState() uint32 {
	return s.rng.State()
}

// AgentCount returns the live population size without computing the full
// stats.
func (s *Simulation) AgentCount() int {
	return s.pop.Count()
}

// TickCount returns the ticks run since the last Reset.
func (s *Simulation) TickCount() uint64 {
	return s.tick
}

// LastUpdate returns the births and deaths of the most recent tick.
func (s *Simulation) LastUpdate() systems.UpdateResult {
	return s.last
}

// FieldRange returns the minimum and maximum concentration.
func (s *Simulation) FieldRange() (lo, hi float32) {
	return s.field.Range()
}

// FieldMass returns the summed concentration.
func (s *Simulation) FieldMass() float64 {
	return float64(s.field.TotalMass())
}
