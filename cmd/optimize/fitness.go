package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/game"
	"github.com/pthm-cable/bloom/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    uint64
	seeds       []string
	baseConfig  *config.Config
	statsWindow int

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks uint64, seeds []string, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 200,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A population below minViablePop for extinctionGraceTicks consecutive ticks
// counts as functionally extinct.
const (
	minViablePop         = 5
	extinctionGraceTicks = 300
	warmupTicks          = 100 // initial die-off is not held against a run
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks uint64                  // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	eDiv          float64
	cells         int
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival ticks: longer survival = lower (better) fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Seeds are independent simulations; run them in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s string) {
			defer wg.Done()
			result, err := fe.runSimulation(x, s)
			if err != nil {
				// Unbuildable config: worst possible survival
				results[idx] = seedResult{}
				return
			}
			quality := computeQuality(result)
			results[idx] = seedResult{
				fitness: computeFitness(result.survivalTicks, quality),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until functional extinction
// or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed string) (*runResult, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{
		eDiv:  cfg.Params.EDiv,
		cells: cfg.Grid.Width * cfg.Grid.Height,
	}

	run, err := game.NewRunner(cfg, game.Options{
		RunID:          "opt-" + seed,
		Seed:           seed,
		StatsWindow:    fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer run.Close()

	sim := run.Sim()
	var belowTicks int
	for sim.TickCount() < fe.maxTicks {
		run.Update()

		tick := sim.TickCount()
		n := sim.AgentCount()
		if n == 0 {
			result.survivalTicks = tick
			return result, nil
		}
		if tick < warmupTicks {
			continue
		}

		if n < minViablePop {
			belowTicks++
		} else {
			belowTicks = 0
		}
		if belowTicks >= extinctionGraceTicks {
			result.survivalTicks = tick
			return result, nil
		}
	}

	result.survivalTicks = fe.maxTicks
	return result, nil
}

// copyConfig returns a copy of the base config that ApplyToConfig may edit.
// Presets and obstacles are shared; runners only read them.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// configs with similar survival.
func computeFitness(survivalTicks uint64, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.40
	qualityWeightEnergy    = 0.30
	qualityWeightOccupancy = 0.30

	qualityWarmupWindows = 3 // skip first N windows (warmup)
	qualityMinPop        = minViablePop

	targetEnergyFrac = 0.5  // median energy as a fraction of the division threshold
	targetDensity    = 0.05 // agents per cell at which occupancy scores ~0.63
)

// computeQuality computes population quality ∈ [0, 1] from window stats.
func computeQuality(r *runResult) float64 {
	if len(r.windowStats) <= qualityWarmupWindows {
		return 0
	}
	valid := r.windowStats[qualityWarmupWindows:]

	counts := make([]float64, 0, len(valid))
	var energySum, occupancySum float64

	for _, w := range valid {
		if w.Agents < qualityMinPop {
			continue
		}
		counts = append(counts, float64(w.Agents))

		// Healthy cells sit between birth and division
		if r.eDiv > 0 {
			frac := w.EnergyP50 / r.eDiv
			energySum += math.Exp(-math.Pow((frac-targetEnergyFrac)/0.25, 2))
		}

		if r.cells > 0 {
			density := float64(w.Agents) / float64(r.cells)
			occupancySum += 1 - math.Exp(-density/targetDensity)
		}
	}

	if len(counts) == 0 {
		return 0
	}
	n := float64(len(counts))

	stabilityScore := 0.0
	if len(counts) >= 2 {
		c := cv(counts)
		stabilityScore = math.Exp(-c * c)
	}

	quality := qualityWeightStability*stabilityScore +
		qualityWeightEnergy*energySum/n +
		qualityWeightOccupancy*occupancySum/n

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
