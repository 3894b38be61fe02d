package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/telemetry"
)

// Options configures a Runner.
type Options struct {
	RunID          string // generated when empty
	Seed           string // overrides the config seed when non-empty
	LogStats       bool
	StatsWindow    int // ticks per stats window (0 = use config)
	SnapshotDir    string
	OutputDir      string
	StepsPerUpdate int // 0 = use config

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Runner drives a Simulation from configuration: it applies obstacle
// layouts, steps ticks in batches, and routes windowed telemetry to logs and
// CSV output. It is the shared driver behind the headless loop and the viewers.
type Runner struct {
	cfg   *config.Config
	sim   *Simulation
	runID string

	params     Params
	resetOpts  ResetOptions
	stepsPerUp int
	paused     bool

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	snapshotDir      string
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewRunner builds a simulation from cfg, paints the configured obstacles and
// performs the initial Reset.
func NewRunner(cfg *config.Config, opts Options) (*Runner, error) {
	sim, err := New(cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.PixelScale)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	for _, rect := range cfg.Obstacles {
		sim.FillObstacleRect(rect.X, rect.Y, rect.W, rect.H, true)
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		window = opts.StatsWindow
	}
	steps := cfg.Simulation.StepsPerUpdate
	if opts.StepsPerUpdate > 0 {
		steps = opts.StepsPerUpdate
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	snapshotDir := opts.SnapshotDir
	if snapshotDir == "" {
		snapshotDir = om.SnapshotDir()
	}

	r := &Runner{
		cfg:              cfg,
		sim:              sim,
		runID:            runID,
		params:           ParamsFromConfig(cfg.Params),
		resetOpts:        ResetOptionsFromConfig(cfg),
		stepsPerUp:       max(steps, 1),
		collector:        telemetry.NewCollector(window),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		outputManager:    om,
		snapshotDir:      snapshotDir,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}
	if opts.Seed != "" {
		r.resetOpts.Seed = opts.Seed
	}

	r.Restart()
	return r, nil
}

// Restart resets the simulation with the current reset options. Division
// threshold and carrying capacity follow the live parameters.
func (r *Runner) Restart() {
	r.resetOpts.DivisionThreshold = r.params.EDiv
	r.resetOpts.CarryingCapacity = r.params.FMax
	r.sim.Reset(r.resetOpts)
	r.collector.Reset(0)
	r.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	slog.Info("simulation reset",
		"run_id", r.runID,
		"seed", r.resetOpts.Seed,
		"initial_population", r.resetOpts.InitialPopulation,
		"seed_noise", r.resetOpts.SeedNoise,
	)
}

// ApplyPreset switches to a named preset: its knobs take effect immediately
// and its seed noise is used from the next Restart.
func (r *Runner) ApplyPreset(name string) error {
	p, err := r.cfg.Preset(name)
	if err != nil {
		return err
	}
	r.params = ParamsFromConfig(p.Params)
	r.resetOpts.SeedNoise = p.SeedNoise
	slog.Info("preset applied", "run_id", r.runID, "preset", name)
	return nil
}

// Update runs one batch of StepsPerUpdate ticks unless paused.
func (r *Runner) Update() {
	if r.paused {
		return
	}
	for i := 0; i < r.stepsPerUp; i++ {
		r.step()
	}
}

// Step runs a single tick, paused or not.
func (r *Runner) Step() {
	r.step()
}

// step runs a single tick with timing and telemetry.
func (r *Runner) step() {
	r.perfCollector.StartTick()
	r.sim.advance(r.params, r.perfCollector)

	last := r.sim.LastUpdate()
	r.collector.Record(last.Births, last.Deaths)

	r.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	r.flushTelemetry()
	r.perfCollector.EndTick()
}

// Run steps until maxTicks is reached (0 = unlimited) or ctx is cancelled.
// Cancellation is observed between update batches, never inside a tick.
func (r *Runner) Run(ctx context.Context, maxTicks uint64) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("run cancelled", "run_id", r.runID, "tick", r.sim.TickCount())
			return ctx.Err()
		default:
		}

		r.Update()

		if maxTicks > 0 && r.sim.TickCount() >= maxTicks {
			slog.Info("max ticks reached", "run_id", r.runID, "stats", r.sim.Stats())
			return nil
		}
	}
}

// Sim returns the driven simulation.
func (r *Runner) Sim() *Simulation {
	return r.sim
}

// Config returns the configuration the runner was built from.
func (r *Runner) Config() *config.Config {
	return r.cfg
}

// RunID returns the identifier tagging this run's logs and output.
func (r *Runner) RunID() string {
	return r.runID
}

// Params returns the live knob bundle.
func (r *Runner) Params() Params {
	return r.params
}

// SetParams replaces the live knob bundle from the next tick.
func (r *Runner) SetParams(p Params) {
	r.params = p
}

// ResetOptions returns the options used by Restart.
func (r *Runner) ResetOptions() ResetOptions {
	return r.resetOpts
}

// SetResetOptions replaces the options used by the next Restart.
func (r *Runner) SetResetOptions(opts ResetOptions) {
	r.resetOpts = opts
}

// StepsPerUpdate returns the ticks run per Update.
func (r *Runner) StepsPerUpdate() int {
	return r.stepsPerUp
}

// SetStepsPerUpdate sets the ticks run per Update (minimum 1).
func (r *Runner) SetStepsPerUpdate(n int) {
	r.stepsPerUp = max(n, 1)
}

// Paused reports whether Update is suspended.
func (r *Runner) Paused() bool {
	return r.paused
}

// SetPaused suspends or resumes Update.
func (r *Runner) SetPaused(p bool) {
	r.paused = p
}

// PerfCollector returns the tick timing collector.
func (r *Runner) PerfCollector() *telemetry.PerfCollector {
	return r.perfCollector
}

// Close flushes and closes run output.
func (r *Runner) Close() error {
	return r.outputManager.Close()
}
