package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pthm-cable/bloom/config"
	"github.com/pthm-cable/bloom/game"
	"github.com/pthm-cable/bloom/renderer"
	"github.com/pthm-cable/bloom/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.String("seed", "", "Seed string (empty = use config)")
	preset := flag.String("preset", "", "Apply a named preset over the config params")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation ticks per update call (0 = use config)")
	pngPath := flag.String("png", "", "Headless: write the final frame to this PNG file")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *preset != "" {
		if err := cfg.ApplyPreset(*preset); err != nil {
			slog.Error("failed to apply preset", "error", err)
			os.Exit(1)
		}
	}

	theme, err := renderer.ThemeFromConfig(cfg.Theme)
	if err != nil {
		slog.Error("invalid theme", "error", err)
		os.Exit(1)
	}

	run, err := game.NewRunner(cfg, game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindow:    *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}
	defer run.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *headless {
		slog.Info("starting headless simulation",
			"run_id", run.RunID(),
			"seed", run.ResetOptions().Seed,
			"preset", cfg.Simulation.Preset,
			"max_ticks", *maxTicks,
			"steps_per_update", run.StepsPerUpdate(),
		)

		err := run.Run(ctx, *maxTicks)
		if *pngPath != "" {
			if perr := writeFrame(run, theme, *pngPath); perr != nil {
				slog.Error("failed to write frame", "error", perr)
			}
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	viewer := ui.NewViewer(run, theme, *outputDir)
	viewer.StopAt(*maxTicks)
	if err := viewer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("viewer failed", "error", err)
		os.Exit(1)
	}
}

// writeFrame rasterizes the current state at the configured pixel scale.
func writeFrame(run *game.Runner, theme renderer.Theme, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating frame dir: %w", err)
		}
	}
	sim := run.Sim()
	img := renderer.Rasterize(sim, run.Params().FMax, sim.PixelScale(), theme)
	if err := renderer.SavePNG(path, img); err != nil {
		return err
	}
	slog.Info("frame saved", "path", path, "tick", sim.TickCount())
	return nil
}
