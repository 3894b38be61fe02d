package game

import (
	"log/slog"

	"github.com/pthm-cable/bloom/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (r *Runner) flushTelemetry() {
	tick := r.sim.tick
	if !r.collector.ShouldFlush(tick) {
		return
	}

	stats := r.collector.Flush(tick, r.sim.Energies(), r.sim.fieldSample())
	stats.RunID = r.runID
	perfStats := r.perfCollector.Stats()

	if r.statsCallback != nil {
		r.statsCallback(stats)
	}

	if r.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if r.outputManager != nil {
		if err := r.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := r.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range r.bookmarkDetector.Check(stats) {
		if r.logStats {
			bm.LogBookmark()
		}
		if r.outputManager != nil {
			if err := r.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if r.snapshotDir != "" {
			r.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the current state to the snapshot directory.
func (r *Runner) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := r.sim.Snapshot()
	snapshot.RunID = r.runID
	snapshot.Bookmark = bookmark

	path, err := telemetry.SaveSnapshot(snapshot, r.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", snapshot.Tick)
}

// SaveSnapshot writes the current state without a bookmark and returns its path.
func (r *Runner) SaveSnapshot(dir string) (string, error) {
	snapshot := r.sim.Snapshot()
	snapshot.RunID = r.runID
	return telemetry.SaveSnapshot(snapshot, dir)
}
