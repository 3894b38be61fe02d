package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	RunID           string `csv:"run_id"`
	WindowStartTick uint64 `csv:"-"`
	WindowEndTick   uint64 `csv:"window_end"`

	// Population at window end
	Agents int `csv:"agents"`

	// Events during window
	Births int `csv:"births"`
	Deaths int `csv:"deaths"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyStd  float64 `csv:"energy_std"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Resource field (sampled at window end)
	FieldMean float64 `csv:"field_mean"`
	FieldMin  float64 `csv:"field_min"`
	FieldMax  float64 `csv:"field_max"`
	FieldMass float64 `csv:"field_mass"` // Summed concentration over all cells

	// Mean concentration under live agents
	ResourceAtAgents float64 `csv:"resource_util"`

	// Energy held by the population
	TotalEnergy float64 `csv:"total_energy"`
}

// FieldSample holds field aggregates taken at window end.
type FieldSample struct {
	Mean, Min, Max, Mass float64
	AtAgents             float64
}

// Percentile returns the p-th empirical quantile of a sorted slice: the
// smallest value whose cumulative share reaches p. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeEnergyStats calculates mean, standard deviation and percentiles.
func ComputeEnergyStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Int("agents", s.Agents),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_std", s.EnergyStd),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("field_mean", s.FieldMean),
		slog.Float64("field_min", s.FieldMin),
		slog.Float64("field_max", s.FieldMax),
		slog.Float64("field_mass", s.FieldMass),
		slog.Float64("resource_util", s.ResourceAtAgents),
		slog.Float64("total_energy", s.TotalEnergy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
