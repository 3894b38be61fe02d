package game

import (
	"log/slog"

	"github.com/pthm-cable/bloom/telemetry"
)

// Stats is the read-only summary of a simulation.
type Stats struct {
	Tick       uint64
	Agents     int
	MeanEnergy float64 // 0 with no agents
	MeanField  float64
	Births     uint64
	Deaths     uint64
}

// Stats computes the summary from current state.
func (s *Simulation) Stats() Stats {
	return Stats{
		Tick:       s.tick,
		Agents:     s.pop.Count(),
		MeanEnergy: s.pop.MeanEnergy(),
		MeanField:  s.field.Mean(),
		Births:     s.births,
		Deaths:     s.deaths,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (st Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", st.Tick),
		slog.Int("agents", st.Agents),
		slog.Float64("mean_energy", st.MeanEnergy),
		slog.Float64("mean_field", st.MeanField),
		slog.Uint64("births", st.Births),
		slog.Uint64("deaths", st.Deaths),
	)
}

// fieldSample gathers the field aggregates telemetry records at window end.
func (s *Simulation) fieldSample() telemetry.FieldSample {
	lo, hi := s.field.Range()
	sample := telemetry.FieldSample{
		Mean: s.field.Mean(),
		Min:  float64(lo),
		Max:  float64(hi),
		Mass: s.FieldMass(),
	}
	agents := s.pop.Agents()
	if len(agents) == 0 {
		return sample
	}

	values := s.field.Values()
	w, _ := s.field.GridSize()
	var sum float64
	for _, a := range agents {
		sum += float64(values[a.X+a.Y*w])
	}
	sample.AtAgents = sum / float64(len(agents))
	return sample
}

// Snapshot captures the complete state for offline inspection.
func (s *Simulation) Snapshot() *telemetry.Snapshot {
	w, h := s.field.GridSize()
	agents := s.pop.Agents()
	snap := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		Seed:      s.seed,
		RNGState:  s.rng.State(),
		Width:     w,
		Height:    h,
		Tick:      s.tick,
		Births:    s.births,
		Deaths:    s.deaths,
		Field:     append([]float32(nil), s.field.Values()...),
		Obstacles: telemetry.ObstacleIndices(s.field.Obstacles()),
		Agents:    make([]telemetry.AgentState, len(agents)),
	}
	for i, a := range agents {
		snap.Agents[i] = telemetry.AgentState{X: a.X, Y: a.Y, Energy: a.Energy}
	}
	return snap
}
