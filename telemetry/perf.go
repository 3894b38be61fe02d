package telemetry

import (
	"context"
	"log/slog"
	"time"
)

// Tick phases timed by the driver, in report order.
const (
	PhasePopulation = "population"
	PhaseField      = "field"
	PhaseTelemetry  = "telemetry"
)

var phases = []string{PhasePopulation, PhaseField, PhaseTelemetry}

// Phases returns the tick phase names in report order.
func Phases() []string {
	return append([]string(nil), phases...)
}

// tickTiming is one recorded tick: its wall time and the time spent per phase.
type tickTiming struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector keeps tick timings for the last N ticks. Totals are updated as
// ticks enter and leave the ring, so Stats only scans for min and max.
type PerfCollector struct {
	ring   []tickTiming
	next   int
	filled int

	sumTotal  time.Duration
	sumPhases map[string]time.Duration

	current   tickTiming
	tickStart time.Time
	markAt    time.Time
	phase     string

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector returns a collector over the last windowSize ticks
// (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:      make([]tickTiming, windowSize),
		sumPhases: make(map[string]time.Duration),
	}
}

// StartTick opens a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickTiming{phases: make(map[string]time.Duration, len(phases))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.markAt = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current.phases[p.phase] += now.Sub(p.markAt)
	}
}

// EndTick closes the tick and pushes it into the ring, evicting the oldest.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""
	p.current.total = now.Sub(p.tickStart)

	if p.filled == len(p.ring) {
		old := p.ring[p.next]
		p.sumTotal -= old.total
		for name, d := range old.phases {
			p.sumPhases[name] -= d
		}
	} else {
		p.filled++
	}

	p.ring[p.next] = p.current
	p.sumTotal += p.current.total
	for name, d := range p.current.phases {
		p.sumPhases[name] += d
	}
	p.next = (p.next + 1) % len(p.ring)
}

// RecordFrame marks a rendered frame; viewers call it once per frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the collector's window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Per-phase average and share of the average tick, in percent
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats summarises the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(p.sumPhases)),
		PhasePct:      make(map[string]float64, len(p.sumPhases)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = time.Second.Seconds() / p.frame.Seconds()
	}
	if p.filled == 0 {
		return s
	}

	s.MinTickDuration = p.ring[0].total
	for _, tt := range p.ring[:p.filled] {
		s.MinTickDuration = min(s.MinTickDuration, tt.total)
		s.MaxTickDuration = max(s.MaxTickDuration, tt.total)
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = p.sumTotal / n
	if s.AvgTickDuration <= 0 {
		return s
	}
	s.TicksPerSecond = time.Second.Seconds() / s.AvgTickDuration.Seconds()
	for name, sum := range p.sumPhases {
		avg := sum / n
		s.PhaseAvg[name] = avg
		s.PhasePct[name] = 100 * avg.Seconds() / s.AvgTickDuration.Seconds()
	}
	return s
}

func (s PerfStats) attrs() []slog.Attr {
	out := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		out = append(out, slog.Float64("fps", s.FPS))
	}
	for _, name := range phases {
		if pct, ok := s.PhasePct[name]; ok {
			out = append(out, slog.Float64(name+"_pct", pct))
		}
	}
	return out
}

// LogStats logs the summary at info level.
func (s PerfStats) LogStats() {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "perf", s.attrs()...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(s.attrs()...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd     uint64  `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	PopulationPct float64 `csv:"population_pct"`
	FieldPct      float64 `csv:"field_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		PopulationPct: s.PhasePct[PhasePopulation],
		FieldPct:      s.PhasePct[PhaseField],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
