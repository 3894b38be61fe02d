// Package telemetry provides windowed run statistics, bookmarks, snapshots and CSV output.
package telemetry

// Collector accumulates population events within fixed tick windows and
// produces WindowStats.
type Collector struct {
	windowTicks uint64

	// Current window tracking
	windowStartTick uint64

	// Event counters for current window
	births int
	deaths int
}

// NewCollector creates a stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: uint64(windowTicks)}
}

// Record adds one tick's births and deaths to the current window.
func (c *Collector) Record(births, deaths int) {
	c.births += births
	c.deaths += deaths
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// energies are the live agents' energies at currentTick; field holds the
// resource aggregates sampled at the same moment.
func (c *Collector) Flush(currentTick uint64, energies []float64, field FieldSample) WindowStats {
	mean, std, p10, p50, p90 := ComputeEnergyStats(energies)

	var total float64
	for _, e := range energies {
		total += e
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Agents: len(energies),
		Births: c.births,
		Deaths: c.deaths,

		EnergyMean: mean,
		EnergyStd:  std,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		FieldMean: field.Mean,
		FieldMin:  field.Min,
		FieldMax:  field.Max,
		FieldMass: field.Mass,

		ResourceAtAgents: field.AtAgents,
		TotalEnergy:      total,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0

	return stats
}

// Reset discards the current window and restarts counting at tick.
func (c *Collector) Reset(tick uint64) {
	c.windowStartTick = tick
	c.births = 0
	c.deaths = 0
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}
