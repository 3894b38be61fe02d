package systems

import "math"

// clampRange clamps v to [lo, hi]. NaN maps to lo.
func clampRange(v, lo, hi float64) float64 {
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toCell clamps v to [0, hi] and narrows it to float32 without rounding above hi.
func toCell(v, hi float64) float32 {
	c := float32(clampRange(v, 0, hi))
	if float64(c) > hi {
		c = math.Nextafter32(c, 0)
	}
	return c
}
