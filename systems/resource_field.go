package systems

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas32"
)

// Errors returned by the field's fail-fast setters.
var (
	ErrInvalidSize  = errors.New("grid dimensions must be positive")
	ErrOutOfBounds  = errors.New("cell outside grid")
	ErrSizeMismatch = errors.New("buffer length does not match grid")
)

// ResourceField is a fixed-size grid of resource concentration with a static
// obstacle mask. Updates read one buffer and write the other, then swap, so every
// cell of a step sees the same pre-step snapshot.
type ResourceField struct {
	W, H int

	// Current concentration, indexed x + y*W
	res []float32
	// Scratch buffer written by Step, swapped with res afterwards
	tmp []float32

	obs []bool
}

// NewResourceField allocates a w×h field with all cells zero and no obstacles.
func NewResourceField(w, h int) (*ResourceField, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("resource field %dx%d: %w", w, h, ErrInvalidSize)
	}
	return &ResourceField{
		W: w, H: h,
		res: make([]float32, w*h),
		tmp: make([]float32, w*h),
		obs: make([]bool, w*h),
	}, nil
}

// Clear zeroes both buffers. The obstacle mask is left untouched.
func (rf *ResourceField) Clear() {
	clear(rf.res)
	clear(rf.tmp)
}

// Seed fills the field with a radial gradient peaking at the grid center plus
// uniform noise, both scaled by fmax. One RNG draw is consumed per cell in index
// order, obstacle or not; obstacle cells keep their current value.
func (rf *ResourceField) Seed(fmax, noise float64, rng *RNG) {
	w, h := float64(rf.W), float64(rf.H)
	for i := range rf.res {
		jitter := (rng.Next()*2 - 1) * noise * fmax
		if rf.obs[i] {
			continue
		}
		gx := float64(i%rf.W) / w
		gy := float64(i/rf.W) / h
		base := 0.8 - 0.6*math.Hypot(gx-0.5, gy-0.5)
		rf.res[i] = toCell(base*fmax+jitter, fmax)
	}
}

// Step advances the field one tick: 5-point diffusion with replicated edges,
// replenishment toward fmax at rate r, decay by delta, then a clamp to [0, fmax].
// Obstacle cells are copied unchanged.
func (rf *ResourceField) Step(d, r, fmax, delta float64) {
	w, h := rf.W, rf.H
	src := rf.res
	dst := rf.tmp

	for y := 0; y < h; y++ {
		yN := y
		if y > 0 {
			yN = y - 1
		}
		yS := y
		if y < h-1 {
			yS = y + 1
		}
		for x := 0; x < w; x++ {
			i := x + y*w
			if rf.obs[i] {
				dst[i] = src[i]
				continue
			}
			xW := x
			if x > 0 {
				xW = x - 1
			}
			xE := x
			if x < w-1 {
				xE = x + 1
			}

			f := float64(src[i])
			n := float64(src[x+yN*w])
			s := float64(src[x+yS*w])
			wv := float64(src[xW+y*w])
			e := float64(src[xE+y*w])

			v := f + d*((n+s+wv+e)-4*f)
			v += r * (fmax - v)
			v *= 1 - delta
			dst[i] = toCell(v, fmax)
		}
	}

	rf.res, rf.tmp = dst, src
}

// GridSize returns the grid dimensions.
func (rf *ResourceField) GridSize() (int, int) {
	return rf.W, rf.H
}

// Len returns the number of cells.
func (rf *ResourceField) Len() int {
	return len(rf.res)
}

// Values returns the current buffer. It is swapped out by the next Step, so
// callers must not hold on to it across ticks.
func (rf *ResourceField) Values() []float32 {
	return rf.res
}

// Obstacles returns the obstacle mask.
func (rf *ResourceField) Obstacles() []bool {
	return rf.obs
}

// At returns the concentration at (x, y).
func (rf *ResourceField) At(x, y int) (float32, error) {
	if !rf.inBounds(x, y) {
		return 0, fmt.Errorf("at (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return rf.res[x+y*rf.W], nil
}

// IsObstacle reports whether (x, y) is an obstacle. Cells outside the grid are
// reported as obstacles.
func (rf *ResourceField) IsObstacle(x, y int) bool {
	if !rf.inBounds(x, y) {
		return true
	}
	return rf.obs[x+y*rf.W]
}

// SetObstacle marks or clears a single obstacle cell.
func (rf *ResourceField) SetObstacle(x, y int, blocked bool) error {
	if !rf.inBounds(x, y) {
		return fmt.Errorf("set obstacle (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	rf.obs[x+y*rf.W] = blocked
	return nil
}

// SetObstacleMask replaces the whole obstacle mask.
func (rf *ResourceField) SetObstacleMask(mask []bool) error {
	if len(mask) != len(rf.obs) {
		return fmt.Errorf("obstacle mask of %d cells for %dx%d grid: %w", len(mask), rf.W, rf.H, ErrSizeMismatch)
	}
	copy(rf.obs, mask)
	return nil
}

// FillObstacleRect sets every cell of the rectangle, clipped to the grid.
// Returns the number of cells inside the grid that were written.
func (rf *ResourceField) FillObstacleRect(x, y, w, h int, blocked bool) int {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, rf.W), min(y+h, rf.H)
	n := 0
	for yy := y0; yy < y1; yy++ {
		for xx := x0; xx < x1; xx++ {
			rf.obs[xx+yy*rf.W] = blocked
			n++
		}
	}
	return n
}

// SetValues replaces the current buffer contents.
func (rf *ResourceField) SetValues(values []float32) error {
	if len(values) != len(rf.res) {
		return fmt.Errorf("values of %d cells for %dx%d grid: %w", len(values), rf.W, rf.H, ErrSizeMismatch)
	}
	copy(rf.res, values)
	return nil
}

// Mean returns the average concentration over all cells.
func (rf *ResourceField) Mean() float64 {
	var sum float64
	for _, v := range rf.res {
		sum += float64(v)
	}
	return sum / float64(len(rf.res))
}

// TotalMass returns the summed concentration of the grid.
// Values are non-negative, so the absolute sum is the plain sum.
func (rf *ResourceField) TotalMass() float32 {
	return blas32.Asum(blas32.Vector{N: len(rf.res), Inc: 1, Data: rf.res})
}

// Range returns the minimum and maximum concentration.
func (rf *ResourceField) Range() (lo, hi float32) {
	lo, hi = rf.res[0], rf.res[0]
	for _, v := range rf.res[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// cell and setCell give the population direct access to the current buffer.
func (rf *ResourceField) cell(i int) float64 {
	return float64(rf.res[i])
}

func (rf *ResourceField) setCell(i int, v float64) {
	rf.res[i] = float32(v)
}

func (rf *ResourceField) inBounds(x, y int) bool {
	return x >= 0 && x < rf.W && y >= 0 && y < rf.H
}
