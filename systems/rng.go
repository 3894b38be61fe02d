package systems

// FNV-1a 32-bit constants used to fold seed strings.
const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// mulberryIncrement is the additive counter step of the generator.
const mulberryIncrement uint32 = 0x6D2B79F5

// mooreOffsets lists the 8 neighbor offsets in draw order.
var mooreOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// RNG is a counter-based 32-bit generator (mulberry32) seeded from a string.
// It is the only randomness source of a simulation; equal seeds give equal streams.
type RNG struct {
	state uint32
}

// NewRNG returns a generator seeded from s.
func NewRNG(s string) *RNG {
	r := &RNG{}
	r.Seed(s)
	return r
}

// HashSeed folds a seed string into 32 bits with FNV-1a.
func HashSeed(s string) uint32 {
	h := fnvOffset32
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// Seed resets the stream to the one derived from s.
func (r *RNG) Seed(s string) {
	r.state = HashSeed(s)
}

// SeedValue resets the stream to start from a raw 32-bit state.
func (r *RNG) SeedValue(v uint32) {
	r.state = v
}

// Uint32 advances the generator and returns the next raw output.
func (r *RNG) Uint32() uint32 {
	r.state += mulberryIncrement
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Next returns the next float in [0, 1).
func (r *RNG) Next() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// Intn returns floor(Next()*n), an int in [0, n) for n > 0.
func (r *RNG) Intn(n int) int {
	return int(r.Next() * float64(n))
}

// MooreOffset draws one of the 8 neighbor offsets uniformly.
func (r *RNG) MooreOffset() (dx, dy int) {
	d := mooreOffsets[r.Intn(len(mooreOffsets))]
	return d[0], d[1]
}

// State returns the raw generator state. SeedValue(State()) resumes the stream.
func (r *RNG) State() uint32 {
	return r.state
}
