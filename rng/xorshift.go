// Package rng implements the per-tile pseudo-random stream used by the
// shading kernel: a xorshift128+ generator seeded deterministically from a
// tile index via a 64-bit Mersenne Twister (MT19937-64).
package rng

// State is the xorshift128+ generator state. The zero value is invalid —
// a and b must not both be zero; use Seed or SeedFromTile to initialize.
type State struct {
	A, B uint64
}

// Next advances the stream and returns the next raw 64-bit output.
//
//	t = a; s = b; a = s;
//	t ^= t << 23; t ^= t >> 17; t ^= s ^ (s >> 26);
//	b = t; return t + s
func (s *State) Next() uint64 {
	t := s.A
	b := s.B
	s.A = b
	t ^= t << 23
	t ^= t >> 17
	t ^= b ^ (b >> 26)
	s.B = t
	return t + b
}

// Uniform01 returns a uniform pseudo-random float64 in [0, 1).
func (s *State) Uniform01() float64 {
	return float64(s.Next()>>11) * (1.0 / (1 << 53))
}

// Uniform01f is the float32 convenience form used throughout the shading
// kernel's sampling routines.
func (s *State) Uniform01f() float32 {
	return float32(s.Uniform01())
}

// Seed initializes the state directly. If both words are zero, a is replaced
// with a fixed nonzero constant, since an all-zero state never advances.
func Seed(a, b uint64) State {
	if a == 0 && b == 0 {
		a = 0x9e3779b97f4a7c15
	}
	return State{A: a, B: b}
}

// SeedFromTile derives a deterministic per-tile seed: a = mt19937_64(tileIndex
// as the generator's single seed).next_uint64(), b = 0. Reproduces the same
// stream for the same tile layout regardless of scheduling order or thread
// count (spec.md §4.5, §5 "RNG independence").
func SeedFromTile(tileIndex int) State {
	mt := newMT19937_64(uint64(tileIndex))
	return Seed(mt.next(), 0)
}
