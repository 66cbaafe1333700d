package t2048

import "math/rand"

// RandomSource supplies the randomness a Session needs for spawning.
// *rand.Rand satisfies it; tests inject scripted sequences.
type RandomSource interface {
	// Intn returns a uniform int in [0, n).
	Intn(n int) int
	// Float64 returns a uniform float64 in [0, 1).
	Float64() float64
}

// NewRandomSource returns a seeded PRNG-backed RandomSource.
func NewRandomSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
