// Package entropy provides the randomness used by the simulation.
// Runs are reproducible from a seed; an unseeded run draws its seed from
// crypto/rand.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// Source is the randomness a run needs: uniform floats in [0, 1) and a
// uniform permutation primitive. *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed int64) *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(seed))
}

// RandomSeed returns a seed from crypto/rand. Never returns zero, so zero
// can mean "pick one for me" in configuration.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen but fall back to a fixed seed.
		return 1
	}
	// Top bits cleared so consecutive run seeds cannot overflow.
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 2)
	if seed == 0 {
		return 1
	}
	return seed
}

// Uniform returns a float in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// Bernoulli returns true with probability p.
func Bernoulli(src Source, p float64) bool {
	return src.Float64() < p
}
