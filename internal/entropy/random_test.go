package entropy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Koshroy/voting-abm/internal/entropy"
)

// fixed replays a list of floats.
type fixed struct {
	vals []float64
}

func (f *fixed) Float64() float64 {
	v := f.vals[0]
	f.vals = f.vals[1:]
	return v
}

func (f *fixed) Shuffle(int, func(i, j int)) {}

func TestNewSource_Deterministic(t *testing.T) {
	t.Parallel()

	a, b := entropy.NewSource(42), entropy.NewSource(42)
	for range 100 {
		require.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRandomSeed(t *testing.T) {
	t.Parallel()

	require.NotZero(t, entropy.RandomSeed())
	require.Positive(t, entropy.RandomSeed())
}

func TestUniform(t *testing.T) {
	t.Parallel()

	src := &fixed{vals: []float64{0, 0.5, 0.999}}
	require.InDelta(t, 2.0, entropy.Uniform(src, 2, 4), 1e-12)
	require.InDelta(t, 3.0, entropy.Uniform(src, 2, 4), 1e-12)
	require.Less(t, entropy.Uniform(src, 2, 4), 4.0)
}

func TestBernoulli(t *testing.T) {
	t.Parallel()

	src := &fixed{vals: []float64{0.05, 0.1, 0.5}}
	require.True(t, entropy.Bernoulli(src, 0.1))
	require.False(t, entropy.Bernoulli(src, 0.1))
	require.False(t, entropy.Bernoulli(src, 0))

	seeded := entropy.NewSource(7)
	for range 100 {
		require.True(t, entropy.Bernoulli(seeded, 1))
	}
}
