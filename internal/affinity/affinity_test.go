package affinity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCloseness(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1.0, Closeness(0.5, 0.5))
	require.InDelta(t, 0.9, Closeness(0.5, 0.6), 1e-9)
	require.InDelta(t, 0.9, Closeness(0.6, 0.5), 1e-9)
	require.Equal(t, 0.0, Closeness(0, 1))
	// Out-of-domain inputs clamp instead of going negative.
	require.Equal(t, 0.0, Closeness(-1, 1.5))
}

func TestVectorCloseness(t *testing.T) {
	t.Parallel()

	a := []float64{0.5, 0.5, 0.5}
	require.Equal(t, 1.0, VectorCloseness(a, a))

	b := []float64{0.6, 0.4, 0.5}
	require.InDelta(t, (0.9+0.9+1.0)/3, VectorCloseness(a, b), 1e-9)

	require.Equal(t, 0.0, VectorCloseness(nil, nil))
	require.Equal(t, 0.0, VectorCloseness(a, []float64{0.5}))
}

func TestColorAffinity(t *testing.T) {
	t.Parallel()

	target := Color{0.5, 0.5, 0.5}
	require.Equal(t, 0.0, ColorAffinity(nil, target))

	same := Color{0.5, 0.5, 0.5}
	require.Equal(t, 1.0, ColorAffinity(&same, target))

	// Opposite unit-cube corners are the maximum possible distance.
	black := Color{0, 0, 0}
	require.InDelta(t, 0.0, ColorAffinity(&black, Color{1, 1, 1}), 1e-9)

	near := Color{0.5, 0.45, 0.55}
	got := ColorAffinity(&near, target)
	require.Greater(t, got, 0.9)
	require.LessOrEqual(t, got, 1.0)
}

func TestRangeAffinity(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1.0, RangeAffinity(0.3, 0.7, 0.3))
	require.Equal(t, 1.0, RangeAffinity(0.3, 0.7, 0.5))
	require.Equal(t, 1.0, RangeAffinity(0.3, 0.7, 0.7))

	// Linear falloff with slope 3 outside the band.
	require.InDelta(t, 0.7, RangeAffinity(0.3, 0.7, 0.2), 1e-9)
	require.InDelta(t, 0.7, RangeAffinity(0.3, 0.7, 0.8), 1e-9)

	// Zero once the value is a third of the interval past a bound.
	require.Equal(t, 0.0, RangeAffinity(0.3, 0.7, 0.7+1.0/3))
	require.Equal(t, 0.0, RangeAffinity(0.4, 0.7, 0.0))
}

func TestClamp01(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, Clamp01(-0.1))
	require.Equal(t, 1.0, Clamp01(1.1))
	require.Equal(t, 0.42, Clamp01(0.42))
}
