package entropy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamDeterministic(t *testing.T) {
	t.Parallel()

	a := NewStream(42)
	b := NewStream(42)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64())
	}
	require.Equal(t, int64(42), a.Seed())
}

func TestStreamRange(t *testing.T) {
	t.Parallel()

	s := NewStream(7)
	for i := 0; i < 1000; i++ {
		u := s.Float64()
		require.GreaterOrEqual(t, u, 0.0)
		require.Less(t, u, 1.0)
	}
}

func TestRandomSeedNonZero(t *testing.T) {
	t.Parallel()

	for i := 0; i < 10; i++ {
		require.NotZero(t, RandomSeed())
	}
}
