// Package entropy provides the session-scoped random stream used for sale
// resolution. The stream is an explicit handle threaded through callers,
// never a package-level global, so tests can pin a seed and replay outcomes.
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Source yields uniform draws in [0, 1). Satisfied by *Stream; tests can
// substitute a scripted implementation.
type Source interface {
	Float64() float64
}

// Stream is a deterministic random stream derived from a single seed.
// Not safe for concurrent use — a session owns exactly one logical flow.
type Stream struct {
	seed int64
	rng  *rand.Rand
}

// NewStream creates a stream for the given seed.
func NewStream(seed int64) *Stream {
	return &Stream{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Float64 returns the next uniform draw in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// RandomSeed produces a fresh seed from the OS entropy pool, for sessions
// started without a configured seed.
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform is broken; a fixed seed
		// keeps the shop running rather than crashing it.
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
