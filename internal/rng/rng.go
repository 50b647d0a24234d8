// Package rng provides a deterministic random source seeded from a string.
//
// Two RNGs built from the same seed string produce the same float sequence
// forever, on every platform. An empty seed falls back to crypto/rand.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// stepping constants from Knuth's MMIX generator
const (
	mmixMul = 6364136223846793005
	mmixInc = 1442695040888963407

	// substitute state when the seed hashes to zero
	zeroFallback = 0x9e3779b97f4a7c15
)

// RNG is a seeded linear congruential generator. Not safe for concurrent use.
type RNG struct {
	state uint64
}

// New builds an RNG from a seed string. Equal seeds yield equal sequences.
func New(seed string) *RNG {
	s := xxhash.Sum64String(seed)
	if s == 0 {
		s = zeroFallback
	}
	return &RNG{state: s}
}

// NewRandom builds an RNG with a non-deterministic seed from crypto/rand.
func NewRandom() (*RNG, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	s := binary.LittleEndian.Uint64(b[:])
	if s == 0 {
		s = zeroFallback
	}
	return &RNG{state: s}, nil
}

// Float64 returns the next value in [0, 1).
func (r *RNG) Float64() float64 {
	r.state = r.state*mmixMul + mmixInc
	return float64(r.state>>11) / (1 << 53)
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn with non-positive n")
	}
	return int(r.Float64() * float64(n))
}

// Shuffle reorders n elements with Fisher-Yates using swap.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}
