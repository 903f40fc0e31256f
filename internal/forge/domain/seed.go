package domain

import (
	"crypto/sha256"
	"encoding/binary"
)

// MixFunc is the one-way mixing primitive behind the seed chain. It is
// isolated here so the primitive can be swapped without touching the
// allocation logic.
type MixFunc func([]byte) [32]byte

// SeedChain derives a sequence of pseudorandom values from a single seed.
//
// Every draw re-hashes the current state together with a distinguishing tag
// and advances the state, so successive draws are not trivially correlated
// and the whole sequence is reproducible from the initial seed material.
type SeedChain struct {
	state [32]byte
	mix   MixFunc
}

// NewSeedChain builds a chain whose initial state mixes all provided parts.
func NewSeedChain(parts ...[]byte) *SeedChain {
	c := &SeedChain{mix: sha256.Sum256}
	var joined []byte
	for _, p := range parts {
		joined = append(joined, p...)
	}
	c.state = c.mix(joined)
	return c
}

// NewCreationChain builds the seed chain for one creation event. The oracle
// value is mixed with the request id and the owner identity so the
// allocation cannot be predicted before the request exists.
func NewCreationChain(randomValue uint64, requestID, owner string) *SeedChain {
	var value [8]byte
	binary.BigEndian.PutUint64(value[:], randomValue)
	return NewSeedChain(value[:], []byte(requestID), []byte(owner))
}

// Next re-hashes the state with the tag and returns the next 64-bit value.
func (c *SeedChain) Next(tag string) uint64 {
	c.state = c.mix(append(c.state[:], tag...))
	return binary.BigEndian.Uint64(c.state[:8])
}

// Intn returns a value in [0, n) drawn from the chain. n must be positive.
func (c *SeedChain) Intn(tag string, n int) int {
	return int(c.Next(tag) % uint64(n))
}
