// Package random provides seed generation for the simulator's PRNGs.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Source hands out independent, reproducible child seeds derived from one
// experiment seed, so every engine and agent gets its own generator.
type Source struct {
	rng *rand.Rand
}

func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Next returns a new *rand.Rand seeded from the parent stream.
func (s *Source) Next() *rand.Rand {
	return rand.New(rand.NewSource(s.rng.Int63()))
}
