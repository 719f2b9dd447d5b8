package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing means the platform itself is broken; a zero
		// seed still yields a usable (if predictable) source.
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// NewRand returns a pseudo-random source seeded from crypto/rand. Tests that
// need reproducible behavior construct their own rand.New with a fixed seed
// and pass it to NewEngineWithRand.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(NewSeed()))
}
