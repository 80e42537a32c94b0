// SPDX-License-Identifier: MIT

package patch

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// seedMix is the 64-bit golden ratio, used both to spread salts and as the
// fixed PCG stream constant. It must not change between releases or saved
// seeds stop reproducing.
const seedMix = 0x9E3779B97F4A7C15

// ResourceSeed derives a per-resource seed from the master seed and the
// resource's name, so each resource draws an independent sequence.
func ResourceSeed(master uint64, name string) uint64 {
	return master ^ xxhash.Sum64String(name)
}

// SaltedSeed derives a purpose-specific seed from a numeric salt.
func SaltedSeed(master, salt uint64) uint64 {
	return master ^ salt*seedMix
}

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seedMix))
}
