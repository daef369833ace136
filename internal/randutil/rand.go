// Package randutil centralises how deterministic RNGs are derived from
// seeds, so every call site gets reproducible sequences from the same seed.
package randutil

import "math/rand"

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The seed is passed through a splitmix finalizer first so that adjacent
// seeds (0, 1, 2...) produce unrelated streams.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(uint64(seed)))))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
