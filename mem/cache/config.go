package cache

import (
	"fmt"
	"math/bits"
)

// Config holds the geometry and replacement policy of a simulated cache.
type Config struct {
	NumSets       int
	BlockSize     int
	Associativity int
	Policy        Policy
}

// Capacity returns the number of lines in the cache.
func (c Config) Capacity() int {
	return c.NumSets * c.Associativity
}

// String returns a compact label such as "64x64B/4 LRU".
func (c Config) String() string {
	return fmt.Sprintf("%dx%dB/%d %s",
		c.NumSets, c.BlockSize, c.Associativity, c.Policy)
}

// Organization labels the cache. A single-way cache is direct-mapped even when
// it also has a single set.
func (c Config) Organization() Organization {
	switch {
	case c.Associativity == 1:
		return DirectMapped
	case c.NumSets == 1:
		return FullyAssociative
	default:
		return SetAssociative
	}
}

// Validate checks that the configuration can be decoded with shifts.
func (c Config) Validate() error {
	if !isPowerOfTwo(c.NumSets) {
		return fmt.Errorf("%w: number of sets %d is not a power of two",
			ErrConfig, c.NumSets)
	}

	if !isPowerOfTwo(c.BlockSize) {
		return fmt.Errorf("%w: block size %d is not a power of two",
			ErrConfig, c.BlockSize)
	}

	if c.Associativity <= 0 {
		return fmt.Errorf("%w: associativity %d must be positive",
			ErrConfig, c.Associativity)
	}

	if log2(c.NumSets)+log2(c.BlockSize) > 32 {
		return fmt.Errorf(
			"%w: %d sets of %d bytes exceed the 32-bit address space",
			ErrConfig, c.NumSets, c.BlockSize)
	}

	switch c.Policy {
	case PolicyRandom, PolicyFIFO, PolicyLRU:
	default:
		return fmt.Errorf("%w: %s", ErrPolicy, c.Policy)
	}

	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func log2(n int) uint {
	return uint(bits.TrailingZeros64(uint64(n)))
}
