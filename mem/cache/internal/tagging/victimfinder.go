package tagging

import "math/rand"

// A VictimFinder decides which block should be evicted from a full set.
type VictimFinder interface {
	FindVictim(set *Set) Block
}

// RandomVictimFinder evicts a uniformly chosen way.
type RandomVictimFinder struct {
	rng *rand.Rand
}

// NewRandomVictimFinder returns a random evictor driven by the given seed.
func NewRandomVictimFinder(seed int64) *RandomVictimFinder {
	return &RandomVictimFinder{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// FindVictim returns a random block of the set.
func (e *RandomVictimFinder) FindVictim(set *Set) Block {
	return set.Blocks[e.rng.Intn(len(set.Blocks))]
}

// FIFOVictimFinder evicts the block that was installed the earliest.
type FIFOVictimFinder struct {
}

// NewFIFOVictimFinder returns a newly constructed fifo evictor
func NewFIFOVictimFinder() *FIFOVictimFinder {
	return new(FIFOVictimFinder)
}

// FindVictim returns the block with the oldest insertion stamp.
func (e *FIFOVictimFinder) FindVictim(set *Set) Block {
	return oldest(set, func(b Block) int64 { return b.Insertion })
}

// LRUVictimFinder evicts the least recently used block
type LRUVictimFinder struct {
}

// NewLRUVictimFinder returns a newly constructed lru evictor
func NewLRUVictimFinder() *LRUVictimFinder {
	e := new(LRUVictimFinder)
	return e
}

// FindVictim returns the least recently used block in a set
func (e *LRUVictimFinder) FindVictim(set *Set) Block {
	return oldest(set, func(b Block) int64 { return b.LastAccess })
}

// oldest scans ascending so that ties go to the lowest way.
func oldest(set *Set, stamp func(Block) int64) Block {
	victim := set.Blocks[0]

	for _, block := range set.Blocks[1:] {
		if stamp(block) < stamp(victim) {
			victim = block
		}
	}

	return victim
}
