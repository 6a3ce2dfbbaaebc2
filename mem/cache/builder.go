package cache

import (
	"time"

	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
)

// Builder can build simulators.
type Builder struct {
	numSets       int
	blockSize     int
	associativity int
	policy        Policy
	seed          int64
	seeded        bool
	victimFinder  tagging.VictimFinder
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		numSets:       64,
		blockSize:     64,
		associativity: 4,
		policy:        PolicyLRU,
	}
}

// WithConfig copies the geometry and policy of a Config.
func (b Builder) WithConfig(c Config) Builder {
	b.numSets = c.NumSets
	b.blockSize = c.BlockSize
	b.associativity = c.Associativity
	b.policy = c.Policy

	return b
}

// WithNumSets sets the number of sets.
func (b Builder) WithNumSets(numSets int) Builder {
	b.numSets = numSets
	return b
}

// WithBlockSize sets the number of bytes in a block.
func (b Builder) WithBlockSize(blockSize int) Builder {
	b.blockSize = blockSize
	return b
}

// WithAssociativity sets the number of ways in each set.
func (b Builder) WithAssociativity(associativity int) Builder {
	b.associativity = associativity
	return b
}

// WithPolicy sets the replacement policy.
func (b Builder) WithPolicy(policy Policy) Builder {
	b.policy = policy
	return b
}

// WithSeed fixes the seed of the random replacement policy. Without a seed,
// the current time is used.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	b.seeded = true

	return b
}

// WithVictimFinder overrides the victim finder that the policy would select.
func (b Builder) WithVictimFinder(victimFinder tagging.VictimFinder) Builder {
	b.victimFinder = victimFinder
	return b
}

// Build builds a simulator with every line invalid.
func (b Builder) Build() (*Simulator, error) {
	config := Config{
		NumSets:       b.numSets,
		BlockSize:     b.blockSize,
		Associativity: b.associativity,
		Policy:        b.policy,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	decoder, err := NewAddressDecoder(b.blockSize, b.numSets)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		config:       config,
		decoder:      decoder,
		tags:         tagging.NewTagArray(b.numSets, b.associativity),
		victimFinder: b.victimFinder,
	}

	if s.victimFinder == nil {
		s.victimFinder = b.createVictimFinder()
	}

	return s, nil
}

func (b Builder) createVictimFinder() tagging.VictimFinder {
	var victimFinder tagging.VictimFinder

	switch b.policy {
	case PolicyRandom:
		seed := b.seed
		if !b.seeded {
			seed = time.Now().UnixNano()
		}

		victimFinder = tagging.NewRandomVictimFinder(seed)
	case PolicyFIFO:
		victimFinder = tagging.NewFIFOVictimFinder()
	case PolicyLRU:
		victimFinder = tagging.NewLRUVictimFinder()
	default:
		panic("unknown replacement policy: " + b.policy.String())
	}

	return victimFinder
}
