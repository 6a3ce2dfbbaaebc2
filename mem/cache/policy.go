package cache

import (
	"fmt"
	"strings"
)

// Policy is the replacement policy used when a set is full.
type Policy int

// The supported replacement policies.
const (
	PolicyRandom Policy = iota
	PolicyFIFO
	PolicyLRU
)

// ParsePolicy converts a command-line token into a Policy. Only the tokens r,
// f and l are accepted, in either case.
func ParsePolicy(token string) (Policy, error) {
	switch strings.ToLower(token) {
	case "r":
		return PolicyRandom, nil
	case "f":
		return PolicyFIFO, nil
	case "l":
		return PolicyLRU, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrPolicy, token)
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyRandom:
		return "RANDOM"
	case PolicyFIFO:
		return "FIFO"
	case PolicyLRU:
		return "LRU"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Organization describes how addresses map onto lines.
type Organization int

// Cache organizations.
const (
	DirectMapped Organization = iota
	FullyAssociative
	SetAssociative
)

func (o Organization) String() string {
	switch o {
	case DirectMapped:
		return "Direct-Mapped"
	case FullyAssociative:
		return "Fully Associative"
	default:
		return "Set Associative"
	}
}
