package cache

import (
	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
)

// AccessKind classifies the outcome of one access.
type AccessKind int

// Access outcomes.
const (
	AccessHit AccessKind = iota
	AccessCompulsoryMiss
	AccessCapacityMiss
	AccessConflictMiss
)

func (k AccessKind) String() string {
	switch k {
	case AccessHit:
		return "hit"
	case AccessCompulsoryMiss:
		return "compulsory"
	case AccessCapacityMiss:
		return "capacity"
	case AccessConflictMiss:
		return "conflict"
	default:
		return "unknown"
	}
}

// AccessResult describes what one access did to the cache.
type AccessResult struct {
	Address uint32
	Tag     uint32
	SetID   int
	WayID   int
	Kind    AccessKind
	Stamp   int64

	Evicted      bool
	EvictedTag   uint32
	EvictedValue uint32
}

// Line is a copy of the state of one cache line.
type Line struct {
	Tag        uint32
	Value      uint32
	Valid      bool
	LastAccess int64
	Insertion  int64
}

// Simulator replays addresses against a set-associative cache. It is not safe
// for concurrent use; every access must complete before the next begins.
type Simulator struct {
	hookableBase

	config       Config
	decoder      AddressDecoder
	tags         tagging.TagArray
	victimFinder tagging.VictimFinder

	accessCounter int64
	stats         Statistics
}

// Access looks up one address, installing it on a miss.
func (s *Simulator) Access(address uint32) AccessResult {
	tag, index := s.decoder.Decode(address)
	setID := int(index)

	s.accessCounter++
	stamp := s.accessCounter

	result := AccessResult{
		Address: address,
		Tag:     tag,
		SetID:   setID,
		Stamp:   stamp,
	}

	if block, hit := s.tags.Lookup(setID, tag); hit {
		s.tags.Touch(setID, block.WayID, stamp)
		result.WayID = block.WayID
		result.Kind = AccessHit
	} else if wayID, found := s.tags.FindInvalid(setID); found {
		s.tags.Install(setID, wayID, tag, address, stamp)
		result.WayID = wayID
		result.Kind = AccessCompulsoryMiss
	} else {
		s.replace(&result)
	}

	s.stats.record(result.Kind)
	s.invokeHook(HookCtx{Domain: s, Pos: HookPosAccess, Item: result})

	if result.Evicted {
		s.invokeHook(HookCtx{Domain: s, Pos: HookPosEvict, Item: result})
	}

	return result
}

func (s *Simulator) replace(result *AccessResult) {
	victim := s.victimFinder.FindVictim(s.tags.GetSet(result.SetID))

	result.WayID = victim.WayID
	result.Evicted = true
	result.EvictedTag = victim.Tag
	result.EvictedValue = victim.Value

	s.tags.Install(
		result.SetID, victim.WayID, result.Tag, result.Address, result.Stamp)

	// The fill level of the whole cache decides the class, not the set's.
	if s.tags.FilledCount() == s.tags.Capacity() {
		result.Kind = AccessCapacityMiss
	} else {
		result.Kind = AccessConflictMiss
	}
}

// Config returns the configuration the simulator was built with.
func (s *Simulator) Config() Config {
	return s.config
}

// Stats returns a copy of the counters.
func (s *Simulator) Stats() Statistics {
	return s.stats
}

// AccessCount returns the value of the access counter used for stamps.
func (s *Simulator) AccessCount() int64 {
	return s.accessCounter
}

// FilledLines returns the number of lines that have ever been filled.
func (s *Simulator) FilledLines() int {
	return s.tags.FilledCount()
}

// Line returns the state of one line.
func (s *Simulator) Line(setID, wayID int) Line {
	b := s.tags.GetSet(setID).Blocks[wayID]

	return Line{
		Tag:        b.Tag,
		Value:      b.Value,
		Valid:      b.IsValid,
		LastAccess: b.LastAccess,
		Insertion:  b.Insertion,
	}
}
