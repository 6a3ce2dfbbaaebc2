package cache

// Statistics holds the hit and miss counters of a simulation.
type Statistics struct {
	TotalAccesses uint64
	Hits          uint64
	Misses        uint64
	Compulsory    uint64
	Capacity      uint64
	Conflict      uint64
}

func (s *Statistics) record(kind AccessKind) {
	s.TotalAccesses++

	switch kind {
	case AccessHit:
		s.Hits++
		return
	case AccessCompulsoryMiss:
		s.Compulsory++
	case AccessCapacityMiss:
		s.Capacity++
	case AccessConflictMiss:
		s.Conflict++
	}

	s.Misses++
}

// HitRate returns hits over accesses, or 0 if nothing was accessed.
func (s Statistics) HitRate() float64 {
	return ratio(s.Hits, s.TotalAccesses)
}

// MissRate returns misses over accesses, or 0 if nothing was accessed.
func (s Statistics) MissRate() float64 {
	return ratio(s.Misses, s.TotalAccesses)
}

// CompulsoryFraction returns the share of misses that were compulsory.
func (s Statistics) CompulsoryFraction() float64 {
	return ratio(s.Compulsory, s.Misses)
}

// CapacityFraction returns the share of misses that were capacity misses.
func (s Statistics) CapacityFraction() float64 {
	return ratio(s.Capacity, s.Misses)
}

// ConflictFraction returns the share of misses that were conflict misses.
func (s Statistics) ConflictFraction() float64 {
	return ratio(s.Conflict, s.Misses)
}

func ratio(n, d uint64) float64 {
	if d == 0 {
		return 0
	}

	return float64(n) / float64(d)
}
