package datarecording

import (
	"github.com/sarchlab/cachesim/mem/cache"
)

const (
	runTableName      = "cache_runs"
	accessTableName   = "cache_accesses"
	evictionTableName = "cache_evictions"
	summaryTableName  = "cache_summary"
)

type runEntry struct {
	RunID         string
	Trace         string
	NumSets       int
	BlockSize     int
	Associativity int
	Policy        string
	Organization  string
}

type accessEntry struct {
	RunID   string
	Stamp   int64
	Address uint32
	Tag     uint32
	SetID   int
	WayID   int
	Kind    string
}

type evictionEntry struct {
	RunID       string
	Stamp       int64
	SetID       int
	WayID       int
	EvictedTag  uint32
	IncomingTag uint32
}

type summaryEntry struct {
	RunID         string
	Accesses      uint64
	Hits          uint64
	Misses        uint64
	Compulsory    uint64
	Capacity      uint64
	Conflict      uint64
	HitRate       float64
	MissRate      float64
	FilledLines   int
	TotalCapacity int
}

// CacheRecorder is a cache hook that stores the runs of a simulator into a
// DataRecorder. Per-access rows are only written when requested, since a
// trace can hold millions of addresses.
type CacheRecorder struct {
	recorder       DataRecorder
	runID          string
	recordAccesses bool
	capacity       int
}

// NewCacheRecorder creates a CacheRecorder for one run.
func NewCacheRecorder(
	recorder DataRecorder,
	runID string,
	recordAccesses bool,
) *CacheRecorder {
	CreateCacheTables(recorder, recordAccesses)

	return &CacheRecorder{
		recorder:       recorder,
		runID:          runID,
		recordAccesses: recordAccesses,
	}
}

// CreateCacheTables creates the tables used by cache recorders unless they
// already exist.
func CreateCacheTables(recorder DataRecorder, recordAccesses bool) {
	ensureTable(recorder, runTableName, runEntry{})
	ensureTable(recorder, evictionTableName, evictionEntry{})
	ensureTable(recorder, summaryTableName, summaryEntry{})

	if recordAccesses {
		ensureTable(recorder, accessTableName, accessEntry{})
	}
}

// RunID returns the ID that tags every row written by the recorder.
func (r *CacheRecorder) RunID() string {
	return r.runID
}

// StartRun records the configuration of the run.
func (r *CacheRecorder) StartRun(cfg cache.Config, traceName string) {
	r.capacity = cfg.Capacity()

	r.recorder.InsertData(runTableName, runEntry{
		RunID:         r.runID,
		Trace:         traceName,
		NumSets:       cfg.NumSets,
		BlockSize:     cfg.BlockSize,
		Associativity: cfg.Associativity,
		Policy:        cfg.Policy.String(),
		Organization:  cfg.Organization().String(),
	})
}

// Func records accesses and evictions reported by the simulator.
func (r *CacheRecorder) Func(ctx cache.HookCtx) {
	res, ok := ctx.Item.(cache.AccessResult)
	if !ok {
		return
	}

	switch ctx.Pos {
	case cache.HookPosAccess:
		if !r.recordAccesses {
			return
		}

		r.recorder.InsertData(accessTableName, accessEntry{
			RunID:   r.runID,
			Stamp:   res.Stamp,
			Address: res.Address,
			Tag:     res.Tag,
			SetID:   res.SetID,
			WayID:   res.WayID,
			Kind:    res.Kind.String(),
		})
	case cache.HookPosEvict:
		r.recorder.InsertData(evictionTableName, evictionEntry{
			RunID:       r.runID,
			Stamp:       res.Stamp,
			SetID:       res.SetID,
			WayID:       res.WayID,
			EvictedTag:  res.EvictedTag,
			IncomingTag: res.Tag,
		})
	}
}

// EndRun records the final statistics and flushes the recorder.
func (r *CacheRecorder) EndRun(s cache.Statistics, filledLines int) {
	r.recorder.InsertData(summaryTableName, summaryEntry{
		RunID:         r.runID,
		Accesses:      s.TotalAccesses,
		Hits:          s.Hits,
		Misses:        s.Misses,
		Compulsory:    s.Compulsory,
		Capacity:      s.Capacity,
		Conflict:      s.Conflict,
		HitRate:       s.HitRate(),
		MissRate:      s.MissRate(),
		FilledLines:   filledLines,
		TotalCapacity: r.capacity,
	})

	r.recorder.Flush()
}
