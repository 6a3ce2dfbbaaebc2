package monitoring

import (
	"sync"

	"github.com/sarchlab/cachesim/mem/cache"
)

// A TrackedRun follows one simulator. It is a hook that copies the
// statistics after every access.
type TrackedRun struct {
	lock sync.Mutex

	id          string
	config      cache.Config
	stats       cache.Statistics
	filledLines int
	done        bool
	bar         *ProgressBar
}

// RunSnapshot is the state of a run at one point in time.
type RunSnapshot struct {
	ID           string           `json:"id"`
	Config       cache.Config     `json:"config"`
	Policy       string           `json:"policy"`
	Organization string           `json:"organization"`
	Stats        cache.Statistics `json:"stats"`
	HitRate      float64          `json:"hit_rate"`
	MissRate     float64          `json:"miss_rate"`
	FilledLines  int              `json:"filled_lines"`
	Capacity     int              `json:"capacity"`
	Done         bool             `json:"done"`
}

type statsSource interface {
	Stats() cache.Statistics
	FilledLines() int
}

// Func updates the run from the simulator that triggers the hook.
func (r *TrackedRun) Func(ctx cache.HookCtx) {
	if ctx.Pos != cache.HookPosAccess {
		return
	}

	src, ok := ctx.Domain.(statsSource)
	if !ok {
		return
	}

	r.lock.Lock()
	r.stats = src.Stats()
	r.filledLines = src.FilledLines()
	r.lock.Unlock()

	if r.bar != nil {
		r.bar.IncrementFinished(1)
	}
}

// Finish marks the run as complete with its final statistics.
func (r *TrackedRun) Finish(s cache.Statistics, filledLines int) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.stats = s
	r.filledLines = filledLines
	r.done = true
}

// Snapshot returns a copy of the state of the run.
func (r *TrackedRun) Snapshot() RunSnapshot {
	r.lock.Lock()
	defer r.lock.Unlock()

	return RunSnapshot{
		ID:           r.id,
		Config:       r.config,
		Policy:       r.config.Policy.String(),
		Organization: r.config.Organization().String(),
		Stats:        r.stats,
		HitRate:      r.stats.HitRate(),
		MissRate:     r.stats.MissRate(),
		FilledLines:  r.filledLines,
		Capacity:     r.config.Capacity(),
		Done:         r.done,
	}
}
