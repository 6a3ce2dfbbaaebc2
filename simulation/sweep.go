package simulation

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache"
)

// Result is the outcome of one configuration of a sweep.
type Result struct {
	Config      cache.Config
	Stats       cache.Statistics
	FilledLines int
}

// ExpandGrid returns every combination of the given parameters, varying the
// policy fastest.
func ExpandGrid(
	numSets, blockSizes, associativities []int,
	policies []cache.Policy,
) []cache.Config {
	configs := make([]cache.Config, 0,
		len(numSets)*len(blockSizes)*len(associativities)*len(policies))

	for _, s := range numSets {
		for _, b := range blockSizes {
			for _, a := range associativities {
				for _, p := range policies {
					configs = append(configs, cache.Config{
						NumSets:       s,
						BlockSize:     b,
						Associativity: a,
						Policy:        p,
					})
				}
			}
		}
	}

	return configs
}

// Sweep replays the same addresses against every configuration, running up
// to workers simulations at a time. Every simulation is built from base with
// its own configuration. Results are in the order of configs. All
// configurations are checked before any simulation starts.
func Sweep(
	ctx context.Context,
	base Builder,
	configs []cache.Config,
	addresses []uint32,
	workers int,
) ([]Result, error) {
	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if base.recorder != nil {
		datarecording.CreateCacheTables(base.recorder, base.recordAccesses)
		base.recorder = &lockedRecorder{inner: base.recorder}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result, len(configs))
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				r, err := runOne(ctx, base, configs[idx], addresses)
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})

					continue
				}

				results[idx] = r
			}
		}()
	}

feed:
	for i := range configs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}

	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func runOne(
	ctx context.Context,
	base Builder,
	c cache.Config,
	addresses []uint32,
) (Result, error) {
	s, err := base.WithCacheConfig(c).Build()
	if err != nil {
		return Result{}, err
	}
	defer s.Terminate()

	stats, err := s.Run(ctx, NewSliceSource(addresses))
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:      c,
		Stats:       stats,
		FilledLines: s.Cache().FilledLines(),
	}, nil
}

// lockedRecorder lets concurrent simulations share one recorder.
type lockedRecorder struct {
	lock  sync.Mutex
	inner datarecording.DataRecorder
}

func (r *lockedRecorder) CreateTable(tableName string, sampleEntry any) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.inner.CreateTable(tableName, sampleEntry)
}

func (r *lockedRecorder) InsertData(tableName string, entry any) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.inner.InsertData(tableName, entry)
}

func (r *lockedRecorder) ListTables() []string {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.inner.ListTables()
}

func (r *lockedRecorder) Flush() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.inner.Flush()
}

func (r *lockedRecorder) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.inner.Close()
}

func (r *lockedRecorder) FileName() string {
	return r.inner.FileName()
}
