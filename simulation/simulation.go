// Package simulation drives a cache simulator over an address trace.
package simulation

import (
	"context"
	"errors"
	"io"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sirupsen/logrus"
)

// An AddressSource produces the addresses of a trace. Read returns io.EOF
// after the last address.
type AddressSource interface {
	Read() (uint32, error)
}

type sizedSource interface {
	NumAddresses() uint64
}

type truncatedSource interface {
	TrailingBytes() int
}

// cancelCheckInterval is how many accesses run between two checks of the
// context.
const cancelCheckInterval = 4096

// A Simulation replays one trace against one cache.
type Simulation struct {
	id        string
	traceName string
	cache     *cache.Simulator
	logger    logrus.FieldLogger

	recorder *datarecording.CacheRecorder
	monitor  *monitoring.Monitor
	bar      *monitoring.ProgressBar
	tracked  *monitoring.TrackedRun
}

// ID returns the unique ID of the run.
func (s *Simulation) ID() string {
	return s.id
}

// Cache returns the simulated cache.
func (s *Simulation) Cache() *cache.Simulator {
	return s.cache
}

// Run feeds every address of the source to the cache and returns the final
// statistics.
func (s *Simulation) Run(
	ctx context.Context,
	src AddressSource,
) (cache.Statistics, error) {
	if s.recorder != nil {
		s.recorder.StartRun(s.cache.Config(), s.traceName)
	}

	if sized, ok := src.(sizedSource); ok && s.bar != nil {
		s.bar.SetTotal(sized.NumAddresses())
	}

	s.logger.Debug("simulation started")

	for n := 0; ; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return s.cache.Stats(), err
			}
		}

		addr, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return s.cache.Stats(), err
		}

		s.cache.Access(addr)
	}

	s.finish(src)

	return s.cache.Stats(), nil
}

func (s *Simulation) finish(src AddressSource) {
	stats := s.cache.Stats()
	filled := s.cache.FilledLines()

	if t, ok := src.(truncatedSource); ok && t.TrailingBytes() > 0 {
		s.logger.WithField("bytes", t.TrailingBytes()).
			Warn("ignoring incomplete address at the end of the trace")
	}

	if stats.TotalAccesses == 0 {
		s.logger.Warn("trace holds no address")
	}

	if s.recorder != nil {
		s.recorder.EndRun(stats, filled)
	}

	if s.tracked != nil {
		s.tracked.Finish(stats, filled)
	}

	s.logger.WithFields(logrus.Fields{
		"accesses": stats.TotalAccesses,
		"hit_rate": stats.HitRate(),
	}).Info("simulation finished")
}

// Terminate removes the run from the progress display of the monitor.
func (s *Simulation) Terminate() {
	if s.monitor != nil && s.bar != nil {
		s.monitor.CompleteProgressBar(s.bar)
		s.bar = nil
	}
}

// SliceSource serves addresses from memory.
type SliceSource struct {
	addresses []uint32
	next      int
}

// NewSliceSource creates a source over a slice of addresses.
func NewSliceSource(addresses []uint32) *SliceSource {
	return &SliceSource{addresses: addresses}
}

// Read returns the next address.
func (s *SliceSource) Read() (uint32, error) {
	if s.next >= len(s.addresses) {
		return 0, io.EOF
	}

	a := s.addresses[s.next]
	s.next++

	return a, nil
}

// NumAddresses returns the length of the slice.
func (s *SliceSource) NumAddresses() uint64 {
	return uint64(len(s.addresses))
}
