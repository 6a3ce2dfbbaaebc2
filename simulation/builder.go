package simulation

import (
	"github.com/rs/xid"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sirupsen/logrus"
)

// Builder can be used to build a simulation.
type Builder struct {
	config         cache.Config
	seed           int64
	seeded         bool
	recorder       datarecording.DataRecorder
	recordAccesses bool
	monitor        *monitoring.Monitor
	logger         logrus.FieldLogger
	traceName      string
}

// MakeBuilder creates a new builder with the default cache of the cache
// package.
func MakeBuilder() Builder {
	return Builder{
		config: cache.Config{
			NumSets:       64,
			BlockSize:     64,
			Associativity: 4,
			Policy:        cache.PolicyLRU,
		},
		logger:    logrus.StandardLogger(),
		traceName: "trace",
	}
}

// WithCacheConfig sets the geometry and policy of the simulated cache.
func (b Builder) WithCacheConfig(c cache.Config) Builder {
	b.config = c
	return b
}

// WithSeed fixes the seed of the random replacement policy.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	b.seeded = true

	return b
}

// WithRecorder stores the run in the given recorder. Every access is also
// stored if recordAccesses is set.
func (b Builder) WithRecorder(
	recorder datarecording.DataRecorder,
	recordAccesses bool,
) Builder {
	b.recorder = recorder
	b.recordAccesses = recordAccesses

	return b
}

// WithMonitor reports the progress and the statistics of the run to the
// monitor.
func (b Builder) WithMonitor(m *monitoring.Monitor) Builder {
	b.monitor = m
	return b
}

// WithLogger sets the logger of the simulation.
func (b Builder) WithLogger(logger logrus.FieldLogger) Builder {
	b.logger = logger
	return b
}

// WithTraceName sets the name that identifies the trace in records and on
// the monitor.
func (b Builder) WithTraceName(name string) Builder {
	b.traceName = name
	return b
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	cb := cache.MakeBuilder().WithConfig(b.config)
	if b.seeded {
		cb = cb.WithSeed(b.seed)
	}

	c, err := cb.Build()
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		id:        xid.New().String(),
		cache:     c,
		traceName: b.traceName,
		monitor:   b.monitor,
	}

	s.logger = b.logger.WithFields(logrus.Fields{
		"run":    s.id,
		"trace":  b.traceName,
		"config": b.config.String(),
	})

	if b.recorder != nil {
		s.recorder = datarecording.NewCacheRecorder(
			b.recorder, s.id, b.recordAccesses)
		c.AcceptHook(s.recorder)
	}

	if b.monitor != nil {
		s.bar = b.monitor.CreateProgressBar(b.traceName, 0)
		s.tracked = b.monitor.TrackCache(s.id, c, s.bar)
	}

	return s, nil
}
