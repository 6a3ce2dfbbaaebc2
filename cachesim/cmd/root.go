// Package cmd provides the command-line interface of cachesim.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/sarchlab/cachesim/analysis"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/trace"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/simulation"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// options are the flags shared by every command.
type options struct {
	envFile        string
	seed           int64
	byteOrder      string
	record         string
	recordAccesses bool
	monitor        bool
	monitorPort    int
	openBrowser    bool
	logLevel       string
	traceLog       string
}

// newRootCmd creates the command that simulates one cache over one trace.
func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use: "cachesim <numSets> <blockSize> <associativity> <policy> " +
			"<outputFlag> <inputFile>",
		Short: "cachesim replays an address trace against a " +
			"set-associative cache.",
		Long: `cachesim replays a binary trace of 32-bit addresses against a ` +
			`set-associative cache and classifies every miss as compulsory, ` +
			`capacity or conflict. The policy is r (random), f (FIFO) or ` +
			`l (LRU). An outputFlag of 1 prints a one-line summary, any ` +
			`other value prints the full report.`,
		Args:          cobra.ExactArgs(6),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return applyEnv(cmd.Root().PersistentFlags(), opts.envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd, opts, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env",
		"file to load environment variables from")
	flags.Int64Var(&opts.seed, "seed", 0,
		"seed of the random replacement policy")
	flags.StringVar(&opts.byteOrder, "byte-order", "big",
		"byte order of the trace: big, little or native")
	flags.StringVar(&opts.record, "record", "",
		"record the run into <path>.sqlite3")
	flags.BoolVar(&opts.recordAccesses, "record-accesses", false,
		"also record every access, requires --record")
	flags.BoolVar(&opts.monitor, "monitor", false,
		"serve the progress of the simulation over HTTP")
	flags.IntVar(&opts.monitorPort, "monitor-port", 0,
		"port of the monitoring server, random if 0")
	flags.BoolVar(&opts.openBrowser, "open-browser", false,
		"open the monitoring page in a browser")
	flags.StringVar(&opts.logLevel, "log-level", "warn",
		"log level: trace, debug, info, warn or error")

	rootCmd.Flags().StringVar(&opts.traceLog, "trace-log", "",
		"write one line per access and eviction to this file")

	rootCmd.AddCommand(newSweepCmd(opts))

	return rootCmd
}

// Execute runs the command line and exits with a non-zero status on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		stop()
		atexit.Exit(1)
	}
}

func parseConfig(args []string) (cache.Config, error) {
	names := []string{"number of sets", "block size", "associativity"}
	values := make([]int, len(names))

	for i, name := range names {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return cache.Config{}, fmt.Errorf("%w: %s %q is not an integer",
				cache.ErrConfig, name, args[i])
		}

		values[i] = v
	}

	policy, err := cache.ParsePolicy(args[3])
	if err != nil {
		return cache.Config{}, err
	}

	c := cache.Config{
		NumSets:       values[0],
		BlockSize:     values[1],
		Associativity: values[2],
		Policy:        policy,
	}

	return c, c.Validate()
}

// session holds what a command sets up around its simulations.
type session struct {
	logger   *logrus.Logger
	recorder datarecording.DataRecorder
	exec     *datarecording.ExecRecorder
	monitor  *monitoring.Monitor
}

func openSession(opts *options, stderr io.Writer) (*session, error) {
	logger, err := newLogger(opts.logLevel, stderr)
	if err != nil {
		return nil, err
	}

	s := &session{logger: logger}

	if opts.recordAccesses && opts.record == "" {
		return nil, errors.New("--record-accesses requires --record")
	}

	if opts.record != "" {
		s.recorder, err = datarecording.New(opts.record)
		if err != nil {
			return nil, err
		}

		s.exec = datarecording.NewExecRecorder(s.recorder)
		s.exec.Start()

		logger.WithField("file", s.recorder.FileName()).Info("recording")
	}

	if opts.monitor {
		s.monitor = monitoring.NewMonitor().
			WithLogger(logger).
			WithPortNumber(opts.monitorPort)

		url, err := s.monitor.StartServer()
		if err != nil {
			s.close()
			return nil, err
		}

		fmt.Fprintf(stderr, "Monitoring simulation with %s\n", url)

		if opts.openBrowser {
			err = browser.OpenURL(url)
			if err != nil {
				logger.WithError(err).Warn("cannot open browser")
			}
		}
	}

	return s, nil
}

func (s *session) builder(opts *options, flagSeed bool) simulation.Builder {
	b := simulation.MakeBuilder().WithLogger(s.logger)

	if flagSeed {
		b = b.WithSeed(opts.seed)
	}

	if s.recorder != nil {
		b = b.WithRecorder(s.recorder, opts.recordAccesses)
	}

	if s.monitor != nil {
		b = b.WithMonitor(s.monitor)
	}

	return b
}

func (s *session) close() {
	if s.exec != nil {
		s.exec.End()
	}

	if s.recorder != nil {
		err := s.recorder.Close()
		if err != nil {
			s.logger.WithError(err).Error("failed to close the recording")
		}
	}

	if s.monitor != nil {
		err := s.monitor.Stop()
		if err != nil {
			s.logger.WithError(err).Warn("failed to stop the monitor")
		}
	}
}

func runSingle(cmd *cobra.Command, opts *options, args []string) error {
	config, err := parseConfig(args)
	if err != nil {
		return err
	}

	order, err := trace.ParseByteOrder(opts.byteOrder)
	if err != nil {
		return err
	}

	f, err := trace.Open(args[5], order)
	if err != nil {
		return err
	}
	defer f.Close()

	sess, err := openSession(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.close()

	sim, err := sess.builder(opts, cmd.Flags().Changed("seed")).
		WithCacheConfig(config).
		WithTraceName(filepath.Base(args[5])).
		Build()
	if err != nil {
		return err
	}
	defer sim.Terminate()

	flushTraceLog, err := attachTraceLog(sim.Cache(), opts.traceLog)
	if err != nil {
		return err
	}

	stats, err := sim.Run(cmd.Context(), f)

	if logErr := flushTraceLog(); err == nil {
		err = logErr
	}

	if err != nil {
		return err
	}

	if args[4] == "1" {
		return analysis.WriteSummary(cmd.OutOrStdout(), stats)
	}

	return analysis.WriteReport(cmd.OutOrStdout(), sim.Cache())
}

// attachTraceLog hooks a text tracer to the cache. The returned function
// flushes and closes the log.
func attachTraceLog(c *cache.Simulator, path string) (func() error, error) {
	if path == "" {
		return func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := bufio.NewWriter(f)
	tracer := trace.NewTracer(w)
	c.AcceptHook(tracer)

	return func() error {
		err := tracer.Err()
		if err == nil {
			err = w.Flush()
		}

		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}

		return err
	}, nil
}
