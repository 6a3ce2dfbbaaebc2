package cmd

import (
	"github.com/sarchlab/cachesim/analysis"
	"github.com/sarchlab/cachesim/mem/cache"
	"github.com/sarchlab/cachesim/mem/trace"
	"github.com/sarchlab/cachesim/simulation"
	"github.com/spf13/cobra"
)

type sweepOptions struct {
	numSets         []int
	blockSizes      []int
	associativities []int
	policies        []string
	workers         int
	csv             bool
}

func newSweepCmd(opts *options) *cobra.Command {
	sweepOpts := &sweepOptions{}

	sweepCmd := &cobra.Command{
		Use:   "sweep <inputFile>",
		Short: "Replay one trace against a grid of cache configurations.",
		Long: `sweep replays the same trace against every combination of the ` +
			`given numbers of sets, block sizes, associativities and ` +
			`policies, and prints one row per configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, opts, sweepOpts, args[0])
		},
	}

	flags := sweepCmd.Flags()
	flags.IntSliceVar(&sweepOpts.numSets, "sets", []int{1, 16, 64, 256},
		"numbers of sets")
	flags.IntSliceVar(&sweepOpts.blockSizes, "block-sizes", []int{16, 64},
		"block sizes in bytes")
	flags.IntSliceVar(&sweepOpts.associativities, "assoc", []int{1, 2, 4, 8},
		"associativities")
	flags.StringSliceVar(&sweepOpts.policies, "policies",
		[]string{"r", "f", "l"}, "replacement policies")
	flags.IntVar(&sweepOpts.workers, "workers", 0,
		"number of simulations to run at a time, one per CPU if 0")
	flags.BoolVar(&sweepOpts.csv, "csv", false, "print CSV instead of a table")

	return sweepCmd
}

func runSweep(
	cmd *cobra.Command,
	opts *options,
	sweepOpts *sweepOptions,
	path string,
) error {
	policies := make([]cache.Policy, 0, len(sweepOpts.policies))
	for _, p := range sweepOpts.policies {
		policy, err := cache.ParsePolicy(p)
		if err != nil {
			return err
		}

		policies = append(policies, policy)
	}

	configs := simulation.ExpandGrid(
		sweepOpts.numSets,
		sweepOpts.blockSizes,
		sweepOpts.associativities,
		policies,
	)

	order, err := trace.ParseByteOrder(opts.byteOrder)
	if err != nil {
		return err
	}

	f, err := trace.Open(path, order)
	if err != nil {
		return err
	}

	addresses, err := f.ReadRemaining()
	f.Close()

	if err != nil {
		return err
	}

	sess, err := openSession(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer sess.close()

	base := sess.builder(opts, cmd.Flags().Changed("seed")).
		WithTraceName(path)

	results, err := simulation.Sweep(
		cmd.Context(), base, configs, addresses, sweepOpts.workers)
	if err != nil {
		return err
	}

	if sweepOpts.csv {
		return analysis.WriteSweepCSV(cmd.OutOrStdout(), results)
	}

	return analysis.WriteSweepTable(cmd.OutOrStdout(), results)
}
