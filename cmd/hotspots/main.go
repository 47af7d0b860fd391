// Hotspots ranks functions of an instrumented SPEC build by the cost of the
// checks inserted into them.
//
// Usage:
//
//	hotspots [flags] compile.log [run.log]
//
// The compile log holds one block per function:
//
//	[foo]
//	builtin: 10
//	cluster: 5
//	runtime: 0
//
// Each function is weighted as runtime + 1.1*cluster + 0.1*builtin.
//
// Given only a compile log, hotspots prints the functions in order of
// decreasing weight as "rank name: runtime cluster builtin", leaving out
// those with runtime+cluster at or below the -noise threshold.
//
// Given also a run log of "name:count" lines, hotspots multiplies each
// counted function's weight by its call count and prints
// "rank percent% name: runtime cluster builtin count", stopping after the
// row that brings the cumulative percentage past -cutoff.
package main

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"specbench-tools/internal/analyzer"
	"specbench-tools/internal/logging"
	"specbench-tools/internal/speclog"
)

func main() {
	logger := logging.New(os.Stderr, false)
	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	var (
		noise   int
		cutoff  float64
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "hotspots compile.log [run.log]",
		Short: "Rank functions by the cost of their inserted checks",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid; later failures are not usage errors.
			cmd.SilenceUsage = true
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			var runLog string
			if len(args) == 2 {
				runLog = args[1]
			}
			return rank(cmd, logger, args[0], runLog, noise, cutoff)
		},
		SilenceErrors: true,
	}

	cmd.Flags().IntVar(&noise, "noise", analyzer.DefaultNoiseThreshold, "hide functions with runtime+cluster at or below `n` (compile log only)")
	cmd.Flags().Float64Var(&cutoff, "cutoff", analyzer.DefaultCutoff, "stop after the cumulative share passes `percent` (with run log)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log compile log statistics")

	return cmd
}

func rank(cmd *cobra.Command, logger *log.Logger, compileLog, runLog string, noise int, cutoff float64) error {
	out := cmd.OutOrStdout()

	logger.WithField("path", compileLog).Info("Starting analysis of compile log")
	records, err := speclog.ReadCompileLog(compileLog)
	if err != nil {
		return err
	}

	stats := analyzer.ComputeStatistics(records, noise)
	logger.WithFields(log.Fields{
		"functions": stats.Functions,
		"unique":    stats.UniqueFunctions,
		"builtin":   stats.TotalBuiltin,
		"cluster":   stats.TotalCluster,
		"runtime":   stats.TotalRuntime,
		"noise":     stats.NoiseFunctions,
	}).Debug("compile log statistics")
	if len(stats.DuplicateNames) > 0 {
		logger.WithField("names", stats.DuplicateNames).Debug("duplicate function names; the heaviest block is used")
	}

	if runLog == "" {
		return analyzer.WriteHotspots(out, analyzer.FindHotspots(records, noise))
	}

	logger.WithField("path", runLog).Info("Starting analysis of run log")
	counts, err := speclog.ReadRunLog(runLog)
	if err != nil {
		return err
	}

	hotspots, err := analyzer.FindJoinedHotspots(records, counts, cutoff)
	if errors.Is(err, analyzer.ErrNoData) {
		logger.WithField("calls", len(counts)).Warn("joined weights sum to zero, nothing to rank")
		_, err = out.Write([]byte("no data\n"))
		return err
	}
	if err != nil {
		return err
	}
	return analyzer.WriteJoinedHotspots(out, hotspots)
}
