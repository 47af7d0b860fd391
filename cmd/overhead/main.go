// Overhead summarizes the time and memory cost of an instrumented SPEC
// configuration from the log of the spectest harness.
//
// Usage:
//
//	overhead [--baseline native] [--config shadowbound] spectest.log
//
// For each benchmark the summed time and memory of all its commands under
// --config are divided by those under --baseline. The last row is the
// geometric mean of the overheads, in percent.
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
	var baseline, config string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "overhead spectest.log",
		Short: "Compare an instrumented SPEC configuration against its baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseline == config {
				return errors.Errorf("--baseline and --config are both %q", baseline)
			}
			cmd.SilenceUsage = true
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			logger.WithField("path", args[0]).Info("Reading spectest log")
			ms, err := speclog.ReadSpectestLog(args[0])
			if err != nil {
				return err
			}
			logger.WithField("measurements", len(ms)).Debug("spectest log parsed")

			summary, err := analyzer.ComputeOverheads(ms, baseline, config)
			if err != nil {
				return err
			}
			return analyzer.WriteOverheads(cmd.OutOrStdout(), summary)
		},
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&baseline, "baseline", "native", "baseline `config`")
	cmd.Flags().StringVar(&config, "config", "shadowbound", "instrumented `config`")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log parse details")

	return cmd
}
