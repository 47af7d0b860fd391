// Instrstat totals the checks reported while building each SPEC program.
//
// Usage:
//
//	instrstat [--format latex|text] build.log
//
// The build log is the output of a SPEC build of the instrumented
// compiler, in which every program starts with a "Building" line and each
// compiled module reports "Fetch Instrument: N" and "Check Instrument: N".
// By default one LaTeX table row is printed per program:
//
//	& perlbench    & & & & &   6377 &   7909 \\
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
	var format string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "instrstat build.log",
		Short: "Total the instrumented checks of each SPEC program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "latex" && format != "text" {
				return errors.Errorf("unknown format %q, want latex or text", format)
			}
			cmd.SilenceUsage = true
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			logger.WithField("path", args[0]).Info("Reading build log")
			stats, err := speclog.ReadBuildLog(args[0])
			if err != nil {
				return err
			}
			rows := analyzer.InstrumentRows(stats)
			logger.WithFields(log.Fields{
				"programs": len(stats),
				"reported": len(rows),
			}).Debug("build log parsed")

			if format == "text" {
				return analyzer.WriteInstrumentText(cmd.OutOrStdout(), rows)
			}
			return analyzer.WriteInstrumentLaTeX(cmd.OutOrStdout(), rows)
		},
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&format, "format", "latex", "output `format`: latex or text")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log parse details")

	return cmd
}
