// Package logging configures the logrus logger shared by the commands.
package logging

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// New returns a logger writing plain key=value lines to w. Timestamps are
// left out so that runs over the same input log identically.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.New()
	logger.SetOutput(w)
	logger.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	logger.SetLevel(log.InfoLevel)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
