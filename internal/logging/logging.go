// Package logging builds the diagnostic logger shared by all commands.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New creates a logger writing to w. Verbose enables debug output;
// otherwise only warnings and errors are shown.
func New(verbose bool, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !verbose,
		FullTimestamp:    verbose,
	})

	level := logrus.WarnLevel
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	return logger
}

// Discard returns a logger that drops everything
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
