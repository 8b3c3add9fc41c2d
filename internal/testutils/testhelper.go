// Package testutils provides builders and fakes shared by the package
// tests: a beacon payload builder, a scriptable fake radio and a quiet
// logger.
package testutils

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewTestLogger returns a logger that records nothing. Debug level is kept
// enabled so code paths that inspect the level still run.
func NewTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return logger
}
