package utils

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger writing to w. The CLI logs to
// stderr so table output on stdout stays pipeable.
func NewLogger(w io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger
}
