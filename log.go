package minkowski

import (
	"github.com/sirupsen/logrus"
)

// Package logger for lifecycle events (vocabulary construction, epoch
// boundaries, checkpoints).  The in-place training progress line is written
// to stderr directly, since a structured logger cannot redraw a line.
var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return l
}

// SetLogLevel adjusts the verbosity of the package logger.
func SetLogLevel(level logrus.Level) {
	logger.SetLevel(level)
}
