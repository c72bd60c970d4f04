// Package logging builds the process logger and routes driver diagnostics
// into it.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/bringup/config"
)

// New creates a logger from cfg. Unknown levels fall back to info and
// unknown formats to text; config.Validate rejects both beforehand.
func New(cfg config.LoggingConfig) *logrus.Logger {
	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		output = os.Stdout
	default:
		output = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(output)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
