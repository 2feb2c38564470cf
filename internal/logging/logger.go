package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"pie/internal/config"
)

// New builds a logrus logger from the log settings. Unknown levels fall back to info.
// Format "json" selects the JSON formatter; anything else is human-readable text.
func New(cfg config.LogConfig) *logrus.Logger {
	return newWithOutput(cfg, os.Stderr)
}

func newWithOutput(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}

// Discard returns a logger that writes nowhere, for tests and tooling.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
