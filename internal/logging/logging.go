// Package logging constructs the daemon's leveled loggers.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/fakeyudi/snipt/internal/config"
)

// Open returns a logger writing to the daemon log file, plus a closer for
// the underlying file. When foreground is true, output is mirrored to
// stderr as well.
func Open(level string, foreground bool) (*log.Logger, func() error, error) {
	path, err := config.LogPath()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = f
	if foreground {
		w = io.MultiWriter(f, os.Stderr)
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           parseLevel(level),
	})
	return logger, f.Close, nil
}

// For returns a child logger tagged with a component prefix.
func For(logger *log.Logger, component string) *log.Logger {
	return logger.WithPrefix(component)
}

func parseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
