// Package logging builds the logrus logger shared by the CLI, the screens
// and the dev server.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Options selects the level and output format.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New returns a logger writing to stderr unless Output is set. Format is
// "text" or "json".
func New(opts Options) (*log.Logger, error) {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	}

	level := log.InfoLevel
	if opts.Level != "" {
		l, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("logging level: %w", err)
		}
		level = l
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("logging format %q: want text or json", opts.Format)
	}
	return logger, nil
}

// Discard returns an entry that drops everything.
func Discard() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return log.NewEntry(logger)
}
