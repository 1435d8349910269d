// Package logging builds the *log.Logger instances handed to each component.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the base logger.
type Options struct {
	// File, when set, receives all log output with size-based rotation.
	File string

	// MaxSizeMB is the size at which File is rotated (default: 10).
	MaxSizeMB int

	// MaxBackups is how many rotated files are kept (default: 3).
	MaxBackups int

	// MaxAgeDays removes rotated files older than this many days (0 keeps them).
	MaxAgeDays int

	// Stderr mirrors log output to stderr. Without File or Stderr logs are discarded.
	Stderr bool

	// Writer overrides stderr as the console sink (used by tests).
	Writer io.Writer
}

// Logger is the base logger and its sink.
type Logger struct {
	*log.Logger
	closer io.Closer
}

// New builds the base logger described by opts.
func New(opts Options) (*Logger, error) {
	var sinks []io.Writer
	var closer io.Closer

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     opts.MaxAgeDays,
		}
		sinks = append(sinks, lj)
		closer = lj
	}
	if opts.Stderr {
		w := opts.Writer
		if w == nil {
			w = os.Stderr
		}
		sinks = append(sinks, w)
	}

	var out io.Writer
	switch len(sinks) {
	case 0:
		out = io.Discard
	case 1:
		out = sinks[0]
	default:
		out = io.MultiWriter(sinks...)
	}

	return &Logger{
		Logger: log.New(out, "", log.LstdFlags),
		closer: closer,
	}, nil
}

// Component returns a logger sharing the base sink with a "[name] " prefix.
func (l *Logger) Component(name string) *log.Logger {
	return log.New(l.Writer(), "["+name+"] ", l.Flags())
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
