// Package logger builds the application *slog.Logger from configuration.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the log level, destination and format.
type Options struct {
	Level  string // debug, info, warn or error; empty keeps the slog default
	File   string // append logs to file; empty or "-" means stderr
	Format string // text or json
}

func level(option string) (slog.Leveler, bool) {
	switch strings.ToLower(option) {
	case "":
		return nil, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

// New returns a logger for options. Unusable values fall back to defaults
// and the fallback is logged as a warning.
func New(options Options) *slog.Logger {
	return newLogger(options, os.Stderr)
}

func newLogger(options Options, stderr io.Writer) *slog.Logger {
	level, ok := level(options.Level)
	if !ok {
		bad := options.Level
		options.Level = ""
		logger := newLogger(options, stderr)
		logger.Warn("could not parse logger level", "level", bad)
		return logger
	}
	opts := slog.HandlerOptions{Level: level}

	var output io.Writer
	switch options.File {
	case "", "-":
		output = stderr
	case os.DevNull:
		return slog.New(slog.DiscardHandler)
	default:
		var err error
		output, err = os.OpenFile(options.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			options.File = ""
			logger := newLogger(options, stderr)
			logger.Warn("could not open logger file", "err", err)
			return logger
		}
	}

	switch strings.ToLower(options.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(output, &opts))
	case "", "text":
		return slog.New(slog.NewTextHandler(output, &opts))
	default:
		options.Format = "text"
		logger := newLogger(options, stderr)
		logger.Warn("could not parse logger format")
		return logger
	}
}
