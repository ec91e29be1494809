// Package logging provides structured logging with zerolog.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	TimeFormat string // RFC3339, Unix, etc.
	File       string // optional rotating log file; empty logs to stdout
	MaxSizeMB  int    // rotate after this many megabytes
	MaxBackups int    // rotated files to keep
}

// DefaultConfig returns sensible default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		TimeFormat: time.RFC3339,
		MaxSizeMB:  50,
		MaxBackups: 3,
	}
}

// Init initializes the global zerolog logger.
func Init(cfg Config) {
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}
	zerolog.TimeFieldFormat = cfg.TimeFormat

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	switch {
	case cfg.File != "":
		// Rotating file sink always takes the json form; the console
		// decorations are for terminals.
		output = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
	case cfg.Format == "console":
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.Kitchen,
		}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Logger()
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	return log.Logger
}

// WithComponent returns a logger with a component tag.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}

// WithRun returns a logger with batch run context.
func WithRun(runID string) zerolog.Logger {
	return log.With().
		Str("runId", runID).
		Logger()
}

// WithDirectory returns a logger with segment directory context.
func WithDirectory(runID, dir string) zerolog.Logger {
	return log.With().
		Str("runId", runID).
		Str("directory", dir).
		Logger()
}

// WithSegment returns a logger with segment context.
func WithSegment(runID, dir, segmentID string) zerolog.Logger {
	return log.With().
		Str("runId", runID).
		Str("directory", dir).
		Str("segmentId", segmentID).
		Logger()
}
