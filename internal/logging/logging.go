// Package logging builds the application logger. The terminal belongs to the
// UI, so log output only ever goes to a rotating file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"chardiff/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger for cfg and the closer for its file. A disabled config
// yields a no-op logger.
func New(cfg config.LogConfig) (zerolog.Logger, io.Closer, error) {
	if !cfg.Enabled {
		return zerolog.Nop(), nopCloser{}, nil
	}
	if cfg.File == "" {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("log file path required when logging is enabled")
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}
	return NewWithWriter(file, level), file, nil
}

// NewWithWriter is New without the file handling.
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("app", "chardiff").
		Logger()
}
