// Package log configures the process-wide zerolog logger.
//
// The TUI owns the terminal, so log output goes to a file instead of
// stdout. Components obtain a scoped logger via With.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level  string    // optional log level ("debug", "info", etc.)
	Path   string    // optional log file path (defaults to discarding)
	Output io.Writer // optional writer, overrides Path (used in tests)
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the global zerolog logger exactly once.
// Subsequent calls are no-ops.
func Configure(cfg Config) {
	once.Do(func() {
		level := zerolog.InfoLevel
		if cfg.Level != "" {
			if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
				level = parsed
			}
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339

		writer := cfg.Output
		if writer == nil && cfg.Path != "" {
			if f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				writer = f
			}
		}
		if writer == nil {
			writer = io.Discard
		}

		base = zerolog.New(writer).With().Timestamp().Logger()
	})
}

// L returns the global logger. Configure must have been called first;
// otherwise the logger discards everything.
func L() zerolog.Logger {
	return base
}

// With returns a logger tagged with a component name.
func With(component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
