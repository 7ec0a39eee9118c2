package config

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/backdrop/internal/loop"
	"github.com/tomz197/backdrop/internal/object"
)

// NewLogger returns a timestamped logger on stderr. The level comes from
// LOG_LEVEL (debug, info, warn, error) and defaults to info.
func NewLogger(prefix string) *log.Logger {
	return newLogger(os.Stderr, prefix, GetEnv("LOG_LEVEL", "info"))
}

func newLogger(w io.Writer, prefix, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// WorldOptions reads the animation settings shared by every host:
// BACKDROP_PARTICLES, BACKDROP_SEED and BACKDROP_THEME.
func WorldOptions() loop.Options {
	opts := loop.DefaultOptions()
	opts.Particles = GetEnvInt("BACKDROP_PARTICLES", opts.Particles)
	opts.Seed = GetEnvInt64("BACKDROP_SEED", 0)
	opts.Theme = object.ParseTheme(GetEnv("BACKDROP_THEME", opts.Theme.String()))
	return opts
}
