package config

import (
	"flag"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// Options are the command-line settings of a run.
type Options struct {
	Seed         uint64
	Count        int
	EarthTexture string
	Music        string
	LogLevel     slog.Level
}

// ParseOptions reads options from args (without the program name).
func ParseOptions(args []string) (Options, error) {
	var (
		o     Options
		level string
	)
	fs := flag.NewFlagSet("galaxy", flag.ContinueOnError)
	fs.Uint64Var(&o.Seed, "seed", 0, "random seed for the galaxy, 0 picks one from the clock")
	fs.IntVar(&o.Count, "count", 0, "initial point count, 0 keeps the default")
	fs.StringVar(&o.EarthTexture, "earth-texture", "", "image file wrapped around the Earth")
	fs.StringVar(&o.Music, "music", "", "wav, mp3 or flac file looped in the background")
	fs.StringVar(&level, "log-level", "info", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	lvl, err := ParseLogLevel(level)
	if err != nil {
		return Options{}, err
	}
	o.LogLevel = lvl

	if o.Count < 0 {
		return Options{}, errors.Errorf("count must not be negative, got %d", o.Count)
	}
	if o.Count > 0 {
		o.Count = int(CountRange.Snap(float64(o.Count)))
	}
	return o, nil
}

// ParseLogLevel maps a level name to its slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown log level %q", s)
	}
}
