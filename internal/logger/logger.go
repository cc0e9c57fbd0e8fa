package logger

import (
	"io"
	"log/slog"
	"os"
)

// Init installs the process-wide slog handler. Output goes to stderr so it
// does not interleave with anything a caller prints on stdout.
func Init(level slog.Level) {
	InitWriter(os.Stderr, level)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	slog.With("component", "logger").Debug("Logger initialized", "level", level.String())
}
