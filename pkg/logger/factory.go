package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Options controls the handler built by NewWithOptions.
type Options struct {
	// Writer receives log output. Defaults to os.Stdout.
	Writer io.Writer
	// Format is FormatJSON (default) or FormatText.
	Format string
	Level  slog.Level
}

// New creates a JSON-formatted logger with optional context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	return NewWithOptions(Options{}, extractors...)
}

// NewWithOptions creates a logger with the given output options and context
// extractors.
func NewWithOptions(opts Options, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewLogHandlerDecorator(newHandler(opts), extractors...))
}

// ParseLevel converts "debug", "info", "warn" or "error" to a slog level.
// Unrecognised values yield slog.LevelInfo.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func newHandler(opts Options) slog.Handler {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	ho := &slog.HandlerOptions{Level: opts.Level}
	if strings.EqualFold(opts.Format, FormatText) {
		return slog.NewTextHandler(w, ho)
	}
	return slog.NewJSONHandler(w, ho)
}
