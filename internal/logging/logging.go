package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Config selects the handler used by New.
type Config struct {
	// Writer defaults to os.Stdout.
	Writer io.Writer
	Level  string
	// Format is "json" or "text". Text output is colourised by tint.
	Format    string
	AddSource bool
}

// New builds the process logger.
func New(cfg Config) *slog.Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	level := ParseLevel(cfg.Level)

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(cfg.Writer, &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource})
	} else {
		handler = tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      level,
			AddSource:  cfg.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	}
	return slog.New(handler)
}

// ParseLevel falls back to info for unknown values.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OrDiscard returns l, or a logger that drops everything when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
