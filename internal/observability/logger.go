package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/splgeo/spl-areas/internal/config"
)

// NewLogger builds the process-wide slog.Logger from config. Logs go to
// stderr; stdout stays clean for shell pipelines around the exported files.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
