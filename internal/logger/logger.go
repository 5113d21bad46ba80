// Package logger configures process-wide structured logging and tracing helpers.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/modflag/internal/config"
)

// Setup installs the default slog logger for the process.
// Development gets a debug-level text handler, production a JSON handler.
func Setup(cfg config.Config) {
	slog.SetDefault(New(cfg, os.Stderr))
}

// New builds a logger for cfg writing to w.
func New(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(cfg)}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func level(cfg config.Config) slog.Level {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if cfg.IsDevelopment() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
