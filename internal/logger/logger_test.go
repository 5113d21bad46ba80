package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/modflag/internal/config"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.Config{Env: config.EnvProduction}, &buf)

	log.Info("message flagged", "message_id", "m1")
	log.Debug("hidden")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "message flagged" || entry["message_id"] != "m1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNew_DevelopmentLogsDebugText(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.Config{Env: config.EnvDevelopment}, &buf)

	log.Debug("debug line")

	if !strings.Contains(buf.String(), "msg=\"debug line\"") {
		t.Errorf("expected debug text output, got %q", buf.String())
	}
}

func TestLevel_Override(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		expected slog.Level
	}{
		{name: "development default", cfg: config.Config{Env: config.EnvDevelopment}, expected: slog.LevelDebug},
		{name: "production default", cfg: config.Config{Env: config.EnvProduction}, expected: slog.LevelInfo},
		{name: "explicit warn", cfg: config.Config{Env: config.EnvDevelopment, LogLevel: "WARN"}, expected: slog.LevelWarn},
		{name: "explicit error", cfg: config.Config{Env: config.EnvProduction, LogLevel: "error"}, expected: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := level(tt.cfg); got != tt.expected {
				t.Errorf("level() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStartSpan_NoopProvider(t *testing.T) {
	sc := StartSpan(context.Background(), "test.span")
	sc.RecordError(errors.New("boom"))
	sc.RecordError(nil)
	sc.End()
	sc.End()

	if sc.Context() == nil {
		t.Error("expected a context")
	}
	if sc.Span() == nil {
		t.Error("expected a span")
	}
}
