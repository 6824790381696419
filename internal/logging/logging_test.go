package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandeepkv93/nutrid/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := parseLogLevel(in)
		if err != nil || got != want {
			t.Fatalf("parseLogLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseLogLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nutrid.log")
	logger, closer, err := New(config.Log{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("alarm fired", "alarm_id", "alarm_1")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(raw)
	if strings.Contains(out, "hidden") {
		t.Fatal("debug record should be filtered")
	}
	if !strings.Contains(out, `"alarm_id":"alarm_1"`) {
		t.Fatalf("expected json record, got %q", out)
	}
}

func TestNewWithWriterText(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, slog.LevelDebug, "text").Debug("tick", "user", "alice")
	if !strings.Contains(buf.String(), "user=alice") {
		t.Fatalf("unexpected text output %q", buf.String())
	}
}

func TestNewWithoutFileDiscards(t *testing.T) {
	logger, closer, err := New(config.Log{Level: "debug"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("nowhere")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
