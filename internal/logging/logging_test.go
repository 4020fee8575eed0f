package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/martinemde/implore/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for raw, want := range tests {
		if got := ParseLevel(raw); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestNew_WritesToStderrByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(config.LogConfig{Level: "info"}, &buf)
	defer func() { _ = closer.Close() }()

	logger.Debug("hidden")
	logger.Info("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("expected info line with attributes, got: %s", out)
	}
}

func TestNew_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "implore.log")
	var buf bytes.Buffer

	logger, closer := New(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1}, &buf)
	logger.Debug("to the file")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("nothing should reach stderr when a file is configured, got: %s", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "to the file") {
		t.Errorf("log file missing entry: %s", data)
	}
}

func TestComponent_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx, id := WithRequestID(context.Background())
	if id == "" || RequestID(ctx) != id {
		t.Fatalf("request id not stored in context")
	}

	Component(base, "bridge").Info(ctx, "launching")

	out := buf.String()
	if !strings.Contains(out, "component=bridge") {
		t.Errorf("missing component attribute: %s", out)
	}
	if !strings.Contains(out, "request_id="+id) {
		t.Errorf("missing request id attribute: %s", out)
	}
}

func TestWithRequestID_Unique(t *testing.T) {
	_, a := WithRequestID(context.Background())
	_, b := WithRequestID(context.Background())
	if a == b {
		t.Errorf("request ids should differ, both were %s", a)
	}
}

func TestRequestID_Missing(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID = %q, want empty", got)
	}
}
