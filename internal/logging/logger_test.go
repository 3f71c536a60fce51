package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"whisperd/internal/services"
)

func TestConsoleHandlerHoistsComponent(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	NewComponentLogger(logger, "server").Info("listening", String("address", "127.0.0.1:9090"))

	line := buf.String()
	if !strings.Contains(line, " server: listening") {
		t.Fatalf("component not hoisted: %q", line)
	}
	if !strings.Contains(line, "address=127.0.0.1:9090") {
		t.Fatalf("attribute missing: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not appear as key-value: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("upload", String("filename", "my talk.wav"))
	if !strings.Contains(buf.String(), `filename="my talk.wav"`) {
		t.Fatalf("value with spaces should be quoted: %q", buf.String())
	}
}

func TestJSONHandlerFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl))

	logger.Info("done", Int("status", 200))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if decoded["msg"] != "done" {
		t.Fatalf("unexpected msg field: %v", decoded)
	}
	if decoded["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", decoded["level"])
	}
	if _, ok := decoded["ts"]; !ok {
		t.Fatalf("expected ts field: %v", decoded)
	}
}

func TestWithContextAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	ctx := services.WithRequestID(context.Background(), "req-123")
	ctx = services.WithClientHost(ctx, "127.0.0.1")
	WithContext(ctx, logger).Info("transcribe complete")

	line := buf.String()
	if !strings.Contains(line, "request_id=req-123") || !strings.Contains(line, "client=127.0.0.1") {
		t.Fatalf("context fields missing: %q", line)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("debug") != slog.LevelDebug {
		t.Fatal("debug level not parsed")
	}
	if parseLevel("bogus") != slog.LevelInfo {
		t.Fatal("unknown level should fall back to info")
	}
}
