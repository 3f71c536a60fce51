package whisper

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleOutput = `{
  "params": {"language": "auto"},
  "result": {"language": "en"},
  "transcription": [
    {"offsets": {"from": 0, "to": 2500}, "text": " Hello there."},
    {"offsets": {"from": 2500, "to": 4100}, "text": " General Kenobi."}
  ]
}`

func TestTranscribeParsesOutput(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "audio.wav")
	if err := os.WriteFile(source, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	engine := NewEngine(Config{Binary: "whisper-cli", ModelPath: "/models/ggml-small.bin", Device: "cpu"}, nil)
	var gotArgs []string
	engine.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		// The CLI writes <output-file>.json on success.
		out := filepath.Join(dir, "audio.json")
		return nil, os.WriteFile(out, []byte(sampleOutput), 0o644)
	})

	result, err := engine.Transcribe(context.Background(), source, 5)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if result.Language != "en" {
		t.Fatalf("unexpected language %q", result.Language)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}
	if result.Segments[0].Start != 0 || result.Segments[0].End != 2.5 {
		t.Fatalf("offset conversion wrong: %+v", result.Segments[0])
	}
	if result.Segments[1].Text != " General Kenobi." {
		t.Fatalf("segment text must not be trimmed: %q", result.Segments[1].Text)
	}

	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "--beam-size 5") {
		t.Fatalf("beam size missing from args: %v", gotArgs)
	}
	if !strings.Contains(joined, "--no-gpu") {
		t.Fatalf("cpu device should disable gpu: %v", gotArgs)
	}
	if !strings.Contains(joined, "-m /models/ggml-small.bin") {
		t.Fatalf("model path missing from args: %v", gotArgs)
	}
}

func TestTranscribeSurfacesCommandFailure(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "audio.wav")
	engine := NewEngine(Config{ModelPath: "/models/ggml-small.bin"}, nil)
	engine.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("failed to initialize whisper context"), os.ErrPermission
	})

	if _, err := engine.Transcribe(context.Background(), source, 5); err == nil {
		t.Fatal("expected error from failing CLI")
	}
}

func TestDetectLanguageFallbacks(t *testing.T) {
	var payload jsonPayload

	payload.Result.Language = "spa"
	if got := detectLanguage(payload); got != "es" {
		t.Fatalf("expected canonical es, got %q", got)
	}

	payload.Result.Language = ""
	payload.Params.Language = "de"
	if got := detectLanguage(payload); got != "de" {
		t.Fatalf("expected params fallback de, got %q", got)
	}

	payload.Params.Language = "auto"
	if got := detectLanguage(payload); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}

func TestLoadChecksModelFile(t *testing.T) {
	engine := NewEngine(Config{
		Binary:    "sh", // exists on PATH in any test environment
		ModelPath: filepath.Join(t.TempDir(), "missing.bin"),
	}, nil)
	if err := engine.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing model file")
	}
}
