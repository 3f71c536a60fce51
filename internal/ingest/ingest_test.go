package ingest

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"whisperd/internal/services"
)

func TestSaveLimitedSuccess(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "input.wav")
	payload := bytes.Repeat([]byte("a"), 4096)

	n, err := SaveLimited(bytes.NewReader(payload), dest, 1<<20)
	if err != nil {
		t.Fatalf("SaveLimited failed: %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("expected %d bytes, got %d", len(payload), n)
	}
	written, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if !bytes.Equal(written, payload) {
		t.Fatal("destination content mismatch")
	}
}

func TestSaveLimitedRejectsEmpty(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "input.wav")
	_, err := SaveLimited(strings.NewReader(""), dest, 1<<20)
	if !errors.Is(err, services.ErrEmptyUpload) {
		t.Fatalf("expected ErrEmptyUpload, got %v", err)
	}
}

func TestSaveLimitedRejectsOversized(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "input.wav")
	payload := bytes.Repeat([]byte("b"), 2048)

	_, err := SaveLimited(bytes.NewReader(payload), dest, 1024)
	if !errors.Is(err, services.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

// endlessReader simulates a client that never stops sending.
type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

func TestSaveLimitedBoundsDiskUseForEndlessStream(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "input.wav")
	const maxBytes = 3 << 20

	_, err := SaveLimited(io.Reader(endlessReader{}), dest, maxBytes)
	if !errors.Is(err, services.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}

	info, statErr := os.Stat(dest)
	if statErr != nil {
		t.Fatalf("stat destination: %v", statErr)
	}
	// Abort happens before the chunk that crossed the cap is written.
	if info.Size() > maxBytes+chunkSize {
		t.Fatalf("wrote %d bytes, cap is %d + one chunk", info.Size(), maxBytes)
	}
}

func TestSaveLimitedExactCapAllowed(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "input.wav")
	payload := bytes.Repeat([]byte("c"), 1024)

	n, err := SaveLimited(bytes.NewReader(payload), dest, 1024)
	if err != nil {
		t.Fatalf("upload at exactly the cap should pass: %v", err)
	}
	if n != 1024 {
		t.Fatalf("expected 1024 bytes, got %d", n)
	}
}
