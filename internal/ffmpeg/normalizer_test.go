package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"whisperd/internal/services"
)

func TestNormalizeBuildsFixedArguments(t *testing.T) {
	var gotName string
	var gotArgs []string
	norm := New("ffmpeg", 45, nil)
	norm.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return nil, nil
	})

	if err := norm.Normalize(context.Background(), "/tmp/in.mp3", "/tmp/out.wav"); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("unexpected binary %q", gotName)
	}

	want := []string{
		"-nostdin", "-y", "-hide_banner", "-loglevel", "error",
		"-i", "/tmp/in.mp3", "-vn", "-sn", "-dn",
		"-ar", "16000", "-ac", "1", "-sample_fmt", "s16",
		"/tmp/out.wav",
	}
	if len(gotArgs) != len(want) {
		t.Fatalf("argument count mismatch: got %v", gotArgs)
	}
	for i := range want {
		if gotArgs[i] != want[i] {
			t.Fatalf("arg %d: got %q, want %q", i, gotArgs[i], want[i])
		}
	}
}

func TestNormalizeMapsTimeout(t *testing.T) {
	norm := New("ffmpeg", 1, nil)
	norm.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	// Shrink the deadline so the test does not actually wait a second.
	norm.timeout = 10 * time.Millisecond

	err := norm.Normalize(context.Background(), "in.webm", "out.wav")
	if !errors.Is(err, services.ErrEncodeTimeout) {
		t.Fatalf("expected ErrEncodeTimeout, got %v", err)
	}
}

func TestNormalizeMapsExitFailure(t *testing.T) {
	norm := New("ffmpeg", 45, nil)
	norm.WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("in.ogg: Invalid data found when processing input"), fmt.Errorf("exit status 1")
	})

	err := norm.Normalize(context.Background(), "in.ogg", "out.wav")
	if !errors.Is(err, services.ErrEncodeFailed) {
		t.Fatalf("expected ErrEncodeFailed, got %v", err)
	}
	// stderr content stays out of the typed error.
	if strings.Contains(err.Error(), "Invalid data") {
		t.Fatalf("stderr leaked into error: %q", err.Error())
	}
}
