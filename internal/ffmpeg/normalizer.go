// Package ffmpeg converts arbitrary uploaded audio into the canonical mono
// 16 kHz 16-bit PCM WAV form the transcription engine requires, by running
// the external ffmpeg binary as a bounded-time subprocess.
package ffmpeg

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"whisperd/internal/logging"
	"whisperd/internal/services"
)

// Runner executes a command and returns its combined output. Injectable for
// tests.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Normalizer invokes ffmpeg with a fixed, non-interactive argument set.
type Normalizer struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
	runner  Runner
}

// New constructs a normalizer. timeoutSeconds bounds each subprocess run.
func New(binary string, timeoutSeconds int, logger *slog.Logger) *Normalizer {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Normalizer{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		logger:  logging.NewComponentLogger(logger, "ffmpeg"),
		runner:  runCommand,
	}
}

// WithRunner sets a custom command runner (for testing).
func (n *Normalizer) WithRunner(runner Runner) {
	if runner != nil {
		n.runner = runner
	}
}

// Normalize transcodes inputPath into a 16 kHz mono s16 WAV at outputPath.
// A subprocess that outlives the deadline is killed and reported as
// ErrEncodeTimeout; a non-zero exit is ErrEncodeFailed with stderr kept out
// of the returned error and logged instead.
func (n *Normalizer) Normalize(ctx context.Context, inputPath, outputPath string) error {
	runCtx := ctx
	if n.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	args := buildArgs(inputPath, outputPath)
	started := time.Now()
	output, err := n.runner(runCtx, n.binary, args...)
	if err == nil {
		n.logger.Debug("normalized audio",
			logging.String("output", outputPath),
			logging.Duration("elapsed", time.Since(started)))
		return nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		n.logger.Warn("ffmpeg timed out",
			logging.Duration("timeout", n.timeout),
			logging.String("input", inputPath))
		return services.Wrap(services.ErrEncodeTimeout, "ffmpeg", "normalize", "deadline exceeded", nil)
	}

	n.logger.Warn("ffmpeg failed",
		logging.Error(err),
		logging.String("stderr", strings.TrimSpace(string(output))))
	return services.Wrap(services.ErrEncodeFailed, "ffmpeg", "normalize", "conversion failed", err)
}

// buildArgs constructs the fixed ffmpeg invocation: no stdin, overwrite
// output, error-only logging, strip video/subtitle/data streams, resample to
// 16 kHz mono signed 16-bit PCM.
func buildArgs(inputPath, outputPath string) []string {
	return []string{
		"-nostdin",
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-sn",
		"-dn",
		"-ar", "16000",
		"-ac", "1",
		"-sample_fmt", "s16",
		outputPath,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}
