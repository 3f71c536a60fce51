// Package whisper runs the whisper.cpp CLI as the transcription engine and
// parses its JSON output into timed segments.
package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"whisperd/internal/logging"
	"whisperd/internal/model"
)

// Runner executes a command and returns its combined output. Injectable for
// tests.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Engine shells out to whisper.cpp for each transcription.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	runner Runner
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	return &Engine{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "whisper"),
		runner: runCommand,
	}
}

// WithRunner sets a custom command runner (for testing).
func (e *Engine) WithRunner(runner Runner) {
	if runner != nil {
		e.runner = runner
	}
}

// Load verifies the CLI binary and model file exist. whisper.cpp maps the
// model per invocation, so readiness here means every later Transcribe can
// start without missing-file surprises.
func (e *Engine) Load(ctx context.Context) error {
	if _, err := exec.LookPath(e.cfg.Binary); err != nil {
		return fmt.Errorf("whisper binary %q: %w", e.cfg.Binary, err)
	}
	info, err := os.Stat(e.cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("model file %q: %w", e.cfg.ModelPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("model file %q is a directory", e.cfg.ModelPath)
	}
	e.logger.Debug("model file present",
		logging.String("path", e.cfg.ModelPath),
		logging.Int64("size_bytes", info.Size()))
	return nil
}

// Transcribe runs the CLI on a normalized WAV file and returns the parsed
// segments and detected language. The JSON output file is written next to
// the input inside the request's scratch directory.
func (e *Engine) Transcribe(ctx context.Context, path string, beamSize int) (model.Result, error) {
	outPrefix := strings.TrimSuffix(path, filepath.Ext(path))
	args := e.buildArgs(path, outPrefix, beamSize)

	started := time.Now()
	if output, err := e.runner(ctx, e.cfg.Binary, args...); err != nil {
		return model.Result{}, fmt.Errorf("%s: %w: %s", e.cfg.Binary, err, strings.TrimSpace(string(output)))
	}

	result, err := loadResult(outPrefix + ".json")
	if err != nil {
		return model.Result{}, err
	}
	e.logger.Debug("transcription complete",
		logging.Int("segments", len(result.Segments)),
		logging.String("language", result.Language),
		logging.Duration("elapsed", time.Since(started)))
	return result, nil
}

// buildArgs constructs the whisper.cpp CLI invocation.
func (e *Engine) buildArgs(source, outPrefix string, beamSize int) []string {
	args := []string{
		"-m", e.cfg.ModelPath,
		"-f", source,
		"--beam-size", strconv.Itoa(beamSize),
		"--language", "auto",
		"--output-json",
		"--output-file", outPrefix,
		"--no-prints",
	}
	if strings.EqualFold(e.cfg.Device, "cpu") {
		args = append(args, "--no-gpu")
	}
	return args
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}
