// Package model owns the transcription model lifecycle: one lazy background
// load per process, a bounded readiness wait, and transcription dispatch to
// the underlying engine once ready.
package model

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"whisperd/internal/logging"
)

// Segment is a contiguous timed span of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is the raw engine output for one file.
type Result struct {
	Language string
	Segments []Segment
}

// Engine is the opaque transcription backend. Load is expected to be slow
// and may fail; Transcribe is only called after a successful Load.
type Engine interface {
	Load(ctx context.Context) error
	Transcribe(ctx context.Context, path string, beamSize int) (Result, error)
}

// State describes the model lifecycle. Transitions only move forward:
// unloaded -> loading -> ready, or loading -> failed.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateFailed   State = "failed"
)

// ErrNotReady is returned when Transcribe is called before the model is ready.
var ErrNotReady = errors.New("model not ready")

// Manager serializes the one-time model load and answers readiness queries.
type Manager struct {
	engine Engine
	logger *slog.Logger

	mu     sync.Mutex
	state  State
	done   chan struct{}
}

// NewManager wraps an engine. The model stays unloaded until StartLoading.
func NewManager(engine Engine, logger *slog.Logger) *Manager {
	return &Manager{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "model"),
		state:  StateUnloaded,
		done:   make(chan struct{}),
	}
}

// StartLoading kicks off the background load. It is idempotent: repeated
// calls while a load is in progress, or after the model settled, are no-ops.
// A failed load is terminal for the process lifetime; operators restart to
// retry.
func (m *Manager) StartLoading(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateUnloaded {
		m.mu.Unlock()
		return
	}
	m.state = StateLoading
	m.mu.Unlock()

	go func() {
		started := time.Now()
		m.logger.Info("loading model")
		err := m.engine.Load(ctx)

		m.mu.Lock()
		if err != nil {
			m.state = StateFailed
		} else {
			m.state = StateReady
		}
		m.mu.Unlock()
		close(m.done)

		if err != nil {
			m.logger.Error("model load failed", logging.Error(err))
			return
		}
		m.logger.Info("model loaded", logging.Duration("elapsed", time.Since(started)))
	}()
}

// Ready reports whether the model finished loading successfully.
func (m *Manager) Ready() bool {
	return m.State() == StateReady
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// EnsureReady waits up to maxWait for an in-progress load to finish and
// reports whether the model became ready. It never triggers loading itself,
// and it never blocks past the budget or a cancelled context.
func (m *Manager) EnsureReady(ctx context.Context, maxWait time.Duration) bool {
	switch m.State() {
	case StateReady:
		return true
	case StateUnloaded, StateFailed:
		return false
	}

	timer := time.NewTimer(maxWait)
	defer timer.Stop()

	select {
	case <-m.done:
		return m.Ready()
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Transcribe delegates to the engine. Engine failures propagate unwrapped;
// the caller's catch-all decides how they surface.
func (m *Manager) Transcribe(ctx context.Context, path string, beamSize int) (Result, error) {
	if !m.Ready() {
		return Result{}, ErrNotReady
	}
	return m.engine.Transcribe(ctx, path, beamSize)
}
