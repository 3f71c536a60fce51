package model

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeEngine struct {
	loadDelay time.Duration
	loadErr   error
	loads     atomic.Int32
	result    Result
	transErr  error
}

func (f *fakeEngine) Load(ctx context.Context) error {
	f.loads.Add(1)
	if f.loadDelay > 0 {
		select {
		case <-time.After(f.loadDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.loadErr
}

func (f *fakeEngine) Transcribe(ctx context.Context, path string, beamSize int) (Result, error) {
	return f.result, f.transErr
}

func TestStartLoadingIsIdempotent(t *testing.T) {
	engine := &fakeEngine{}
	mgr := NewManager(engine, nil)

	ctx := context.Background()
	mgr.StartLoading(ctx)
	mgr.StartLoading(ctx)
	mgr.StartLoading(ctx)

	if !mgr.EnsureReady(ctx, time.Second) {
		t.Fatal("expected model to become ready")
	}
	if got := engine.loads.Load(); got != 1 {
		t.Fatalf("expected exactly one load attempt, got %d", got)
	}
	if mgr.State() != StateReady {
		t.Fatalf("unexpected state %q", mgr.State())
	}
}

func TestEnsureReadyTimesOut(t *testing.T) {
	engine := &fakeEngine{loadDelay: time.Second}
	mgr := NewManager(engine, nil)
	mgr.StartLoading(context.Background())

	start := time.Now()
	if mgr.EnsureReady(context.Background(), 20*time.Millisecond) {
		t.Fatal("expected timeout before load completed")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("wait exceeded budget: %v", elapsed)
	}
}

func TestEnsureReadyWithoutLoadInProgress(t *testing.T) {
	mgr := NewManager(&fakeEngine{}, nil)
	if mgr.EnsureReady(context.Background(), time.Second) {
		t.Fatal("unloaded model must not report ready")
	}
	if mgr.State() != StateUnloaded {
		t.Fatalf("EnsureReady must not trigger loading, state %q", mgr.State())
	}
}

func TestLoadFailureIsTerminal(t *testing.T) {
	engine := &fakeEngine{loadErr: errors.New("model file missing")}
	mgr := NewManager(engine, nil)
	ctx := context.Background()
	mgr.StartLoading(ctx)

	if mgr.EnsureReady(ctx, time.Second) {
		t.Fatal("failed load must not report ready")
	}
	if mgr.State() != StateFailed {
		t.Fatalf("unexpected state %q", mgr.State())
	}

	// No retry on subsequent StartLoading.
	mgr.StartLoading(ctx)
	time.Sleep(10 * time.Millisecond)
	if got := engine.loads.Load(); got != 1 {
		t.Fatalf("failed load retried, attempts %d", got)
	}

	if _, err := mgr.Transcribe(ctx, "x.wav", 5); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestTranscribeDelegatesWhenReady(t *testing.T) {
	engine := &fakeEngine{result: Result{
		Language: "en",
		Segments: []Segment{{Start: 0, End: 1.5, Text: " hello"}},
	}}
	mgr := NewManager(engine, nil)
	ctx := context.Background()
	mgr.StartLoading(ctx)
	if !mgr.EnsureReady(ctx, time.Second) {
		t.Fatal("expected ready")
	}

	res, err := mgr.Transcribe(ctx, "audio.wav", 5)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if res.Language != "en" || len(res.Segments) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestEngineErrorPropagates(t *testing.T) {
	wantErr := errors.New("inference exploded")
	engine := &fakeEngine{transErr: wantErr}
	mgr := NewManager(engine, nil)
	ctx := context.Background()
	mgr.StartLoading(ctx)
	if !mgr.EnsureReady(ctx, time.Second) {
		t.Fatal("expected ready")
	}
	if _, err := mgr.Transcribe(ctx, "audio.wav", 5); !errors.Is(err, wantErr) {
		t.Fatalf("expected engine error to propagate, got %v", err)
	}
}
