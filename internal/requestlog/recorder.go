package requestlog

import (
	"context"
	"log/slog"

	"whisperd/internal/logging"
)

// Recorder persists request outcomes. Recording never fails the request it
// describes; implementations swallow persistence errors after logging them.
type Recorder interface {
	Enabled() bool
	Record(ctx context.Context, entry Entry)
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

type storeRecorder struct {
	store  *Store
	logger *slog.Logger
}

// NewRecorder wraps a store in the Recorder interface.
func NewRecorder(store *Store, logger *slog.Logger) Recorder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &storeRecorder{store: store, logger: logger}
}

func (r *storeRecorder) Enabled() bool { return true }

func (r *storeRecorder) Record(ctx context.Context, entry Entry) {
	if _, err := r.store.Insert(ctx, entry); err != nil {
		r.logger.Warn("failed to persist transcribe log entry",
			logging.Error(err),
			logging.Int("status", entry.Status),
			logging.String("client", entry.ClientHost))
	}
}

func (r *storeRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return r.store.Recent(ctx, limit)
}

func (r *storeRecorder) Close() error { return r.store.Close() }

type disabledRecorder struct{}

// Disabled returns a recorder that drops everything. Used when request
// logging is switched off in configuration.
func Disabled() Recorder { return disabledRecorder{} }

func (disabledRecorder) Enabled() bool { return false }

func (disabledRecorder) Record(context.Context, Entry) {}

func (disabledRecorder) Recent(context.Context, int) ([]Entry, error) { return nil, nil }

func (disabledRecorder) Close() error { return nil }
