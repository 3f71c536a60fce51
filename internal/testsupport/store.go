package testsupport

import (
	"testing"

	"whisperd/internal/config"
	"whisperd/internal/requestlog"
)

// MustOpenStore opens a requestlog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *requestlog.Store {
	t.Helper()

	store, err := requestlog.Open(cfg.RequestLog.Path, cfg.RequestLog.MaxFieldChars)
	if err != nil {
		t.Fatalf("requestlog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
