package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !strings.HasSuffix(cfg.Model.Path, "ggml-small.bin") {
		t.Fatalf("expected derived model path, got %q", cfg.Model.Path)
	}
	if cfg.RequestLog.Path != filepath.Join(cfg.Server.LogDir, "requests.db") {
		t.Fatalf("expected derived request log path, got %q", cfg.RequestLog.Path)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
bind = "127.0.0.1:0"
allowed_post_hosts = ["*"]
log_dir = "` + dir + `"

[model]
name = "tiny"
beam_size = 3

[transcribe]
max_upload_bytes = 1024
max_concurrent = 2
ffmpeg_timeout_seconds = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Model.Name != "tiny" || cfg.Model.BeamSize != 3 {
		t.Fatalf("unexpected model config: %+v", cfg.Model)
	}
	if cfg.Transcribe.MaxConcurrent != 2 {
		t.Fatalf("unexpected max_concurrent: %d", cfg.Transcribe.MaxConcurrent)
	}
	if !cfg.PostHostAllowed("203.0.113.7") {
		t.Fatal("wildcard allowlist should admit any host")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"MODEL_NAME":                 "medium",
		"MODEL_DEVICE":               "cuda",
		"BEAM_SIZE":                  "2",
		"MAX_UPLOAD_BYTES":           "2048",
		"MAX_CONCURRENT_TRANSCRIBES": "4",
		"FFMPEG_TIMEOUT_SECONDS":     "10",
		"ALLOWED_POST_HOSTS":         "10.0.0.5, ::1",
		"TRANSCRIBE_LOG_ENABLED":     "false",
	}
	if err := cfg.applyEnv(func(key string) string { return env[key] }); err != nil {
		t.Fatalf("applyEnv failed: %v", err)
	}
	if cfg.Model.Name != "medium" || cfg.Model.Device != "cuda" || cfg.Model.BeamSize != 2 {
		t.Fatalf("model overrides not applied: %+v", cfg.Model)
	}
	if cfg.Transcribe.MaxUploadBytes != 2048 || cfg.Transcribe.MaxConcurrent != 4 || cfg.Transcribe.FFmpegTimeoutSeconds != 10 {
		t.Fatalf("transcribe overrides not applied: %+v", cfg.Transcribe)
	}
	if len(cfg.Server.AllowedPostHosts) != 2 || cfg.Server.AllowedPostHosts[0] != "10.0.0.5" {
		t.Fatalf("allowlist override not applied: %v", cfg.Server.AllowedPostHosts)
	}
	if cfg.RequestLog.Enabled {
		t.Fatal("expected recorder disabled via env")
	}
}

func TestApplyEnvRejectsBadInt(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(key string) string {
		if key == "BEAM_SIZE" {
			return "wide"
		}
		return ""
	})
	if err == nil {
		t.Fatal("expected error for non-numeric BEAM_SIZE")
	}
}

func TestValidateRejectsEmptyAllowlist(t *testing.T) {
	cfg := Default()
	cfg.Server.AllowedPostHosts = nil
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty allowlist")
	}
}

func TestPostHostAllowed(t *testing.T) {
	cfg := Default()
	if !cfg.PostHostAllowed("127.0.0.1") || !cfg.PostHostAllowed("::1") {
		t.Fatal("loopback hosts should be allowed by default")
	}
	if cfg.PostHostAllowed("192.0.2.1") {
		t.Fatal("non-loopback host should be rejected by default")
	}
}
