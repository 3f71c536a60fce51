package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains the HTTP listener configuration.
type Server struct {
	Bind string `toml:"bind"`
	// AllowedPostHosts is the client-host allowlist applied to every POST.
	// A single "*" entry disables the check.
	AllowedPostHosts []string `toml:"allowed_post_hosts"`
	LogDir           string   `toml:"log_dir"`
}

// Model contains the transcription model configuration.
type Model struct {
	Name            string `toml:"name"`
	Device          string `toml:"device"`
	Binary          string `toml:"binary"`
	Path            string `toml:"path"`
	BeamSize        int    `toml:"beam_size"`
	LoadWaitSeconds int    `toml:"load_wait_seconds"`
}

// Transcribe contains per-request pipeline limits.
type Transcribe struct {
	MaxUploadBytes       int64 `toml:"max_upload_bytes"`
	MaxConcurrent        int   `toml:"max_concurrent"`
	FFmpegTimeoutSeconds int   `toml:"ffmpeg_timeout_seconds"`
}

// RequestLog contains outcome recorder settings.
type RequestLog struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"`
	MaxFieldChars int    `toml:"max_field_chars"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for whisperd.
//
// Sections by subsystem:
//   - Server: bind address, POST host allowlist, log directory
//   - Model: whisper binary, model name/path, device, beam size
//   - Transcribe: upload cap, admission capacity, ffmpeg deadline
//   - RequestLog: outcome recorder database and truncation cap
//   - Logging: log format and level
type Config struct {
	Server     Server     `toml:"server"`
	Model      Model      `toml:"model"`
	Transcribe Transcribe `toml:"transcribe"`
	RequestLog RequestLog `toml:"request_log"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/whisperd/config.toml")
}

// Load locates, parses, and validates a configuration file. Environment
// overrides are applied after the file so that the documented variables win.
// The returned config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("whisperd.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories required for daemon operation.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Server.LogDir}
	if c.RequestLog.Enabled && strings.TrimSpace(c.RequestLog.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.RequestLog.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for normalization.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// PostHostAllowed reports whether the connecting client host may POST.
func (c *Config) PostHostAllowed(host string) bool {
	for _, allowed := range c.Server.AllowedPostHosts {
		if allowed == "*" || allowed == host {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
