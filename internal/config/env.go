package config

import (
	"fmt"
	"strconv"
	"strings"
)

// applyEnv layers the documented environment variables on top of the file
// configuration. getenv is injectable for tests.
func (c *Config) applyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("WHISPERD_BIND")); v != "" {
		c.Server.Bind = v
	}
	if v := strings.TrimSpace(getenv("ALLOWED_POST_HOSTS")); v != "" {
		c.Server.AllowedPostHosts = splitHosts(v)
	}
	if v := strings.TrimSpace(getenv("MODEL_NAME")); v != "" {
		c.Model.Name = v
	}
	if v := strings.TrimSpace(getenv("MODEL_DEVICE")); v != "" {
		c.Model.Device = v
	}
	if err := envInt(getenv, "BEAM_SIZE", &c.Model.BeamSize); err != nil {
		return err
	}
	if err := envInt64(getenv, "MAX_UPLOAD_BYTES", &c.Transcribe.MaxUploadBytes); err != nil {
		return err
	}
	if err := envInt(getenv, "MAX_CONCURRENT_TRANSCRIBES", &c.Transcribe.MaxConcurrent); err != nil {
		return err
	}
	if err := envInt(getenv, "FFMPEG_TIMEOUT_SECONDS", &c.Transcribe.FFmpegTimeoutSeconds); err != nil {
		return err
	}
	if v := strings.TrimSpace(getenv("TRANSCRIBE_LOG_ENABLED")); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse TRANSCRIBE_LOG_ENABLED: %w", err)
		}
		c.RequestLog.Enabled = enabled
	}
	if v := strings.TrimSpace(getenv("TRANSCRIBE_LOG_DB")); v != "" {
		c.RequestLog.Path = v
	}
	if err := envInt(getenv, "MAX_LOG_FIELD_CHARS", &c.RequestLog.MaxFieldChars); err != nil {
		return err
	}
	return nil
}

func splitHosts(value string) []string {
	parts := strings.Split(value, ",")
	hosts := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			hosts = append(hosts, trimmed)
		}
	}
	return hosts
}

func envInt(getenv func(string) string, key string, dst *int) error {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func envInt64(getenv func(string) string, key string, dst *int64) error {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = parsed
	return nil
}
