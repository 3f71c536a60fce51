package config

import (
	"errors"
	"fmt"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	if c.Server.Bind == "" {
		return errors.New("server bind address required")
	}
	if len(c.Server.AllowedPostHosts) == 0 {
		return errors.New("allowed_post_hosts must not be empty (use \"*\" to disable the check)")
	}
	if c.Model.Name == "" {
		return errors.New("model name required")
	}
	if c.Model.BeamSize < 1 {
		return fmt.Errorf("beam_size must be >= 1, got %d", c.Model.BeamSize)
	}
	if c.Model.LoadWaitSeconds < 0 {
		return fmt.Errorf("load_wait_seconds must be >= 0, got %d", c.Model.LoadWaitSeconds)
	}
	if c.Transcribe.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be >= 1, got %d", c.Transcribe.MaxUploadBytes)
	}
	if c.Transcribe.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be >= 1, got %d", c.Transcribe.MaxConcurrent)
	}
	if c.Transcribe.FFmpegTimeoutSeconds < 1 {
		return fmt.Errorf("ffmpeg_timeout_seconds must be >= 1, got %d", c.Transcribe.FFmpegTimeoutSeconds)
	}
	if c.RequestLog.MaxFieldChars < 1 {
		return fmt.Errorf("max_field_chars must be >= 1, got %d", c.RequestLog.MaxFieldChars)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
