package config

const (
	defaultBind            = "127.0.0.1:9090"
	defaultModelName       = "small"
	defaultModelDevice     = "cpu"
	defaultModelBinary     = "whisper-cli"
	defaultBeamSize        = 5
	defaultLoadWaitSeconds = 15
	defaultMaxUploadBytes  = 25 * 1024 * 1024
	defaultMaxConcurrent   = 1
	defaultFFmpegTimeout   = 45
	defaultMaxFieldChars   = 4096
)

// Default returns the baseline configuration before file and environment
// overrides are applied.
func Default() Config {
	return Config{
		Server: Server{
			Bind:             defaultBind,
			AllowedPostHosts: []string{"127.0.0.1", "::1"},
			LogDir:           "~/.local/share/whisperd/logs",
		},
		Model: Model{
			Name:            defaultModelName,
			Device:          defaultModelDevice,
			Binary:          defaultModelBinary,
			BeamSize:        defaultBeamSize,
			LoadWaitSeconds: defaultLoadWaitSeconds,
		},
		Transcribe: Transcribe{
			MaxUploadBytes:       defaultMaxUploadBytes,
			MaxConcurrent:        defaultMaxConcurrent,
			FFmpegTimeoutSeconds: defaultFFmpegTimeout,
		},
		RequestLog: RequestLog{
			Enabled:       true,
			MaxFieldChars: defaultMaxFieldChars,
		},
		Logging: Logging{
			Format: "",
			Level:  "info",
		},
	}
}
