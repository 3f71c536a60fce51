package server

import (
	"path/filepath"
	"strings"

	"whisperd/internal/services"
)

var allowedExtensions = map[string]struct{}{
	".wav":  {},
	".mp3":  {},
	".m4a":  {},
	".flac": {},
	".ogg":  {},
	".aac":  {},
	".webm": {},
}

// allowedContentTypes is the declared-type allowlist. Browsers and CLI tools
// are inconsistent here, so application/octet-stream is accepted and an empty
// declaration passes; the extension check is the real gate.
var allowedContentTypes = map[string]struct{}{
	"audio/wav":                {},
	"audio/x-wav":              {},
	"audio/wave":               {},
	"audio/mpeg":               {},
	"audio/mp3":                {},
	"audio/mp4":                {},
	"audio/x-m4a":              {},
	"audio/flac":               {},
	"audio/x-flac":             {},
	"audio/ogg":                {},
	"audio/aac":                {},
	"audio/webm":               {},
	"video/webm":               {},
	"application/octet-stream": {},
}

// validateUpload checks the declared filename extension and content type
// against the allowlists. It runs before any bytes are written to disk.
func validateUpload(filename, contentType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return services.Wrap(services.ErrUnsupportedFormat, "server", "validate", "extension "+ext, nil)
	}

	declared := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(declared, ";"); idx >= 0 {
		declared = strings.TrimSpace(declared[:idx])
	}
	if declared == "" {
		return nil
	}
	if _, ok := allowedContentTypes[declared]; !ok {
		return services.Wrap(services.ErrUnsupportedFormat, "server", "validate", "content type "+declared, nil)
	}
	return nil
}
