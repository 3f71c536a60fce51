// Package deps verifies the external tools the service shells out to. Checks
// run at startup and on demand from the status endpoint; a missing required
// binary fails startup before the listener opens.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"whisperd/internal/config"
)

// Requirement defines an external dependency whisperd relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Defaults returns the requirements for the configured toolchain.
func Defaults(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Audio normalization",
		},
		{
			Name:        "Whisper CLI",
			Command:     cfg.Model.Binary,
			Description: "Speech-to-text engine",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckModelFile reports whether the configured model weights exist on disk.
// The file is downloaded out of band, so absence is a configuration problem,
// not a code path this service can recover.
func CheckModelFile(path string) Status {
	status := Status{
		Name:        "Model weights",
		Command:     path,
		Description: "Whisper GGML model file",
	}
	if strings.TrimSpace(path) == "" {
		status.Detail = "model path not configured"
		return status
	}
	info, err := os.Stat(path)
	if err != nil {
		status.Detail = fmt.Sprintf("model file %q not found", path)
		return status
	}
	if info.IsDir() {
		status.Detail = fmt.Sprintf("model path %q is a directory", path)
		return status
	}
	status.Available = true
	return status
}

// MissingRequired returns the names of non-optional dependencies that are
// unavailable.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
