package whisper

// Config holds the whisper.cpp CLI settings.
type Config struct {
	// Binary is the whisper.cpp CLI executable, resolved from PATH.
	Binary string
	// ModelPath is the ggml model file handed to the CLI.
	ModelPath string
	// Device selects the compute device: "cpu" disables GPU offload,
	// anything else leaves the CLI default in place.
	Device string
}

// DefaultBinary is the whisper.cpp CLI name used when none is configured.
const DefaultBinary = "whisper-cli"
