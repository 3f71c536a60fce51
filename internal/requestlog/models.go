package requestlog

import "time"

// Entry is one persisted row summarizing a completed /transcribe request.
// Rows are append-only and never mutated.
type Entry struct {
	ID           int64
	CreatedAt    time.Time
	ClientHost   string
	UserAgent    string
	Filename     string
	ContentType  string
	SizeBytes    int64
	Status       int
	OK           bool
	DurationMS   int64
	ResponseJSON string
	ErrorDetail  string
}

// TruncationMarker suffixes any stored free-text field cut at the configured
// character cap.
const TruncationMarker = "...[truncated]"

// Truncate bounds a free-text field to maxChars characters, appending the
// truncation marker when it was cut.
func Truncate(value string, maxChars int) string {
	if maxChars <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= maxChars {
		return value
	}
	return string(runes[:maxChars]) + TruncationMarker
}
