package whisper

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"

	"whisperd/internal/model"
)

// jsonSegment mirrors one entry of the CLI's "transcription" array. Offsets
// are milliseconds from the start of the file.
type jsonSegment struct {
	Offsets struct {
		From int64 `json:"from"`
		To   int64 `json:"to"`
	} `json:"offsets"`
	Text string `json:"text"`
}

// jsonPayload mirrors the whisper.cpp JSON output file. The detected
// language has moved between "result" and "params" across CLI versions, so
// both are read.
type jsonPayload struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Params struct {
		Language string `json:"language"`
	} `json:"params"`
	Transcription []jsonSegment `json:"transcription"`
}

// loadResult parses the CLI JSON output into engine results. Segments keep
// their emission order.
func loadResult(jsonPath string) (model.Result, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return model.Result{}, fmt.Errorf("read whisper output: %w", err)
	}

	var payload jsonPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Result{}, fmt.Errorf("parse whisper json: %w", err)
	}

	segments := make([]model.Segment, 0, len(payload.Transcription))
	for _, seg := range payload.Transcription {
		segments = append(segments, model.Segment{
			Start: float64(seg.Offsets.From) / 1000.0,
			End:   float64(seg.Offsets.To) / 1000.0,
			Text:  seg.Text,
		})
	}

	return model.Result{
		Language: detectLanguage(payload),
		Segments: segments,
	}, nil
}

// detectLanguage prefers the result-level language, falls back to the params
// echo, and finally reports "unknown". Recognized codes are canonicalized to
// their base tag.
func detectLanguage(payload jsonPayload) string {
	for _, candidate := range []string{payload.Result.Language, payload.Params.Language} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || strings.EqualFold(candidate, "auto") {
			continue
		}
		if tag, err := language.Parse(candidate); err == nil {
			if base, conf := tag.Base(); conf != language.No {
				return base.String()
			}
		}
		return candidate
	}
	return "unknown"
}
