package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"whisperd/internal/logging"
	"whisperd/internal/requestlog"
)

const defaultLogLimit = 10

type logsResponse struct {
	Enabled bool       `json:"enabled"`
	Count   int        `json:"count"`
	Logs    []logEntry `json:"logs"`
}

type logEntry struct {
	ID          int64  `json:"id"`
	CreatedAt   string `json:"created_at"`
	ClientHost  string `json:"client_host"`
	UserAgent   string `json:"user_agent"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Status      int    `json:"status"`
	OK          bool   `json:"ok"`
	DurationMS  int64  `json:"duration_ms"`
	// Response carries the recorded payload re-parsed into structure when
	// it is valid JSON, or the raw truncated string when it is not.
	Response    any    `json:"response,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if !s.recorder.Enabled() {
		s.writeJSON(w, http.StatusOK, logsResponse{Enabled: false, Logs: []logEntry{}})
		return
	}

	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	entries, err := s.recorder.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to read transcribe log", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	views := make([]logEntry, 0, len(entries))
	for _, entry := range entries {
		views = append(views, toLogEntry(entry))
	}
	s.writeJSON(w, http.StatusOK, logsResponse{Enabled: true, Count: len(views), Logs: views})
}

func toLogEntry(entry requestlog.Entry) logEntry {
	view := logEntry{
		ID:          entry.ID,
		CreatedAt:   entry.CreatedAt.UTC().Format(time.RFC3339),
		ClientHost:  entry.ClientHost,
		UserAgent:   entry.UserAgent,
		Filename:    entry.Filename,
		ContentType: entry.ContentType,
		SizeBytes:   entry.SizeBytes,
		Status:      entry.Status,
		OK:          entry.OK,
		DurationMS:  entry.DurationMS,
		ErrorDetail: entry.ErrorDetail,
	}
	if entry.ResponseJSON != "" {
		var parsed any
		if err := json.Unmarshal([]byte(entry.ResponseJSON), &parsed); err == nil {
			view.Response = parsed
		} else {
			view.Response = entry.ResponseJSON
		}
	}
	return view
}
